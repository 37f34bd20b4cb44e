package leave_test

import (
	"context"
	"testing"
	"time"

	"github.com/way-wise/company-site-backend-sub001/internal/leave"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupLeaveRepoTest(t *testing.T) (leave.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	return leave.NewRepository(gormDB), sqlMock
}

// The interval check is inclusive on both ends: only strict comparisons
// against the candidate bounds may rule a row out, and only pending or
// approved applications count.
const overlapCountQuery = `SELECT count\(\*\) FROM "leave_applications" ` +
	`WHERE employee_id = \$1 AND status IN \(\$2,\$3\) ` +
	`AND \(?NOT \(end_date < \$4 OR start_date > \$5\)\)?`

func TestLeaveRepository_HasOverlappingPeriod(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	day := func(v string) time.Time {
		d, err := time.Parse("2006-01-02", v)
		assert.NoError(t, err)
		return d
	}

	t.Run("success intersecting range counts", func(t *testing.T) {
		repo, sqlMock := setupLeaveRepoTest(t)

		sqlMock.ExpectQuery(overlapCountQuery).
			WithArgs(employeeID, leave.StatusPending, leave.StatusApproved, day("2026-03-04"), day("2026-03-10")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

		overlap, err := repo.HasOverlappingPeriod(ctx, employeeID, day("2026-03-04"), day("2026-03-10"), nil)

		assert.NoError(t, err)
		assert.True(t, overlap)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("success adjacent range passes", func(t *testing.T) {
		repo, sqlMock := setupLeaveRepoTest(t)

		// A row ending 2026-03-05 satisfies end_date < $4 for this
		// candidate and is filtered out by the predicate itself.
		sqlMock.ExpectQuery(overlapCountQuery).
			WithArgs(employeeID, leave.StatusPending, leave.StatusApproved, day("2026-03-06"), day("2026-03-10")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

		overlap, err := repo.HasOverlappingPeriod(ctx, employeeID, day("2026-03-06"), day("2026-03-10"), nil)

		assert.NoError(t, err)
		assert.False(t, overlap)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("success excludes the given application", func(t *testing.T) {
		repo, sqlMock := setupLeaveRepoTest(t)
		excludeID := uuid.New().String()

		sqlMock.ExpectQuery(overlapCountQuery+` AND id <> \$6`).
			WithArgs(employeeID, leave.StatusPending, leave.StatusApproved, day("2026-03-01"), day("2026-03-05"), excludeID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

		overlap, err := repo.HasOverlappingPeriod(ctx, employeeID, day("2026-03-01"), day("2026-03-05"), &excludeID)

		assert.NoError(t, err)
		assert.False(t, overlap)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}
