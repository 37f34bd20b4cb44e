package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/way-wise/company-site-backend-sub001/internal/leave"
	leaveerrors "github.com/way-wise/company-site-backend-sub001/internal/leave/errors"
	"github.com/way-wise/company-site-backend-sub001/internal/messaging/kafka"
	"github.com/way-wise/company-site-backend-sub001/internal/shared/query"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn               func(tx *gorm.DB) leave.Repository
	createFn               func(ctx context.Context, l *leave.LeaveApplication) error
	findPageFn             func(ctx context.Context, p query.Params) ([]leave.LeaveApplication, int64, error)
	findByIDFn             func(ctx context.Context, id string) (*leave.LeaveApplication, error)
	findLeaveTypeFn        func(ctx context.Context, id string) (*leave.ApplicationLeaveType, error)
	updateFn               func(ctx context.Context, l *leave.LeaveApplication) error
	deleteFn               func(ctx context.Context, id string) error
	hasOverlappingPeriodFn func(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *gorm.DB) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveApplication) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindPage(ctx context.Context, p query.Params) ([]leave.LeaveApplication, int64, error) {
	if f.findPageFn != nil {
		return f.findPageFn(ctx, p)
	}
	return nil, 0, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveApplication, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindLeaveType(ctx context.Context, id string) (*leave.ApplicationLeaveType, error) {
	if f.findLeaveTypeFn != nil {
		return f.findLeaveTypeFn(ctx, id)
	}
	return &leave.ApplicationLeaveType{ID: uuid.MustParse(id), Name: "Annual Leave", IsActive: true}, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.LeaveApplication) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, employeeID, startDate, endDate, excludeID)
	}
	return false, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
	txs     []kafka.Execer
}

func (f *fakeOutboxRepository) WithTx(tx kafka.Execer) kafka.OutboxRepository {
	f.txs = append(f.txs, tx)
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
	outbox  *fakeOutboxRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	outbox := &fakeOutboxRepository{}
	svc := leave.NewServiceWithOutbox(gormDB, repo, outbox)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.SubmitLeaveRequest{
			LeaveTypeID: leaveTypeID,
			StartDate:   "2026-01-10",
			EndDate:     "2026-01-12",
			Reason:      "Family event",
		}

		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, eid string, startDate, endDate time.Time, excludeID *string) (bool, error) {
			assert.Equal(t, employeeID, eid)
			assert.Nil(t, excludeID)
			assert.Equal(t, "2026-01-10", startDate.Format("2006-01-02"))
			assert.Equal(t, "2026-01-12", endDate.Format("2006-01-02"))
			return false, nil
		}
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveApplication) error {
			assert.Equal(t, uuid.MustParse(employeeID), l.EmployeeID)
			assert.Equal(t, uuid.MustParse(leaveTypeID), l.LeaveTypeID)
			assert.Equal(t, 3, l.TotalDays)
			assert.Equal(t, leave.StatusPending, l.Status)
			return nil
		}

		resp, err := deps.service.Submit(ctx, employeeID, req)

		assert.NoError(t, err)
		assert.Equal(t, employeeID, resp.EmployeeID)
		assert.Equal(t, 3, resp.TotalDays)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, "Annual Leave", resp.LeaveTypeName)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success single day", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.SubmitLeaveRequest{
			LeaveTypeID: leaveTypeID,
			StartDate:   "2026-02-05",
			EndDate:     "2026-02-05",
			Reason:      "Appointment",
		}

		resp, err := deps.service.Submit(ctx, employeeID, req)

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.TotalDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success overlap check and insert share the transaction", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.SubmitLeaveRequest{
			LeaveTypeID: leaveTypeID,
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-04",
			Reason:      "Trip",
		}

		// Both the read and the write must go through the repository
		// bound by WithTx; calls on the base repository would run on
		// pool connections outside the transaction.
		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, eid string, startDate, endDate time.Time, excludeID *string) (bool, error) {
			t.Fatal("overlap check ran outside the transaction")
			return false, nil
		}
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveApplication) error {
			t.Fatal("insert ran outside the transaction")
			return nil
		}

		checked, inserted := false, false
		deps.repo.withTxFn = func(tx *gorm.DB) leave.Repository {
			_, ok := tx.Statement.ConnPool.(*sql.Tx)
			assert.True(t, ok, "WithTx handle is not bound to a database transaction")
			return &fakeLeaveRepository{
				hasOverlappingPeriodFn: func(ctx context.Context, eid string, startDate, endDate time.Time, excludeID *string) (bool, error) {
					checked = true
					return false, nil
				},
				createFn: func(ctx context.Context, l *leave.LeaveApplication) error {
					inserted = true
					return nil
				},
			}
		}

		_, err := deps.service.Submit(ctx, employeeID, req)

		assert.NoError(t, err)
		assert.True(t, checked)
		assert.True(t, inserted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative overlapping period", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := leave.SubmitLeaveRequest{
			LeaveTypeID: leaveTypeID,
			StartDate:   "2026-01-10",
			EndDate:     "2026-01-12",
			Reason:      "Trip",
		}

		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, eid string, startDate, endDate time.Time, excludeID *string) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Submit(ctx, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative inactive type", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := leave.SubmitLeaveRequest{
			LeaveTypeID: leaveTypeID,
			StartDate:   "2026-01-10",
			EndDate:     "2026-01-12",
			Reason:      "Trip",
		}

		deps.repo.findLeaveTypeFn = func(ctx context.Context, id string) (*leave.ApplicationLeaveType, error) {
			return &leave.ApplicationLeaveType{ID: uuid.MustParse(id), Name: "Sabbatical", IsActive: false}, nil
		}

		_, err := deps.service.Submit(ctx, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveTypeInactive)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown type", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := leave.SubmitLeaveRequest{
			LeaveTypeID: leaveTypeID,
			StartDate:   "2026-01-10",
			EndDate:     "2026-01-12",
			Reason:      "Trip",
		}

		deps.repo.findLeaveTypeFn = func(ctx context.Context, id string) (*leave.ApplicationLeaveType, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Submit(ctx, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveTypeNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative document required", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := leave.SubmitLeaveRequest{
			LeaveTypeID: leaveTypeID,
			StartDate:   "2026-01-10",
			EndDate:     "2026-01-12",
			Reason:      "Sick",
		}

		deps.repo.findLeaveTypeFn = func(ctx context.Context, id string) (*leave.ApplicationLeaveType, error) {
			return &leave.ApplicationLeaveType{
				ID:               uuid.MustParse(id),
				Name:             "Sick Leave",
				RequiresDocument: true,
				IsActive:         true,
			}, nil
		}

		_, err := deps.service.Submit(ctx, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrDocumentRequired)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			LeaveTypeID: leaveTypeID,
			StartDate:   "2026-01-12",
			EndDate:     "2026-01-10",
			Reason:      "Trip",
		}

		_, err := deps.service.Submit(ctx, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative bad date format", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			LeaveTypeID: leaveTypeID,
			StartDate:   "10-01-2026",
			EndDate:     "2026-01-12",
			Reason:      "Trip",
		}

		_, err := deps.service.Submit(ctx, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})
}

func TestLeaveService_GetMine(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("success forces employee filter", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findPageFn = func(ctx context.Context, p query.Params) ([]leave.LeaveApplication, int64, error) {
			assert.Equal(t, employeeID, p.Filters["employee_id"])
			return []leave.LeaveApplication{
				{
					ID:          uuid.New(),
					EmployeeID:  uuid.MustParse(employeeID),
					LeaveTypeID: uuid.New(),
					StartDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
					EndDate:     time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
					TotalDays:   2,
					Status:      leave.StatusPending,
				},
			}, 1, nil
		}

		// Caller-supplied filter must not survive.
		p := query.Params{Filters: map[string]string{"employee_id": uuid.New().String()}}
		resp, total, err := deps.service.GetMine(ctx, employeeID, p)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, resp, 1)
		assert.Equal(t, employeeID, resp[0].EmployeeID)
	})

	t.Run("negative invalid employee id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, _, err := deps.service.GetMine(ctx, "not-a-uuid", query.Params{})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidEmployeeID)
	})
}

func TestLeaveService_Decide(t *testing.T) {
	ctx := context.Background()
	approverID := uuid.New().String()
	applicationID := uuid.New().String()

	pendingApplication := func() *leave.LeaveApplication {
		return &leave.LeaveApplication{
			ID:          uuid.MustParse(applicationID),
			EmployeeID:  uuid.New(),
			LeaveTypeID: uuid.New(),
			StartDate:   time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2026, 5, 6, 0, 0, 0, 0, time.UTC),
			TotalDays:   3,
			Status:      leave.StatusPending,
		}
	}

	t.Run("success approve records outbox event", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveApplication, error) {
			return pendingApplication(), nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveApplication) error {
			assert.Equal(t, leave.StatusApproved, l.Status)
			assert.Equal(t, uuid.MustParse(approverID), *l.ApprovedBy)
			assert.Nil(t, l.RejectionReason)
			return nil
		}

		resp, err := deps.service.Decide(ctx, applicationID, approverID, leave.DecideLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, "leave_application", deps.outbox.created[0].AggregateType)
		assert.Equal(t, applicationID, deps.outbox.created[0].AggregateID)
		assert.Equal(t, kafka.OutboxStatusPending, deps.outbox.created[0].Status)
		// The event row joins the decision transaction's connection.
		assert.Len(t, deps.outbox.txs, 1)
		assert.NotNil(t, deps.outbox.txs[0])
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success reject keeps reason", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		reason := "Project deadline"
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveApplication, error) {
			return pendingApplication(), nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveApplication) error {
			assert.Equal(t, leave.StatusRejected, l.Status)
			assert.Equal(t, reason, *l.RejectionReason)
			return nil
		}

		resp, err := deps.service.Decide(ctx, applicationID, approverID, leave.DecideLeaveRequest{
			Status:          leave.StatusRejected,
			RejectionReason: &reason,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already decided", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveApplication, error) {
			l := pendingApplication()
			l.Status = leave.StatusApproved
			return l, nil
		}

		_, err := deps.service.Decide(ctx, applicationID, approverID, leave.DecideLeaveRequest{
			Status: leave.StatusRejected,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrNotPending)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative reject without reason", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveApplication, error) {
			return pendingApplication(), nil
		}

		_, err := deps.service.Decide(ctx, applicationID, approverID, leave.DecideLeaveRequest{
			Status: leave.StatusRejected,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrRejectionReasonRequired)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative missing application", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveApplication, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Decide(ctx, applicationID, approverID, leave.DecideLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrApplicationNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	applicationID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deleted := false
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveApplication, error) {
			return &leave.LeaveApplication{
				ID:         uuid.MustParse(applicationID),
				EmployeeID: employeeID,
				Status:     leave.StatusPending,
			}, nil
		}
		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			deleted = true
			assert.Equal(t, applicationID, id)
			return nil
		}

		err := deps.service.Cancel(ctx, applicationID, employeeID.String())

		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not owner", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveApplication, error) {
			return &leave.LeaveApplication{
				ID:         uuid.MustParse(applicationID),
				EmployeeID: employeeID,
				Status:     leave.StatusPending,
			}, nil
		}

		err := deps.service.Cancel(ctx, applicationID, uuid.New().String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotOwner)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already decided", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveApplication, error) {
			return &leave.LeaveApplication{
				ID:         uuid.MustParse(applicationID),
				EmployeeID: employeeID,
				Status:     leave.StatusRejected,
			}, nil
		}

		err := deps.service.Cancel(ctx, applicationID, employeeID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotPending)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative repo error surfaces", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveApplication, error) {
			return nil, errors.New("db error")
		}

		err := deps.service.Cancel(ctx, applicationID, employeeID.String())

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, leave.IsTerminal(leave.StatusPending))
	assert.True(t, leave.IsTerminal(leave.StatusApproved))
	assert.True(t, leave.IsTerminal(leave.StatusRejected))
	assert.True(t, leave.IsTerminal(leave.StatusCancelled))
}
