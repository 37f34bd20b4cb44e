package leavetype

import (
	"errors"
	"strings"

	leavetypeerrors "github.com/way-wise/company-site-backend-sub001/internal/leavetype/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepositoryError normalizes storage errors so the unique index on the
// type name stays the source of truth for duplicate detection even when
// the service-level fast check races.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leavetypeerrors.ErrLeaveTypeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_leave_types_name" {
			return leavetypeerrors.ErrLeaveTypeNameTaken
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_leave_types_name") {
		return leavetypeerrors.ErrLeaveTypeNameTaken
	}

	return err
}
