package leavebalance

import (
	"errors"
	"strings"

	leavebalanceerrors "github.com/way-wise/company-site-backend-sub001/internal/leavebalance/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepositoryError keeps the unique index on the balance triple as the
// source of truth: concurrent allocations that slip past the service-level
// existence check still surface as a deterministic conflict.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leavebalanceerrors.ErrBalanceNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_leave_balances_user_type_year" {
			return leavebalanceerrors.ErrBalanceExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_leave_balances_user_type_year") {
		return leavebalanceerrors.ErrBalanceExists
	}

	return err
}
