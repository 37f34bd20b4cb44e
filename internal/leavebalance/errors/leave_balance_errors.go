package leavebalanceerrors

import (
	"net/http"

	"github.com/way-wise/company-site-backend-sub001/internal/shared/apperror"
)

var (
	ErrInvalidBalanceID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave balance id",
		http.StatusBadRequest,
	)
	ErrInvalidUserProfileID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user profile id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave balance not found",
		http.StatusNotFound,
	)
	ErrBalanceExists = apperror.New(
		apperror.CodeConflict,
		"leave balance already exists for this employee, type and year",
		http.StatusConflict,
	)
	ErrNegativeTotalDays = apperror.New(
		apperror.CodeInvalidInput,
		"total_days must not be negative",
		http.StatusBadRequest,
	)
	ErrNegativeUsedDays = apperror.New(
		apperror.CodeInvalidInput,
		"used_days must not be negative",
		http.StatusBadRequest,
	)
)
