package leavetypeerrors

import (
	"net/http"

	"github.com/way-wise/company-site-backend-sub001/internal/shared/apperror"
)

var (
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeNameTaken = apperror.New(
		apperror.CodeConflict,
		"leave type with this name already exists",
		http.StatusConflict,
	)
	ErrLeaveTypeHasApplications = apperror.New(
		apperror.CodeConflict,
		"leave type has active applications",
		http.StatusConflict,
	)
	ErrNegativeDefaultDays = apperror.New(
		apperror.CodeInvalidInput,
		"default_days_per_year must not be negative",
		http.StatusBadRequest,
	)
)
