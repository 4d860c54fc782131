package leaveerrors

import (
	"net/http"

	"go-lams/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(apperror.CodeInvalidInput, "dates must use the YYYY-MM-DD format", http.StatusBadRequest)
	ErrInvalidDateRange  = apperror.New(apperror.CodeInvalidDateRange, "end date must not be before start date", http.StatusBadRequest)
	ErrZeroDuration      = apperror.New(apperror.CodeInvalidDateRange, "requested period has no remaining duration", http.StatusBadRequest)

	ErrLeaveTypeNotFound = apperror.New(apperror.CodeInvalidReference, "leave type does not exist", http.StatusBadRequest)
	ErrProxyUserNotFound = apperror.New(apperror.CodeInvalidReference, "proxy user does not exist", http.StatusBadRequest)
	ErrRequesterNotFound = apperror.New(apperror.CodeInvalidReference, "requesting user does not exist", http.StatusBadRequest)

	ErrNoQuota             = apperror.New(apperror.CodeNoQuota, "no leave quota assigned for this leave type and year", http.StatusBadRequest)
	ErrInsufficientBalance = apperror.New(apperror.CodeInsufficientBalance, "remaining balance is less than the requested days", http.StatusBadRequest)

	ErrRequestNotFound = apperror.New(apperror.CodeNotFound, "leave request not found", http.StatusNotFound)
	ErrAlreadyDecided  = apperror.New(apperror.CodeInvalidState, "leave request has already been decided", http.StatusConflict)

	ErrNotManager           = apperror.New(apperror.CodeForbidden, "only managers can decide leave requests", http.StatusForbidden)
	ErrNotRequestersManager = apperror.New(apperror.CodeForbidden, "only the requester's direct manager can decide this request", http.StatusForbidden)
	ErrOutsideTeam          = apperror.New(apperror.CodeForbidden, "user is not a member of your team", http.StatusForbidden)
	ErrNotOwner             = apperror.New(apperror.CodeForbidden, "leave request belongs to another user", http.StatusForbidden)

	ErrInvalidStatusFilter = apperror.New(apperror.CodeInvalidInput, "status filter must be pending, approved or rejected", http.StatusBadRequest)
	ErrRequestCodeConflict = apperror.New(apperror.CodeConflict, "request code collision, please retry", http.StatusConflict)
)
