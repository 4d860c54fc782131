package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInvalidDateRange    = "INVALID_DATE_RANGE"
	CodeInvalidReference    = "INVALID_REFERENCE"
	CodeNoQuota             = "NO_QUOTA"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeInvalidState        = "INVALID_STATE"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"

	// Server errors (5xx)
	CodeInternalError = "INTERNAL_ERROR"
)
