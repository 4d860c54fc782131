package teamerrors

import (
	"net/http"

	"go-lams/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrUnknownUser = apperror.New(
		apperror.CodeInvalidReference,
		"user does not exist",
		http.StatusBadRequest,
	)
	ErrSelfManager = apperror.New(
		apperror.CodeInvalidInput,
		"a user cannot be their own manager",
		http.StatusBadRequest,
	)
	ErrManagerCycle = apperror.New(
		apperror.CodeConflict,
		"assignment would create a cycle in the manager chain",
		http.StatusConflict,
	)
)
