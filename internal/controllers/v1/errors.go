package v1

import (
	"errors"
	"net/http"

	"github.com/dentora/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrConcurrentModification) || errors.Is(err, models.ErrBudgetLocked) {
		return http.StatusConflict
	}

	return http.StatusBadRequest
}

var errRoleNotSetInQuery = errors.New("the role query parameter must be set")

// Cleanup errors
var errCleanupConfirmation = errors.New("the confirmation for the cleanup API call was incorrect")
