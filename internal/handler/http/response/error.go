package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-gate/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-gate/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Attendance flow errors
	switch {
	case errors.Is(err, attendance.ErrFlowNotFound):
		NotFound(w, "Attendance flow not found")
	case errors.Is(err, attendance.ErrSubmissionInProgress):
		Conflict(w, "Attendance submission already in progress")
	case errors.Is(err, attendance.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrSubmissionFailed):
		BadGateway(w, "Error submitting attendance")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

// HandleFlowError is HandleError for flow operations that still have a
// current view to report alongside the error.
func HandleFlowError(w http.ResponseWriter, err error, view attendance.FlowResponse) {
	if view.ID == "" {
		HandleError(w, err)
		return
	}

	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		writeJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Data:    view,
			Error: &ErrorDetail{
				Code:    "VALIDATION_ERROR",
				Message: "Validation failed",
				Details: validationErrs.ToMap(),
			},
		})
	case errors.Is(err, attendance.ErrSubmissionInProgress), errors.Is(err, attendance.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, Response{
			Success: false,
			Data:    view,
			Error: &ErrorDetail{
				Code:    "CONFLICT",
				Message: err.Error(),
			},
		})
	case errors.Is(err, attendance.ErrSubmissionFailed):
		writeJSON(w, http.StatusBadGateway, Response{
			Success: false,
			Data:    view,
			Error: &ErrorDetail{
				Code:    "SUBMISSION_FAILED",
				Message: "Error submitting attendance",
			},
		})
	default:
		HandleError(w, err)
	}
}
