package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/excuse"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/pauserule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrInvalidClaims):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAccessDenied):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrNotTeamMember):
		Forbidden(w, err.Error())
	case errors.Is(err, employee.ErrMissingEmployeeID):
		Unauthorized(w, err.Error())
	case errors.Is(err, employee.ErrInvalidStatus):
		BadRequest(w, err.Error(), nil)

	// Schedule domain errors
	case errors.Is(err, schedule.ErrScheduleNotFound):
		NotFound(w, "Schedule not found")
	case errors.Is(err, schedule.ErrScheduleNameExists),
		errors.Is(err, schedule.ErrAssignmentOverlap):
		Conflict(w, err.Error())
	case errors.Is(err, schedule.ErrAssignmentEndBeforeStart),
		errors.Is(err, schedule.ErrInvalidTimeOfDay),
		errors.Is(err, schedule.ErrInvalidWeekdays):
		BadRequest(w, err.Error(), nil)

	// Clock domain errors
	case errors.Is(err, clock.ErrRequestNotFound):
		NotFound(w, "Off-hours request not found")
	case errors.Is(err, clock.ErrRequestAlreadyReviewed):
		Conflict(w, err.Error())
	case errors.Is(err, clock.ErrCannotReviewOwn):
		Forbidden(w, err.Error())
	case errors.Is(err, clock.ErrTooEarlyToClockIn),
		errors.Is(err, clock.ErrOutsideSchedule),
		errors.Is(err, clock.ErrNoPauseRules),
		errors.Is(err, clock.ErrBreakLimitReached),
		errors.Is(err, clock.ErrBreakBudgetExhausted),
		errors.Is(err, clock.ErrInvalidEventType),
		errors.Is(err, clock.ErrRequestInFuture):
		BadRequest(w, err.Error(), nil)

	// Excuse domain errors
	case errors.Is(err, excuse.ErrExcuseNotFound):
		NotFound(w, "Absence excuse not found")
	case errors.Is(err, excuse.ErrExcuseAlreadyReviewed):
		Conflict(w, err.Error())
	case errors.Is(err, excuse.ErrCannotReviewOwn):
		Forbidden(w, err.Error())

	// Ledger and reconciliation errors
	case errors.Is(err, hourbank.ErrRangeTooLarge),
		errors.Is(err, reconciliation.ErrInvalidDate),
		errors.Is(err, reconciliation.ErrFutureDate),
		errors.Is(err, reconciliation.ErrInvalidPolicy):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, pauserule.ErrDuplicateOrder):
		Conflict(w, err.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
