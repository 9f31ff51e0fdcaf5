package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/response"
)

type StatusSynchronizer interface {
	Sync(ctx context.Context, employeeID string) (employee.OperationalStatus, bool, error)
}

type StatusHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
}

type statusHandlerImpl struct {
	synchronizer StatusSynchronizer
}

func NewStatusHandler(synchronizer StatusSynchronizer) StatusHandler {
	return &statusHandlerImpl{
		synchronizer: synchronizer,
	}
}

// Me implements StatusHandler. Reading the status also repairs a stale stored
// value.
func (h *statusHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.HandleError(w, employee.ErrMissingEmployeeID)
		return
	}

	current, _, err := h.synchronizer.Sync(r.Context(), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, employee.StatusResponse{
		EmployeeID:        claims.EmployeeID,
		OperationalStatus: current,
	})
}
