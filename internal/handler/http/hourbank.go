package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// TeamGuard checks supervisor scope before team data is exposed.
type TeamGuard interface {
	EnsureMember(ctx context.Context, supervisorID, employeeID string) error
}

type HourBankHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	ByEmployee(w http.ResponseWriter, r *http.Request)
}

type hourBankHandlerImpl struct {
	hourBankService hourbank.Service
	teamGuard       TeamGuard
}

func NewHourBankHandler(hourBankService hourbank.Service, teamGuard TeamGuard) HourBankHandler {
	return &hourBankHandlerImpl{
		hourBankService: hourBankService,
		teamGuard:       teamGuard,
	}
}

// Me implements HourBankHandler.
func (h *hourBankHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.HandleError(w, employee.ErrMissingEmployeeID)
		return
	}

	h.balance(w, r, claims.EmployeeID)
}

// ByEmployee implements HourBankHandler. Supervisors only see their own team.
func (h *hourBankHandlerImpl) ByEmployee(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.HandleError(w, employee.ErrMissingEmployeeID)
		return
	}

	employeeID := chi.URLParam(r, "id")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	if !claims.Is(auth.RoleHR) {
		if err := h.teamGuard.EnsureMember(r.Context(), claims.EmployeeID, employeeID); err != nil {
			response.HandleError(w, err)
			return
		}
	}

	h.balance(w, r, employeeID)
}

func (h *hourBankHandlerImpl) balance(w http.ResponseWriter, r *http.Request, employeeID string) {
	query := r.URL.Query()
	req := hourbank.BalanceRequest{
		EmployeeID: employeeID,
		From:       query.Get("from"),
		To:         query.Get("to"),
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	balance, err := h.hourBankService.Balance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}
