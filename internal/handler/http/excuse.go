package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/excuse"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ExcuseHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type excuseHandlerImpl struct {
	excuseService excuse.Service
}

func NewExcuseHandler(excuseService excuse.Service) ExcuseHandler {
	return &excuseHandlerImpl{
		excuseService: excuseService,
	}
}

// Submit implements ExcuseHandler.
func (h *excuseHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.HandleError(w, employee.ErrMissingEmployeeID)
		return
	}

	var req excuse.SubmitExcuseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = claims.EmployeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.excuseService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Absence excuse submitted", created)
}

// ListMine implements ExcuseHandler.
func (h *excuseHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.HandleError(w, employee.ErrMissingEmployeeID)
		return
	}

	excuses, err := h.excuseService.ListMine(r.Context(), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, excuses)
}

// Approve implements ExcuseHandler.
func (h *excuseHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	req, ok := reviewExcuseRequest(w, r)
	if !ok {
		return
	}

	approved, err := h.excuseService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence excuse approved", approved)
}

// Reject implements ExcuseHandler.
func (h *excuseHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	req, ok := reviewExcuseRequest(w, r)
	if !ok {
		return
	}

	rejected, err := h.excuseService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence excuse rejected", rejected)
}

func reviewExcuseRequest(w http.ResponseWriter, r *http.Request) (excuse.ReviewExcuseRequest, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.HandleError(w, employee.ErrMissingEmployeeID)
		return excuse.ReviewExcuseRequest{}, false
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Excuse ID is required", nil)
		return excuse.ReviewExcuseRequest{}, false
	}

	return excuse.ReviewExcuseRequest{
		ExcuseID:     id,
		ReviewerID:   claims.EmployeeID,
		ReviewerIsHR: claims.Is(auth.RoleHR),
	}, true
}
