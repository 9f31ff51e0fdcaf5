package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ClockHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	SubmitOffHours(w http.ResponseWriter, r *http.Request)
	ApproveOffHours(w http.ResponseWriter, r *http.Request)
	RejectOffHours(w http.ResponseWriter, r *http.Request)
}

type clockHandlerImpl struct {
	clockService clock.Service
}

func NewClockHandler(clockService clock.Service) ClockHandler {
	return &clockHandlerImpl{
		clockService: clockService,
	}
}

// Record implements ClockHandler.
func (h *clockHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.HandleError(w, employee.ErrMissingEmployeeID)
		return
	}

	var req clock.RecordEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = claims.EmployeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	event, err := h.clockService.Record(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock event recorded", event)
}

// SubmitOffHours implements ClockHandler.
func (h *clockHandlerImpl) SubmitOffHours(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.HandleError(w, employee.ErrMissingEmployeeID)
		return
	}

	var req clock.SubmitOffHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = claims.EmployeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.clockService.SubmitOffHours(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Off-hours request submitted", created)
}

// ApproveOffHours implements ClockHandler.
func (h *clockHandlerImpl) ApproveOffHours(w http.ResponseWriter, r *http.Request) {
	req, ok := reviewOffHoursRequest(w, r)
	if !ok {
		return
	}

	approved, err := h.clockService.ApproveOffHours(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Off-hours request approved", approved)
}

// RejectOffHours implements ClockHandler.
func (h *clockHandlerImpl) RejectOffHours(w http.ResponseWriter, r *http.Request) {
	req, ok := reviewOffHoursRequest(w, r)
	if !ok {
		return
	}

	rejected, err := h.clockService.RejectOffHours(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Off-hours request rejected", rejected)
}

func reviewOffHoursRequest(w http.ResponseWriter, r *http.Request) (clock.ReviewOffHoursRequest, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.HandleError(w, employee.ErrMissingEmployeeID)
		return clock.ReviewOffHoursRequest{}, false
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return clock.ReviewOffHoursRequest{}, false
	}

	return clock.ReviewOffHoursRequest{
		RequestID:    id,
		ReviewerID:   claims.EmployeeID,
		ReviewerIsHR: claims.Is(auth.RoleHR),
	}, true
}
