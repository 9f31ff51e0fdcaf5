package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/response"
	reconciliationService "github.com/cmlabs-hris/timebank-backend-go/internal/service/reconciliation"
	"github.com/go-chi/chi/v5"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

type Reconciler interface {
	ReconcileDay(ctx context.Context, employeeID string, date time.Time) (reconciliation.DayResult, error)
	RunBatch(ctx context.Context, date time.Time) (reconciliation.Run, error)
	LatestRuns(ctx context.Context, limit int) ([]reconciliation.Run, error)
	Location() *time.Location
	Now() time.Time
}

type ReconciliationHandler interface {
	Run(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)
	ReconcileEmployee(w http.ResponseWriter, r *http.Request)
}

type reconciliationHandlerImpl struct {
	engine Reconciler
}

func NewReconciliationHandler(engine Reconciler) ReconciliationHandler {
	return &reconciliationHandlerImpl{
		engine: engine,
	}
}

// Run implements ReconciliationHandler.
func (h *reconciliationHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	date, ok := h.targetDate(w, r)
	if !ok {
		return
	}

	run, err := h.engine.RunBatch(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Reconciliation finished", run)
}

// ListRuns implements ReconciliationHandler.
func (h *reconciliationHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.BadRequest(w, "limit must be a positive integer", nil)
			return
		}
		limit = min(n, maxRunsLimit)
	}

	runs, err := h.engine.LatestRuns(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, runs)
}

// ReconcileEmployee implements ReconciliationHandler.
func (h *reconciliationHandlerImpl) ReconcileEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	date, ok := h.targetDate(w, r)
	if !ok {
		return
	}

	result, err := h.engine.ReconcileDay(r.Context(), employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// targetDate reads the optional {"date": "YYYY-MM-DD"} body; no body means
// yesterday.
func (h *reconciliationHandlerImpl) targetDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	var req reconciliation.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body", nil)
		return time.Time{}, false
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return time.Time{}, false
	}

	date, err := reconciliationService.ParseTargetDate(req.Date, h.engine.Now(), h.engine.Location())
	if err != nil {
		response.HandleError(w, err)
		return time.Time{}, false
	}
	return date, true
}
