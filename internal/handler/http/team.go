package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/sse"
)

const streamKeepalive = 30 * time.Second

type TeamViewer interface {
	View(ctx context.Context, supervisorID string) ([]employee.TeamMemberView, error)
}

type Subscriber interface {
	Subscribe(topic string) (chan sse.Event, func())
}

type TeamHandler interface {
	View(w http.ResponseWriter, r *http.Request)
	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type teamHandlerImpl struct {
	teamViewer TeamViewer
	hub        Subscriber
	jwtService jwt.Service
}

func NewTeamHandler(teamViewer TeamViewer, hub Subscriber, jwtService jwt.Service) TeamHandler {
	return &teamHandlerImpl{
		teamViewer: teamViewer,
		hub:        hub,
		jwtService: jwtService,
	}
}

// View implements TeamHandler.
func (h *teamHandlerImpl) View(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.HandleError(w, employee.ErrMissingEmployeeID)
		return
	}

	members, err := h.teamViewer.View(r.Context(), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, members)
}

// StreamToken issues a short-lived token for the EventSource connection.
func (h *teamHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.HandleError(w, employee.ErrMissingEmployeeID)
		return
	}

	token, expiresIn, err := h.jwtService.GenerateStreamToken(claims.EmployeeID, claims.Role)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"token":      token,
		"expires_in": expiresIn,
	})
}

// Stream pushes status changes of the caller's team as server-sent events.
func (h *teamHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.HandleError(w, employee.ErrMissingEmployeeID)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(claims.EmployeeID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"supervisor_id\":\"%s\"}\n\n", claims.EmployeeID)
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Warn("Team stream: failed to encode event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
