package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports whether the store answers.
func Health(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			response.ServiceUnavailable(w, "Store unavailable")
			return
		}
		response.Success(w, map[string]string{"status": "ok"})
	}
}
