// Package health serves the liveness endpoint.
package health

import (
	"log/slog"
	"net/http"

	"github.com/growdev/growdevers-api/internal/storage"
	"github.com/growdev/growdevers-api/internal/utils/response"
)

// Status is the data payload of a health response.
type Status struct {
	Count int `json:"count"`
}

// Check handles GET /healthz and reports how many developers are stored.
func Check(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := s.Count()
		if err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError("unavailable", err))
			return
		}
		response.WriteJSON(w, http.StatusOK, response.Success("ok", Status{Count: n}))
	}
}
