// Package router wires the handlers and middleware into one http.Handler.
//
// Route table:
//
//	GET    /growdevers        list, with optional filters
//	GET    /growdevers/{id}   get one developer
//	POST   /growdevers        create a developer
//	PUT    /growdevers/{id}   replace a developer
//	PATCH  /growdevers/{id}   toggle registered
//	DELETE /growdevers/{id}   delete a developer
//	GET    /healthz           liveness and record count
package router

import (
	"log/slog"
	"net/http"

	"github.com/growdev/growdevers-api/internal/config"
	"github.com/growdev/growdevers-api/internal/http/handlers/developer"
	"github.com/growdev/growdevers-api/internal/http/handlers/health"
	"github.com/growdev/growdevers-api/internal/http/middleware"
	"github.com/growdev/growdevers-api/internal/query"
	"github.com/growdev/growdevers-api/internal/storage"
)

// BasePath is the developer resource root.
const BasePath = "/growdevers"

// New builds the routed handler for store using the API and CORS settings
// in cfg.
func New(cfg *config.Config, store storage.Storage, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+BasePath, developer.GetList(store, query.Mode(cfg.API.FilterMode)))
	mux.HandleFunc("GET "+BasePath+"/{id}", developer.GetByID(store))
	mux.HandleFunc("POST "+BasePath, developer.New(store))
	mux.HandleFunc("PUT "+BasePath+"/{id}", developer.Update(store, cfg.API.RequireRegisteredForUpdate))
	mux.HandleFunc("PATCH "+BasePath+"/{id}", developer.Toggle(store))
	mux.HandleFunc("DELETE "+BasePath+"/{id}", developer.Delete(store))
	mux.HandleFunc("GET /healthz", health.Check(store))

	mws := []middleware.Middleware{
		middleware.Logger(log),
		middleware.Recover(log),
	}
	if cfg.CORS.Enabled {
		mws = append(mws, middleware.CORS(cfg.CORS.AllowedOrigins))
	}

	return middleware.Chain(mux, mws...)
}
