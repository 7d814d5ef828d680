package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/roomiapp/roomi-engine/internal/config"
)

// Registrar is a common interface for all HTTP service registrars
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter builds the chi router with shared middleware and mounts all
// provided services.
func NewRouter(registrars ...Registrar) chi.Router {
	mux := chi.NewRouter()

	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	for _, r := range registrars {
		r.Register(mux)
	}

	return mux
}

// StartHTTPServer boots the HTTP server and registers all provided services
func StartHTTPServer(cfg *config.Config, registrars ...Registrar) error {
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(registrars...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv.ListenAndServe()
}
