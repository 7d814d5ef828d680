package profile

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roomiapp/roomi-engine/internal/app"
	"github.com/roomiapp/roomi-engine/internal/db"
	svcErr "github.com/roomiapp/roomi-engine/internal/errors"
	"github.com/roomiapp/roomi-engine/internal/server"
)

// Registrar ties the profile service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the profile service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the profile endpoints to the router
func (r *Registrar) Register(router chi.Router) {
	svc := NewProfileService(r.appCtx)
	router.Get("/users/{userID}", svc.handleGet)
	router.Put("/users/{userID}", svc.handleUpsert)
	router.Post("/users/{userID}/preferences", svc.handlePreferences)
}

func (s *Service) handleGet(w http.ResponseWriter, req *http.Request) {
	p, err := s.GetProfile(req.Context(), chi.URLParam(req, "userID"))
	if err != nil {
		server.WriteError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, p)
}

func (s *Service) handleUpsert(w http.ResponseWriter, req *http.Request) {
	var p db.Profile
	if err := json.NewDecoder(req.Body).Decode(&p); err != nil {
		server.WriteError(w, svcErr.InvalidArgument("invalid JSON body"))
		return
	}
	// The path owns the identity; a mismatching body id is rejected.
	pathID := chi.URLParam(req, "userID")
	if p.ID == "" {
		p.ID = pathID
	} else if p.ID != pathID {
		server.WriteError(w, svcErr.InvalidArgument("body id does not match path"))
		return
	}

	if err := s.UpsertProfile(req.Context(), &p); err != nil {
		server.WriteError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}

type preferencesRequest struct {
	Text string `json:"text"`
}

func (s *Service) handlePreferences(w http.ResponseWriter, req *http.Request) {
	var body preferencesRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		server.WriteError(w, svcErr.InvalidArgument("invalid JSON body"))
		return
	}

	extracted, err := s.ApplyPreferences(req.Context(), chi.URLParam(req, "userID"), body.Text)
	if err != nil {
		server.WriteError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, extracted)
}
