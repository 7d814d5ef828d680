package discovery

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roomiapp/roomi-engine/internal/app"
	svcErr "github.com/roomiapp/roomi-engine/internal/errors"
	"github.com/roomiapp/roomi-engine/internal/server"
)

// Registrar ties the discovery service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the discovery service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the discovery endpoints to the router
func (r *Registrar) Register(router chi.Router) {
	svc := NewDiscoveryService(r.appCtx)
	router.Post("/candidates", svc.handleTopCandidates)
}

type topCandidatesRequest struct {
	UserID string `json:"userId"`
	// Limit is decoded loosely: non-numeric JSON falls back to the
	// default the same way a missing field does.
	Limit json.RawMessage `json:"limit"`
}

type topCandidatesResponse struct {
	Candidates []Candidate `json:"candidates"`
}

func (s *Service) handleTopCandidates(w http.ResponseWriter, req *http.Request) {
	var body topCandidatesRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		server.WriteError(w, svcErr.InvalidArgument("invalid JSON body"))
		return
	}
	if body.UserID == "" {
		server.WriteError(w, svcErr.InvalidArgument("userId is required"))
		return
	}

	candidates, err := s.GetTopCandidates(req.Context(), body.UserID, coerceLimit(body.Limit))
	if err != nil {
		server.WriteError(w, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, topCandidatesResponse{Candidates: candidates})
}

// coerceLimit turns whatever the client sent into an int; anything
// non-numeric or non-positive becomes 0 so the service applies the
// default.
func coerceLimit(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	return int(f)
}
