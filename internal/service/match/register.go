package match

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/roomiapp/roomi-engine/internal/app"
	svcErr "github.com/roomiapp/roomi-engine/internal/errors"
	"github.com/roomiapp/roomi-engine/internal/server"
)

// Registrar ties the match service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the match service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the match endpoints to the router
func (r *Registrar) Register(router chi.Router) {
	svc := NewMatchService(r.appCtx)
	router.Post("/likes", svc.handleLike)
	router.Post("/passes", svc.handlePass)
	router.Get("/users/{userID}/matches", svc.handleListMatches)
	router.Get("/users/{userID}/matches/count", svc.handleCountMatches)
}

type interactionRequest struct {
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
}

func (s *Service) handleLike(w http.ResponseWriter, req *http.Request) {
	var body interactionRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		server.WriteError(w, svcErr.InvalidArgument("invalid JSON body"))
		return
	}

	result, err := s.LikeUser(req.Context(), body.FromUserID, body.ToUserID)
	if err != nil {
		server.WriteError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, result)
}

func (s *Service) handlePass(w http.ResponseWriter, req *http.Request) {
	var body interactionRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		server.WriteError(w, svcErr.InvalidArgument("invalid JSON body"))
		return
	}

	if err := s.PassUser(req.Context(), body.FromUserID, body.ToUserID); err != nil {
		server.WriteError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type listMatchesResponse struct {
	Matches             []MatchEntry `json:"matches"`
	NextPaginationToken *string      `json:"nextPaginationToken,omitempty"`
}

func (s *Service) handleListMatches(w http.ResponseWriter, req *http.Request) {
	userID := chi.URLParam(req, "userID")

	var token *string
	if t := req.URL.Query().Get("paginationToken"); t != "" {
		token = &t
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	entries, nextToken, err := s.ListMatches(req.Context(), userID, token, limit)
	if err != nil {
		server.WriteError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, listMatchesResponse{
		Matches:             entries,
		NextPaginationToken: nextToken,
	})
}

func (s *Service) handleCountMatches(w http.ResponseWriter, req *http.Request) {
	userID := chi.URLParam(req, "userID")

	count, err := s.CountMatches(req.Context(), userID)
	if err != nil {
		server.WriteError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]int64{"count": count})
}
