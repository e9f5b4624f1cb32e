// internal/handlers/handlers.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jason-s-yu/kokodi/internal/auth"
	"github.com/jason-s-yu/kokodi/internal/game"
	"github.com/jason-s-yu/kokodi/internal/models"
	"github.com/sirupsen/logrus"
)

// GameService is the session lifecycle API served over HTTP.
type GameService interface {
	CreateSession(ctx context.Context, creatorID uuid.UUID) (game.SessionView, error)
	JoinSession(ctx context.Context, sessionID, userID uuid.UUID) (game.SessionView, error)
	StartSession(ctx context.Context, sessionID, userID uuid.UUID) (game.SessionView, error)
	PlayTurn(ctx context.Context, sessionID, userID uuid.UUID) (game.TurnResult, error)
	GetActiveSessions(ctx context.Context) ([]game.SessionView, error)
	GetDetailedStatus(ctx context.Context, sessionID uuid.UUID) (game.DetailedStatus, error)
	GetTurnHistory(ctx context.Context, sessionID uuid.UUID) ([]game.Turn, error)
	GetPlayerTurnHistory(ctx context.Context, sessionID, playerID uuid.UUID) ([]game.Turn, error)
}

// AuthService registers users and verifies bearer tokens.
type AuthService interface {
	Register(ctx context.Context, username, password string) (models.User, error)
	Login(ctx context.Context, username, password string) (string, models.User, error)
	ParseToken(token string) (uuid.UUID, error)
}

// TurnSubscriber streams committed turns of one session.
type TurnSubscriber interface {
	Subscribe(ctx context.Context, sessionID uuid.UUID) (<-chan game.TurnResult, error)
}

// Handler serves the JSON API.
type Handler struct {
	games  GameService
	auth   AuthService
	events TurnSubscriber // Nil disables the event stream.
	log    *logrus.Entry
}

// New returns a Handler. events may be nil.
func New(games GameService, authSvc AuthService, events TurnSubscriber, log *logrus.Entry) *Handler {
	return &Handler{games: games, auth: authSvc, events: events, log: log.WithField("component", "http")}
}

// Routes returns the API mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)

	mux.Handle("POST /api/games", h.requireUser(h.createGame))
	mux.Handle("GET /api/games", h.requireUser(h.activeGames))
	mux.Handle("POST /api/games/{id}/join", h.requireUser(h.joinGame))
	mux.Handle("POST /api/games/{id}/start", h.requireUser(h.startGame))
	mux.Handle("POST /api/games/{id}/turn", h.requireUser(h.playTurn))
	mux.Handle("GET /api/games/{id}/status", h.requireUser(h.gameStatus))
	mux.Handle("GET /api/games/{id}/turns", h.requireUser(h.gameTurns))
	mux.Handle("GET /api/games/{id}/turns/players/{playerId}", h.requireUser(h.playerTurns))
	mux.Handle("GET /api/games/{id}/events", h.requireUser(h.streamTurns))
	return mux
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "invalid JSON body"})
		return
	}
	u, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "invalid JSON body"})
		return
	}
	token, u, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: u})
}

func (h *Handler) createGame(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	view, err := h.games.CreateSession(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) activeGames(w http.ResponseWriter, r *http.Request, _ uuid.UUID) {
	views, err := h.games.GetActiveSessions(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) joinGame(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	h.withSession(w, r, func(sessionID uuid.UUID) (any, error) {
		return h.games.JoinSession(r.Context(), sessionID, userID)
	})
}

func (h *Handler) startGame(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	h.withSession(w, r, func(sessionID uuid.UUID) (any, error) {
		return h.games.StartSession(r.Context(), sessionID, userID)
	})
}

func (h *Handler) playTurn(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	h.withSession(w, r, func(sessionID uuid.UUID) (any, error) {
		return h.games.PlayTurn(r.Context(), sessionID, userID)
	})
}

func (h *Handler) gameStatus(w http.ResponseWriter, r *http.Request, _ uuid.UUID) {
	h.withSession(w, r, func(sessionID uuid.UUID) (any, error) {
		return h.games.GetDetailedStatus(r.Context(), sessionID)
	})
}

func (h *Handler) gameTurns(w http.ResponseWriter, r *http.Request, _ uuid.UUID) {
	h.withSession(w, r, func(sessionID uuid.UUID) (any, error) {
		return h.games.GetTurnHistory(r.Context(), sessionID)
	})
}

func (h *Handler) playerTurns(w http.ResponseWriter, r *http.Request, _ uuid.UUID) {
	playerID, err := uuid.Parse(r.PathValue("playerId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "invalid player id"})
		return
	}
	h.withSession(w, r, func(sessionID uuid.UUID) (any, error) {
		return h.games.GetPlayerTurnHistory(r.Context(), sessionID, playerID)
	})
}

// withSession parses the {id} path value, runs fn and writes its result as JSON.
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, fn func(sessionID uuid.UUID) (any, error)) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "invalid game id"})
		return
	}
	out, err := fn(sessionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// requireUser authenticates the request with a bearer token. The token may
// also be passed as ?token= for clients that cannot set headers (websockets).
func (h *Handler) requireUser(next func(http.ResponseWriter, *http.Request, uuid.UUID)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token == r.Header.Get("Authorization") {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "UNAUTHORIZED", Message: "missing bearer token"})
			return
		}
		userID, err := h.auth.ParseToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
			return
		}
		next(w, r, userID)
	})
}

// writeError maps core and auth errors to HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.WithError(err).WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Error("Request failed.")
		writeJSON(w, status, errorResponse{Code: code, Message: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, auth.ErrUsernameTaken):
		return http.StatusConflict, "USERNAME_TAKEN"
	}
	switch game.KindOf(err) {
	case game.KindNotFound:
		return http.StatusNotFound, string(game.CodeOf(err))
	case game.KindRuleViolation:
		return http.StatusConflict, string(game.CodeOf(err))
	case game.KindInvariant:
		return http.StatusInternalServerError, string(game.CodeOf(err))
	}
	return http.StatusInternalServerError, "INTERNAL"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
