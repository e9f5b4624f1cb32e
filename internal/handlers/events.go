// internal/handlers/events.go
package handlers

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// streamTurns upgrades to a websocket and pushes every committed turn of the
// session until the client leaves or the game finishes.
func (h *Handler) streamTurns(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "invalid game id"})
		return
	}
	if h.events == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Code: "UNAVAILABLE", Message: "event stream is not configured"})
		return
	}
	status, err := h.games.GetDetailedStatus(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.WithError(err).WithField("session_id", sessionID).Warn("Websocket upgrade failed.")
		return
	}
	defer conn.CloseNow()

	// Nothing is read from the client; CloseRead handles control frames and cancels on disconnect.
	ctx := conn.CloseRead(r.Context())
	logger := h.log.WithFields(logrus.Fields{"session_id": sessionID, "player_id": userID})

	// Subscribe before sending the snapshot so no turn falls between the two.
	results, err := h.events.Subscribe(ctx, sessionID)
	if err != nil {
		logger.WithError(err).Error("Turn subscription failed.")
		conn.Close(websocket.StatusInternalError, "subscription failed")
		return
	}
	if status, err = h.games.GetDetailedStatus(ctx, sessionID); err != nil {
		conn.Close(websocket.StatusInternalError, "status unavailable")
		return
	}
	if err := wsjson.Write(ctx, conn, status); err != nil {
		return
	}
	if status.WinnerID != nil {
		conn.Close(websocket.StatusNormalClosure, "game finished")
		return
	}
	logger.Debug("Turn stream opened.")
	for result := range results {
		if err := wsjson.Write(ctx, conn, result); err != nil {
			return
		}
		if result.Finished {
			conn.Close(websocket.StatusNormalClosure, "game finished")
			return
		}
	}
	conn.Close(websocket.StatusNormalClosure, "")
}
