package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/syncbeats/server/internal/service/room"
	"github.com/syncbeats/server/pkg/rest"
)

// getRoom serves a read-only room snapshot for tooling and debugging.
func (c controller) getRoom(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "room-code")
	if roomCode == "" {
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
		return
	}

	roomState, err := c.roomService.GetRoomState(r.Context(), roomCode)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
			return
		}

		c.logger.WarnContext(r.Context(), "failed to get room state", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": roomState})
}
