package mux

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"headsup-server/pkg/model"
	"headsup-server/pkg/session"

	"github.com/gorilla/mux"
)

type lobbyPayload struct {
	Name string `json:"name"`
}

type dealPayload struct {
	Ante int64 `json:"ante"`
}

// lobbyMiddleware loads the lobby in the path and requires the current player to be its host
// depends on authMiddleware
func (m *Mux) lobbyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lobby, err := m.session.GetLobby(r.Context(), mux.Vars(r)["uuid"])
		if err != nil {
			writeError(w, err)
			return
		}

		if lobby.PlayerID != currentPlayer(r).ID {
			writeJSONError(w, http.StatusForbidden, errors.New("you are not the host of this lobby"))
			return
		}

		ctx := context.WithValue(r.Context(), ctxLobbyKey, lobby)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentLobby(r *http.Request) *model.Lobby {
	return r.Context().Value(ctxLobbyKey).(*model.Lobby)
}

func turnFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	turn, err := strconv.Atoi(mux.Vars(r)["turn"])
	if err != nil || turn <= 0 {
		writeJSONError(w, http.StatusNotFound, nil)
		return 0, false
	}

	return turn, true
}

func (m *Mux) getLobby() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, rows, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		lobbies, err := m.session.ListLobbies(r.Context(), currentPlayer(r).ID, start, rows)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, lobbies)
	}
}

func (m *Mux) postLobby() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload lobbyPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		lobby, err := m.session.Create(r.Context(), currentPlayer(r).ID, payload.Name)
		if err != nil {
			writeDuplicateKeyError(w, err, "lobby name is already taken")
			return
		}

		writeJSON(w, http.StatusCreated, lobby)
	}
}

func (m *Mux) getLobbyUUID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentLobby(r))
	}
}

func (m *Mux) postLobbyUUIDDeal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload dealPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		result, err := m.session.Deal(r.Context(), currentLobby(r).UUID, payload.Ante)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func (m *Mux) getLobbyUUIDTurn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, rows, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		moves, err := m.session.ListTurns(r.Context(), currentLobby(r).UUID, start, rows)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, moves)
	}
}

func (m *Mux) getLobbyUUIDTurnNumber() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		turn, ok := turnFromRequest(w, r)
		if !ok {
			return
		}

		t, err := m.session.GetTurn(r.Context(), currentLobby(r).UUID, turn)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, t)
	}
}

type resolveFunc func(ctx context.Context, lobbyUUID string, turn int) (*session.ResolveResult, error)

func (m *Mux) resolveHandler(resolve resolveFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		turn, ok := turnFromRequest(w, r)
		if !ok {
			return
		}

		result, err := resolve(r.Context(), currentLobby(r).UUID, turn)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func (m *Mux) postLobbyUUIDTurnNumberPlay() http.HandlerFunc {
	return m.resolveHandler(m.session.ResolvePlay)
}

func (m *Mux) postLobbyUUIDTurnNumberFold() http.HandlerFunc {
	return m.resolveHandler(m.session.ResolveFold)
}
