package mux

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func (m *Mux) getAdminPlayer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, rows, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		players, err := m.accounts.ListPlayers(r.Context(), start, rows)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := make([]playerWithEmail, len(players))
		for i, p := range players {
			resp[i] = newPlayerWithEmail(p)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type balancePayload struct {
	Amount int64 `json:"amount"`
}

type balanceResponse struct {
	PlayerID int64 `json:"playerId"`
	Balance  int64 `json:"balance"`
}

func (m *Mux) postAdminPlayerIDBalance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, errors.New("invalid player ID"))
			return
		}

		var payload balancePayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		balance, err := m.accounts.AdjustBalance(r.Context(), id, payload.Amount)
		if err != nil {
			writeError(w, err)
			return
		}

		logrus.WithFields(logrus.Fields{
			"adminID":  currentPlayer(r).ID,
			"playerID": id,
			"amount":   payload.Amount,
			"balance":  balance,
		}).Info("admin adjusted balance")

		writeJSON(w, http.StatusOK, balanceResponse{
			PlayerID: id,
			Balance:  balance,
		})
	}
}
