package mux

import (
	"errors"
	"net/http"

	"headsup-server/internal/jwt"
	"headsup-server/pkg/account"
	"headsup-server/pkg/model"

	"github.com/sirupsen/logrus"
)

type playerPayload struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// playerWithEmail should only be return in an admin context, or for the requesting player
type playerWithEmail struct {
	*model.Player
	Email string `json:"email"`
}

func newPlayerWithEmail(p *model.Player) playerWithEmail {
	return playerWithEmail{
		Player: p,
		Email:  p.Email,
	}
}

func (m *Mux) postPlayer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp playerPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		player, err := m.accounts.Register(r.Context(), account.Registration{
			Email:       pp.Email,
			DisplayName: pp.DisplayName,
			Password:    pp.Password,
		})
		if err != nil {
			writeDuplicateKeyError(w, err, "email address is already taken")
			return
		}

		writeJSON(w, http.StatusCreated, newPlayerWithEmail(player))
	}
}

type postPlayerAuthResponse struct {
	JWT    string          `json:"jwt"`
	Player playerWithEmail `json:"player"`
}

func (m *Mux) postPlayerAuth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp playerPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		player, err := m.accounts.Authenticate(r.Context(), pp.Email, pp.Password)
		if err != nil {
			if errors.Is(err, account.ErrInvalidEmailOrPassword) {
				writeJSONError(w, http.StatusUnauthorized, err)
				return
			}

			writeError(w, err)
			return
		}

		signed, err := jwt.Sign(player.ID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		logrus.WithField("playerID", player.ID).Info("player authenticated")

		writeJSON(w, http.StatusOK, postPlayerAuthResponse{
			JWT:    signed,
			Player: newPlayerWithEmail(player),
		})
	}
}

func (m *Mux) getPlayerMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newPlayerWithEmail(currentPlayer(r)))
	}
}
