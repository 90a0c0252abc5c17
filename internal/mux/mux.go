package mux

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"headsup-server/internal/jwt"
	"headsup-server/pkg/account"
	"headsup-server/pkg/model"
	"headsup-server/pkg/session"

	gmux "github.com/gorilla/mux"
)

type ctxKey int

const (
	ctxPlayerKey ctxKey = iota
	ctxLobbyKey
)

// playerIDHeader is set on every authenticated response
const playerIDHeader = "Headsup-Player-ID"

const uuidPattern = `(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}`

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version  string
	session  *session.Session
	accounts *account.Service

	// store for testing purposes
	authRouter  *gmux.Router
	adminRouter *gmux.Router
}

// NewMux returns a new HTTP mux
func NewMux(version string, sess *session.Session, accounts *account.Service) *Mux {
	this := &Mux{
		Router:   gmux.NewRouter(),
		version:  version,
		session:  sess,
		accounts: accounts,
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	this.adminRouter = this.authRouter.PathPrefix("/admin").Subrouter()
	this.adminRouter.Use(this.adminMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodPost).Path("/player").Handler(this.postPlayer())
		r.Methods(http.MethodPost).Path("/player/auth").Handler(this.postPlayerAuth())
	}

	// requires admin access
	// depends on authMiddleware
	{
		r := this.adminRouter
		r.Methods(http.MethodGet).Path("/player").Handler(this.getAdminPlayer())
		r.Methods(http.MethodPost).Path("/player/{id:[0-9]+}/balance").Handler(this.postAdminPlayerIDBalance())
	}

	// requires bearer authorization
	{
		r := this.authRouter
		r.Methods(http.MethodGet).Path("/player/me").Handler(this.getPlayerMe())

		r.Methods(http.MethodGet).Path("/lobby").Handler(this.getLobby())
		r.Methods(http.MethodPost).Path("/lobby").Handler(this.postLobby())

		lr := r.PathPrefix("/lobby/{uuid:" + uuidPattern + "}").Subrouter()
		lr.Use(this.lobbyMiddleware)

		lr.Methods(http.MethodGet).Path("").Handler(this.getLobbyUUID())
		lr.Methods(http.MethodPost).Path("/deal").Handler(this.postLobbyUUIDDeal())
		lr.Methods(http.MethodGet).Path("/turn").Handler(this.getLobbyUUIDTurn())
		lr.Methods(http.MethodGet).Path("/turn/{turn:[0-9]+}").Handler(this.getLobbyUUIDTurnNumber())
		lr.Methods(http.MethodPost).Path("/turn/{turn:[0-9]+}/play").Handler(this.postLobbyUUIDTurnNumberPlay())
		lr.Methods(http.MethodPost).Path("/turn/{turn:[0-9]+}/fold").Handler(this.postLobbyUUIDTurnNumberFold())
	}

	return this
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		id, err := jwt.ValidPlayerID(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		player, err := m.accounts.GetPlayer(r.Context(), id)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxPlayerKey, player)
		w.Header().Set(playerIDHeader, strconv.FormatInt(player.ID, 10))
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

// adminMiddleware requires authMiddleware to execute first
func (m *Mux) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !currentPlayer(r).IsSiteAdmin {
			writeJSONError(w, http.StatusForbidden, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func currentPlayer(r *http.Request) *model.Player {
	return r.Context().Value(ctxPlayerKey).(*model.Player)
}
