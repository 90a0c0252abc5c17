// Package session is the turn-based state machine of a lobby.
//
// A lobby waits for a deal, is dealt one turn, then waits again once the
// turn is played or folded. Every mutation runs under the lobby's lock and
// is committed to the ledger atomically.
package session

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"headsup-server/pkg/ledger"
	"headsup-server/pkg/lock"
	"headsup-server/pkg/model"

	"github.com/sirupsen/logrus"
)

// lobby name limits
const (
	minLobbyNameLength = 3
	maxLobbyNameLength = 40
)

// ErrInvalidLobbyName is returned when a lobby name is too short or too long
var ErrInvalidLobbyName = model.UserError(fmt.Sprintf("lobby name must be between %d and %d characters", minLobbyNameLength, maxLobbyNameLength))

// ErrInvalidAnte is returned when the ante is not a positive amount
var ErrInvalidAnte = model.UserError("ante must be greater than zero")

// Session runs lobbies
type Session struct {
	store  ledger.Store
	locker lock.Locker
	dealer Dealer
	opts   Options
}

// New returns a new Session
func New(store ledger.Store, locker lock.Locker, dealer Dealer, opts Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Session{
		store:  store,
		locker: locker,
		dealer: dealer,
		opts:   opts,
	}, nil
}

// Options returns the house rules
func (s *Session) Options() Options {
	return s.opts
}

// Create opens a new lobby hosted by hostID
func (s *Session) Create(ctx context.Context, hostID int64, name string) (*model.Lobby, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < minLobbyNameLength || n > maxLobbyNameLength {
		return nil, ErrInvalidLobbyName
	}

	if _, err := s.store.GetPlayerByID(ctx, hostID); err != nil {
		return nil, err
	}

	lobby, err := s.store.CreateLobby(ctx, hostID, name)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"lobby":  lobby.UUID,
		"name":   lobby.Name,
		"hostID": hostID,
	}).Info("created lobby")

	return lobby, nil
}

// GetLobby returns a lobby
func (s *Session) GetLobby(ctx context.Context, lobbyUUID string) (*model.Lobby, error) {
	return s.store.GetLobbyByUUID(ctx, lobbyUUID)
}

// ListLobbies returns the lobbies hosted by the player
func (s *Session) ListLobbies(ctx context.Context, playerID int64, offset int64, limit int) ([]*model.Lobby, error) {
	return s.store.ListLobbiesByPlayer(ctx, playerID, offset, limit)
}

// lock takes the lobby lock
func (s *Session) lock(ctx context.Context, lobbyUUID string) (lock.Unlock, error) {
	unlock, err := s.locker.Lock(ctx, lock.LobbyKey(lobbyUUID))
	if err != nil {
		return nil, fmt.Errorf("could not lock lobby %s: %w", lobbyUUID, err)
	}

	return unlock, nil
}
