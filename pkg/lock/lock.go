// Package lock serializes mutations on a single lobby.
package lock

import (
	"context"
	"fmt"

	"headsup-server/pkg/model"
)

// ErrNotAcquired is returned when another holder kept the lock for the whole wait
var ErrNotAcquired = fmt.Errorf("%w: lobby is busy", model.ErrInvalidState)

// Unlock releases a held lock. It is safe to call more than once.
type Unlock func()

// Locker hands out exclusive locks by key
type Locker interface {
	// Lock blocks until the key is held, the wait is exhausted, or ctx is done
	Lock(ctx context.Context, key string) (Unlock, error)
}

// LobbyKey returns the lock key for a lobby
func LobbyKey(lobbyUUID string) string {
	return "lobby:" + lobbyUUID
}
