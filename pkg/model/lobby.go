package model

import "time"

// LobbyStatus is the status of a lobby
type LobbyStatus string

// LobbyStatus constants
const (
	// LobbyStatusWaiting means no turn is in progress and the lobby is ready to deal
	LobbyStatusWaiting LobbyStatus = "waiting"
	// LobbyStatusInProgress means cards have been dealt and the turn awaits resolution
	LobbyStatusInProgress LobbyStatus = "in_progress"
)

// Lobby is a record in the `lobbies` table
// A lobby belongs to exactly one host player and has a monotonic turn counter
type Lobby struct {
	UUID     string      `json:"uuid"`
	Name     string      `json:"name"`
	PlayerID int64       `json:"playerId"`
	Status   LobbyStatus `json:"status"`
	Turn     int         `json:"turn"`
	Created  time.Time   `json:"created"`
	Updated  time.Time   `json:"updated"`
}

// CanDeal returns true if a new turn can be dealt
func (l *Lobby) CanDeal() bool {
	return l.Status == LobbyStatusWaiting
}
