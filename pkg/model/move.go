package model

import (
	"fmt"
	"time"

	"headsup-server/pkg/deck"
)

// Side identifies who a card was dealt to
type Side string

// Side constants
const (
	SidePlayer Side = "player"
	SideDealer Side = "dealer"
)

// MoveType is the action the player took for a turn
type MoveType string

// MoveType constants
const (
	MoveTypeNone MoveType = "none"
	MoveTypePlay MoveType = "play"
	MoveTypeFold MoveType = "fold"
)

// Winner records who won a turn
type Winner string

// Winner constants
const (
	WinnerNone   Winner = "none"
	WinnerPlayer Winner = "player"
	WinnerDealer Winner = "dealer"
	WinnerTie    Winner = "tie"
	WinnerFold   Winner = "fold"
)

// PlayerMove is a record in the `player_moves` table
// There is exactly one per (lobby, turn). It's created when the cards are dealt
// and updated once when the turn is resolved.
type PlayerMove struct {
	LobbyUUID string    `json:"lobbyUuid"`
	Turn      int       `json:"turn"`
	Ante      int64     `json:"ante"`
	MoveType  MoveType  `json:"moveType"`
	Winner    Winner    `json:"winner"`
	Payout    int64     `json:"payout"`
	Created   time.Time `json:"created"`
	Updated   time.Time `json:"updated"`
}

// IsResolved returns true if the player has already played or folded
func (m *PlayerMove) IsResolved() bool {
	return m.MoveType != MoveTypeNone
}

func (m *PlayerMove) String() string {
	return fmt.Sprintf("%s#%d", m.LobbyUUID, m.Turn)
}

// Turn is a player move along with both hands
type Turn struct {
	*PlayerMove
	PlayerHand deck.Hand `json:"playerHand"`
	DealerHand deck.Hand `json:"dealerHand"`
}
