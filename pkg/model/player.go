package model

import (
	"time"
)

// Player is a record in the `players` table
type Player struct {
	ID           int64     `json:"id"`
	Email        string    `json:"-"`
	DisplayName  string    `json:"displayName"`
	IsSiteAdmin  bool      `json:"isSiteAdmin"`
	PasswordHash string    `json:"-"`
	Balance      int64     `json:"balance"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
}

// CanAfford returns true if the player can cover the amount from their balance
func (p *Player) CanAfford(amount int64) bool {
	return p.Balance >= amount
}
