package session

import (
	"headsup-server/internal/rng"
	"headsup-server/pkg/deck"
)

// Dealer produces the player and dealer hands for a new turn
type Dealer interface {
	Deal(handSize int) (player deck.Hand, dealer deck.Hand)
}

// DeckDealer deals from freshly shuffled decks
type DeckDealer struct {
	gen    rng.Generator
	shared bool
}

// NewDeckDealer returns a dealer that shuffles with gen
// By default, each side gets its own deck so the same card may appear on both sides.
// If sharedDeck is true, both hands come from one deck and never overlap.
func NewDeckDealer(gen rng.Generator, sharedDeck bool) *DeckDealer {
	return &DeckDealer{
		gen:    gen,
		shared: sharedDeck,
	}
}

var _ Dealer = (*DeckDealer)(nil)

// Deal returns one hand for each side
func (d *DeckDealer) Deal(handSize int) (deck.Hand, deck.Hand) {
	if d.shared {
		shoe := deck.NewShuffled(d.gen)
		return shoe.Deal(handSize), shoe.Deal(handSize)
	}

	return deck.NewShuffled(d.gen).Deal(handSize), deck.NewShuffled(d.gen).Deal(handSize)
}
