package poker

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory is returned when a category name cannot be parsed
var ErrUnknownCategory = errors.New("unknown category")

// Category is the shape of a poker hand, i.e., royal flush
// Categories are totally ordered: a higher category always beats a lower one
type Category int

// Constants for category
const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	ThreeCardPokerStraight     // in three-card poker, straight beats flush
	ThreeCardPokerThreeOfAKind // in three-card poker, beats straight and flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the string representation of a category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two pair"
	case ThreeOfAKind:
		return "Three of a kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case ThreeCardPokerStraight:
		return "Three card straight"
	case ThreeCardPokerThreeOfAKind:
		return "Three card trips"
	case FullHouse:
		return "Full house"
	case FourOfAKind:
		return "Four of a kind"
	case StraightFlush:
		return "Straight flush"
	case RoyalFlush:
		return "Royal flush"
	default:
		panic(fmt.Sprintf("unknown category: %d", c))
	}
}

// MarshalText encodes the category as its name
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category from the name written by MarshalText
func (c *Category) UnmarshalText(text []byte) error {
	name := string(text)
	for cat := HighCard; cat <= RoyalFlush; cat++ {
		if cat.String() == name {
			*c = cat
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}
