package session

import "fmt"

// TiePayout decides what a tied turn pays the player
type TiePayout string

// TiePayout constants
const (
	// TiePayoutDouble pays a tie like a win: the ante back plus a matching amount
	TiePayoutDouble TiePayout = "double"
	// TiePayoutRefund returns the ante only
	TiePayoutRefund TiePayout = "refund"
)

// hand size limits
const (
	MinHandSize = 3
	MaxHandSize = 7
)

// Options are the house rules of a session
type Options struct {
	HandSize int
	// MaxAnte of zero means there is no limit
	MaxAnte    int64
	TiePayout  TiePayout
	SharedDeck bool
}

// DefaultOptions returns five card hands from independent decks and a tie paying double
func DefaultOptions() Options {
	return Options{
		HandSize:  5,
		TiePayout: TiePayoutDouble,
	}
}

// Validate ensures the options describe a playable game
func (o Options) Validate() error {
	if o.HandSize < MinHandSize || o.HandSize > MaxHandSize {
		return fmt.Errorf("hand size must be between %d and %d, got %d", MinHandSize, MaxHandSize, o.HandSize)
	}

	if o.MaxAnte < 0 {
		return fmt.Errorf("max ante cannot be negative, got %d", o.MaxAnte)
	}

	switch o.TiePayout {
	case TiePayoutDouble, TiePayoutRefund:
	default:
		return fmt.Errorf("unknown tie payout: %q", o.TiePayout)
	}

	return nil
}

// payout returns what the outcome credits back to the player
func (o Options) payout(outcome Outcome, ante int64) int64 {
	switch outcome {
	case OutcomePlayerWin:
		return ante * 2
	case OutcomeTie:
		if o.TiePayout == TiePayoutRefund {
			return ante
		}

		return ante * 2
	default:
		return 0
	}
}
