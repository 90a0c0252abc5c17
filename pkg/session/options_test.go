package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	opts := DefaultOptions()
	opts.HandSize = 8
	assert.EqualError(t, opts.Validate(), "hand size must be between 3 and 7, got 8")

	opts = DefaultOptions()
	opts.MaxAnte = -1
	assert.EqualError(t, opts.Validate(), "max ante cannot be negative, got -1")

	opts = DefaultOptions()
	opts.TiePayout = "triple"
	assert.EqualError(t, opts.Validate(), `unknown tie payout: "triple"`)
}

func TestOptions_payout(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, int64(40), opts.payout(OutcomePlayerWin, 20))
	assert.Equal(t, int64(40), opts.payout(OutcomeTie, 20))
	assert.Equal(t, int64(0), opts.payout(OutcomeDealerWin, 20))
	assert.Equal(t, int64(0), opts.payout(OutcomeFold, 20))

	opts.TiePayout = TiePayoutRefund
	assert.Equal(t, int64(20), opts.payout(OutcomeTie, 20))
	assert.Equal(t, int64(40), opts.payout(OutcomePlayerWin, 20))
}

func TestOutcome_winner(t *testing.T) {
	assert.Equal(t, "player", string(OutcomePlayerWin.winner()))
	assert.Equal(t, "dealer", string(OutcomeDealerWin.winner()))
	assert.Equal(t, "tie", string(OutcomeTie.winner()))
	assert.Equal(t, "fold", string(OutcomeFold.winner()))
	assert.Panics(t, func() {
		Outcome("bogus").winner()
	})
}
