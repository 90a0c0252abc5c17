package deck

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHand_HasCard(t *testing.T) {
	hand := CardsFromString("2c,3c,4d")
	assert.True(t, hand.HasCard(CardFromString("3c")))
	assert.False(t, hand.HasCard(CardFromString("3s")))
}

func TestHand_Overlaps(t *testing.T) {
	h := CardsFromString("2c,3c,4d")
	assert.True(t, h.Overlaps(CardsFromString("5s,4d")))
	assert.False(t, h.Overlaps(CardsFromString("5s,4h")))
}

func TestHand_Sort(t *testing.T) {
	h := CardsFromString("14s,3d,2c,2d")
	sort.Sort(h)
	assert.Equal(t, "2c,2d,3d,14s", h.String())
}

func TestHand_Clone(t *testing.T) {
	h := CardsFromString("2c,3c")
	c := h.Clone()
	c[0] = CardFromString("14s")
	assert.Equal(t, "2c,3c", h.String())
}
