package poker

import (
	"testing"

	"headsup-server/pkg/deck"

	"github.com/stretchr/testify/assert"
)

func analyze(size int, cards string) *HandAnalyzer {
	return NewHandAnalyzer(size, deck.CardsFromString(cards))
}

func TestHandAnalyzer_groups(t *testing.T) {
	tests := []struct {
		cards string
		quads int
		trips int
		pair  int
		two   []int
	}{
		{"2c,3c,3d,3h,3s", 3, 0, 0, nil},
		{"4s,4h,5c,4d,4c", 4, 0, 0, nil},
		{"9s,4h,5c,4d,4c", 0, 4, 0, nil},
		{"2c,5c,5h,5d,6d,4c,4d,4h", 0, 5, 0, nil},
		{"2c,5c,2h,5h,6d", 0, 0, 5, []int{5, 2}},
		{"11c,11d,4h,4s,8c,8d", 0, 0, 11, []int{11, 8}},
		{"2c,3c,4h,5h,6d", 0, 0, 0, nil},
	}

	for _, test := range tests {
		t.Run(test.cards, func(t *testing.T) {
			h := analyze(5, test.cards)

			quads, ok := h.GetFourOfAKind()
			assert.Equal(t, test.quads > 0, ok)
			assert.Equal(t, test.quads, quads)

			trips, ok := h.GetThreeOfAKind()
			assert.Equal(t, test.trips > 0, ok)
			assert.Equal(t, test.trips, trips)

			pair, ok := h.GetPair()
			assert.Equal(t, test.pair > 0, ok)
			assert.Equal(t, test.pair, pair)

			two, ok := h.GetTwoPair()
			assert.Equal(t, test.two != nil, ok)
			assert.Equal(t, test.two, two)
		})
	}
}

func TestHandAnalyzer_GetFullHouse(t *testing.T) {
	tests := []struct {
		name     string
		cards    string
		expected []int
	}{
		{"trips over a pair", "9c,9d,9h,4s,4c", []int{9, 4}},
		{"best trips and best pair", "14c,2c,14d,5c,14h,2d,5h", []int{14, 5}},
		{"two sets of trips", "6c,6d,6h,10c,10d,10h,2c", []int{10, 6}},
		{"pair beats lower trips", "6c,6d,6h,10c,10d,10h,12c,12d", []int{10, 12}},
		{"trips beat lower pair", "9c,9d,9h,8c,8d,8h,3c,3d", []int{9, 8}},
		{"trips without a pair", "6c,6d,6h,7c,8d,9h,11c", nil},
		{"three pairs", "6c,6d,7h,7c,8d,8h,11c", nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fh, ok := analyze(5, test.cards).GetFullHouse()
			assert.Equal(t, test.expected != nil, ok)
			assert.Equal(t, test.expected, fh)
		})
	}
}

func TestHandAnalyzer_GetFlush(t *testing.T) {
	fl, ok := analyze(5, "9h,3h,7h,5h,13h,7d,8d").GetFlush()
	assert.True(t, ok)
	assert.Equal(t, []int{13, 9, 7, 5, 3}, fl)

	fl, ok = analyze(3, "9h,2h,7h").GetFlush()
	assert.True(t, ok)
	assert.Equal(t, []int{9, 7, 2}, fl)

	fl, ok = analyze(5, "9h,3h,7h,5h,13s").GetFlush()
	assert.False(t, ok)
	assert.Nil(t, fl)
}

func TestHandAnalyzer_straights(t *testing.T) {
	tests := []struct {
		size     int
		cards    string
		straight int
		flush    int
		royal    bool
	}{
		{5, "6d,7d,8d,9d,10d", 10, 10, false},
		{5, "9c,10d,11h,12s,13c", 13, 0, false},
		{5, "2d,3s,4h,5c,6h,7h,8h,9h", 9, 0, false},
		{5, "3h,4h,5h,6h,7h,14s,13c", 7, 7, false},
		{5, "3d,4d,5d,2d,14d", 5, 5, false},
		{5, "3c,4d,5s,2h,14c", 5, 0, false},
		{5, "11h,12h,13h,14h,10h,9s", 14, 14, true},
		{5, "11h,12h,13h,14h,9h", 0, 0, false},
		{3, "14d,2d,3d", 3, 3, false},
		{3, "12d,13h,14s", 14, 0, false},
		{3, "12s,13s,14s,14d", 14, 14, true},
		{3, "12s,13s,14d,14h", 14, 0, false},
		{3, "13d,2d,3d", 0, 0, false},
	}

	for _, test := range tests {
		t.Run(test.cards, func(t *testing.T) {
			h := analyze(test.size, test.cards)

			s, ok := h.GetStraight()
			assert.Equal(t, test.straight > 0, ok)
			assert.Equal(t, test.straight, s)

			sf, ok := h.GetStraightFlush()
			assert.Equal(t, test.flush > 0, ok)
			assert.Equal(t, test.flush, sf)

			assert.Equal(t, test.royal, h.GetRoyalFlush())
		})
	}
}

func TestHandAnalyzer_GetHand(t *testing.T) {
	tests := []struct {
		size     int
		cards    string
		expected Category
	}{
		{5, "8s,8h,8d,8c,2h", FourOfAKind},
		{5, "8s,8h,8d,2c,2h", FullHouse},
		{5, "2d,2h,9d,10d,11s,12d,5d", Flush},
		{5, "8s,8h,8d,2c,3h", ThreeOfAKind},
		{5, "8s,8h,3d,3c,2h", TwoPair},
		{5, "8s,8h,3d,4c,2h", OnePair},
		{5, "8s,10h,3d,4c,2h", HighCard},
		{5, "9s,10h,11d,12c,13h", Straight},
		{5, "9s,10s,11s,12s,13s", StraightFlush},
		{5, "10c,11c,12c,13c,14c", RoyalFlush},
		{4, "6c,6d,6h,6s", FourOfAKind},
		{4, "6c,6d,6h,2s", ThreeOfAKind},
		{4, "10d,11c,12d,13h", Straight},
		{3, "6c,6d,6h", ThreeCardPokerThreeOfAKind},
		{3, "12d,13h,14s", ThreeCardPokerStraight},
		{3, "3s,8s,11s", Flush},
		{3, "12d,12c,3h", OnePair},
		{3, "12d,10c,3h", HighCard},
		{3, "12s,13s,14s", RoyalFlush},
	}

	for _, test := range tests {
		t.Run(test.cards, func(t *testing.T) {
			assert.Equal(t, test.expected, analyze(test.size, test.cards).GetHand())
		})
	}
}

func TestHandAnalyzer_threeCardRules(t *testing.T) {
	h := analyze(3, "6c,6d,6h")
	trips, ok := h.getThreeCardPokerThreeOfAKind()
	assert.True(t, ok)
	assert.Equal(t, 6, trips)

	_, ok = analyze(5, "6c,6d,6h,2s,9d").getThreeCardPokerThreeOfAKind()
	assert.False(t, ok)

	s, ok := analyze(3, "4s,5c,6d").getThreeCardPokerStraight()
	assert.True(t, ok)
	assert.Equal(t, 6, s)

	_, ok = analyze(5, "4s,5c,6d,7h,8s").getThreeCardPokerStraight()
	assert.False(t, ok)
}

func TestHandAnalyzer_GetKickers(t *testing.T) {
	h := analyze(5, "9c,2d,9h,13s,4c")
	assert.Equal(t, []int{13, 4, 2}, h.GetKickers(3, 9))
	assert.Equal(t, []int{13, 9}, h.GetKickers(2))
	assert.Equal(t, []int{}, h.GetKickers(0))
	assert.Equal(t, []int{}, h.GetKickers(-1))

	h = analyze(5, "")
	assert.Equal(t, []int{}, h.GetKickers(5))
	assert.Equal(t, HighCard, h.GetHand())
}

func TestHandAnalyzer_DoesNotMutateInput(t *testing.T) {
	cards := deck.CardsFromString("2c,14d,7h")
	NewHandAnalyzer(3, cards)
	assert.Equal(t, "2c,14d,7h", cards.String())
}

func BenchmarkNewHandAnalyzer(b *testing.B) {
	cards := deck.CardsFromString("3s,5s,6h,7h,11c,12c,14h")
	for i := 0; i < b.N; i++ {
		NewHandAnalyzer(5, cards).GetHand()
	}
}
