package poker

import (
	"fmt"

	"headsup-server/pkg/deck"
)

// tiebreak ranks are packed into 4 bits each, most significant first
const (
	tiebreakSlots = 5
	tiebreakBits  = 4
)

// Score is the comparable strength of a hand
// A higher category always wins. Within a category, the higher tiebreak wins.
type Score struct {
	Category Category `json:"category"`
	Tiebreak int      `json:"tiebreak"`
}

// Rank evaluates the best made hand that can be formed from the cards
// The made-hand size is the number of cards clamped between 3 and 5.
func Rank(hand deck.Hand) Score {
	size := len(hand)
	if size < 3 {
		size = 3
	} else if size > 5 {
		size = 5
	}

	h := NewHandAnalyzer(size, hand)
	return Score{
		Category: h.GetHand(),
		Tiebreak: packRanks(h.tiebreakRanks()),
	}
}

// Compare returns 1 if a beats b, -1 if b beats a, and 0 on a tie
func Compare(a, b Score) int {
	switch {
	case a.Category > b.Category:
		return 1
	case a.Category < b.Category:
		return -1
	case a.Tiebreak > b.Tiebreak:
		return 1
	case a.Tiebreak < b.Tiebreak:
		return -1
	}

	return 0
}

// Ranks returns the significant ranks of the tiebreak, highest priority first
func (s Score) Ranks() []int {
	ranks := make([]int, 0, tiebreakSlots)
	mask := 1<<tiebreakBits - 1
	for i := tiebreakSlots - 1; i >= 0; i-- {
		r := (s.Tiebreak >> (i * tiebreakBits)) & mask
		if r == 0 {
			break
		}

		ranks = append(ranks, r)
	}

	return ranks
}

func (s Score) String() string {
	return fmt.Sprintf("%s %v", s.Category, s.Ranks())
}

// tiebreakRanks returns the ranks that order two hands of the same category
// Grouped ranks come first, then kickers, each from high to low.
func (h *HandAnalyzer) tiebreakRanks() []int {
	switch h.category {
	case RoyalFlush, StraightFlush:
		return []int{h.straightFlush}
	case FourOfAKind:
		quads := h.quads[0]
		return append([]int{quads}, h.GetKickers(h.size-4, quads)...)
	case FullHouse:
		fh, _ := h.GetFullHouse()
		return fh
	case ThreeCardPokerStraight, Straight:
		return []int{h.straight}
	case Flush:
		return h.flush
	case ThreeCardPokerThreeOfAKind, ThreeOfAKind:
		trips := h.trips[0]
		return append([]int{trips}, h.GetKickers(h.size-3, trips)...)
	case TwoPair:
		high, low := h.pairs[0], h.pairs[1]
		return append([]int{high, low}, h.GetKickers(h.size-4, high, low)...)
	case OnePair:
		pair := h.pairs[0]
		return append([]int{pair}, h.GetKickers(h.size-2, pair)...)
	default:
		return h.GetKickers(h.size)
	}
}

func packRanks(ranks []int) int {
	packed := 0
	for i := 0; i < tiebreakSlots; i++ {
		packed <<= tiebreakBits
		if i < len(ranks) {
			packed |= ranks[i]
		}
	}

	return packed
}
