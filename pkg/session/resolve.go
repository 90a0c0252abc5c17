package session

import (
	"context"
	"fmt"

	"headsup-server/pkg/deck"
	"headsup-server/pkg/ledger"
	"headsup-server/pkg/model"
	"headsup-server/pkg/poker"

	"github.com/sirupsen/logrus"
)

// Outcome is the result of a resolved turn from the player's point of view
type Outcome string

// Outcome constants
const (
	OutcomePlayerWin Outcome = "player_win"
	OutcomeDealerWin Outcome = "dealer_win"
	OutcomeTie       Outcome = "tie"
	OutcomeFold      Outcome = "fold"
)

// winner maps the outcome to what the ledger records
func (o Outcome) winner() model.Winner {
	switch o {
	case OutcomePlayerWin:
		return model.WinnerPlayer
	case OutcomeDealerWin:
		return model.WinnerDealer
	case OutcomeTie:
		return model.WinnerTie
	case OutcomeFold:
		return model.WinnerFold
	}

	panic(fmt.Sprintf("unknown outcome: %s", o))
}

// ResolveResult is a settled turn
// The scores are only set when the turn was played.
type ResolveResult struct {
	LobbyUUID   string       `json:"lobbyUuid"`
	Turn        int          `json:"turn"`
	Ante        int64        `json:"ante"`
	Outcome     Outcome      `json:"outcome"`
	Winner      model.Winner `json:"winner"`
	PlayerHand  deck.Hand    `json:"playerHand"`
	DealerHand  deck.Hand    `json:"dealerHand"`
	PlayerScore *poker.Score `json:"playerScore,omitempty"`
	DealerScore *poker.Score `json:"dealerScore,omitempty"`
	Payout      int64        `json:"payout"`
	Balance     int64        `json:"balance"`
}

// ResolvePlay compares both hands and settles the turn
func (s *Session) ResolvePlay(ctx context.Context, lobbyUUID string, turn int) (*ResolveResult, error) {
	return s.resolve(ctx, lobbyUUID, turn, model.MoveTypePlay)
}

// ResolveFold gives up the turn without changing the balance
func (s *Session) ResolveFold(ctx context.Context, lobbyUUID string, turn int) (*ResolveResult, error) {
	return s.resolve(ctx, lobbyUUID, turn, model.MoveTypeFold)
}

func (s *Session) resolve(ctx context.Context, lobbyUUID string, turn int, moveType model.MoveType) (*ResolveResult, error) {
	unlock, err := s.lock(ctx, lobbyUUID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	move, err := s.store.GetMove(ctx, lobbyUUID, turn)
	if err != nil {
		return nil, err
	}

	if move.IsResolved() {
		return nil, fmt.Errorf("%w: turn %d was already resolved", model.ErrInvalidState, turn)
	}

	playerHand, err := s.store.ReadHand(ctx, lobbyUUID, turn, model.SidePlayer)
	if err != nil {
		return nil, err
	}

	dealerHand, err := s.store.ReadHand(ctx, lobbyUUID, turn, model.SideDealer)
	if err != nil {
		return nil, err
	}

	result := &ResolveResult{
		LobbyUUID:  lobbyUUID,
		Turn:       turn,
		Ante:       move.Ante,
		Outcome:    OutcomeFold,
		PlayerHand: playerHand,
		DealerHand: dealerHand,
	}

	if moveType == model.MoveTypePlay {
		playerScore := poker.Rank(playerHand)
		dealerScore := poker.Rank(dealerHand)
		result.PlayerScore = &playerScore
		result.DealerScore = &dealerScore
		result.Outcome = compare(playerScore, dealerScore)
	}

	result.Winner = result.Outcome.winner()
	result.Payout = s.opts.payout(result.Outcome, move.Ante)

	balance, err := s.store.RecordResolution(ctx, &ledger.Resolution{
		LobbyUUID: lobbyUUID,
		Turn:      turn,
		MoveType:  moveType,
		Winner:    result.Winner,
		Payout:    result.Payout,
	})
	if err != nil {
		return nil, err
	}

	result.Balance = balance

	logrus.WithFields(logrus.Fields{
		"lobby":   lobbyUUID,
		"turn":    turn,
		"outcome": result.Outcome,
		"payout":  result.Payout,
		"balance": balance,
	}).Info("resolved turn")

	return result, nil
}

func compare(player, dealer poker.Score) Outcome {
	switch poker.Compare(player, dealer) {
	case 1:
		return OutcomePlayerWin
	case -1:
		return OutcomeDealerWin
	default:
		return OutcomeTie
	}
}
