package session

import (
	"context"
	"errors"
	"fmt"

	"headsup-server/pkg/deck"
	"headsup-server/pkg/ledger"
	"headsup-server/pkg/model"

	"github.com/sirupsen/logrus"
)

// DealResult is a newly dealt turn
type DealResult struct {
	Lobby      *model.Lobby `json:"lobby"`
	Turn       int          `json:"turn"`
	Ante       int64        `json:"ante"`
	PlayerHand deck.Hand    `json:"playerHand"`
	DealerHand deck.Hand    `json:"dealerHand"`
	Balance    int64        `json:"balance"`
}

// Deal debits the ante and deals the next turn
// If the host cannot afford the ante, a *model.InsufficientFundsError is returned
// and nothing changes.
func (s *Session) Deal(ctx context.Context, lobbyUUID string, ante int64) (*DealResult, error) {
	if ante <= 0 {
		return nil, ErrInvalidAnte
	}

	if s.opts.MaxAnte > 0 && ante > s.opts.MaxAnte {
		return nil, model.UserError(fmt.Sprintf("ante cannot exceed %d", s.opts.MaxAnte))
	}

	unlock, err := s.lock(ctx, lobbyUUID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	lobby, err := s.store.GetLobbyByUUID(ctx, lobbyUUID)
	if err != nil {
		return nil, err
	}

	if !lobby.CanDeal() {
		return nil, fmt.Errorf("%w: turn %d has not been resolved", model.ErrInvalidState, lobby.Turn)
	}

	host, err := s.store.GetPlayerByID(ctx, lobby.PlayerID)
	if err != nil {
		return nil, err
	}

	if !host.CanAfford(ante) {
		return nil, &model.InsufficientFundsError{Balance: host.Balance, Ante: ante}
	}

	playerHand, dealerHand := s.dealer.Deal(s.opts.HandSize)
	turn := lobby.Turn + 1

	balance, err := s.store.RecordDeal(ctx, &ledger.Deal{
		LobbyUUID:  lobby.UUID,
		Turn:       turn,
		Ante:       ante,
		PlayerHand: playerHand,
		DealerHand: dealerHand,
	})
	if err != nil {
		if errors.Is(err, model.ErrInsufficientFunds) {
			// the balance changed after it was read
			return nil, s.insufficientFunds(ctx, host, ante)
		}

		return nil, err
	}

	lobby.Turn = turn
	lobby.Status = model.LobbyStatusInProgress

	logrus.WithFields(logrus.Fields{
		"lobby":   lobby.UUID,
		"turn":    turn,
		"ante":    ante,
		"balance": balance,
	}).Info("dealt turn")

	return &DealResult{
		Lobby:      lobby,
		Turn:       turn,
		Ante:       ante,
		PlayerHand: playerHand,
		DealerHand: dealerHand,
		Balance:    balance,
	}, nil
}

func (s *Session) insufficientFunds(ctx context.Context, host *model.Player, ante int64) error {
	balance := host.Balance
	if p, err := s.store.GetPlayerByID(ctx, host.ID); err == nil {
		balance = p.Balance
	}

	return &model.InsufficientFundsError{Balance: balance, Ante: ante}
}
