package session

import (
	"context"

	"headsup-server/pkg/model"
)

// GetTurn returns the move and both hands for a turn
func (s *Session) GetTurn(ctx context.Context, lobbyUUID string, turn int) (*model.Turn, error) {
	move, err := s.store.GetMove(ctx, lobbyUUID, turn)
	if err != nil {
		return nil, err
	}

	playerHand, err := s.store.ReadHand(ctx, lobbyUUID, turn, model.SidePlayer)
	if err != nil {
		return nil, err
	}

	dealerHand, err := s.store.ReadHand(ctx, lobbyUUID, turn, model.SideDealer)
	if err != nil {
		return nil, err
	}

	return &model.Turn{
		PlayerMove: move,
		PlayerHand: playerHand,
		DealerHand: dealerHand,
	}, nil
}

// ListTurns returns the moves of a lobby, newest first
func (s *Session) ListTurns(ctx context.Context, lobbyUUID string, offset int64, limit int) ([]*model.PlayerMove, error) {
	return s.store.ListMoves(ctx, lobbyUUID, offset, limit)
}
