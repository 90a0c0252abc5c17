// Package ledger persists players, lobbies, and the per-turn record of
// every deal and resolution.
package ledger

import (
	"context"

	"headsup-server/pkg/deck"
	"headsup-server/pkg/model"
)

// Store is the persistence boundary for the game
// Every mutating method is all-or-nothing: on error, nothing is visible.
type Store interface {
	// CreatePlayer inserts a new player and returns it with its ID and timestamps set
	// Returns model.ErrDuplicateKey if the email is taken
	CreatePlayer(ctx context.Context, player *model.Player) (*model.Player, error)
	GetPlayerByID(ctx context.Context, id int64) (*model.Player, error)
	// GetPlayerByEmail does a case-insensitive lookup
	GetPlayerByEmail(ctx context.Context, email string) (*model.Player, error)
	ListPlayers(ctx context.Context, offset int64, limit int) ([]*model.Player, error)
	// AdjustBalance adds amount (which may be negative) to the player's balance
	// Returns model.ErrInsufficientFunds if the balance would go negative
	AdjustBalance(ctx context.Context, playerID, amount int64) (int64, error)

	// CreateLobby returns model.ErrNotFound if the host doesn't exist
	// and model.ErrDuplicateKey if the name is taken
	CreateLobby(ctx context.Context, hostID int64, name string) (*model.Lobby, error)
	GetLobbyByUUID(ctx context.Context, uuid string) (*model.Lobby, error)
	ListLobbiesByPlayer(ctx context.Context, playerID int64, offset int64, limit int) ([]*model.Lobby, error)

	// RecordDeal debits the ante, records the move and both hands, and advances the lobby
	// It returns the host's new balance.
	RecordDeal(ctx context.Context, deal *Deal) (int64, error)
	// RecordResolution settles an unresolved turn and returns the host's new balance
	RecordResolution(ctx context.Context, res *Resolution) (int64, error)

	GetMove(ctx context.Context, lobbyUUID string, turn int) (*model.PlayerMove, error)
	ListMoves(ctx context.Context, lobbyUUID string, offset int64, limit int) ([]*model.PlayerMove, error)
	// ReadHand returns the cards dealt to side, ordered by position
	ReadHand(ctx context.Context, lobbyUUID string, turn int, side model.Side) (deck.Hand, error)
}

// Deal is everything needed to record a newly dealt turn
type Deal struct {
	LobbyUUID  string
	Turn       int
	Ante       int64
	PlayerHand deck.Hand
	DealerHand deck.Hand
}

func (d *Deal) validate() error {
	if d.Turn < 1 {
		return model.UserError("turn must be at least 1")
	}

	if d.Ante <= 0 {
		return model.UserError("ante must be greater than zero")
	}

	if len(d.PlayerHand) == 0 || len(d.PlayerHand) != len(d.DealerHand) {
		return model.UserError("both sides must be dealt the same number of cards")
	}

	return nil
}

// cards returns every card in the deal keyed by side
func (d *Deal) cards() map[model.Side]deck.Hand {
	return map[model.Side]deck.Hand{
		model.SidePlayer: d.PlayerHand,
		model.SideDealer: d.DealerHand,
	}
}

// Resolution is the settlement of a dealt turn
type Resolution struct {
	LobbyUUID string
	Turn      int
	MoveType  model.MoveType
	Winner    model.Winner
	Payout    int64
}

func (r *Resolution) validate() error {
	if r.MoveType != model.MoveTypePlay && r.MoveType != model.MoveTypeFold {
		return model.UserError("a resolution must play or fold")
	}

	if r.Winner == model.WinnerNone {
		return model.UserError("a resolution must have a winner")
	}

	if r.Payout < 0 {
		return model.UserError("payout cannot be negative")
	}

	return nil
}
