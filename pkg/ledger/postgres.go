package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"headsup-server/pkg/db"
	"headsup-server/pkg/deck"
	"headsup-server/pkg/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	pqDuplicateKeyErrorCode   pq.ErrorCode = "23505"
	pqForeignKeyErrorCode     pq.ErrorCode = "23503"
	pqInvalidTextErrorCode    pq.ErrorCode = "22P02"
	pqCheckViolationErrorCode pq.ErrorCode = "23514"
)

const playerColumns = `
players.id,
players.email,
players.display_name,
players.is_site_admin,
players.password_hash,
players.balance,
players.created,
players.updated`

const lobbyColumns = `
lobbies.uuid,
lobbies.name,
lobbies.player_id,
lobbies.status,
lobbies.turn,
lobbies.created,
lobbies.updated`

const moveColumns = `
player_moves.lobby_uuid,
player_moves.turn,
player_moves.ante,
player_moves.move_type,
player_moves.winner,
player_moves.payout,
player_moves.created,
player_moves.updated`

// Postgres is a Store backed by PostgreSQL
type Postgres struct {
	db *sql.DB
}

// NewPostgres returns a Store that uses the provided connection pool
// The caller owns the pool and is responsible for closing it.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

var _ Store = (*Postgres)(nil)

// storageError translates driver errors into model errors
// Anything unrecognized is wrapped with model.ErrStorageFailure.
func storageError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqDuplicateKeyErrorCode:
			return model.ErrDuplicateKey
		case pqForeignKeyErrorCode, pqInvalidTextErrorCode:
			return model.ErrNotFound
		case pqCheckViolationErrorCode:
			if pqErr.Constraint == "players_balance_check" {
				return model.ErrInsufficientFunds
			}
		}
	}

	return fmt.Errorf("%s: %w: %w", op, model.ErrStorageFailure, err)
}

// passthrough returns model errors as is and translates everything else
func passthrough(op string, err error) error {
	var userErr model.UserError
	if errors.As(err, &userErr) ||
		errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, model.ErrInvalidState) ||
		errors.Is(err, model.ErrDuplicateKey) ||
		errors.Is(err, model.ErrStorageFailure) {
		return err
	}

	return storageError(op, err)
}

func getPlayerByRow(row db.Scanner) (*model.Player, error) {
	var p model.Player
	if err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &p.IsSiteAdmin, &p.PasswordHash, &p.Balance, &p.Created, &p.Updated); err != nil {
		return nil, err
	}

	return &p, nil
}

func getLobbyByRow(row db.Scanner) (*model.Lobby, error) {
	var l model.Lobby
	if err := row.Scan(&l.UUID, &l.Name, &l.PlayerID, &l.Status, &l.Turn, &l.Created, &l.Updated); err != nil {
		return nil, err
	}

	return &l, nil
}

func getMoveByRow(row db.Scanner) (*model.PlayerMove, error) {
	var m model.PlayerMove
	if err := row.Scan(&m.LobbyUUID, &m.Turn, &m.Ante, &m.MoveType, &m.Winner, &m.Payout, &m.Created, &m.Updated); err != nil {
		return nil, err
	}

	return &m, nil
}

// CreatePlayer inserts a new player
func (p *Postgres) CreatePlayer(ctx context.Context, player *model.Player) (*model.Player, error) {
	const query = `
INSERT INTO players (email, display_name, is_site_admin, password_hash, balance)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + playerColumns

	row := p.db.QueryRowContext(ctx, query, player.Email, player.DisplayName, player.IsSiteAdmin, player.PasswordHash, player.Balance)
	created, err := getPlayerByRow(row)
	if err != nil {
		return nil, storageError("create player", err)
	}

	return created, nil
}

// GetPlayerByID returns player based on the ID
func (p *Postgres) GetPlayerByID(ctx context.Context, id int64) (*model.Player, error) {
	const query = `
SELECT ` + playerColumns + `
FROM players
WHERE id = $1`

	player, err := getPlayerByRow(p.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storageError("get player", err)
	}

	return player, nil
}

// GetPlayerByEmail will return a player by the email address
func (p *Postgres) GetPlayerByEmail(ctx context.Context, email string) (*model.Player, error) {
	const query = `
SELECT ` + playerColumns + `
FROM players
WHERE lower(email) = lower($1)`

	player, err := getPlayerByRow(p.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, storageError("get player by email", err)
	}

	return player, nil
}

// ListPlayers returns players ordered by ID
func (p *Postgres) ListPlayers(ctx context.Context, offset int64, limit int) ([]*model.Player, error) {
	const query = `
SELECT ` + playerColumns + `
FROM players
ORDER BY id
OFFSET $1
LIMIT $2`

	rows, err := p.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, storageError("list players", err)
	}
	defer rows.Close()

	players := make([]*model.Player, 0)
	for rows.Next() {
		player, err := getPlayerByRow(rows)
		if err != nil {
			return nil, storageError("list players", err)
		}

		players = append(players, player)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("list players", err)
	}

	return players, nil
}

// AdjustBalance adds amount to the player's balance
func (p *Postgres) AdjustBalance(ctx context.Context, playerID, amount int64) (int64, error) {
	var balance int64
	err := db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		const query = `
SELECT balance
FROM players
WHERE id = $1
FOR UPDATE`

		if err := tx.QueryRowContext(ctx, query, playerID).Scan(&balance); err != nil {
			return err
		}

		if balance+amount < 0 {
			return model.ErrInsufficientFunds
		}

		const update = `
UPDATE players
SET balance = balance + $1, updated = (NOW() AT TIME ZONE 'utc')
WHERE id = $2
RETURNING balance`

		return tx.QueryRowContext(ctx, update, amount, playerID).Scan(&balance)
	})
	if err != nil {
		return 0, passthrough("adjust balance", err)
	}

	return balance, nil
}

// CreateLobby creates a new lobby in the waiting state
func (p *Postgres) CreateLobby(ctx context.Context, hostID int64, name string) (*model.Lobby, error) {
	const query = `
INSERT INTO lobbies (uuid, name, player_id)
VALUES ($1, $2, $3)
RETURNING ` + lobbyColumns

	row := p.db.QueryRowContext(ctx, query, uuid.New().String(), name, hostID)
	l, err := getLobbyByRow(row)
	if err != nil {
		return nil, storageError("create lobby", err)
	}

	return l, nil
}

// GetLobbyByUUID returns a lobby by its UUID
func (p *Postgres) GetLobbyByUUID(ctx context.Context, uuid string) (*model.Lobby, error) {
	const query = `
SELECT ` + lobbyColumns + `
FROM lobbies
WHERE uuid = $1`

	l, err := getLobbyByRow(p.db.QueryRowContext(ctx, query, uuid))
	if err != nil {
		return nil, storageError("get lobby", err)
	}

	return l, nil
}

// ListLobbiesByPlayer returns the player's lobbies, newest first
func (p *Postgres) ListLobbiesByPlayer(ctx context.Context, playerID int64, offset int64, limit int) ([]*model.Lobby, error) {
	const query = `
SELECT ` + lobbyColumns + `
FROM lobbies
WHERE player_id = $1
ORDER BY created DESC, uuid
OFFSET $2
LIMIT $3`

	rows, err := p.db.QueryContext(ctx, query, playerID, offset, limit)
	if err != nil {
		return nil, storageError("list lobbies", err)
	}
	defer rows.Close()

	lobbies := make([]*model.Lobby, 0)
	for rows.Next() {
		l, err := getLobbyByRow(rows)
		if err != nil {
			return nil, storageError("list lobbies", err)
		}

		lobbies = append(lobbies, l)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("list lobbies", err)
	}

	return lobbies, nil
}

// lockLobby selects the lobby row for update
func lockLobby(ctx context.Context, tx *sql.Tx, lobbyUUID string) (*model.Lobby, error) {
	const query = `
SELECT ` + lobbyColumns + `
FROM lobbies
WHERE uuid = $1
FOR UPDATE`

	return getLobbyByRow(tx.QueryRowContext(ctx, query, lobbyUUID))
}

// RecordDeal records a newly dealt turn
func (p *Postgres) RecordDeal(ctx context.Context, deal *Deal) (int64, error) {
	if err := deal.validate(); err != nil {
		return 0, err
	}

	var balance int64
	err := db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		l, err := lockLobby(ctx, tx, deal.LobbyUUID)
		if err != nil {
			return err
		}

		// a concurrent deal on the same prior turn fails here
		if !l.CanDeal() || l.Turn != deal.Turn-1 {
			return model.ErrInvalidState
		}

		const debit = `
UPDATE players
SET balance = balance - $1, updated = (NOW() AT TIME ZONE 'utc')
WHERE id = $2
  AND balance >= $1
RETURNING balance`

		if err := tx.QueryRowContext(ctx, debit, deal.Ante, l.PlayerID).Scan(&balance); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrInsufficientFunds
			}

			return err
		}

		const insertMove = `
INSERT INTO player_moves (lobby_uuid, turn, ante)
VALUES ($1, $2, $3)`

		if _, err := tx.ExecContext(ctx, insertMove, l.UUID, deal.Turn, deal.Ante); err != nil {
			return err
		}

		const insertCard = `
INSERT INTO cards_played (lobby_uuid, turn, side, position, rank, suit)
VALUES ($1, $2, $3, $4, $5, $6)`

		stmt, err := tx.PrepareContext(ctx, insertCard)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for side, hand := range deal.cards() {
			for position, card := range hand {
				if _, err := stmt.ExecContext(ctx, l.UUID, deal.Turn, side, position, card.Rank, card.Suit); err != nil {
					return err
				}
			}
		}

		const advance = `
UPDATE lobbies
SET turn = $1, status = $2, updated = (NOW() AT TIME ZONE 'utc')
WHERE uuid = $3`

		_, err = tx.ExecContext(ctx, advance, deal.Turn, model.LobbyStatusInProgress, l.UUID)
		return err
	})
	if err != nil {
		return 0, passthrough("record deal", err)
	}

	return balance, nil
}

// RecordResolution settles a dealt turn
func (p *Postgres) RecordResolution(ctx context.Context, res *Resolution) (int64, error) {
	if err := res.validate(); err != nil {
		return 0, err
	}

	var balance int64
	err := db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		l, err := lockLobby(ctx, tx, res.LobbyUUID)
		if err != nil {
			return err
		}

		const settle = `
UPDATE player_moves
SET move_type = $1, winner = $2, payout = $3, updated = (NOW() AT TIME ZONE 'utc')
WHERE lobby_uuid = $4
  AND turn = $5
  AND move_type = 'none'`

		result, err := tx.ExecContext(ctx, settle, res.MoveType, res.Winner, res.Payout, l.UUID, res.Turn)
		if err != nil {
			return err
		}

		if n, err := result.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			// distinguish a missing turn from one that was already resolved
			var exists bool
			const query = `SELECT EXISTS(SELECT 1 FROM player_moves WHERE lobby_uuid = $1 AND turn = $2)`
			if err := tx.QueryRowContext(ctx, query, l.UUID, res.Turn).Scan(&exists); err != nil {
				return err
			}

			if exists {
				return model.ErrInvalidState
			}

			return model.ErrNotFound
		}

		const credit = `
UPDATE players
SET balance = balance + $1, updated = (NOW() AT TIME ZONE 'utc')
WHERE id = $2
RETURNING balance`

		if err := tx.QueryRowContext(ctx, credit, res.Payout, l.PlayerID).Scan(&balance); err != nil {
			return err
		}

		const release = `
UPDATE lobbies
SET status = $1, updated = (NOW() AT TIME ZONE 'utc')
WHERE uuid = $2`

		_, err = tx.ExecContext(ctx, release, model.LobbyStatusWaiting, l.UUID)
		return err
	})
	if err != nil {
		return 0, passthrough("record resolution", err)
	}

	return balance, nil
}

// GetMove returns the move for a turn
func (p *Postgres) GetMove(ctx context.Context, lobbyUUID string, turn int) (*model.PlayerMove, error) {
	const query = `
SELECT ` + moveColumns + `
FROM player_moves
WHERE lobby_uuid = $1
  AND turn = $2`

	move, err := getMoveByRow(p.db.QueryRowContext(ctx, query, lobbyUUID, turn))
	if err != nil {
		return nil, storageError("get move", err)
	}

	return move, nil
}

// ListMoves returns the moves for a lobby, newest turn first
func (p *Postgres) ListMoves(ctx context.Context, lobbyUUID string, offset int64, limit int) ([]*model.PlayerMove, error) {
	const query = `
SELECT ` + moveColumns + `
FROM player_moves
WHERE lobby_uuid = $1
ORDER BY turn DESC
OFFSET $2
LIMIT $3`

	rows, err := p.db.QueryContext(ctx, query, lobbyUUID, offset, limit)
	if err != nil {
		if storageError("list moves", err) == model.ErrNotFound {
			return []*model.PlayerMove{}, nil
		}

		return nil, storageError("list moves", err)
	}
	defer rows.Close()

	moves := make([]*model.PlayerMove, 0)
	for rows.Next() {
		move, err := getMoveByRow(rows)
		if err != nil {
			return nil, storageError("list moves", err)
		}

		moves = append(moves, move)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("list moves", err)
	}

	return moves, nil
}

// ReadHand returns the cards dealt to a side, ordered by position
func (p *Postgres) ReadHand(ctx context.Context, lobbyUUID string, turn int, side model.Side) (deck.Hand, error) {
	const query = `
SELECT rank, suit
FROM cards_played
WHERE lobby_uuid = $1
  AND turn = $2
  AND side = $3
ORDER BY position`

	rows, err := p.db.QueryContext(ctx, query, lobbyUUID, turn, side)
	if err != nil {
		return nil, storageError("read hand", err)
	}
	defer rows.Close()

	hand := make(deck.Hand, 0)
	for rows.Next() {
		var card deck.Card
		if err := rows.Scan(&card.Rank, &card.Suit); err != nil {
			return nil, storageError("read hand", err)
		}

		hand = append(hand, card)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("read hand", err)
	}

	if len(hand) == 0 {
		return nil, model.ErrNotFound
	}

	return hand, nil
}
