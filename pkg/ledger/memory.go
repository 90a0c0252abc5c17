package ledger

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"headsup-server/pkg/deck"
	"headsup-server/pkg/model"

	"github.com/google/uuid"
)

type moveKey struct {
	lobbyUUID string
	turn      int
}

type handKey struct {
	moveKey
	side model.Side
}

// Memory is an in-memory Store
// Each mutation validates everything before it applies anything, so a failed
// call never leaves a partial write behind.
type Memory struct {
	mu sync.RWMutex

	lastPlayerID int64
	players      map[int64]*model.Player
	emailIndex   map[string]int64
	lobbies      map[string]*model.Lobby
	lobbyOrder   []string
	nameIndex    map[string]string
	moves        map[moveKey]*model.PlayerMove
	hands        map[handKey]deck.Hand

	now func() time.Time
}

// NewMemory returns an empty in-memory Store
func NewMemory() *Memory {
	return &Memory{
		players:    make(map[int64]*model.Player),
		emailIndex: make(map[string]int64),
		lobbies:    make(map[string]*model.Lobby),
		nameIndex:  make(map[string]string),
		moves:      make(map[moveKey]*model.PlayerMove),
		hands:      make(map[handKey]deck.Hand),
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

var _ Store = (*Memory)(nil)

// CreatePlayer inserts a new player
func (m *Memory) CreatePlayer(ctx context.Context, player *model.Player) (*model.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(player.Email)
	if _, ok := m.emailIndex[email]; ok {
		return nil, model.ErrDuplicateKey
	}

	if player.Balance < 0 {
		return nil, model.ErrInsufficientFunds
	}

	m.lastPlayerID++
	now := m.now()

	p := *player
	p.ID = m.lastPlayerID
	p.Created = now
	p.Updated = now

	m.players[p.ID] = &p
	m.emailIndex[email] = p.ID

	cp := p
	return &cp, nil
}

// GetPlayerByID returns a player by its ID
func (m *Memory) GetPlayerByID(ctx context.Context, id int64) (*model.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.players[id]
	if !ok {
		return nil, model.ErrNotFound
	}

	cp := *p
	return &cp, nil
}

// GetPlayerByEmail returns a player by email address
func (m *Memory) GetPlayerByEmail(ctx context.Context, email string) (*model.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emailIndex[strings.ToLower(email)]
	if !ok {
		return nil, model.ErrNotFound
	}

	cp := *m.players[id]
	return &cp, nil
}

// ListPlayers returns players ordered by ID
func (m *Memory) ListPlayers(ctx context.Context, offset int64, limit int) ([]*model.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.players))
	for id := range m.players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	start, end := page(len(ids), offset, limit)
	players := make([]*model.Player, 0, end-start)
	for _, id := range ids[start:end] {
		cp := *m.players[id]
		players = append(players, &cp)
	}

	return players, nil
}

// AdjustBalance adds amount to the player's balance
func (m *Memory) AdjustBalance(ctx context.Context, playerID, amount int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[playerID]
	if !ok {
		return 0, model.ErrNotFound
	}

	if p.Balance+amount < 0 {
		return 0, model.ErrInsufficientFunds
	}

	p.Balance += amount
	p.Updated = m.now()
	return p.Balance, nil
}

// CreateLobby creates a new lobby in the waiting state
func (m *Memory) CreateLobby(ctx context.Context, hostID int64, name string) (*model.Lobby, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.players[hostID]; !ok {
		return nil, model.ErrNotFound
	}

	if _, ok := m.nameIndex[name]; ok {
		return nil, model.ErrDuplicateKey
	}

	now := m.now()
	l := &model.Lobby{
		UUID:     uuid.New().String(),
		Name:     name,
		PlayerID: hostID,
		Status:   model.LobbyStatusWaiting,
		Turn:     0,
		Created:  now,
		Updated:  now,
	}

	m.lobbies[l.UUID] = l
	m.lobbyOrder = append(m.lobbyOrder, l.UUID)
	m.nameIndex[name] = l.UUID

	cp := *l
	return &cp, nil
}

// GetLobbyByUUID returns a lobby
func (m *Memory) GetLobbyByUUID(ctx context.Context, uuid string) (*model.Lobby, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.lobbies[uuid]
	if !ok {
		return nil, model.ErrNotFound
	}

	cp := *l
	return &cp, nil
}

// ListLobbiesByPlayer returns the player's lobbies, newest first
func (m *Memory) ListLobbiesByPlayer(ctx context.Context, playerID int64, offset int64, limit int) ([]*model.Lobby, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	owned := make([]*model.Lobby, 0)
	for i := len(m.lobbyOrder) - 1; i >= 0; i-- {
		l := m.lobbies[m.lobbyOrder[i]]
		if l.PlayerID == playerID {
			owned = append(owned, l)
		}
	}

	start, end := page(len(owned), offset, limit)
	lobbies := make([]*model.Lobby, 0, end-start)
	for _, l := range owned[start:end] {
		cp := *l
		lobbies = append(lobbies, &cp)
	}

	return lobbies, nil
}

// RecordDeal records a newly dealt turn
func (m *Memory) RecordDeal(ctx context.Context, deal *Deal) (int64, error) {
	if err := deal.validate(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.lobbies[deal.LobbyUUID]
	if !ok {
		return 0, model.ErrNotFound
	}

	if !l.CanDeal() || l.Turn != deal.Turn-1 {
		return 0, model.ErrInvalidState
	}

	p, ok := m.players[l.PlayerID]
	if !ok {
		return 0, model.ErrNotFound
	}

	if !p.CanAfford(deal.Ante) {
		return 0, model.ErrInsufficientFunds
	}

	now := m.now()
	p.Balance -= deal.Ante
	p.Updated = now

	key := moveKey{lobbyUUID: l.UUID, turn: deal.Turn}
	m.moves[key] = &model.PlayerMove{
		LobbyUUID: l.UUID,
		Turn:      deal.Turn,
		Ante:      deal.Ante,
		MoveType:  model.MoveTypeNone,
		Winner:    model.WinnerNone,
		Created:   now,
		Updated:   now,
	}

	for side, hand := range deal.cards() {
		m.hands[handKey{moveKey: key, side: side}] = hand.Clone()
	}

	l.Turn = deal.Turn
	l.Status = model.LobbyStatusInProgress
	l.Updated = now

	return p.Balance, nil
}

// RecordResolution settles a dealt turn
func (m *Memory) RecordResolution(ctx context.Context, res *Resolution) (int64, error) {
	if err := res.validate(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.lobbies[res.LobbyUUID]
	if !ok {
		return 0, model.ErrNotFound
	}

	move, ok := m.moves[moveKey{lobbyUUID: res.LobbyUUID, turn: res.Turn}]
	if !ok {
		return 0, model.ErrNotFound
	}

	if move.IsResolved() {
		return 0, model.ErrInvalidState
	}

	p, ok := m.players[l.PlayerID]
	if !ok {
		return 0, model.ErrNotFound
	}

	now := m.now()
	move.MoveType = res.MoveType
	move.Winner = res.Winner
	move.Payout = res.Payout
	move.Updated = now

	p.Balance += res.Payout
	p.Updated = now

	l.Status = model.LobbyStatusWaiting
	l.Updated = now

	return p.Balance, nil
}

// GetMove returns the move for a turn
func (m *Memory) GetMove(ctx context.Context, lobbyUUID string, turn int) (*model.PlayerMove, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	move, ok := m.moves[moveKey{lobbyUUID: lobbyUUID, turn: turn}]
	if !ok {
		return nil, model.ErrNotFound
	}

	cp := *move
	return &cp, nil
}

// ListMoves returns the moves for a lobby, newest turn first
func (m *Memory) ListMoves(ctx context.Context, lobbyUUID string, offset int64, limit int) ([]*model.PlayerMove, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.lobbies[lobbyUUID]
	if !ok {
		return []*model.PlayerMove{}, nil
	}

	all := make([]*model.PlayerMove, 0, l.Turn)
	for turn := l.Turn; turn > 0; turn-- {
		if move, ok := m.moves[moveKey{lobbyUUID: lobbyUUID, turn: turn}]; ok {
			all = append(all, move)
		}
	}

	start, end := page(len(all), offset, limit)
	moves := make([]*model.PlayerMove, 0, end-start)
	for _, move := range all[start:end] {
		cp := *move
		moves = append(moves, &cp)
	}

	return moves, nil
}

// ReadHand returns the cards dealt to a side
func (m *Memory) ReadHand(ctx context.Context, lobbyUUID string, turn int, side model.Side) (deck.Hand, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hand, ok := m.hands[handKey{moveKey: moveKey{lobbyUUID: lobbyUUID, turn: turn}, side: side}]
	if !ok || len(hand) == 0 {
		return nil, model.ErrNotFound
	}

	return hand.Clone(), nil
}

// page converts an offset and limit into slice bounds
func page(n int, offset int64, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}

	start := int(offset)
	if start > n {
		start = n
	}

	end := n
	if limit >= 0 && start+limit < n {
		end = start + limit
	}

	return start, end
}
