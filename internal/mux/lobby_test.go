package mux

import (
	"fmt"
	"testing"

	"headsup-server/pkg/model"
	"headsup-server/pkg/poker"
	"headsup-server/pkg/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createLobby(t *testing.T, env *testEnv, name, token string) *model.Lobby {
	t.Helper()

	var lobby model.Lobby
	assertPost(t, env.ts, "/lobby", lobbyPayload{Name: name}, &lobby, 201, token)
	require.NotEmpty(t, lobby.UUID)

	return &lobby
}

func Test_postLobby(t *testing.T) {
	env := newTestEnv(t)
	p, token := env.player(t, 100)

	lobby := createLobby(t, env, "High Rollers", token)
	assert.Equal(t, "High Rollers", lobby.Name)
	assert.Equal(t, p.ID, lobby.PlayerID)
	assert.Equal(t, model.LobbyStatusWaiting, lobby.Status)
	assert.Equal(t, 0, lobby.Turn)

	var errObj errorResponse
	assertPost(t, env.ts, "/lobby", lobbyPayload{Name: "High Rollers"}, &errObj, 400, token)
	assert.Equal(t, "lobby name is already taken", errObj.Message)

	errObj = errorResponse{}
	assertPost(t, env.ts, "/lobby", lobbyPayload{Name: "ab"}, &errObj, 400, token)
	assert.Equal(t, "lobby name must be between 3 and 40 characters", errObj.Message)

	assertPost(t, env.ts, "/lobby", lobbyPayload{Name: "No Auth"}, nil, 401)
}

func Test_getLobby(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.player(t, 100)
	_, otherToken := env.player(t, 100)

	for i := 0; i < 3; i++ {
		createLobby(t, env, fmt.Sprintf("Lobby %d", i), token)
	}
	createLobby(t, env, "Somebody Else", otherToken)

	var lobbies []*model.Lobby
	assertGet(t, env.ts, "/lobby", &lobbies, 200, token)
	assert.Len(t, lobbies, 3)

	lobbies = nil
	assertGet(t, env.ts, "/lobby?rows=2", &lobbies, 200, token)
	assert.Len(t, lobbies, 2)

	var errObj errorResponse
	assertGet(t, env.ts, "/lobby?rows=0", &errObj, 400, token)
	assert.Equal(t, "rows must be greater than zero", errObj.Message)
}

func Test_lobbyMiddleware(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.player(t, 100)
	_, otherToken := env.player(t, 100)

	lobby := createLobby(t, env, "Mine", token)

	var got model.Lobby
	assertGet(t, env.ts, "/lobby/"+lobby.UUID, &got, 200, token)
	assert.Equal(t, lobby.UUID, got.UUID)

	var errObj errorResponse
	assertGet(t, env.ts, "/lobby/"+lobby.UUID, &errObj, 403, otherToken)
	assert.Equal(t, "you are not the host of this lobby", errObj.Message)

	errObj = errorResponse{}
	assertGet(t, env.ts, "/lobby/"+uuid.New().String(), &errObj, 404, token)
	assert.Equal(t, "Not Found", errObj.Message)

	// not a UUID, so no route matches
	assertGet(t, env.ts, "/lobby/not-a-uuid", nil, 404, token)
}

func Test_dealAndPlay(t *testing.T) {
	env := newTestEnv(t)
	p, token := env.player(t, 100)
	lobby := createLobby(t, env, "Aces", token)
	base := "/lobby/" + lobby.UUID

	var deal session.DealResult
	assertPost(t, env.ts, base+"/deal", dealPayload{Ante: 10}, &deal, 200, token)
	assert.Equal(t, 1, deal.Turn)
	assert.Equal(t, int64(10), deal.Ante)
	assert.Equal(t, int64(90), deal.Balance)
	assert.Equal(t, env.dealer.player, deal.PlayerHand)
	assert.Equal(t, env.dealer.dealer, deal.DealerHand)

	// can't deal again until the turn is resolved
	var errObj errorResponse
	assertPost(t, env.ts, base+"/deal", dealPayload{Ante: 10}, &errObj, 409, token)
	assert.Contains(t, errObj.Message, "turn 1 has not been resolved")

	var turn model.Turn
	assertGet(t, env.ts, base+"/turn/1", &turn, 200, token)
	if assert.NotNil(t, turn.PlayerMove) {
		assert.Equal(t, model.MoveTypeNone, turn.MoveType)
	}
	assert.Equal(t, env.dealer.player, turn.PlayerHand)

	var result session.ResolveResult
	assertPost(t, env.ts, base+"/turn/1/play", "", &result, 200, token)
	assert.Equal(t, session.OutcomePlayerWin, result.Outcome)
	assert.Equal(t, model.WinnerPlayer, result.Winner)
	assert.Equal(t, int64(20), result.Payout)
	assert.Equal(t, int64(110), result.Balance)
	if assert.NotNil(t, result.PlayerScore) && assert.NotNil(t, result.DealerScore) {
		assert.Equal(t, poker.OnePair, result.PlayerScore.Category)
		assert.Equal(t, []int{14, 13, 5, 2}, result.PlayerScore.Ranks())
		assert.Equal(t, poker.OnePair, result.DealerScore.Category)
	}

	// already resolved
	errObj = errorResponse{}
	assertPost(t, env.ts, base+"/turn/1/fold", "", &errObj, 409, token)

	player, err := env.store.GetPlayerByID(cbg, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(110), player.Balance)

	var moves []*model.PlayerMove
	assertGet(t, env.ts, base+"/turn", &moves, 200, token)
	if assert.Len(t, moves, 1) {
		assert.Equal(t, model.MoveTypePlay, moves[0].MoveType)
		assert.Equal(t, model.WinnerPlayer, moves[0].Winner)
	}
}

func Test_dealAndFold(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.player(t, 100)
	lobby := createLobby(t, env, "Folders", token)
	base := "/lobby/" + lobby.UUID

	assertPost(t, env.ts, base+"/deal", dealPayload{Ante: 25}, nil, 200, token)

	var result session.ResolveResult
	assertPost(t, env.ts, base+"/turn/1/fold", "", &result, 200, token)
	assert.Equal(t, session.OutcomeFold, result.Outcome)
	assert.Equal(t, int64(0), result.Payout)
	assert.Equal(t, int64(75), result.Balance)
	assert.Nil(t, result.PlayerScore)

	var deal session.DealResult
	assertPost(t, env.ts, base+"/deal", dealPayload{Ante: 25}, &deal, 200, token)
	assert.Equal(t, 2, deal.Turn)
	assert.Equal(t, int64(50), deal.Balance)
}

func Test_deal_errors(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.player(t, 20)
	lobby := createLobby(t, env, "Broke", token)
	base := "/lobby/" + lobby.UUID

	var errObj errorResponse
	assertPost(t, env.ts, base+"/deal", dealPayload{Ante: 0}, &errObj, 400, token)
	assert.Equal(t, "ante must be greater than zero", errObj.Message)

	var funds insufficientFundsResponse
	assertPost(t, env.ts, base+"/deal", dealPayload{Ante: 50}, &funds, 400, token)
	assert.Equal(t, 400, funds.StatusCode)
	assert.Equal(t, int64(20), funds.Balance)
	assert.Equal(t, int64(50), funds.Ante)
	assert.Equal(t, "insufficient funds: an ante of 50 exceeds your balance of 20", funds.Message)

	// nothing was dealt
	errObj = errorResponse{}
	assertGet(t, env.ts, base+"/turn/1", &errObj, 404, token)
	assertPost(t, env.ts, base+"/turn/1/play", "", nil, 404, token)

	var got model.Lobby
	assertGet(t, env.ts, base, &got, 200, token)
	assert.Equal(t, 0, got.Turn)
	assert.Equal(t, model.LobbyStatusWaiting, got.Status)
}
