package mux

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"headsup-server/internal/jwt"
	"headsup-server/internal/util"
	"headsup-server/pkg/account"
	"headsup-server/pkg/deck"
	"headsup-server/pkg/ledger"
	"headsup-server/pkg/lock"
	"headsup-server/pkg/model"
	"headsup-server/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cbg = context.Background()

func Test_parsePaginationOptions(t *testing.T) {
	req := func(queryString string) *http.Request {
		req, _ := http.NewRequest(http.MethodGet, "https://example.domain/"+queryString, nil)
		return req
	}

	start, rows, err := parsePaginationOptions(req(""))
	assert.NoError(t, err)
	assert.Equal(t, int64(0), start)
	assert.Equal(t, defaultRows, rows)

	start, rows, err = parsePaginationOptions(req("?start=10&rows=25"))
	assert.NoError(t, err)
	assert.Equal(t, int64(10), start)
	assert.Equal(t, 25, rows)

	start, rows, err = parsePaginationOptions(req("?start=-1&rows=25"))
	assert.EqualError(t, err, "start cannot be less than zero")
	assert.Equal(t, int64(0), start)
	assert.Equal(t, 0, rows)

	start, rows, err = parsePaginationOptions(req("?start=0&rows=0"))
	assert.EqualError(t, err, "rows must be greater than zero")
	assert.Equal(t, int64(0), start)
	assert.Equal(t, 0, rows)

	start, rows, err = parsePaginationOptions(req(fmt.Sprintf("?start=0&rows=%d", maxRows+1)))
	assert.EqualError(t, err, fmt.Sprintf("rows cannot be greater than %d", maxRows))
	assert.Equal(t, int64(0), start)
	assert.Equal(t, 0, rows)
}

// fixedDealer always deals the same hands
type fixedDealer struct {
	player deck.Hand
	dealer deck.Hand
}

func (f *fixedDealer) Deal(handSize int) (deck.Hand, deck.Hand) {
	return f.player.Clone(), f.dealer.Clone()
}

type testEnv struct {
	store  *ledger.Memory
	dealer *fixedDealer
	mux    *Mux
	ts     *httptest.Server
}

// newTestEnv returns a server backed by the memory ledger
// The player is dealt a pair of aces, the dealer a pair of kings.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	require.NoError(t, jwt.LoadKeys("../jwt/testdata/public.pem", "../jwt/testdata/private.key"))

	store := ledger.NewMemory()
	dealer := &fixedDealer{
		player: deck.CardsFromString("14s,14h,13d,5c,2c"),
		dealer: deck.CardsFromString("13s,13h,12d,5d,2d"),
	}

	sess, err := session.New(store, lock.NewLocal(), dealer, session.DefaultOptions())
	require.NoError(t, err)

	m := NewMux("v1.2.3", sess, account.NewService(store, 100))
	ts := httptest.NewServer(m)
	t.Cleanup(ts.Close)

	return &testEnv{
		store:  store,
		dealer: dealer,
		mux:    m,
		ts:     ts,
	}
}

// player creates a player without a password and returns it with a signed JWT
func (e *testEnv) player(t *testing.T, balance int64) (*model.Player, string) {
	t.Helper()

	p, err := e.store.CreatePlayer(cbg, &model.Player{
		Email:       util.RandomEmail(),
		DisplayName: util.GetRandomName(),
		Balance:     balance,
	})
	require.NoError(t, err)

	signed, err := jwt.Sign(p.ID)
	require.NoError(t, err)

	return p, signed
}

func (e *testEnv) admin(t *testing.T) (*model.Player, string) {
	t.Helper()

	p, err := e.store.CreatePlayer(cbg, &model.Player{
		Email:       util.RandomEmail(),
		DisplayName: "Admin",
		IsSiteAdmin: true,
	})
	require.NoError(t, err)

	signed, err := jwt.Sign(p.ID)
	require.NoError(t, err)

	return p, signed
}

func assertDo(t *testing.T, req *http.Request, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	if len(signedJWT) > 0 {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", signedJWT[0]))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Error(err)
		return nil
	}
	defer resp.Body.Close()

	if statusCode != resp.StatusCode {
		b, _ := io.ReadAll(resp.Body)
		t.Log(string(b))
		assert.Equal(t, statusCode, resp.StatusCode)
		return nil
	}

	if respObj != nil {
		if err := json.NewDecoder(resp.Body).Decode(respObj); err != nil {
			t.Error(err)
			return nil
		}
	}

	return resp
}

func assertGetWithResp(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Error(err)
		return nil
	}

	return assertDo(t, req, respObj, statusCode, signedJWT...)
}

func assertGet(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, signedJWT ...string) {
	t.Helper()
	assertGetWithResp(t, ts, path, respObj, statusCode, signedJWT...)
}

func assertPostWithResp(t *testing.T, ts *httptest.Server, path string, payload interface{}, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	var body io.Reader
	switch val := payload.(type) {
	case string:
		body = strings.NewReader(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			t.Error(err)
			return nil
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+path, body)
	if err != nil {
		t.Error(err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	return assertDo(t, req, respObj, statusCode, signedJWT...)
}

func assertPost(t *testing.T, ts *httptest.Server, path string, payload interface{}, respObj interface{}, statusCode int, signedJWT ...string) {
	t.Helper()
	assertPostWithResp(t, ts, path, payload, respObj, statusCode, signedJWT...)
}
