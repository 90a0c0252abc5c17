package config

import (
	"os"
	"testing"
	"time"

	"headsup-server/internal/util"
	"headsup-server/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstance(t *testing.T) {
	clear1 := util.SetEnv("HEADSUP_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := util.SetEnv("HEADSUP_JWT_PRIVATE_KEY", "private2.key")
	defer clear2()
	clear3 := util.SetEnv("HEADSUP_GAME_MAX_ANTE", "50")
	defer clear3()

	config = Config{}

	a := assert.New(t)
	cfg := Instance()
	a.Equal("postgres://headsup@db:5432/headsup?sslmode=disable", cfg.PGDSN)
	a.Equal(StorageMemory, cfg.Storage)
	a.Equal("redis://localhost:6379/1", cfg.Redis.URL)
	a.Equal(30*time.Second, cfg.Redis.LockTTL)
	a.Equal(20, cfg.Redis.LockRetries)
	a.Equal("public.pem", cfg.JWT.PublicKey)
	a.Equal("private2.key", cfg.JWT.PrivateKey)
	a.Equal(3, cfg.Game.HandSize)
	a.Equal(int64(100), cfg.Game.StartingBalance)
	a.Equal(int64(50), cfg.Game.MaxAnte)
	a.Equal("debug", cfg.Log.Level)

	a.Equal(session.Options{
		HandSize:  3,
		MaxAnte:   50,
		TiePayout: session.TiePayoutRefund,
	}, cfg.SessionOptions())

	// ensure that it's only loaded once
	_ = os.Setenv("HEADSUP_JWT_PRIVATE_KEY", "private3.key")
	// ensure we aren't using a pointer
	cfg.JWT.PrivateKey = "bad"
	cfg = Instance()
	a.Equal("private2.key", cfg.JWT.PrivateKey)
}

func TestDefaults(t *testing.T) {
	clear1 := util.SetEnv("HEADSUP_CONFIG_FILE", "")
	defer clear1()

	// there's no config.yaml in this directory
	require.NoError(t, Load())
	cfg := Instance()
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, 5, cfg.Game.HandSize)
	assert.Equal(t, "double", cfg.Game.TiePayout)
	assert.Equal(t, "", cfg.Redis.URL)
	assert.Equal(t, 10*time.Second, cfg.LockOptions().TTL)
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clear1 := util.SetEnv("HEADSUP_CONFIG_FILE", "testdata/missing.yaml")
	defer clear1()

	assert.ErrorIs(t, Load(), os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage = "sqlite"
	assert.EqualError(t, cfg.Validate(), `unknown storage: "sqlite"`)

	cfg = DefaultConfig()
	cfg.Game.HandSize = 9
	assert.EqualError(t, cfg.Validate(), "hand size must be between 3 and 7, got 9")

	cfg = DefaultConfig()
	cfg.Game.TiePayout = "nothing"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Game.StartingBalance = -1
	assert.EqualError(t, cfg.Validate(), "starting balance cannot be negative")
}

func TestLoad_EnvFile(t *testing.T) {
	clear1 := util.SetEnv("HEADSUP_CONFIG_FILE", "")
	defer clear1()
	clear2 := util.SetEnv("HEADSUP_ENV_FILE", "testdata/test.env")
	defer clear2()
	clear3 := util.SetEnv("HEADSUP_LOG_FORMAT", "text")
	defer clear3()
	t.Cleanup(func() { _ = os.Unsetenv("HEADSUP_GAME_STARTING_BALANCE") })

	require.NoError(t, Load())
	cfg := Instance()
	assert.Equal(t, int64(250), cfg.Game.StartingBalance)
	// the environment wins over the env file
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_MissingExplicitEnvFile(t *testing.T) {
	clear1 := util.SetEnv("HEADSUP_ENV_FILE", "testdata/missing.env")
	defer clear1()

	assert.ErrorIs(t, Load(), os.ErrNotExist)
}
