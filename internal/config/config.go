package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"headsup-server/pkg/lock"
	"headsup-server/pkg/session"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const defaultConfigFile = "config.yaml"
const defaultEnvFile = ".env"

// storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config provides configuration for the heads-up server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	Storage        string `yaml:"storage" envconfig:"storage"`
	Redis          struct {
		URL         string        `yaml:"url" envconfig:"url"`
		LockTTL     time.Duration `yaml:"lockTtl" envconfig:"lock_ttl"`
		LockRetries int           `yaml:"lockRetries" envconfig:"lock_retries"`
		LockBackoff time.Duration `yaml:"lockBackoff" envconfig:"lock_backoff"`
	} `yaml:"redis"`
	JWT struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	} `yaml:"jwt"`
	Game struct {
		HandSize        int    `yaml:"handSize" envconfig:"hand_size"`
		StartingBalance int64  `yaml:"startingBalance" envconfig:"starting_balance"`
		MaxAnte         int64  `yaml:"maxAnte" envconfig:"max_ante"`
		TiePayout       string `yaml:"tiePayout" envconfig:"tie_payout"`
		SharedDeck      bool   `yaml:"sharedDeck" envconfig:"shared_deck"`
	} `yaml:"game"`
	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		Format            string `yaml:"format" envconfig:"format"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	var cfg Config
	cfg.PGDSN = "postgres://postgres@localhost:5432/postgres?sslmode=disable"
	cfg.MigrationsPath = "./sql"
	cfg.Storage = StoragePostgres
	cfg.Redis.LockTTL = 10 * time.Second
	cfg.Redis.LockRetries = 20
	cfg.Redis.LockBackoff = 50 * time.Millisecond
	cfg.JWT.PublicKey = "public.pem"
	cfg.JWT.PrivateKey = "private.key"

	opts := session.DefaultOptions()
	cfg.Game.HandSize = opts.HandSize
	cfg.Game.StartingBalance = 100
	cfg.Game.MaxAnte = opts.MaxAnte
	cfg.Game.TiePayout = string(opts.TiePayout)
	cfg.Game.SharedDeck = opts.SharedDeck

	cfg.Log.Level = "info"
	cfg.Log.Format = "text"

	return cfg
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// Defaults are overlaid by the YAML file, which is overlaid by HEADSUP_* environment variables.
// Environment variables may also come from a dotenv file.
// A missing config.yaml is fine, but a missing file named by HEADSUP_CONFIG_FILE is not.
func Load() error {
	if err := loadEnvFile(); err != nil {
		return err
	}

	configFile, explicit := os.LookupEnv("HEADSUP_CONFIG_FILE")
	if !explicit || configFile == "" {
		configFile = defaultConfigFile
		explicit = false
	}

	cfg := DefaultConfig()
	if err := decodeFile(configFile, &cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return err
		}
	}

	if err := envconfig.Process("headsup", &cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}

// loadEnvFile exports the variables in HEADSUP_ENV_FILE (default .env)
// Variables that are already set are not overwritten.
func loadEnvFile() error {
	envFile, explicit := os.LookupEnv("HEADSUP_ENV_FILE")
	if !explicit || envFile == "" {
		envFile = defaultEnvFile
		explicit = false
	}

	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}

		return fmt.Errorf("could not load %s: %w", envFile, err)
	}

	return nil
}

func decodeFile(configFile string, cfg *Config) error {
	file, err := os.Open(configFile)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("could not decode %s: %w", configFile, err)
	}

	return nil
}

// Validate checks the values that can't be fixed at runtime
func (c Config) Validate() error {
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("unknown storage: %q", c.Storage)
	}

	if c.Game.StartingBalance < 0 {
		return errors.New("starting balance cannot be negative")
	}

	return c.SessionOptions().Validate()
}

// SessionOptions returns the house rules
func (c Config) SessionOptions() session.Options {
	return session.Options{
		HandSize:   c.Game.HandSize,
		MaxAnte:    c.Game.MaxAnte,
		TiePayout:  session.TiePayout(c.Game.TiePayout),
		SharedDeck: c.Game.SharedDeck,
	}
}

// LockOptions returns the options for the Redis lobby lock
func (c Config) LockOptions() lock.RedisOptions {
	return lock.RedisOptions{
		TTL:     c.Redis.LockTTL,
		Retries: c.Redis.LockRetries,
		Backoff: c.Redis.LockBackoff,
	}
}
