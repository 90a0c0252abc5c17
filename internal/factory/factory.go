// Package factory wires the server's components from the configuration.
package factory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"headsup-server/internal/config"
	"headsup-server/internal/rng"
	"headsup-server/pkg/account"
	"headsup-server/pkg/db"
	"headsup-server/pkg/ledger"
	"headsup-server/pkg/lock"
	"headsup-server/pkg/session"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	dbWaitTimeout  = 10 * time.Second
	dbWaitInterval = 500 * time.Millisecond
)

// App contains all wired application components
type App struct {
	Store    ledger.Store
	Locker   lock.Locker
	Session  *session.Session
	Accounts *account.Service

	db    *sql.DB
	redis *redis.Client
}

// New creates the store, locker and services described by cfg
// Postgres migrations are run when migrate is true.
func New(ctx context.Context, cfg config.Config, migrate bool) (*App, error) {
	app := &App{}

	store, err := app.openStore(ctx, cfg, migrate)
	if err != nil {
		return nil, err
	}
	app.Store = store

	locker, err := app.openLocker(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Locker = locker

	dealer := session.NewDeckDealer(rng.Crypto{}, cfg.Game.SharedDeck)
	sess, err := session.New(store, locker, dealer, cfg.SessionOptions())
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Session = sess
	app.Accounts = account.NewService(store, cfg.Game.StartingBalance)
	return app, nil
}

func (a *App) openStore(ctx context.Context, cfg config.Config, migrate bool) (ledger.Store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		logrus.Warn("using the in-memory ledger, nothing will be persisted")
		return ledger.NewMemory(), nil
	case config.StoragePostgres:
		waitCtx, cancel := context.WithTimeout(ctx, dbWaitTimeout)
		defer cancel()

		dbh, err := db.WaitForDB(waitCtx, cfg.PGDSN, dbWaitInterval)
		if err != nil {
			return nil, err
		}
		a.db = dbh

		if migrate {
			if err := db.Migrate(dbh, cfg.MigrationsPath); err != nil {
				_ = dbh.Close()
				return nil, fmt.Errorf("could not migrate: %w", err)
			}
		}

		return ledger.NewPostgres(dbh), nil
	}

	return nil, fmt.Errorf("unknown storage: %q", cfg.Storage)
}

func (a *App) openLocker(ctx context.Context, cfg config.Config) (lock.Locker, error) {
	if cfg.Redis.URL == "" {
		return lock.NewLocal(), nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	a.redis = client

	logrus.WithField("addr", opts.Addr).Info("using redis lobby locks")
	return lock.NewRedis(client, cfg.LockOptions()), nil
}

// Close releases the database pool and the redis client
func (a *App) Close() error {
	var errs []error
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}

	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}

	return errors.Join(errs...)
}
