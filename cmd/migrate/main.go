package main

import (
	"context"
	"time"

	"headsup-server/internal/config"
	"headsup-server/pkg/db"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Instance()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	dbh, err := db.WaitForDB(ctx, cfg.PGDSN, time.Millisecond*500)
	if err != nil {
		logrus.WithError(err).Fatal("could not connect to database")
	}
	defer dbh.Close()

	if err := db.Migrate(dbh, cfg.MigrationsPath); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}

	logrus.Info("migrations complete")
}
