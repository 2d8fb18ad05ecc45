// Package migrations brings the river job tables used by the login audit
// queue up to date. The users table belongs to the StockSync API and is not
// managed here.
package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/sirupsen/logrus"
)

// Up applies every pending river migration and returns the versions applied.
func Up(ctx context.Context, pool *pgxpool.Pool, log logrus.FieldLogger) ([]int, error) {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return nil, fmt.Errorf("migrations: up: %w", err)
	}
	applied := make([]int, 0, len(res.Versions))
	for _, v := range res.Versions {
		applied = append(applied, v.Version)
	}
	if log != nil && len(applied) > 0 {
		log.WithField("versions", applied).Info("applied river migrations")
	}
	return applied, nil
}
