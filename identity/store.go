// Package identity reads StockSync users straight from the backend database.
// It is an alternative core.UserDirectory for deployments that can reach
// Postgres but not the /users/email endpoint.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PaulFidika/stocksync-login/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgxpool.Pool used by Store.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store looks users up in table (default "users").
type Store struct {
	pg    Querier
	table string
}

var _ Querier = (*pgxpool.Pool)(nil)

func NewStore(pg Querier, table string) *Store {
	t := strings.TrimSpace(table)
	if t == "" {
		t = "users"
	}
	return &Store{pg: pg, table: t}
}

// UserByEmail returns core.ErrNotFound when no row matches.
func (s *Store) UserByEmail(ctx context.Context, email string) (core.BackendUser, error) {
	if s.pg == nil {
		return core.BackendUser{}, errors.New("identity: no database configured")
	}
	ident := pgx.Identifier(strings.Split(s.table, ".")).Sanitize()
	var u core.BackendUser
	err := s.pg.QueryRow(ctx,
		`SELECT email, password, role FROM `+ident+` WHERE email=$1 LIMIT 1`, email,
	).Scan(&u.Email, &u.Password, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.BackendUser{}, core.ErrNotFound
	}
	if err != nil {
		return core.BackendUser{}, fmt.Errorf("identity: lookup %s: %w", email, err)
	}
	return u, nil
}
