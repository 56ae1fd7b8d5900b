// Package conn opens the live database handle the driver prepares
// against: a single exclusive *pgx.Conn in sync mode, a synchronized
// *pgxpool.Pool otherwise - grounded on the teacher's pkg/database
// connection wrapper, generalized from a single pool-only handle to both
// modes spec.md §2/§REDESIGN FLAGS §3 requires.
package conn

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fontana-sql/fontana/internal/cliutil"
)

// Conn is the exclusive, non-concurrency-safe handle used in --sync mode.
type Conn struct {
	*pgx.Conn
}

// Pool is the internally synchronized, share-safe handle used by default.
type Pool struct {
	*pgxpool.Pool
}

// DialConn opens a single exclusive connection and pings it.
func DialConn(ctx context.Context, url string) (*Conn, error) {
	c, err := pgx.Connect(ctx, url)
	if err != nil {
		return nil, cliutil.WrapError("connect", err)
	}

	if err := c.Ping(ctx); err != nil {
		c.Close(ctx)
		return nil, cliutil.WrapError("ping", err)
	}

	return &Conn{Conn: c}, nil
}

// DialPool opens a connection pool and pings it.
func DialPool(ctx context.Context, url string) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, cliutil.WrapError("parse pool config", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, cliutil.WrapError("create connection pool", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, cliutil.WrapError("ping database", err)
	}

	return &Pool{Pool: pool}, nil
}

// Query adapts Conn to registrar.Querier and preparer.Preparer.
func (c *Conn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return c.Conn.Query(ctx, sql, args...)
}

// Query adapts Pool to registrar.Querier; the preparer always runs
// against a dedicated Conn (PREPARE is connection-scoped), so Pool
// doesn't need to implement Prepare.
func (p *Pool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.Pool.Query(ctx, sql, args...)
}

// Close releases the handle.
func (c *Conn) Close(ctx context.Context) error {
	return cliutil.WrapError("close connection", c.Conn.Close(ctx))
}

// Close releases the pool.
func (p *Pool) Close() {
	p.Pool.Close()
}
