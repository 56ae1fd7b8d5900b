// Package migrate is fontana's own migration runner - spec.md §4.4/§5
// lists the migration runner as an "external collaborator" rather than
// core logic, but its behavior is specified exactly (lexicographic
// filename order, a `__cornucopia_migrations` tracking table), so it is
// grounded here as a small hand-rolled applier rather than reused from
// pressly/goose: goose's own filename grammar (numeric/timestamp version
// prefixes, its own tracking table shape and dirty-state bookkeeping)
// does not match the fixed `YYYY-MM-DD_HHMMSS_description.sql` + fixed
// table name spec.md requires, and bending goose to both would be more
// code than writing the runner directly (see DESIGN.md).
package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fontana-sql/fontana/internal/cliutil"
)

const trackingTable = "__cornucopia_migrations"

var fileNamePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_\d{6}_[a-z0-9_]+\.sql$`)

// MigrationFailedError reports which migration file failed and why
// (spec.md §6 error taxonomy "Migration: applying a migration statement
// failed").
type MigrationFailedError struct {
	File string
	Err  error
}

func (e *MigrationFailedError) Error() string {
	return fmt.Sprintf("migrate: apply %s: %v", e.File, e.Err)
}

func (e *MigrationFailedError) Unwrap() error { return e.Err }

// New writes a fresh, empty migration file named after name, prefixed
// with the current instant in the `YYYY-MM-DD_HHMMSS_` format spec.md
// §4.4 requires, into dir.
func New(dir, name string, now time.Time) (string, error) {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
	fileName := fmt.Sprintf("%s_%s.sql", now.Format("2006-01-02_150405"), slug)
	path := filepath.Join(dir, fileName)

	if err := os.WriteFile(path, []byte("-- "+name+"\n"), 0o644); err != nil {
		return "", cliutil.WrapError("write migration file "+path, err)
	}

	return path, nil
}

// Run applies every migration file in dir not yet recorded in
// __cornucopia_migrations, in lexicographic filename order, each inside
// its own transaction.
func Run(ctx context.Context, conn *pgx.Conn, dir string) error {
	if err := ensureTrackingTable(ctx, conn); err != nil {
		return err
	}

	applied, err := appliedNames(ctx, conn)
	if err != nil {
		return err
	}

	files, err := pendingFiles(dir, applied)
	if err != nil {
		return err
	}

	for _, name := range files {
		if err := applyOne(ctx, conn, dir, name); err != nil {
			return &MigrationFailedError{File: name, Err: err}
		}
	}

	return nil
}

func ensureTrackingTable(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+trackingTable+` (
			name TEXT PRIMARY KEY,
			applied_on TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)

	return cliutil.WrapError("create "+trackingTable, err)
}

func appliedNames(ctx context.Context, conn *pgx.Conn) (map[string]bool, error) {
	rows, err := conn.Query(ctx, "SELECT name FROM "+trackingTable)
	if err != nil {
		return nil, cliutil.WrapError("query "+trackingTable, err)
	}
	defer rows.Close()

	out := make(map[string]bool)

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, cliutil.WrapError("scan "+trackingTable+" row", err)
		}

		out[name] = true
	}

	return out, cliutil.WrapError("iterate "+trackingTable, rows.Err())
}

func pendingFiles(dir string, applied map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, cliutil.WrapError("read migrations directory", err)
	}

	var names []string

	for _, e := range entries {
		if e.IsDir() || !fileNamePattern.MatchString(e.Name()) {
			continue
		}

		if applied[e.Name()] {
			continue
		}

		names = append(names, e.Name())
	}

	sort.Strings(names)

	return names, nil
}

func applyOne(ctx context.Context, conn *pgx.Conn, dir, name string) error {
	sql, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return cliutil.WrapError("read migration file", err)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return cliutil.WrapError("begin transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, string(sql)); err != nil {
		return cliutil.WrapError("execute migration body", err)
	}

	if _, err := tx.Exec(ctx, "INSERT INTO "+trackingTable+" (name) VALUES ($1)", name); err != nil {
		return cliutil.WrapError("record applied migration", err)
	}

	return cliutil.WrapError("commit transaction", tx.Commit(ctx))
}
