// Package driver implements spec.md §4.4: it selects target mode, opens
// a connection (live or freshly bootstrapped ephemeral), applies
// migrations, invokes the preparer and emitter, writes the formatted
// output, and - on any failure in managed mode - tears down the
// container before propagating the error (spec.md §5 "scoped
// acquisition: start -> wait-for-ready -> use -> always-teardown").
package driver

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/fontana-sql/fontana/internal/cliutil"
	"github.com/fontana-sql/fontana/internal/conn"
	"github.com/fontana-sql/fontana/internal/container"
	"github.com/fontana-sql/fontana/internal/emitter"
	"github.com/fontana-sql/fontana/internal/migrate"
	"github.com/fontana-sql/fontana/internal/preparer"
	"github.com/fontana-sql/fontana/internal/reader"
	"github.com/fontana-sql/fontana/internal/registrar"
)

// Options gathers a `generate` invocation's fully resolved settings.
type Options struct {
	QueriesDir    string
	MigrationsDir string
	Destination   string
	Package       string
	Sync          bool
	Podman        bool

	// URL selects live mode when non-empty; managed (ephemeral, migrated)
	// mode otherwise.
	URL string
}

// Run executes one full generate pipeline and returns the path written.
func Run(ctx context.Context, opts Options) (string, error) {
	url := opts.URL

	var teardown func(context.Context) error

	if url == "" {
		managed, err := container.Start(ctx, container.Options{Podman: opts.Podman})
		if err != nil {
			return "", err
		}

		teardown = managed.Teardown
		url = managed.URL

		defer func() {
			if tErr := teardown(context.WithoutCancel(ctx)); tErr != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", tErr)
			}
		}()

		if err := runMigrations(ctx, url, opts.MigrationsDir); err != nil {
			return "", err
		}
	}

	out, err := generate(ctx, url, opts)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(opts.Destination, []byte(out), 0o644); err != nil {
		return "", cliutil.WrapError("write destination file "+opts.Destination, err)
	}

	return opts.Destination, nil
}

func runMigrations(ctx context.Context, url, dir string) error {
	c, err := pgx.Connect(ctx, url)
	if err != nil {
		return cliutil.WrapError("connect for migrations", err)
	}
	defer c.Close(ctx)

	return migrate.Run(ctx, c, dir)
}

// generate runs reader -> registrar/preparer -> emitter over a single
// dedicated connection. The preparer always needs its own *pgx.Conn
// (PREPARE is connection-scoped regardless of the generated client's
// own --sync/pooled mode).
func generate(ctx context.Context, url string, opts Options) (string, error) {
	c, err := conn.DialConn(ctx, url)
	if err != nil {
		return "", err
	}
	defer c.Close(ctx)

	modules, err := reader.ReadDir(opts.QueriesDir)
	if err != nil {
		return "", err
	}

	reg := registrar.New(c)

	prepared := make([]*preparer.PreparedModule, 0, len(modules))

	for _, mod := range modules {
		pm, err := preparer.Prepare(ctx, c, reg, mod)
		if err != nil {
			return "", err
		}

		prepared = append(prepared, pm)
	}

	return emitter.Emit(reg, prepared, emitter.Options{Sync: opts.Sync, PackageName: opts.Package})
}
