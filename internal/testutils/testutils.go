// Package testutils starts one shared ephemeral PostgreSQL container for an
// entire test binary, grounded on xataio-pgroll's pkg/testutils.SharedTestMain:
// fontana's own internal/container already knows how to launch and wait for
// a disposable instance, so the test harness here is a thin TestMain wrapper
// around it rather than a second copy of the bootstrap logic.
package testutils

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/fontana-sql/fontana/internal/container"
)

var sharedURL string

// SharedTestMain starts one container for every test in the calling
// package's binary and tears it down after m.Run(). Call it from a
// TestMain(m *testing.M) func in a package whose tests need a live
// database; skip-at-runtime (rather than failing) keeps the suite usable
// in environments with no docker/podman socket available.
func SharedTestMain(m *testing.M) {
	ctx := context.Background()

	managed, err := container.Start(ctx, container.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "testutils: skipping database-backed tests: %v\n", err)
		os.Exit(0)
	}

	sharedURL = managed.URL

	code := m.Run()

	if tErr := managed.Teardown(ctx); tErr != nil {
		fmt.Fprintf(os.Stderr, "testutils: container teardown: %v\n", tErr)
	}

	os.Exit(code)
}

// Connect opens a fresh connection to the shared container, closed
// automatically at the end of the calling test.
func Connect(t *testing.T) *pgx.Conn {
	t.Helper()

	if sharedURL == "" {
		t.Skip("no shared database container available")
	}

	c, err := pgx.Connect(context.Background(), sharedURL)
	if err != nil {
		t.Fatalf("connect to shared test database: %v", err)
	}

	t.Cleanup(func() { _ = c.Close(context.Background()) })

	return c
}

// URL returns the shared container's connection string.
func URL() string { return sharedURL }
