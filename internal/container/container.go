// Package container bootstraps the ephemeral PostgreSQL instance fontana
// generates against when no --url is given (spec.md §2 "freshly
// bootstrapped ephemeral" instance, §4.4 "on any failure in managed mode -
// invokes container teardown before propagating the error"). Grounded on
// xataio-pgroll's pkg/testutils.SharedTestMain testcontainers usage,
// generalized from a fixed test image/wait strategy to a caller-chosen
// engine (docker/podman) and an explicit backoff-based readiness poll on
// top of testcontainers' own wait strategy.
package container

import (
	"context"
	"time"

	"github.com/cloudflare/backoff"
	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fontana-sql/fontana/internal/cliutil"
)

const defaultImage = "postgres:16-alpine"

// Managed wraps one ephemeral PostgreSQL container and its connection URL.
type Managed struct {
	container *postgres.PostgresContainer
	URL       string
}

// Options configures how the ephemeral instance is launched.
type Options struct {
	// Podman runs the container via the podman-compatible Docker API
	// socket instead of the default docker one (spec.md §5 "--podman").
	Podman bool
	Image  string
}

// Start launches a disposable PostgreSQL container, waits for it to
// accept connections, and returns its connection URL.
func Start(ctx context.Context, opts Options) (*Managed, error) {
	image := opts.Image
	if image == "" {
		image = defaultImage
	}

	runOpts := []testcontainers.ContainerCustomizer{
		postgres.WithDatabase("fontana"),
		postgres.WithUsername("fontana"),
		postgres.WithPassword("fontana"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		),
	}

	if opts.Podman {
		runOpts = append(runOpts, testcontainers.CustomizeRequest(testcontainers.GenericContainerRequest{
			ProviderType: testcontainers.ProviderPodman,
		}))
	}

	ctr, err := postgres.Run(ctx, image, runOpts...)
	if err != nil {
		return nil, cliutil.WrapError("start ephemeral postgres container", err)
	}

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, cliutil.WrapError("get container connection string", err)
	}

	if err := waitUntilReady(ctx, url); err != nil {
		_ = ctr.Terminate(ctx)
		return nil, err
	}

	return &Managed{container: ctr, URL: url}, nil
}

// waitUntilReady layers an application-level ping-with-backoff on top of
// testcontainers' log-based wait strategy: the log line can appear before
// the server is actually accepting TCP connections under a slow CI
// runner, so fontana retries its own Ping a few times before giving up.
func waitUntilReady(ctx context.Context, url string) error {
	b := &backoff.Backoff{
		Min:    50 * time.Millisecond,
		Max:    2 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error

	for attempt := 0; attempt < 10; attempt++ {
		c, err := pgx.Connect(ctx, url)
		if err == nil {
			pingErr := c.Ping(ctx)
			c.Close(ctx)

			if pingErr == nil {
				return nil
			}

			lastErr = pingErr
		} else {
			lastErr = err
		}

		select {
		case <-time.After(b.Duration()):
		case <-ctx.Done():
			return cliutil.WrapError("wait for ephemeral postgres", ctx.Err())
		}
	}

	return cliutil.WrapError("wait for ephemeral postgres", lastErr)
}

// Teardown terminates the container. Safe to call on a nil Managed (the
// driver calls it unconditionally in its deferred cleanup).
func (m *Managed) Teardown(ctx context.Context) error {
	if m == nil || m.container == nil {
		return nil
	}

	return cliutil.WrapError("terminate ephemeral postgres container", m.container.Terminate(ctx))
}
