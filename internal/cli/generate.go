package cli

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fontana-sql/fontana/internal/config"
	"github.com/fontana-sql/fontana/internal/driver"
)

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the typed query client",
		Long: `Reads every .sql file under the queries directory, resolves each query's
parameter and result types against a PostgreSQL database, and writes one
formatted Go source file implementing every query as a typed function.

By default generate bootstraps a disposable PostgreSQL container, applies
the migrations directory to it, and generates against that; pass --url to
generate against an already-running database instead.`,
		Example: `  # Generate against a freshly bootstrapped, migrated container
  fontana generate -q ./queries -m ./migrations -d ./db/queries.gen.go

  # Generate against a live database, pooled-client mode
  fontana generate -q ./queries -d ./db/queries.gen.go --url postgres://localhost/app`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd)
		},
	}

	config.BindGenerateFlags(cmd)

	return cmd
}

func runGenerate(cmd *cobra.Command) error {
	cfg := config.LoadGenerate()

	mode := "ephemeral container"
	if cfg.URL != "" {
		mode = "live database"
	}

	spinner, _ := pterm.DefaultSpinner.WithText("Generating against " + mode + "...").Start()

	path, err := driver.Run(cmd.Context(), driver.Options{
		QueriesDir:    cfg.QueriesDir,
		MigrationsDir: cfg.MigrationsDir,
		Destination:   cfg.Destination,
		Package:       cfg.Package,
		Sync:          cfg.Sync,
		Podman:        cfg.Podman,
		URL:           cfg.URL,
	})
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}

	spinner.Success("Wrote " + path)

	return nil
}
