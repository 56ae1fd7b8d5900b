package cli

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fontana-sql/fontana/internal/cliutil"
	"github.com/fontana-sql/fontana/internal/migrate"
)

func newMigrationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrations",
		Short: "Create and apply migration files",
	}

	cmd.AddCommand(newMigrationsNewCommand(), newMigrationsRunCommand())

	return cmd
}

func newMigrationsNewCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new, empty migration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := migrate.New(dir, args[0], time.Now())
			if err != nil {
				return err
			}

			pterm.Success.Println("Created " + path)

			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "migrations", "m", "./migrations", "Directory of migration files")

	return cmd
}

func newMigrationsRunCommand() *cobra.Command {
	var url string

	var dir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply every pending migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if url == "" {
				return fmt.Errorf("migrations run: --url is required")
			}

			ctx := cmd.Context()

			conn, err := pgx.Connect(ctx, url)
			if err != nil {
				return cliutil.WrapError("connect", err)
			}
			defer conn.Close(ctx)

			spinner, _ := pterm.DefaultSpinner.WithText("Applying migrations...").Start()

			if err := migrate.Run(ctx, conn, dir); err != nil {
				spinner.Fail(err.Error())
				return err
			}

			spinner.Success("Migrations applied")

			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Database URL to apply migrations against")
	cmd.Flags().StringVarP(&dir, "migrations", "m", "./migrations", "Directory of migration files")

	return cmd
}
