// Package config layers fontana's settings over cobra flags using viper,
// the same FONTANA_-prefixed env-override-over-flag-default pattern
// xataio-pgroll's cmd/flags package uses for PGROLL_-prefixed settings.
package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BindGenerateFlags registers and env-binds every flag the generate
// command needs (spec.md §5 "destination file, --sync, --podman, and the
// live --url").
func BindGenerateFlags(cmd *cobra.Command) {
	viper.SetEnvPrefix("FONTANA")
	viper.AutomaticEnv()

	cmd.Flags().StringP("queries", "q", "./queries", "Directory of .sql query files")
	cmd.Flags().StringP("migrations", "m", "./migrations", "Directory of migration files")
	cmd.Flags().StringP("destination", "d", "./db/fontana.gen.go", "Generated output file path")
	cmd.Flags().String("package", "fontana", "Package name of the generated file")
	cmd.Flags().Bool("sync", false, "Generate functions bound to *pgx.Conn instead of *pgxpool.Pool")
	cmd.Flags().Bool("podman", false, "Use podman instead of docker to run the ephemeral database")
	cmd.Flags().String("url", "", "Connect to this live database instead of bootstrapping an ephemeral one")

	_ = viper.BindPFlag("QUERIES", cmd.Flags().Lookup("queries"))
	_ = viper.BindPFlag("MIGRATIONS", cmd.Flags().Lookup("migrations"))
	_ = viper.BindPFlag("DESTINATION", cmd.Flags().Lookup("destination"))
	_ = viper.BindPFlag("PACKAGE", cmd.Flags().Lookup("package"))
	_ = viper.BindPFlag("SYNC", cmd.Flags().Lookup("sync"))
	_ = viper.BindPFlag("PODMAN", cmd.Flags().Lookup("podman"))
	_ = viper.BindPFlag("URL", cmd.Flags().Lookup("url"))
}

// Generate is the fully resolved configuration for one `fontana generate`
// invocation, read back out of viper after flag parsing.
type Generate struct {
	QueriesDir   string
	MigrationsDir string
	Destination  string
	Package      string
	Sync         bool
	Podman       bool
	URL          string
}

// LoadGenerate reads back the values BindGenerateFlags bound.
func LoadGenerate() Generate {
	return Generate{
		QueriesDir:    viper.GetString("QUERIES"),
		MigrationsDir: viper.GetString("MIGRATIONS"),
		Destination:   viper.GetString("DESTINATION"),
		Package:       viper.GetString("PACKAGE"),
		Sync:          viper.GetBool("SYNC"),
		Podman:        viper.GetBool("PODMAN"),
		URL:           viper.GetString("URL"),
	}
}

// BindMigrationsRunFlags registers the flags `fontana migrations run`
// needs.
func BindMigrationsRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("url", "", "Database URL to apply migrations against")
	cmd.Flags().StringP("migrations", "m", "./migrations", "Directory of migration files")

	_ = cmd.MarkFlagRequired("url")
}
