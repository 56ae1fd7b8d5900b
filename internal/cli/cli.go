// Package cli wires fontana's cobra command tree, grounded on the
// teacher's internal/cli package (root command plus one file per
// subcommand, SilenceUsage/SilenceErrors so cobra doesn't double-print
// errors the caller already formats).
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fontana-sql/fontana/internal/cliutil"
)

// BuildInfo carries version metadata injected at link time via -ldflags,
// the same pattern the teacher's cmd/pgtofu/main.go uses.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Execute builds and runs the root command tree.
func Execute(ctx context.Context, info BuildInfo) error {
	root := newRootCommand()
	root.AddCommand(
		newGenerateCommand(),
		newMigrationsCommand(),
		newVersionCommand(info),
	)

	return cliutil.WrapError("execute command", root.ExecuteContext(ctx))
}

func newRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fontana",
		Short: "Typed PostgreSQL query code generator",
		Long: `fontana turns a directory of parameterized SQL query files plus a live or
ephemeral PostgreSQL schema into a single, strongly typed Go source file:
one function per query, plus mirrors and binary codecs for every
enum/domain/composite type those queries touch.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("fontana %s\n", info.Version)
			cmd.Printf("  commit: %s\n", info.Commit)
			cmd.Printf("  built:  %s\n", info.BuildTime)
		},
	}
}
