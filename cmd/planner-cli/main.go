// Command planner-cli runs the schedule generator offline against a catalog
// file or the configured catalog database.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	catalogPath string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "planner-cli",
		Short:         "Course planner schedule generation tools",
		Long:          "Generates ranked weekly schedules, lists catalog courses and checks request files without running the API server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "Catalog CSV file (default: CATALOG_SOURCE settings)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log search details to stderr")

	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newCoursesCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	return cmd
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
