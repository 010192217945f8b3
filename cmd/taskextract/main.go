// Package main implements the taskextract CLI: offline task extraction from
// transcript files and schema migrations for the extraction history.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type extractOptions struct {
	provider string
	baseDate string
	lexicon  string
	timezone string
	pretty   bool
}

func newRootCmd() *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "taskextract [file]",
		Short: "Extract done and pending tasks per person from a meeting transcript",
		Long: `taskextract reads a daily-meeting transcript ("Name: text" lines) and prints,
for every person, what was done and what is still to do, as JSON.

Examples:
  # Extract from a file
  taskextract daily.txt

  # Extract from stdin with a pinned base date
  cat daily.txt | taskextract --base-date 2025-03-12 --pretty

  # Use the LLM provider (needs GEMINI_API_KEY)
  taskextract --provider gemini daily.txt`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.provider, "provider", "p", "", "extraction provider: heuristic, spacy or gemini (default from DEFAULT_PROVIDER)")
	flags.StringVar(&opts.baseDate, "base-date", "", "base date for relative deadlines, YYYY-MM-DD (default today)")
	flags.StringVar(&opts.lexicon, "lexicon", "", "YAML lexicon overlay (default from LEXICON_PATH)")
	flags.StringVar(&opts.timezone, "timezone", "", "time zone for deadline resolution (default from TIMEZONE)")
	flags.BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")

	cmd.AddCommand(newMigrateCmd())
	return cmd
}
