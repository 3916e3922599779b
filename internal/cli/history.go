package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/tinyflags/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Output string // restrict to one output path
}

// HistoryResult lists cache records newest first.
type HistoryResult struct {
	Generations []store.Generation `json:"generations"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history <cache-db>",
		Short: "List generations recorded in a cache",
		Long: `List the generations recorded in a generation cache, newest first.

Each record holds the output path, the spec hash of the schema, the content
hash of the written file and the generator version.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Output, "output", "", "only show records for this output path")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, dbPath string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	// Open would create a missing database; history only reads existing ones
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("cache not found: %s", dbPath))
	}

	cache, err := store.Open(dbPath)
	if err != nil {
		return outputCommandError(formatter, ErrCodeCache, fmt.Sprintf("opening cache: %v", err))
	}
	defer cache.Close()

	output := opts.Output
	if output != "" {
		output = filepath.Clean(output)
	}
	gens, err := cache.History(ctx, output)
	if err != nil {
		return outputCommandError(formatter, ErrCodeCache, err.Error())
	}
	opts.logger().Debug("read cache history", "path", dbPath, "records", len(gens))

	if formatter.Format == "json" {
		return formatter.Success(HistoryResult{Generations: gens})
	}

	if len(gens) == 0 {
		fmt.Fprintln(formatter.Writer, "No generations recorded")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tOUTPUT\tSPEC\tCONTENT\tVERSION\tID")
	for _, g := range gens {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			g.Seq, g.OutputPath, shortHash(g.SpecHash), shortHash(g.ContentHash), g.GeneratorVersion, g.ID)
	}
	return tw.Flush()
}
