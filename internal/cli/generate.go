package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/topi314/tint"

	"github.com/roach88/tinyflags/internal/codegen"
	"github.com/roach88/tinyflags/internal/compiler"
	"github.com/roach88/tinyflags/internal/ir"
	"github.com/roach88/tinyflags/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Output  string // output file, "-" for stdout
	Package string // overrides go_package
	Strict  bool
	Cache   string // generation cache database
	Force   bool   // write even when the cache says the output is current
}

// GenerateResult describes one generate run.
type GenerateResult struct {
	Source   string                     `json:"source"`
	Output   string                     `json:"output"`
	Package  string                     `json:"package"`
	FlagSets int                        `json:"flag_sets"`
	Bytes    int                        `json:"bytes"`
	SpecHash string                     `json:"spec_hash"`
	Skipped  bool                       `json:"skipped"`
	Warnings []compiler.ValidationError `json:"warnings,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <schema>",
		Short: "Generate Go flag types from a schema",
		Long: `Generate Go flag types from a CUE or YAML schema.

By default the output is written next to the schema as <schema>_flags.go.
Use -o - to write to stdout. With --cache, outputs whose schema, generator
version and on-disk content are unchanged since the last run are skipped.

Typical use is a go:generate directive:

	//go:generate go run github.com/roach88/tinyflags/cmd/tinyflags generate flags.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default <schema>_flags.go, - for stdout)")
	cmd.Flags().StringVar(&opts.Package, "package", "", "Go package name (overrides go_package)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "treat accessor collisions as errors")
	cmd.Flags().StringVar(&opts.Cache, "cache", "", "generation cache database")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "regenerate even if the cache says the output is current")

	return cmd
}

func runGenerate(ctx context.Context, opts *GenerateOptions, schemaPath string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	logger := opts.logger()

	file, err := LoadSchema(schemaPath)
	if err != nil {
		return outputLoadFailure(formatter, err)
	}
	if opts.Package != "" {
		file.Package = opts.Package
	}

	strict := opts.Strict || opts.RootOptions.Strict
	errs, warnings := splitFindings(compiler.Validate(file, compiler.ValidateOptions{Strict: strict}))
	for _, w := range warnings {
		logger.Warn(w.Message, "code", w.Code, "field", w.Field)
	}
	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs, warnings)
	}

	src, err := codegen.Generate(file)
	if err != nil {
		var formatErr *codegen.FormatError
		if errors.As(err, &formatErr) {
			logger.Debug("unformatted output", "source", string(formatErr.Source))
		}
		return outputCommandError(formatter, ErrCodeInternal, err.Error())
	}

	specHash, err := ir.FileHash(file)
	if err != nil {
		return outputCommandError(formatter, ErrCodeInternal, err.Error())
	}

	result := GenerateResult{
		Source:   file.Source,
		Output:   opts.Output,
		Package:  file.Package,
		FlagSets: len(file.FlagSets),
		Bytes:    len(src),
		SpecHash: specHash,
		Warnings: warnings,
	}

	if opts.Output == "-" {
		_, err := cmd.OutOrStdout().Write(src)
		return err
	}
	if result.Output == "" {
		result.Output = DefaultOutputPath(schemaPath)
	}
	result.Output = filepath.Clean(result.Output)

	cachePath := opts.Cache
	if cachePath == "" {
		cachePath = opts.RootOptions.Cache
	}

	var cache *store.Store
	if cachePath != "" {
		cache, err = store.Open(cachePath)
		if err != nil {
			return outputCommandError(formatter, ErrCodeCache, fmt.Sprintf("opening cache: %v", err))
		}
		defer cache.Close()

		if !opts.Force {
			current, err := upToDate(ctx, cache, result.Output, specHash)
			if err != nil {
				return outputCommandError(formatter, ErrCodeCache, err.Error())
			}
			if current {
				logger.Debug("output is up to date", "output", result.Output, "spec_hash", specHash)
				result.Skipped = true
				return outputGenerateSuccess(formatter, result)
			}
		}
	}

	if err := os.WriteFile(result.Output, src, 0o644); err != nil {
		return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
	}
	logger.Debug("wrote output", "output", result.Output, "bytes", len(src))

	if cache != nil {
		if _, err := cache.Record(ctx, result.Output, specHash, ir.ContentHash(src)); err != nil {
			logger.Error("failed to record generation", tint.Err(err))
			return outputCommandError(formatter, ErrCodeCache, err.Error())
		}
	}

	return outputGenerateSuccess(formatter, result)
}

// upToDate reports whether the cache's latest record for output matches
// specHash and the file currently on disk.
func upToDate(ctx context.Context, cache *store.Store, output, specHash string) (bool, error) {
	existing, err := os.ReadFile(output)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading existing output: %w", err)
	}
	return cache.UpToDate(ctx, output, specHash, ir.ContentHash(existing))
}

// DefaultOutputPath returns <schema base>_flags.go next to the schema. For
// a directory schema the file goes inside the directory.
func DefaultOutputPath(schemaPath string) string {
	clean := filepath.Clean(schemaPath)
	if info, err := os.Stat(clean); err == nil && info.IsDir() {
		return filepath.Join(clean, filepath.Base(clean)+"_flags.go")
	}
	base := strings.TrimSuffix(filepath.Base(clean), filepath.Ext(clean))
	return filepath.Join(filepath.Dir(clean), base+"_flags.go")
}

func outputGenerateSuccess(formatter *OutputFormatter, result GenerateResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if result.Skipped {
		fmt.Fprintf(formatter.Writer, "✓ %s is up to date\n", result.Output)
	} else {
		fmt.Fprintf(formatter.Writer, "✓ Generated %s (%s, %d flag set(s))\n",
			result.Output, humanize.Bytes(uint64(result.Bytes)), result.FlagSets)
	}
	writeWarnings(formatter, result.Warnings)
	return nil
}

// outputCommandError reports a command-level failure (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
