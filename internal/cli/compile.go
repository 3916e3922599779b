package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tinyflags/internal/compiler"
	"github.com/roach88/tinyflags/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationResult is the compiled IR of a schema with its hashes.
type CompilationResult struct {
	Source    string            `json:"source"`
	Package   string            `json:"package"`
	IRVersion string            `json:"ir_version"`
	FileHash  string            `json:"file_hash"`
	FlagSets  []CompiledFlagSet `json:"flag_sets"`
}

// CompiledFlagSet is a flag set with its spec hash and resolved accessors.
type CompiledFlagSet struct {
	ir.FlagSet
	SpecHash  string             `json:"spec_hash"`
	Accessors []CompiledAccessor `json:"accessors"`
}

// CompiledAccessor names the methods generated for one flag.
type CompiledAccessor struct {
	Flag      string   `json:"flag"`
	Is        string   `json:"is"`
	Set       string   `json:"set"`
	Clear     string   `json:"clear"`
	Overrides []string `json:"overrides,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <schema>",
		Short: "Compile a flag schema to IR",
		Long: `Compile a CUE or YAML flag schema to its intermediate representation.

The IR lists every flag set with defaults applied, the accessor methods each
flag receives after case folding, and the spec hash used by the generation
cache.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, schemaPath string, cmd *cobra.Command) error {
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

	errs, warnings := splitFindings(compiler.Validate(file, compiler.ValidateOptions{Strict: opts.Strict}))
	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs, warnings)
	}

	result, err := buildCompilationResult(file)
	if err != nil {
		return outputCommandError(formatter, ErrCodeInternal, err.Error())
	}
	for _, fs := range result.FlagSets {
		logger.Debug("compiled flag set", "name", fs.Name, "flags", len(fs.Flags), "spec_hash", fs.SpecHash)
	}

	if opts.Output != "" {
		if err := writeIRToFile(result, opts.Output); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

// buildCompilationResult hashes every flag set and resolves its accessors.
func buildCompilationResult(file *ir.File) (*CompilationResult, error) {
	fileHash, err := ir.FileHash(file)
	if err != nil {
		return nil, err
	}

	result := &CompilationResult{
		Source:    file.Source,
		Package:   file.Package,
		IRVersion: ir.IRVersion,
		FileHash:  fileHash,
		FlagSets:  make([]CompiledFlagSet, 0, len(file.FlagSets)),
	}
	for i := range file.FlagSets {
		fs := &file.FlagSets[i]
		specHash, err := ir.SpecHash(fs)
		if err != nil {
			return nil, err
		}
		compiled := CompiledFlagSet{FlagSet: *fs, SpecHash: specHash, Accessors: []CompiledAccessor{}}
		for _, a := range ir.ResolveAccessors(fs) {
			compiled.Accessors = append(compiled.Accessors, CompiledAccessor{
				Flag:      a.Flag.Name,
				Is:        fs.IsMethod(a),
				Set:       fs.SetMethod(a),
				Clear:     fs.ClearMethod(a),
				Overrides: a.Overrides,
			})
		}
		result.FlagSets = append(result.FlagSets, compiled)
	}
	return result, nil
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d flag set(s) from %s (package %s)\n\n",
		len(result.FlagSets), result.Source, result.Package)

	for _, fs := range result.FlagSets {
		fmt.Fprintf(formatter.Writer, "  %s %s: %d flag(s), %d accessor group(s), spec %s\n",
			fs.Name, fs.Backing, len(fs.Flags), len(fs.Accessors), shortHash(fs.SpecHash))
	}
	fmt.Fprintln(formatter.Writer)

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote IR to %s\n", outputFile)
	}

	return nil
}

// shortHash abbreviates a hex hash for text output.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// writeIRToFile writes the compilation result to a file as indented JSON.
// Canonical JSON without indentation is used only for hashing.
func writeIRToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling IR: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
