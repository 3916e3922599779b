package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tinyflags/internal/compiler"
	"github.com/roach88/tinyflags/internal/ir"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Strict bool
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Source   string                     `json:"source,omitempty"`
	FlagSets int                        `json:"flag_sets"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
	Warnings []compiler.ValidationError `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <schema>",
		Short: "Validate a flag schema without generating code",
		Long: `Validate a CUE or YAML flag schema without generating code.

Reports every finding at once: invalid identifiers, unsupported backing
types, values that overflow their backing type, duplicate identifiers and
unknown derives. Accessor collisions (two flags whose names differ only in
case) are warnings unless --strict is set; names that differ otherwise but
still produce the same methods, such as X_1 and X1, are errors.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "treat accessor collisions as errors")

	return cmd
}

func runValidate(opts *ValidateOptions, schemaPath string, cmd *cobra.Command) error {
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
	logger.Debug("loaded schema", "path", schemaPath, "flag_sets", len(file.FlagSets))

	findings := compiler.Validate(file, compiler.ValidateOptions{Strict: opts.Strict || opts.RootOptions.Strict})
	errs, warnings := splitFindings(findings)
	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs, warnings)
	}

	return outputValidateSuccess(formatter, file, warnings)
}

// splitFindings separates blocking errors from warnings.
func splitFindings(findings []compiler.ValidationError) (errs, warnings []compiler.ValidationError) {
	for _, f := range findings {
		if f.IsWarning() {
			warnings = append(warnings, f)
		} else {
			errs = append(errs, f)
		}
	}
	return errs, warnings
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, file *ir.File, warnings []compiler.ValidationError) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:    true,
			Source:   file.Source,
			FlagSets: len(file.FlagSets),
			Warnings: warnings,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ %s is valid: %d flag set(s)\n", file.Source, len(file.FlagSets))
	writeWarnings(formatter, warnings)
	return nil
}

// writeWarnings lists warnings in text output.
func writeWarnings(formatter *OutputFormatter, warnings []compiler.ValidationError) {
	for _, w := range warnings {
		formatter.Writef("⚠ %s: %s: %s\n", w.Code, w.Field, w.Message)
	}
}

// outputLoadFailure reports a LoadSchema error with its exit code.
func outputLoadFailure(formatter *OutputFormatter, err error) error {
	code, message, exit := loadFailure(err)
	_ = formatter.Error(code, message, nil)
	return NewExitError(exit, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs, warnings []compiler.ValidationError) error {
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:    false,
				Errors:   errs,
				Warnings: warnings,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", err.Code, err.Field, err.Message)
	}
	if len(warnings) > 0 {
		fmt.Fprintln(formatter.Writer)
		writeWarnings(formatter, warnings)
	}

	return exitErr
}
