package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/topi314/tint"
)

// RootOptions holds global settings for all commands. They come from
// persistent flags, TINYFLAGS_* environment variables and an optional
// .tinyflags.yaml config file, in that order of precedence.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Strict  bool   // config default for --strict
	Cache   string // config default for --cache

	// Logger receives diagnostics. Nil means discard.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Config keys.
const (
	keyFormat  = "format"
	keyVerbose = "verbose"
	keyStrict  = "strict"
	keyCache   = "cache"
)

// NewRootCommand creates the root command for the tinyflags CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "tinyflags",
		Short: "tinyflags - typed bit flag generator",
		Long: `Generate Go bit flag types from a declarative schema.

Each flag set becomes a named unsigned integer type with one constant per
flag and Is/Set/Clear accessors. Schemas are written in CUE or YAML.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cfgFile); err != nil {
				return err
			}
			opts.Format = v.GetString(keyFormat)
			opts.Verbose = v.GetBool(keyVerbose)
			opts.Strict = v.GetBool(keyStrict)
			opts.Cache = v.GetString(keyCache)

			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.Logger = NewLogger(cmd.ErrOrStderr(), opts.Format, opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, keyVerbose, "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, keyFormat, "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", os.Getenv("TINYFLAGS_CONFIG"), "config file (default is ./.tinyflags.yaml)")
	_ = v.BindPFlag(keyFormat, cmd.PersistentFlags().Lookup(keyFormat))
	_ = v.BindPFlag(keyVerbose, cmd.PersistentFlags().Lookup(keyVerbose))

	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// initConfig wires defaults, the config file and the environment into v.
// A missing default config file is not an error; a missing --config file is.
func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetDefault(keyFormat, "text")
	v.SetDefault(keyVerbose, false)
	v.SetDefault(keyStrict, false)
	v.SetDefault(keyCache, "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".tinyflags")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("tinyflags")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// NewLogger returns the diagnostic logger: tint-colored text, or JSON lines
// when the output format is json. Verbose lowers the level to debug.
func NewLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}

	_, isFile := w.(*os.File)
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !isFile || os.Getenv("NO_COLOR") != "",
	}))
}

// logger returns the configured logger or one that discards everything.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
