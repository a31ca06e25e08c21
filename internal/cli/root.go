package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fastertools/platform-env/internal/platform"
)

var (
	// Version information
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"

	// Colors
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	debugColor   = color.New(color.FgMagenta)
)

// rootOptions holds settings shared by every command
type rootOptions struct {
	cfgFile string
	v       *viper.Viper
}

func (o *rootOptions) platformsFile() string {
	return o.v.GetString("platforms-file")
}

func (o *rootOptions) outputDir() string {
	return o.v.GetString("output-dir")
}

func (o *rootOptions) verbose() bool {
	return o.v.GetBool("verbose")
}

// Debug prints a debug message if verbose mode is enabled
func (o *rootOptions) Debug(w io.Writer, format string, args ...interface{}) {
	if o.verbose() {
		_, _ = fmt.Fprintln(w, debugColor.Sprintf("» "+format, args...))
	}
}

// NewRootCmd builds the platform-env command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}
	genOpts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "platform-env [platform]",
		Short: "Generate shell env files for e2e test platforms",
		Long: `platform-env reads the e2e platform registry (.e2e-platforms.yaml by default)
and writes a .env-<platform> file with the export statements later CI steps
source to provision the selected platform.

The "stack" platform exports STACK_* variables; every other platform exports
NODE_* variables.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.initConfig(cmd.ErrOrStderr()); err != nil {
				return reportOnError(cmd.OutOrStdout(), err)
			}
			if opts.v.GetBool("no-color") {
				color.NoColor = true
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				genOpts.Platform = args[0]
				genOpts.HasPlatform = true
			}
			return reportOnError(cmd.OutOrStdout(), runGenerate(cmd.OutOrStdout(), opts, genOpts))
		},
		Version: versionString(),
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default is ./platform-env.yaml)")
	pf.String("platforms-file", platform.DefaultFile, "platform registry to read")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.Bool("no-color", false, "disable colored output")

	cmd.Flags().String("output-dir", ".", "directory the env file is written to")
	cmd.Flags().BoolVarP(&genOpts.Interactive, "interactive", "i", false, "prompt for the platform when none is given")

	// Bind flags to viper
	_ = opts.v.BindPFlag("platforms-file", pf.Lookup("platforms-file"))
	_ = opts.v.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = opts.v.BindPFlag("no-color", pf.Lookup("no-color"))
	_ = opts.v.BindPFlag("output-dir", cmd.Flags().Lookup("output-dir"))

	cmd.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	cmd := NewRootCmd()
	err := cmd.Execute()

	// Usage errors are raised by cobra before any command reports them
	var reported *reportedError
	if err != nil && !errors.As(err, &reported) {
		Error(cmd.ErrOrStderr(), "Error: %v", err)
	}
	return err
}

// SetVersion sets the version information
func SetVersion(v, c, b string) {
	version = v
	commit = c
	buildDate = b
}

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate)
}

// initConfig reads in config file and ENV variables if set
func (o *rootOptions) initConfig(stderr io.Writer) error {
	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
	} else {
		o.v.AddConfigPath(".")
		o.v.SetConfigType("yaml")
		o.v.SetConfigName("platform-env")
	}

	o.v.SetEnvPrefix("PLATFORM_ENV")
	o.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	o.v.AutomaticEnv()

	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if o.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		return nil
	}

	o.Debug(stderr, "Using config file: %s", o.v.ConfigFileUsed())
	return nil
}

// Helper functions for consistent output

// Success prints a success message
func Success(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintln(w, successColor.Sprintf("✓ "+format, args...))
}

// Error prints an error message
func Error(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintln(w, errorColor.Sprintf(format, args...))
}

// Info prints an info message
func Info(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintln(w, infoColor.Sprintf("ℹ "+format, args...))
}

// reportedError marks an error whose diagnostic has already been printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// reportOnError prints the diagnostic for err and passes it through
func reportOnError(w io.Writer, err error) error {
	if err == nil {
		return nil
	}

	var (
		notFound  *platform.NotFoundError
		parseErr  *platform.ParseError
		schemaErr *platform.SchemaError
	)

	switch {
	case errors.As(err, &notFound):
		Error(w, "%s", notFound.Error())
	case errors.As(err, &parseErr):
		Error(w, "Error parsing %s file: %v", strings.ToUpper(parseErr.Format), parseErr.Err)
	case errors.As(err, &schemaErr):
		Error(w, "Invalid platform registry: %v", schemaErr)
	default:
		Error(w, "Error: %v", err)
	}
	return &reportedError{err: err}
}
