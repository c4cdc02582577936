package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	mdwconfig "github.com/msto63/udyr/foundation/core/config"
	mdwlog "github.com/msto63/udyr/foundation/core/log"
	"github.com/msto63/udyr/foundation/udyr"
	"github.com/msto63/udyr/pkg/core/logging"
	"github.com/spf13/cobra"
)

// Exit codes follow sysexits.h
const (
	exitUsage   = 64
	exitDataErr = 65
	exitNoInput = 66
)

var (
	cfgFile  string
	verbose  bool
	maxDepth int

	appConfig *mdwconfig.Config
	appLogger *mdwlog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "udyr [script]",
	Short: "udyr - expression lexer and parser",
	Long: `udyr scans and parses expressions and reports diagnostics.

With a script path every expression in the file is parsed and printed.
Without arguments an interactive prompt is started.

Commands:
  tokens   - print the token stream
  serve    - run the gRPC front end service
  history  - list prompt submissions
  version  - print version information`,
	Args:              usageArgs(1),
	PersistentPreRunE: setup,
	RunE:              runRoot,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command and reports errors on stderr
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		var exit *exitError
		if !errors.As(err, &exit) || !exit.silent {
			printError(rootCmd.ErrOrStderr(), err)
		}
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $UDYR_CONFIG, ./udyr.toml, ~/.config/udyr/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 0, "maximum expression nesting depth (default from config)")
	addOutputFlag(rootCmd)
	rootCmd.Flags().StringVar(&remoteAddr, "remote", "", "parse through a udyr service at host:port")
}

// setup loads configuration and builds the logger before any command runs
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := mdwconfig.LoadFromEnv(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.Parser.MaxDepth = maxDepth
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := logging.FromConfig("udyr", cfg.Log)
	logCfg.Output = cmd.ErrOrStderr()
	appLogger = logging.NewLogger(logCfg)
	appConfig = cfg

	if cfg.Source != "" {
		appLogger.Debug("configuration loaded", mdwlog.Fields{"path": cfg.Source})
	}
	return nil
}

func newEngine() *udyr.Engine {
	return udyr.New(udyr.Options{
		Logger:          appLogger,
		MaxDepth:        appConfig.Parser.MaxDepth,
		MaxSourceLength: appConfig.Parser.MaxSourceLength,
	})
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		if watchScript {
			return runWatch(cmd, args[0])
		}
		return runFile(cmd, args[0])
	}
	return runPrompt(cmd)
}

// exitError carries a process exit code. silent errors were already
// reported (diagnostics) and are not printed again.
type exitError struct {
	code   int
	err    error
	silent bool
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// ExitCode maps an error returned by Execute to a process exit code
func ExitCode(err error) int {
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	return 1
}

// usageArgs rejects more than n positional arguments with exit code 64
func usageArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return &exitError{code: exitUsage, err: fmt.Errorf("usage: %s", cmd.UseLine())}
		}
		return nil
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}

// stdinIsTerminal is replaced in tests
var stdinIsTerminal = func(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && isTerminal(f.Fd())
}
