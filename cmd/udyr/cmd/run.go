package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	mdwerror "github.com/msto63/udyr/foundation/core/error"
	mdwlog "github.com/msto63/udyr/foundation/core/log"
	"github.com/msto63/udyr/foundation/udyr"
	"github.com/msto63/udyr/internal/frontend"
	"github.com/msto63/udyr/internal/history"
	"github.com/msto63/udyr/internal/tui"
	"github.com/msto63/udyr/pkg/core/logging"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	outputSexpr = "sexpr"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var (
	outputFormat string
	remoteAddr   string
)

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFormat, "output", "o", outputSexpr, "output format: sexpr, json or yaml")
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func checkOutputFormat() error {
	switch outputFormat {
	case outputSexpr, outputJSON, outputYAML:
		return nil
	}
	return &exitError{code: exitUsage, err: fmt.Errorf("unknown output format %q (sexpr, json, yaml)", outputFormat)}
}

// readSource reads a script path, or stdin for "-"
func readSource(cmd *cobra.Command, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		wrapped := mdwerror.Wrap(err, "failed to read source").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("cmd.readSource").
			WithDetail("path", path)
		return "", &exitError{code: exitNoInput, err: wrapped}
	}
	return string(data), nil
}

// runFile parses every expression in a script and prints the trees
func runFile(cmd *cobra.Command, path string) error {
	if err := checkOutputFormat(); err != nil {
		return err
	}

	source, err := readSource(cmd, path)
	if err != nil {
		return err
	}

	if remoteAddr != "" {
		return runRemote(cmd, source)
	}

	result, err := newEngine().ParseProgram(source)
	if err != nil {
		return &exitError{code: exitDataErr, err: err}
	}

	if err := writeResult(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	return reportDiagnostics(cmd, result.Diagnostics.Strings())
}

// writeResult prints a parse result in the selected format
func writeResult(w io.Writer, result udyr.Result) error {
	switch outputFormat {
	case outputJSON:
		return writeJSON(w, result.ToMap(false))
	case outputYAML:
		return writeYAML(w, result.ToMap(false))
	default:
		// Partial trees are not printed once anything failed
		if !result.OK() {
			return nil
		}
		for _, expr := range result.Exprs {
			fmt.Fprintln(w, expr.String())
		}
		return nil
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// reportDiagnostics writes diagnostics to stderr and turns them into exit 65
func reportDiagnostics(cmd *cobra.Command, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	for _, line := range lines {
		fmt.Fprintln(cmd.ErrOrStderr(), line)
	}
	return &exitError{
		code:   exitDataErr,
		err:    fmt.Errorf("%d diagnostic(s)", len(lines)),
		silent: true,
	}
}

// runRemote sends the script to a running service
func runRemote(cmd *cobra.Command, source string) error {
	if outputFormat == outputSexpr {
		return &exitError{code: exitUsage, err: fmt.Errorf("--remote requires --output json or yaml")}
	}

	client, err := frontend.Dial(remoteAddr, 10*time.Second, logging.Wrap(appLogger, "udyr-client"))
	if err != nil {
		return err
	}
	defer client.Close()

	resp, err := client.ParseProgram(cmd.Context(), source)
	if err != nil {
		return err
	}

	if outputFormat == outputYAML {
		err = writeYAML(cmd.OutOrStdout(), resp)
	} else {
		err = writeJSON(cmd.OutOrStdout(), resp)
	}
	if err != nil {
		return err
	}

	var lines []string
	diags, _ := resp["diagnostics"].([]interface{})
	for _, d := range diags {
		if m, ok := d.(map[string]interface{}); ok {
			lines = append(lines, fmt.Sprint(m["text"]))
		}
	}
	return reportDiagnostics(cmd, lines)
}

// runPrompt starts the REPL on a terminal, otherwise a line loop
func runPrompt(cmd *cobra.Command) error {
	engine := newEngine()

	store, err := history.Open(appConfig.History.Enabled, appConfig.History.Path)
	if err != nil {
		// History is optional; keep going without persistence
		appLogger.WarnWithErr("history disabled", err)
		store = history.NewMemoryStore()
	}
	defer store.Close()

	session := history.NewSession()
	appLogger.Debug("prompt started", mdwlog.Fields{"session": session})

	if stdinIsTerminal(cmd.InOrStdin()) {
		return tui.Run(engine, store, session)
	}
	return promptLoop(cmd, engine, store, session)
}

// promptLoop reads one expression per line until EOF or an empty line.
// Diagnostics do not end the loop.
func promptLoop(cmd *cobra.Command, engine *udyr.Engine, store history.Store, session string) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	in.Buffer(make([]byte, 0, 64*1024), engine.Options().MaxSourceLength+1)
	out := cmd.OutOrStdout()

	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			fmt.Fprintln(out)
			return in.Err()
		}
		line := in.Text()
		if strings.TrimSpace(line) == "" {
			return nil
		}

		result, err := engine.Parse(line)
		if err != nil {
			printError(cmd.ErrOrStderr(), err)
			continue
		}

		if result.OK() {
			fmt.Fprintln(out, result.Expr().String())
		}
		for _, d := range result.Diagnostics {
			fmt.Fprintln(cmd.ErrOrStderr(), d.String())
		}

		entry := &history.Entry{
			Session:     session,
			Source:      line,
			OK:          result.OK(),
			Diagnostics: len(result.Diagnostics),
		}
		if err := store.Record(context.Background(), entry); err != nil {
			appLogger.WarnWithErr("failed to record history", err)
		}
	}
}
