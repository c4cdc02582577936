package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [file|-]",
	Short: "Print the token stream of a file or stdin",
	Long: `Scans the input and prints one token per line as
"KIND lexeme literal". Lexical diagnostics go to stderr.

Examples:
  udyr tokens expr.lox
  echo '1 + 2' | udyr tokens
  udyr tokens -o json expr.lox`,
	Args: usageArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	addOutputFlag(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	if err := checkOutputFormat(); err != nil {
		return err
	}

	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	source, err := readSource(cmd, path)
	if err != nil {
		return err
	}

	result, err := newEngine().Scan(source)
	if err != nil {
		return &exitError{code: exitDataErr, err: err}
	}

	switch outputFormat {
	case outputJSON:
		err = writeJSON(cmd.OutOrStdout(), result.ToMap())
	case outputYAML:
		err = writeYAML(cmd.OutOrStdout(), result.ToMap())
	default:
		for _, t := range result.Tokens {
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
		}
	}
	if err != nil {
		return err
	}

	return reportDiagnostics(cmd, result.Diagnostics.Strings())
}
