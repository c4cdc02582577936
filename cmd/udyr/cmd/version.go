package cmd

import (
	"fmt"

	"github.com/msto63/udyr/pkg/core/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  usageArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkOutputFormat(); err != nil {
			return err
		}
		switch outputFormat {
		case outputJSON:
			return writeJSON(cmd.OutOrStdout(), version.Info())
		case outputYAML:
			return writeYAML(cmd.OutOrStdout(), version.Info())
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, version.String())
		fmt.Fprintf(out, "  Scanner:  %s\n", version.Scanner)
		fmt.Fprintf(out, "  Parser:   %s\n", version.Parser)
		fmt.Fprintf(out, "  Frontend: %s\n", version.Frontend)
		fmt.Fprintf(out, "  History:  %s\n", version.History)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	addOutputFlag(versionCmd)
}
