package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "List or load bundled example snapshots",
}

var examplesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List example snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		names, err := a.store.ListExamples()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var examplesLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Make an example the active snapshot",
	Example: `  knowval examples load 05_missing_domain.json
  knowval validate`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		kb, err := a.store.LoadExample(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Loaded %s (snapshot %s)\n", args[0], kb.SnapshotID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(examplesCmd)
	examplesCmd.AddCommand(examplesListCmd)
	examplesCmd.AddCommand(examplesLoadCmd)
}
