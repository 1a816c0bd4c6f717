// Command editkit parses LLM responses into edit plans and applies them to a
// project directory.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", ".", "project root directory")

	applyCmd.Flags().StringSliceVarP(&flagContext, "file", "f", nil, "context file the response may edit (repeatable)")
	applyCmd.Flags().StringVar(&flagFormat, "format", "", "wire format of the response")
	applyCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "apply every edit without asking")
	applyCmd.Flags().IntSliceVar(&flagSubset, "only", nil, "apply only the edits at these indices")

	rootCmd.AddCommand(applyCmd, undoCmd, redoCmd, formatsCmd, schemaCmd)
}

var (
	flagRoot    string
	flagContext []string
	flagFormat  string
	flagYes     bool
	flagSubset  []int

	rootCmd = &cobra.Command{
		Use:           "editkit",
		Short:         "Parse and apply LLM edit responses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	applyCmd = &cobra.Command{
		Use:   "apply [response-file]",
		Short: "Parse a model response and apply its edits to the project",
		Long: `Parse a model response and apply its edits to the project.

The response is read from the named file, or from stdin when no file is
given. Context files name what the response is allowed to edit; paths are
relative to the project root.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runApply,
	}

	undoCmd = &cobra.Command{
		Use:   "undo",
		Short: "Reverse the most recently applied edit batch",
		Args:  cobra.NoArgs,
		RunE:  runUndo,
	}

	redoCmd = &cobra.Command{
		Use:   "redo",
		Short: "Re-apply the most recently undone edit batch",
		Args:  cobra.NoArgs,
		RunE:  runRedo,
	}

	formatsCmd = &cobra.Command{
		Use:   "formats",
		Short: "List the registered wire formats",
		Args:  cobra.NoArgs,
		RunE:  runFormats,
	}

	schemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the block format's edit metadata",
		Args:  cobra.NoArgs,
		RunE:  runSchema,
	}
)
