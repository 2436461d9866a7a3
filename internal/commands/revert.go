package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wrenworks/wren/internal/output"
)

// RevertCmd creates the 'revert' command: undo a generator's file actions.
func RevertCmd() *cobra.Command {
	var (
		moduleName string
		parentPath string
		root       string
		vars       []string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "revert [type] [name]",
		Short: "Undo a generator's file actions",
		Long: `Walks the named generator's dependency tree and applies the inverse
of each file action: created and overwritten files are deleted, appended
content is removed again where it still matches byte for byte.

Revert is best-effort per file, not a transaction: a file that is already
gone is reported and the remaining files are still processed.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			req, eng, err := buildRequest(args, moduleName, parentPath, root, vars)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}
			req.Revert = true
			req.DryRun = dryRun

			outcomes, err := eng.Scaffold(cmd.Context(), *req)
			printOutcomes(outcomes)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			output.Success(fmt.Sprintf("Reverted %s %q", req.Type, req.Name))
		},
	}

	cmd.Flags().StringVar(&moduleName, "module", "", "Module name for the template context (defaults to go.mod)")
	cmd.Flags().StringVar(&parentPath, "path", "", "Destination directory template for files without an explicit one")
	cmd.Flags().StringVar(&root, "root", "", "Generators directory (defaults to wren.yml or ./generators)")
	cmd.Flags().StringArrayVar(&vars, "set", nil, "Extra template variable, key=value (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report planned file actions without touching disk")

	return cmd
}
