package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wrenworks/wren/internal/config"
	"github.com/wrenworks/wren/internal/engine"
	"github.com/wrenworks/wren/internal/output"
)

// DescribeCmd creates the 'describe' command: show a generator's
// documentation and every file action it performs, dependencies after the
// generator itself.
func DescribeCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "describe [type]",
		Short: "Show a generator's file actions and dependencies",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			settings, err := config.LoadSettings()
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}
			if root != "" {
				settings.GeneratorsRoot = root
			}

			descriptions, err := engine.FromSettings(settings).Describe(args[0])
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			for _, d := range descriptions {
				header := d.Type
				if d.Name != "" {
					header = fmt.Sprintf("%s (%s)", d.Type, d.Name)
				}
				output.Info(header)
				if d.Description != "" {
					output.Step(d.Description)
				}
				for _, f := range d.Files {
					output.Step(fmt.Sprintf("%s %s", f.Method, f.Path))
				}
			}
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Generators directory (defaults to wren.yml or ./generators)")

	return cmd
}
