package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wrenworks/wren/internal/config"
	"github.com/wrenworks/wren/internal/engine"
	"github.com/wrenworks/wren/internal/output"
)

// ListCmd creates the 'list' command: enumerate available generators.
func ListCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available generators",
		Run: func(cmd *cobra.Command, args []string) {
			settings, err := config.LoadSettings()
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}
			if root != "" {
				settings.GeneratorsRoot = root
			}

			summaries, err := engine.FromSettings(settings).List()
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			if len(summaries) == 0 {
				output.Info(fmt.Sprintf("No generators found in %s", settings.GeneratorsRoot))
				return
			}

			output.Info(fmt.Sprintf("Generators in %s:", settings.GeneratorsRoot))
			for _, s := range summaries {
				line := s.Type
				if s.Name != "" {
					line = fmt.Sprintf("%s (%s)", s.Type, s.Name)
				}
				if s.Description != "" {
					line += ": " + s.Description
				}
				output.Step(line)
			}
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Generators directory (defaults to wren.yml or ./generators)")

	return cmd
}
