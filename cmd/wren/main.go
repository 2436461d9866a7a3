package main

import (
	"os"

	"github.com/wrenworks/wren/internal/commands"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.NewCmd())
	rootCmd.AddCommand(commands.RevertCmd())
	rootCmd.AddCommand(commands.ListCmd())
	rootCmd.AddCommand(commands.DescribeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
