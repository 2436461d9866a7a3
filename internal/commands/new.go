package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wrenworks/wren/internal/config"
	"github.com/wrenworks/wren/internal/engine"
	"github.com/wrenworks/wren/internal/output"
	"github.com/wrenworks/wren/internal/scaffold"
)

// NewCmd creates the 'new' command: apply a generator's dependency tree.
func NewCmd() *cobra.Command {
	var (
		moduleName string
		parentPath string
		root       string
		vars       []string
		dryRun     bool
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "new [type] [name]",
		Short: "Scaffold files from a generator",
		Long: `Applies the named generator and every generator it depends on,
leaf-first, rendering each template against the scaffolding context.

Ad hoc template variables are passed with --set; keys beginning with _
are injected verbatim, keys beginning with $ are injected with the
marker stripped.

Example:
  wren new service payment --set '$owner=platform'`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			req, eng, err := buildRequest(args, moduleName, parentPath, root, vars)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}
			req.DryRun = dryRun
			req.Force = force

			outcomes, err := eng.Scaffold(cmd.Context(), *req)
			printOutcomes(outcomes)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			output.Success(fmt.Sprintf("Scaffolded %s %q", req.Type, req.Name))
		},
	}

	cmd.Flags().StringVar(&moduleName, "module", "", "Module name for the template context (defaults to go.mod)")
	cmd.Flags().StringVar(&parentPath, "path", "", "Destination directory template for files without an explicit one")
	cmd.Flags().StringVar(&root, "root", "", "Generators directory (defaults to wren.yml or ./generators)")
	cmd.Flags().StringArrayVar(&vars, "set", nil, "Extra template variable, key=value (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report planned file actions without writing")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite files that already exist")

	return cmd
}

// buildRequest assembles the engine and request shared by new and revert.
func buildRequest(args []string, moduleName, parentPath, root string, rawVars []string) (*engine.Request, *engine.Engine, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, nil, err
	}
	if root != "" {
		settings.GeneratorsRoot = root
	}

	if moduleName == "" {
		moduleName = settings.ModuleName
	}
	if moduleName == "" {
		// Best effort: a missing go.mod just leaves the variable empty.
		if fromGoMod, err := getModulePath("."); err == nil {
			moduleName = fromGoMod
		}
	}

	vars, err := parseVars(rawVars)
	if err != nil {
		return nil, nil, err
	}

	req := &engine.Request{
		Type:       args[0],
		Name:       args[1],
		ModuleName: moduleName,
		ParentPath: parentPath,
		Vars:       vars,
	}
	return req, engine.FromSettings(settings), nil
}

// printOutcomes reports each file action at the appropriate level.
func printOutcomes(outcomes []scaffold.Outcome) {
	for _, o := range outcomes {
		switch o.Action {
		case scaffold.ActionSkipped, scaffold.ActionUnchanged:
			output.Step(o.String())
		case scaffold.ActionFailed:
			output.Error(o.String())
		default:
			output.Info(o.String())
		}
	}
}
