package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskpilot/deskpilot/internal/intent"
)

var openApp string

var openCmd = &cobra.Command{
	Use:   "open [path]",
	Short: "Open a path in the file browser, or an application with --app",
	Long: `Open a path in the system file browser, or launch an application by name
with --app. Paths must sit under an allowed root; applications are not
path-checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAgent()
		if err != nil {
			return err
		}

		var in intent.Intent
		switch {
		case openApp != "" && len(args) == 0:
			in = intent.Intent{Kind: intent.KindOpenApp, AppName: openApp}
		case openApp == "" && len(args) == 1:
			in = intent.Intent{Kind: intent.KindOpenPath, TargetPath: args[0]}
		default:
			return fmt.Errorf("provide exactly one of a path or --app <name>")
		}

		// Opens are low risk; no prompt is ever needed.
		return runPipeline(a, runOptions{
			ctx:     context.Background(),
			intent:  in,
			confirm: makeConfirm(true),
		})
	},
}

func init() {
	openCmd.Flags().StringVarP(&openApp, "app", "a", "", "Application name to launch")
}
