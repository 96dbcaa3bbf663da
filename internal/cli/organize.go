package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/deskpilot/deskpilot/internal/intent"
)

var (
	organizeYes    bool
	organizeDryRun bool
)

var organizeCmd = &cobra.Command{
	Use:   "organize [dir]",
	Short: "Classify and file away everything directly under a directory",
	Long: `Organize the files directly under [dir] (default: ~/Desktop) using the
configured keyword and extension rules. Subdirectories are left alone.

Files no rule matches stay in place and are listed in the preview. Organize
plans with more than one move are always treated as high risk and prompt for
confirmation unless --yes is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAgent()
		if err != nil {
			return err
		}

		dir := ""
		if len(args) > 0 {
			dir = args[0]
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			dir = filepath.Join(home, "Desktop")
		}

		return runPipeline(a, runOptions{
			ctx:     context.Background(),
			intent:  intent.Intent{Kind: intent.KindOrganizeAll, SourceDir: dir},
			confirm: makeConfirm(organizeYes),
			dryRun:  organizeDryRun,
		})
	},
}

func init() {
	organizeCmd.Flags().BoolVarP(&organizeYes, "yes", "y", false, "Proceed without prompting on high-risk plans")
	organizeCmd.Flags().BoolVar(&organizeDryRun, "dry-run", false, "Preview the plan without executing")
}
