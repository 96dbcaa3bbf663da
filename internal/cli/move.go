package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/deskpilot/deskpilot/internal/intent"
)

var (
	moveNewName string
	moveYes     bool
	moveDryRun  bool
)

var moveCmd = &cobra.Command{
	Use:   "move <src> <dest-dir>",
	Short: "Move a file into a directory, optionally renaming it",
	Long: `Move <src> into <dest-dir>. With --rename the file gets the new name as
part of the same move; the destination path encodes both.

Both source and destination must sit under an allowed root; moving onto an
existing file escalates the plan to high risk and prompts for confirmation.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAgent()
		if err != nil {
			return err
		}

		return runPipeline(a, runOptions{
			ctx: context.Background(),
			intent: intent.Intent{
				Kind:       intent.KindMoveAndRename,
				SourceFile: args[0],
				DestDir:    args[1],
				NewName:    moveNewName,
			},
			confirm: makeConfirm(moveYes),
			dryRun:  moveDryRun,
		})
	},
}

func init() {
	moveCmd.Flags().StringVarP(&moveNewName, "rename", "r", "", "New file name at the destination")
	moveCmd.Flags().BoolVarP(&moveYes, "yes", "y", false, "Proceed without prompting on high-risk plans")
	moveCmd.Flags().BoolVar(&moveDryRun, "dry-run", false, "Preview the plan without executing")
}
