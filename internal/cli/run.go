package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

var (
	runYes    bool
	runDryRun bool
)

var runCmd = &cobra.Command{
	Use:   "run <instruction>",
	Short: "Turn a natural-language instruction into a safety-checked action",
	Long: `Parse a free-form instruction, build a plan, preview it, and execute it
after confirmation.

Examples:
  deskpilot run "整理桌面"
  deskpilot run "把 作业1.docx 放到 文稿里的机器学习 并重命名为 ML_作业1.docx"
  deskpilot run "move report.pdf to Documents"
  deskpilot run "打开软件 音乐"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAgent()
		if err != nil {
			return err
		}

		in, err := a.Parse(strings.Join(args, " "))
		if err != nil {
			return err
		}

		return runPipeline(a, runOptions{
			ctx:     context.Background(),
			intent:  in,
			confirm: makeConfirm(runYes),
			dryRun:  runDryRun,
		})
	},
}

func init() {
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "Proceed without prompting on high-risk plans")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Preview the plan without executing")
}
