package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deskpilot/deskpilot/internal/config"
)

var rulesInit bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the loaded classification rules and allowed roots",
	Long: `Show the rules deskpilot is running with: allowed roots, keyword rules,
and extension rules, in evaluation order.

With --init, write a starter rules file to the config directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := config.DefaultPaths()
		if err != nil {
			return err
		}

		if rulesInit {
			if err := paths.EnsureDirectories(); err != nil {
				return err
			}
			if err := config.WriteDefaultRules(paths.RulesFile); err != nil {
				return err
			}
			PrintSuccess(fmt.Sprintf("Wrote starter rules to %s", paths.RulesFile))
			return nil
		}

		rs, err := config.LoadRules(paths.RulesFile)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(rs)
		}

		PrintSection("Allowed Roots")
		PrintList(rs.AllowedRoots, 1)

		PrintSection("Keyword Rules")
		if len(rs.KeywordRules) == 0 {
			PrintInfo("  (none)")
		}
		for _, r := range rs.KeywordRules {
			PrintLabelValue(strings.Join(r.Keywords, ", "), r.Dest)
		}

		PrintSection("Extension Rules")
		if len(rs.ExtensionRules) == 0 {
			PrintInfo("  (none)")
		}
		for _, r := range rs.ExtensionRules {
			PrintLabelValue(strings.Join(r.Extensions, ", "), r.Dest)
		}

		fmt.Println()
		PrintLabelValue("Rules file", paths.RulesFile)
		return nil
	},
}

func init() {
	rulesCmd.Flags().BoolVar(&rulesInit, "init", false, "Write a starter rules file")
}
