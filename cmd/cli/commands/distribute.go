package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/gradingcommander/pkg/core/services"
)

// DistributeCmd creates the distribute command
func DistributeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distribute <event>",
		Short: "Distribute an event's groups among the TAs",
		Long: `Assign every group of an event to a TA, honouring blacklists and the
configured grader modifiers. The same seed over the same roster reproduces the
same distribution.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetString("seed")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			forceCommit, _ := cmd.Flags().GetBool("force-commit")
			allowOverTarget, _ := cmd.Flags().GetBool("allow-over-target")
			flagModifiers, _ := cmd.Flags().GetStringToInt("modifier")

			modifiers := mergeModifiers(app.Cfg.GraderModifiers, flagModifiers)

			app.Logger.Debug("distribute command",
				zap.String("event", args[0]),
				zap.Bool("dry_run", dryRun),
				zap.Bool("force_commit", forceCommit),
				zap.Any("modifiers", modifiers))

			result, err := services.DistributeGroups(
				app.Ctx,
				app.Database,
				app.Logger,
				args[0],
				modifiers,
				allowOverTarget,
				seed,
				dryRun,
				forceCommit,
			)
			if err != nil {
				return fmt.Errorf("distribution failed: %w", err)
			}

			fmt.Printf("\n🎯 Distribution for %s\n\n", result.Event.Name)
			fmt.Printf("Seed:   %s\n", result.Seed)
			if dryRun {
				fmt.Printf("Mode:   🧪 DRY RUN (not saved)\n")
			} else if result.Committed && result.Outcome.Success() {
				fmt.Printf("Status: ✅ SUCCESS (saved to database)\n")
			} else if result.Committed {
				fmt.Printf("Status: ⚠️  FORCED (saved with unassigned groups)\n")
			} else {
				fmt.Printf("Status: ❌ FAILED (not saved)\n")
			}
			fmt.Println()

			logins := make([]string, 0, len(result.Outcome.Distribution))
			for login := range result.Outcome.Distribution {
				logins = append(logins, login)
			}
			sort.Strings(logins)

			fmt.Printf("%s%-16s  %6s  %6s%s\n", colorBold, "TA", "Groups", "Target", colorReset)
			for _, login := range logins {
				count := len(result.Outcome.Distribution[login])
				target := result.Outcome.Targets[login]
				color := colorGreen
				if count > target {
					color = colorYellow
				}
				fmt.Printf("%-16s  %s%6d%s  %6d\n", login, color, count, colorReset, target)
			}
			fmt.Println()

			if len(result.Outcome.Unresolvable) > 0 {
				fmt.Printf("%s⚠️  Unresolvable groups (%d):%s\n", colorRed, len(result.Outcome.Unresolvable), colorReset)
				for _, group := range result.Outcome.Unresolvable {
					fmt.Printf("  • %s: no conflict-free TA has capacity left\n", group.Name)
				}
				fmt.Println()
			}

			if len(result.Violations) > 0 {
				fmt.Printf("%s⚠️  Validation errors (%d):%s\n", colorRed, len(result.Violations), colorReset)
				for _, v := range result.Violations {
					fmt.Printf("  • %s / %s: %s\n", v.TALogin, v.GroupID, v.Description)
				}
				fmt.Println()
			}

			if dryRun {
				fmt.Println("💡 This was a dry run. Use without --dry-run to save the distribution.")
			} else if !result.Committed && len(result.Violations) == 0 {
				fmt.Println("💡 Use --force-commit to save the distribution with unassigned groups.")
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("seed", "", "Seed for reproducible shuffles (random if empty)")
	cmd.Flags().Bool("dry-run", false, "Run without saving to database")
	cmd.Flags().Bool("allow-over-target", false, "Let TAs go over target to take groups others are blacklisted from")
	cmd.Flags().Bool("force-commit", false, "Save even if some groups could not be assigned")
	cmd.Flags().StringToInt("modifier", nil, "Grader modifier as login=n, overrides the config (repeatable)")

	return cmd
}
