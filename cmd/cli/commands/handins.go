package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/gradingcommander/pkg/core/model"
	"github.com/jakechorley/gradingcommander/pkg/core/services"
)

// RecordHandinCmd creates the recordHandin command
func RecordHandinCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recordHandin <event> <group> <received>",
		Short: "Record when a group's handin was received",
		Long: `Record when a group's handin was received. <received> is RFC3339,
"2006-01-02 15:04" in local time, or "now".`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			received, err := parseTime(args[2], time.Local)
			if err != nil {
				return err
			}

			handin, err := services.RecordHandin(app.Ctx, app.Database, app.Logger, args[0], args[1], received)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Handin recorded for %s (%s) at %s\n\n",
				args[1], args[0], handin.ReceivedAt.Format(time.RFC3339))
			return nil
		},
	}
}

// ResolveHandinCmd creates the resolveHandin command
func ResolveHandinCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolveHandin <event> [group]",
		Short: "Classify handins against the event deadline",
		Long: `Classify a group's handin as early, on time, late or NC late and show
the resulting bonus or penalty. Without a group every group of the event is
resolved.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				results, err := services.ResolveEvent(app.Ctx, app.Database, app.Logger, args[0])
				if err != nil {
					return err
				}
				printResolutions(args[0], results)
				return nil
			}

			var earned *float64
			if cmd.Flags().Changed("earned") {
				value, _ := cmd.Flags().GetFloat64("earned")
				earned = &value
			}

			result, err := services.ResolveHandin(app.Ctx, app.Database, app.Logger, args[0], args[1], earned)
			if err != nil {
				return err
			}
			printResolutions(args[0], []services.HandinResolution{*result})
			if result.Adjusted != nil {
				fmt.Printf("Earned %g, adjusted %g\n\n", *result.Earned, *result.Adjusted)
			}
			return nil
		},
	}

	cmd.Flags().Float64("earned", 0, "Points earned before the deadline adjustment")

	return cmd
}

func printResolutions(event string, results []services.HandinResolution) {
	fmt.Printf("\n%s%s%s\n\n", colorBold, event, colorReset)
	fmt.Printf("%s%-16s  %-10s  %-8s  %-20s  %s%s\n",
		colorBold, "Group", "Status", "Periods", "Received", "Penalty/Bonus", colorReset)

	for _, res := range results {
		status := res.StatusLabel()
		received := "-"
		periods := "-"
		if res.Handin != nil {
			received = res.Handin.ReceivedAt.Format("2006-01-02 15:04")
			periods = fmt.Sprintf("%d", res.Resolution.PeriodsLate())
		}
		points := formatPoints(res.PenaltyOrBonus())
		if res.Forfeit() {
			points = model.ForfeitLabel
		}
		extended := ""
		if res.Extension != nil {
			extended = " (extension)"
		}
		fmt.Printf("%-16s  %s%-10s%s  %-8s  %-20s  %s%s\n",
			res.Group.Name,
			statusColor(status), status, colorReset,
			periods,
			received,
			points,
			extended)
	}
	fmt.Println()
}
