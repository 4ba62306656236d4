package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/gradingcommander/pkg/core/services"
)

// GrantExtensionCmd creates the grantExtension command
func GrantExtensionCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grantExtension <event> <group> <on_time>",
		Short: "Give a group a new on-time date for an event",
		Long: `Give a group a new on-time date for an event, replacing any previous
extension. With --shift the policy's early, late and cutoff dates move by the
same amount; otherwise only the new on-time date applies.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, _ := cmd.Flags().GetBool("shift")
			note, _ := cmd.Flags().GetString("note")

			onTime, err := parseTime(args[2], time.Local)
			if err != nil {
				return err
			}

			result, err := services.GrantExtension(app.Ctx, app.Database, app.Logger, args[0], args[1], onTime, shift, note)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Extension granted to %s until %s\n", args[1], onTime.Format(time.RFC3339))
			if result.Resolution.CutoffDiscarded() {
				fmt.Printf("%s⚠️  The late cutoff no longer applies to this group%s\n", colorYellow, colorReset)
			}
			printResolutions(args[0], []services.HandinResolution{*result})
			return nil
		},
	}

	cmd.Flags().Bool("shift", false, "Shift the policy's other dates along with the on-time date")
	cmd.Flags().String("note", "", "Reason for the extension")

	return cmd
}

// RevokeExtensionCmd creates the revokeExtension command
func RevokeExtensionCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "revokeExtension <event> <group>",
		Short: "Remove a group's extension for an event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.RevokeExtension(app.Ctx, app.Database, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Extension revoked for %s\n", args[1])
			printResolutions(args[0], []services.HandinResolution{*result})
			return nil
		},
	}
}
