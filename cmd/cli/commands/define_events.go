package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/gradingcommander/pkg/core/services"
)

// DefineEventsCmd creates the defineEvents command
func DefineEventsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "defineEvents",
		Short: "Save the gradable events declared in the config",
		Long:  "Expand the configured gradable events and event series and save them with their deadline policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := services.DefineEvents(app.Ctx, app.Database, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %d gradable event(s) defined for %s\n\n", len(events), app.Cfg.Course)
			for _, event := range events {
				onTime := "no deadline"
				if t := event.Deadline.OnTime(); !t.IsZero() {
					onTime = t.Format("Mon 2006-01-02 15:04 MST")
				}
				fmt.Printf("  %-24s %-9s %s\n", event.Name, event.Deadline.Type(), onTime)
			}
			fmt.Println()
			return nil
		},
	}
}
