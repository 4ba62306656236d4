package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/gradingcommander/pkg/core/services"
)

// ViewDistributionCmd creates the viewDistribution command
func ViewDistributionCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewDistribution <event>",
		Short: "Show the committed distribution for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := services.ViewDistribution(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			if len(view.Assignments) == 0 {
				fmt.Printf("\nNo distribution committed for %s.\n\n", view.Event.Name)
				return nil
			}

			fmt.Printf("\n📋 Distribution for %s\n\n", view.Event.Name)
			for _, assignment := range view.Assignments {
				names := make([]string, 0, len(assignment.Groups))
				for _, group := range assignment.Groups {
					names = append(names, group.Name)
				}
				fmt.Printf("%s%-16s%s %2d  %s\n",
					colorBold, assignment.TALogin, colorReset, len(assignment.Groups), strings.Join(names, ", "))
			}
			fmt.Println()

			if len(view.Unassigned) > 0 {
				fmt.Printf("%sUnassigned (%d):%s ", colorYellow, len(view.Unassigned), colorReset)
				names := make([]string, 0, len(view.Unassigned))
				for _, group := range view.Unassigned {
					names = append(names, group.Name)
				}
				fmt.Println(strings.Join(names, ", "))
				fmt.Println()
			}

			return nil
		},
	}
}
