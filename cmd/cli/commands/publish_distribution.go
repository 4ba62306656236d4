package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/gradingcommander/pkg/clients/sheetsclient"
	"github.com/jakechorley/gradingcommander/pkg/core/services"
)

// PublishDistributionCmd creates the publishDistribution command
func PublishDistributionCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishDistribution <event>",
		Short: "Publish an event's distribution and handin statuses to the distribution sheet",
		Long: `Resolve every handin of the event and write the committed distribution,
with each group's status and penalty or bonus, to the event's tab of the
distribution spreadsheet. Grade and Notes columns filled in by TAs are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			published, err := services.PublishDistribution(app.Ctx, app.Database, client, app.Cfg, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Published %d row(s) to tab %q\n\n",
				len(published.Rows), sheetsclient.DistributionTabTitle(published.Event))
			return nil
		},
	}
}
