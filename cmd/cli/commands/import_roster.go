package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/gradingcommander/pkg/core/model"
	"github.com/jakechorley/gradingcommander/pkg/core/services"
)

// ImportRosterCmd creates the importRoster command
func ImportRosterCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "importRoster [roster_file]",
		Short: "Import TAs, blacklists and groups",
		Long: `Import the course roster from a YAML file. TAs and their blacklists can
instead be read from a spreadsheet tab with Login, Name and Blacklist columns.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheetID, _ := cmd.Flags().GetString("sheet")
			tab, _ := cmd.Flags().GetString("tab")

			if len(args) == 0 && sheetID == "" {
				return fmt.Errorf("provide a roster file, --sheet, or both")
			}

			roster := &model.Roster{}
			if len(args) > 0 {
				loaded, err := services.LoadRosterFromPath(args[0])
				if err != nil {
					return err
				}
				roster = loaded
			}

			if sheetID != "" {
				client, err := app.SheetsClient()
				if err != nil {
					return err
				}
				tas, err := client.ListTAs(sheetID, tab)
				if err != nil {
					return fmt.Errorf("failed to read TAs from sheet: %w", err)
				}
				app.Logger.Debug("TAs read from sheet",
					zap.String("spreadsheet_id", sheetID),
					zap.Int("count", len(tas)))
				roster.TAs = tas
			}

			result, err := services.ImportRoster(app.Ctx, app.Database, app.Logger, roster)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Roster imported\n\n")
			fmt.Printf("TAs: %d\n", result.TAs)

			events := make([]string, 0, len(result.GroupsByEvent))
			for event := range result.GroupsByEvent {
				events = append(events, event)
			}
			sort.Strings(events)
			for _, event := range events {
				fmt.Printf("  %-24s %d group(s)\n", event, result.GroupsByEvent[event])
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("sheet", "", "Spreadsheet ID to read TAs and blacklists from")
	cmd.Flags().String("tab", "TAs", "Spreadsheet tab holding the TAs")

	return cmd
}
