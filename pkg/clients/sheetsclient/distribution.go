package sheetsclient

import (
	"fmt"
	"strings"

	"github.com/jakechorley/gradingcommander/pkg/core/model"
)

// Columns written on every publish. Any columns to their right (e.g. Grade,
// Notes) belong to the TAs and are carried over by group.
var managedColumns = []interface{}{"TA", "Group", "Members", "Status", "Penalty/Bonus"}

// extraColumns are appended to the header when a tab is first created
var extraColumns = []interface{}{"Grade", "Notes"}

// DistributionTabTitle returns the tab an event's distribution is published to
func DistributionTabTitle(event string) string {
	return "Distribution - " + event
}

// valuesAPI is the part of Client used to publish a distribution
type valuesAPI interface {
	HasSheet(spreadsheetID, sheetTitle string) (bool, error)
	CreateSheet(spreadsheetID, sheetTitle string) (int64, error)
	GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error)
	ClearValues(spreadsheetID, sheetRange string) error
	UpdateValues(spreadsheetID, sheetRange string, values [][]interface{}) error
}

// PublishDistribution publishes a distribution to Google Sheets
// If the tab doesn't exist it is created. If it does, the managed columns
// are rewritten and the TA-owned columns are preserved for each group.
func (c *Client) PublishDistribution(spreadsheetID string, published *model.PublishedDistribution) error {
	return publishDistribution(c, spreadsheetID, published)
}

// publishDistribution builds the new tab contents before touching the sheet,
// so an unexpected existing layout is reported without losing TA columns
func publishDistribution(api valuesAPI, spreadsheetID string, published *model.PublishedDistribution) error {
	tabTitle := DistributionTabTitle(published.Event)

	exists, err := api.HasSheet(spreadsheetID, tabTitle)
	if err != nil {
		return err
	}

	var existing [][]interface{}
	if exists {
		existing, err = api.GetValues(spreadsheetID, tabTitle+"!A1:ZZ")
		if err != nil {
			return fmt.Errorf("failed to read existing tab data: %w", err)
		}
	}

	values, err := buildDistributionValues(published, existing)
	if err != nil {
		return err
	}

	if exists {
		if err := api.ClearValues(spreadsheetID, tabTitle+"!A1:ZZ"); err != nil {
			return fmt.Errorf("failed to clear existing tab: %w", err)
		}
	} else {
		if _, err := api.CreateSheet(spreadsheetID, tabTitle); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	}

	if err := api.UpdateValues(spreadsheetID, tabTitle+"!A1", values); err != nil {
		return fmt.Errorf("failed to write distribution: %w", err)
	}

	return nil
}

// buildDistributionValues lays out the header and one row per group. When
// existing holds a previously published tab, its header extras and the
// extra cells of each group still present are kept.
func buildDistributionValues(published *model.PublishedDistribution, existing [][]interface{}) ([][]interface{}, error) {
	extras := extraColumns
	preserved := make(map[string][]interface{})

	if len(existing) > 0 {
		header := existing[0]
		if len(header) < len(managedColumns) || findColumnIndex(header, "Group") != 1 {
			return nil, fmt.Errorf("existing tab has an unexpected header: %v", header)
		}
		extras = header[len(managedColumns):]

		for _, row := range existing[1:] {
			if len(row) <= len(managedColumns) {
				continue
			}
			if group, ok := row[1].(string); ok && group != "" {
				preserved[group] = row[len(managedColumns):]
			}
		}
	}

	header := append(append([]interface{}{}, managedColumns...), extras...)
	values := [][]interface{}{header}

	for _, row := range published.Rows {
		var points interface{} = row.PenaltyOrBonus
		if row.Forfeit {
			points = model.ForfeitLabel
		}
		sheetRow := []interface{}{
			row.TA,
			row.Group,
			strings.Join(row.Members, ", "),
			row.Status,
			points,
		}
		sheetRow = append(sheetRow, preserved[row.Group]...)
		values = append(values, sheetRow)
	}

	return values, nil
}
