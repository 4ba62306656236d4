package sheetsclient

import (
	"fmt"
	"strings"

	"github.com/jakechorley/gradingcommander/pkg/core/model"
)

// Expected column names in the TA roster sheet
var rosterFields = []string{
	"Login",
	"Name",
	"Blacklist",
}

// ListTAs retrieves and parses the TA roster from a spreadsheet tab
func (c *Client) ListTAs(spreadsheetID, tab string) ([]model.RosterTA, error) {
	values, err := c.GetValues(spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("roster sheet is empty")
	}

	tas, err := parseRoster(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	return tas, nil
}

// parseRoster converts raw spreadsheet data into roster TAs. The Blacklist
// column holds comma or whitespace separated student logins.
func parseRoster(raw [][]interface{}) ([]model.RosterTA, error) {
	header := raw[0]
	fieldIndexes := make(map[string]int, len(rosterFields))
	for _, field := range rosterFields {
		index := findColumnIndex(header, field)
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		fieldIndexes[field] = index
	}

	getField := func(field string, row []interface{}) string {
		index := fieldIndexes[field]
		if index >= len(row) {
			return ""
		}
		if str, ok := row[index].(string); ok {
			return strings.TrimSpace(str)
		}
		return ""
	}

	tas := make([]model.RosterTA, 0, len(raw)-1)
	seen := make(map[string]int)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		login := getField("Login", row)
		// Skip empty rows
		if login == "" {
			continue
		}
		if prev, ok := seen[login]; ok {
			return nil, fmt.Errorf("duplicate login %s in rows %d and %d", login, prev, i)
		}
		seen[login] = i

		tas = append(tas, model.RosterTA{
			Login: login,
			Name:  getField("Name", row),
			Blacklist: strings.FieldsFunc(getField("Blacklist", row), func(r rune) bool {
				return r == ',' || r == ' ' || r == '\n'
			}),
		})
	}

	return tas, nil
}

// findColumnIndex finds the index of a column by its header name
func findColumnIndex(header []interface{}, columnName string) int {
	for i, cell := range header {
		if str, ok := cell.(string); ok && strings.TrimSpace(str) == columnName {
			return i
		}
	}
	return -1
}
