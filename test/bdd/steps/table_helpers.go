package steps

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/anac-utility-go/internal/domain/allocation"
)

// getCellValue gets a cell value from a table row by column name
func getCellValue(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	if len(table.Rows) == 0 {
		return ""
	}
	for i, cell := range table.Rows[0].Cells {
		if cell.Value == columnName && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}

// tableQuantities reads a two-column name/number table into a map. The
// first row is the header; keyColumn and valueColumn name the columns.
func tableQuantities(table *godog.Table, keyColumn, valueColumn string) (map[string]float64, error) {
	out := make(map[string]float64, len(table.Rows))
	for _, row := range table.Rows[1:] {
		key := getCellValue(table, row, keyColumn)
		if key == "" {
			return nil, fmt.Errorf("row is missing column %q", keyColumn)
		}
		value, err := strconv.ParseFloat(getCellValue(table, row, valueColumn), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s for %s: %w", valueColumn, key, err)
		}
		out[key] = value
	}
	return out, nil
}

func approxEqual(a, b float64) bool {
	const tolerance = 1e-9
	return a-b < tolerance && b-a < tolerance
}

func decodeAllocation(data string) (allocation.Allocation, error) {
	var alloc allocation.Allocation
	if err := json.Unmarshal([]byte(data), &alloc); err != nil {
		return allocation.Allocation{}, fmt.Errorf("invalid allocation: %w", err)
	}
	return alloc, nil
}
