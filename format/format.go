// Package format renders a Portfolio for human or machine consumption.
// Rendering has no invariants beyond "print this mapping": the extraction
// core guarantees the field set, the formatters just lay it out.
package format

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"etoro-extractor/models"
)

const maxColumnWidth = 30

// tableColumns is the display order for the table renderer; only columns
// whose key appears somewhere in the data are rendered.
var tableColumns = []struct {
	key    string
	header string
}{
	{models.FieldName, "Asset Name"},
	{models.FieldDescription, "Description"},
	{models.FieldDirection, "Direction"},
	{models.FieldInvestedPct, "Invested %"},
	{models.FieldProfitLossPct, "P/L %"},
	{models.FieldProfitLoss, "P/L"},
	{models.FieldValuePct, "Value %"},
	{models.FieldSellPrice, "Sell"},
	{models.FieldBuyPrice, "Buy"},
	{models.FieldExtractedFrom, "Source"},
}

// Table renders the portfolio as a readable fixed-width table.
func Table(p *models.Portfolio) string {
	if p == nil {
		return "No portfolio data available."
	}

	var out []string

	user := p.User
	if user == "" {
		user = "Unknown"
	}
	out = append(out, fmt.Sprintf("Portfolio for: %s", user))
	out = append(out, fmt.Sprintf("Total Assets: %d", p.TotalAssets))
	if p.LastUpdated != "" {
		out = append(out, fmt.Sprintf("Last Updated: %s", p.LastUpdated))
	}
	if p.BalancePercentage != "" {
		out = append(out, fmt.Sprintf("Balance: %s", p.BalancePercentage))
	}
	if p.AccessRestricted && p.Message != "" {
		out = append(out, fmt.Sprintf("Note: %s", p.Message))
	}
	out = append(out, strings.Repeat("-", 80))

	if len(p.Assets) == 0 {
		out = append(out, "No assets found in portfolio.")
		return strings.Join(out, "\n")
	}

	present := p.FieldSet()

	var keys, headers []string
	for _, col := range tableColumns {
		if _, ok := present[col.key]; ok {
			keys = append(keys, col.key)
			headers = append(headers, col.header)
		}
	}

	widths := make([]int, len(keys))
	for i, key := range keys {
		widths[i] = len(headers[i])
		for _, a := range p.Assets {
			if w := len(a[key]); w > widths[i] {
				widths[i] = w
			}
		}
		widths[i] += 2
		if widths[i] > maxColumnWidth {
			widths[i] = maxColumnWidth
		}
	}

	headerCells := make([]string, len(headers))
	for i, h := range headers {
		headerCells[i] = pad(h, widths[i])
	}
	headerRow := strings.Join(headerCells, " | ")
	out = append(out, headerRow, strings.Repeat("-", len(headerRow)))

	for _, a := range p.Assets {
		cells := make([]string, len(keys))
		for i, key := range keys {
			cells[i] = pad(a[key], widths[i])
		}
		out = append(out, strings.Join(cells, " | "))
	}

	return strings.Join(out, "\n")
}

// JSON renders the portfolio as indented JSON.
func JSON(p *models.Portfolio) (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("json: marshal portfolio: %w", err)
	}
	return string(data), nil
}

// CSV renders the assets as CSV, one row per asset. The header is the sorted
// union of every key present in the data.
func CSV(p *models.Portfolio) (string, error) {
	if p == nil || len(p.Assets) == 0 {
		return "name\n", nil
	}

	present := p.FieldSet()
	fields := make([]string, 0, len(present))
	for k := range present {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	var buf strings.Builder
	w := csv.NewWriter(&buf)

	if err := w.Write(fields); err != nil {
		return "", fmt.Errorf("csv: write header: %w", err)
	}
	for _, a := range p.Assets {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = a[f]
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("csv: flush: %w", err)
	}
	return buf.String(), nil
}

func pad(s string, width int) string {
	if len(s) > width {
		if width > 3 {
			return s[:width-3] + "..."
		}
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
