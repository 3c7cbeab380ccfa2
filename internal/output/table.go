package output

import (
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tubelens/tubelens/internal/core"
)

// TableFormatter renders fetch reports as an ASCII table.
type TableFormatter struct{}

// FormatReport renders a fetch report as a table.
func (f *TableFormatter) FormatReport(report *core.FetchReport) (string, error) {
	if report == nil {
		return "", nil
	}

	header, rows := reportRows(report)

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle(reportTitle(report))

	headerRow := make(table.Row, 0, len(header))
	for _, cell := range header {
		headerRow = append(headerRow, cell)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tableRow := make(table.Row, 0, len(row))
		for _, cell := range row {
			tableRow = append(tableRow, cell)
		}
		t.AppendRow(tableRow)
	}

	footer := make(table.Row, len(header))
	for i := range footer {
		footer[i] = ""
	}
	if len(footer) > 1 {
		footer[1] = reportSummary(report)
	}
	t.AppendFooter(footer)

	return t.Render(), nil
}
