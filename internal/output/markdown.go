package output

import (
	"fmt"
	"strings"

	"github.com/tubelens/tubelens/internal/core"
)

// MarkdownFormatter renders fetch reports as a markdown table.
type MarkdownFormatter struct{}

// FormatReport renders a fetch report as Markdown.
func (f *MarkdownFormatter) FormatReport(report *core.FetchReport) (string, error) {
	if report == nil {
		return "", nil
	}

	header, rows := reportRows(report)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", escapeMarkdownCell(reportTitle(report))))

	cells := make([]string, 0, len(header))
	for _, cell := range header {
		cells = append(cells, escapeMarkdownCell(cell))
	}
	sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")

	separators := make([]string, len(header))
	for i := range separators {
		separators[i] = "---"
	}
	sb.WriteString("|" + strings.Join(separators, "|") + "|\n")

	for _, row := range rows {
		cells = cells[:0]
		for _, cell := range row {
			cells = append(cells, escapeMarkdownCell(cell))
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	sb.WriteString(fmt.Sprintf("\n**Fetched**: %s\n", reportSummary(report)))
	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
