package output

import (
	"encoding/json"

	"github.com/tubelens/tubelens/internal/core"
)

// JSONFormatter renders fetch reports as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatReport renders a fetch report as JSON.
func (f *JSONFormatter) FormatReport(report *core.FetchReport) (string, error) {
	if report == nil {
		return "", nil
	}

	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
