package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tubelens/tubelens/internal/core"
)

// QuotaStatusProvider reports the current position inside the sliding
// admission window. The serve command wires it to the process throttle.
type QuotaStatusProvider func() core.QuotaStatus

var quotaStatus QuotaStatusProvider

// SetQuotaStatusProvider installs the quota status source for QuotaHandler.
func SetQuotaStatusProvider(provider QuotaStatusProvider) {
	quotaStatus = provider
}

// QuotaHandler reports the configured throttle shape and the live admission
// window of this process.
func QuotaHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if quotaStatus == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": "quota status unavailable",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(quotaStatus())
}
