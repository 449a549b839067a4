package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/secmon-lab/idswatch/pkg/service/report"
)

func reportSummaryHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := uc.GetReportSummary(r.Context(), queryInt(r, "days"))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, map[string]any{"summary": summary})
	}
}

// reportDays accepts a JSON number or numeric string. Anything else yields
// 0, which selects the default window. Values past report.MaxDays are capped
// before the integer conversion.
func reportDays(n json.Number) int {
	if n == "" {
		return 0
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || !(f > 0) {
		return 0
	}
	return int(min(f, report.MaxDays))
}

func reportBasicHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Days json.Number `json:"days"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		summary, doc, err := uc.GenerateBasicReport(r.Context(), reportDays(req.Days))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, map[string]any{
			"summary":  summary,
			"document": doc,
		})
	}
}

func helpHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, uc.GetHelp(r.Context()))
	}
}
