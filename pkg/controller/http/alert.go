package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/idswatch/pkg/domain/model/alert"
	"github.com/secmon-lab/idswatch/pkg/domain/model/errs"
	"github.com/secmon-lab/idswatch/pkg/domain/types"
	"github.com/secmon-lab/idswatch/pkg/service/alertquery"
)

func listOptionsFromQuery(r *http.Request) alertquery.ListOptions {
	q := r.URL.Query()
	return alertquery.ListOptions{
		Page:      queryInt(r, "page"),
		PageSize:  queryInt(r, "pageSize"),
		Severity:  queryList(r, "severity"),
		Type:      queryList(r, "type"),
		Status:    queryList(r, "status"),
		Search:    q.Get("search"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
}

func alertListHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := uc.ListAlerts(r.Context(), listOptionsFromQuery(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, result)
	}
}

func alertSummaryHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := uc.GetAlertSummary(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, map[string]any{"summary": summary})
	}
}

func alertDashboardHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, err := uc.GetDashboard(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, dashboard)
	}
}

func alertGetHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alertID := types.AlertID(chi.URLParam(r, "alertID"))
		a, err := uc.GetAlert(r.Context(), alertID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if a == nil {
			writeError(w, r, http.StatusNotFound, errs.MsgAlertNotFound)
			return
		}
		writeJSON(w, r, http.StatusOK, map[string]any{"alert": a})
	}
}

type actionRequest struct {
	ActionType   string  `json:"actionType"`
	Notes        string  `json:"notes"`
	NextStatus   *string `json:"nextStatus"`
	Acknowledged *bool   `json:"acknowledged"`
}

func alertActionHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalFrom(r)
		if err != nil {
			handleError(w, r, err)
			return
		}

		var req actionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		alertID := types.AlertID(chi.URLParam(r, "alertID"))
		input := alert.ActionInput{
			Type:         req.ActionType,
			Notes:        req.Notes,
			NextStatus:   req.NextStatus,
			Acknowledged: req.Acknowledged,
		}
		updated, err := uc.AddAlertAction(r.Context(), alertID, input, principal.User)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if updated == nil {
			writeError(w, r, http.StatusNotFound, errs.MsgAlertNotFound)
			return
		}
		writeJSON(w, r, http.StatusCreated, map[string]any{"alert": updated})
	}
}
