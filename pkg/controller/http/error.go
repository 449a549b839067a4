package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/idswatch/pkg/domain/model/errs"
	"github.com/secmon-lab/idswatch/pkg/utils/logging"
	"github.com/secmon-lab/idswatch/pkg/utils/safe"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		logging.From(r.Context()).Error("failed to encode response", logging.ErrAttr(err))
		raw, status = []byte(`{"error":"`+errs.MsgInternal+`"}`), http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, append(raw, '\n'))
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// handleError maps tagged errors to client responses. Untagged errors are
// reported and answered with a generic message.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.From(r.Context())

	switch {
	case goerr.HasTag(err, errs.TagNotFound):
		logger.Warn("Not Found", "error", err)
		writeError(w, r, http.StatusNotFound, err.Error())

	case goerr.HasTag(err, errs.TagValidation), goerr.HasTag(err, errs.TagInvalidRequest):
		logger.Warn("Bad Request", "error", err)
		writeError(w, r, http.StatusBadRequest, err.Error())

	case goerr.HasTag(err, errs.TagUnauthorized):
		logger.Warn("Unauthorized", "error", err)
		writeError(w, r, http.StatusUnauthorized, errs.MsgInvalidSession)

	case goerr.HasTag(err, errs.TagRateLimit):
		logger.Warn("Rate Limit Exceeded", "error", err)
		writeError(w, r, http.StatusTooManyRequests, errs.MsgTooManyRequests)

	default:
		errs.Handle(r.Context(), err)
		writeError(w, r, http.StatusInternalServerError, errs.MsgInternal)
	}
}
