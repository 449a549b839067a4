package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/idswatch/pkg/domain/model/errs"
	"github.com/secmon-lab/idswatch/pkg/utils/safe"
)

const maxBodyBytes = 1 << 20

const msgInvalidJSON = "invalid JSON body"

// decodeJSON reads the request body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer safe.Drain(r.Context(), body)

	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return goerr.New("request body too large", goerr.T(errs.TagInvalidRequest), goerr.V("limit", maxErr.Limit))
		}
		return goerr.New(msgInvalidJSON, goerr.T(errs.TagInvalidRequest), goerr.V("cause", err.Error()))
	}
	return nil
}

// queryList collects a multi-valued query parameter given either as
// repeated keys or as a comma separated list.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for v := range strings.SplitSeq(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// queryInt returns 0 for absent or unparsable values.
func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil {
		return 0
	}
	return v
}
