package server

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/nikogura/cinescope/pkg/failure"
	"github.com/nikogura/cinescope/pkg/logging"
)

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Error          string   `json:"error"`
	Code           string   `json:"code"`
	AvailableMoods []string `json:"available_moods,omitempty"`
	Response       string   `json:"response,omitempty"`
	Success        *bool    `json:"success,omitempty"`
}

// respondJSON writes v with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("failed to write JSON response")
	}
}

// respondError writes a failure of a known kind.
func respondError(w http.ResponseWriter, r *http.Request, kind failure.Kind, message string) {
	respondJSON(w, r, kind.Status(), errorResponse{Error: message, Code: string(kind)})
}

// respondFailure classifies err and writes it. Unclassified errors become 500s
// carrying the cause text.
func respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	kind := failure.KindOf(err)
	body := errorResponse{Error: err.Error(), Code: string(kind)}

	if fe, ok := failure.As(err); ok {
		body.Error = fe.Error()
		if kind == failure.KindUnknownMood || kind == failure.KindValidation {
			body.AvailableMoods = fe.Options
		}
	}

	if kind == failure.KindInternal {
		body.Error = "Server error: " + err.Error()
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}

	respondJSON(w, r, kind.Status(), body)
}
