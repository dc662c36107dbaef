package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/phoenix/apps/go-server/internal/apperr"
)

// maxBody caps request bodies.
const maxBody = 1 << 20

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// errorRes is the body of every error response.
type errorRes struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeError maps err to a status and JSON body. Server-side failures are
// logged with their cause; the cause is never sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.CodeOf(err)
	st := code.HTTPStatus()
	if st >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Str("code", string(code)).Msg("request failed")
	}
	writeJSON(w, st, errorRes{Error: strings.ToLower(string(code)), Detail: apperr.MessageOf(err)})
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Invalid("request body is empty")
		case errors.As(err, &tooBig):
			return apperr.Invalid("request body too large")
		default:
			return apperr.Wrap(apperr.CodeValidation, "invalid JSON body", err)
		}
	}
	return nil
}
