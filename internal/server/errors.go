package server

import (
	"encoding/json"
	"net/http"

	cberrors "github.com/matzehuels/cellbars/pkg/errors"
)

// errorBody is the JSON body of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errNotFound(msg string) error {
	return cberrors.New(cberrors.ErrCodeNotFound, "%s", msg)
}

// statusFor maps an error code to an HTTP status: bad input or
// configuration is 400, a missing resource 404, anything else 500.
func statusFor(err error) int {
	switch {
	case cberrors.IsClientError(err):
		return http.StatusBadRequest
	case cberrors.Is(err, cberrors.ErrCodeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as a JSON error body. Uncoded errors are reported as
// internal errors without their text.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := errorBody{
		Code:    string(cberrors.GetCode(err)),
		Message: cberrors.UserMessage(err),
	}
	if body.Code == "" {
		body.Code = string(cberrors.ErrCodeInternal)
		body.Message = "internal error"
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
