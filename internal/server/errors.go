package server

import (
	"net/http"

	errs "github.com/matzehuels/mutdom/pkg/errors"
)

// statusFor maps an error to the HTTP status reported to the client.
func statusFor(err error) int {
	switch code := errs.GetCode(err); {
	case errs.IsInvalid(err):
		return http.StatusBadRequest
	case code == errs.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case code == errs.ErrCodeNotFound, code == errs.ErrCodeFileNotFound:
		return http.StatusNotFound
	case code == errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as a JSON ErrorResponse. Internal errors are
// reported without detail.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := errs.GetCode(err)
	msg := errs.UserMessage(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Code: string(code), Message: msg})
}
