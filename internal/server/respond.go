package server

import (
	"encoding/json"
	"errors"
	"net/http"

	lferrors "github.com/matzehuels/lottieframes/pkg/errors"
	"github.com/matzehuels/lottieframes/pkg/session"
)

// errorResponse is the body of every failed API call.
type errorResponse struct {
	Code    lferrors.Code `json:"code"`
	Message string        `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, body := errorStatus(err)
	writeJSON(w, status, body)
}

// errorStatus maps an error to its HTTP status and response body.
func errorStatus(err error) (int, errorResponse) {
	if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
		return http.StatusNotFound, errorResponse{Code: lferrors.ErrCodeNotFound, Message: err.Error()}
	}

	code := lferrors.GetCode(err)
	body := errorResponse{Code: code, Message: lferrors.UserMessage(err)}

	switch code {
	case lferrors.ErrCodeInvalidFile, lferrors.ErrCodeParse,
		lferrors.ErrCodeInvalidInput, lferrors.ErrCodeInvalidPath:
		return http.StatusBadRequest, body
	case lferrors.ErrCodeNotFound, lferrors.ErrCodeFileNotFound:
		return http.StatusNotFound, body
	case lferrors.ErrCodeEmptyExport:
		return http.StatusConflict, body
	case lferrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, body
	case lferrors.ErrCodeUnsupported:
		return http.StatusNotImplemented, body
	case "":
		body.Code = lferrors.ErrCodeInternal
	}
	return http.StatusInternalServerError, body
}
