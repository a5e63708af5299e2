package api

import (
	"errors"
	"net/http"

	"benchfolio/pkg/benchfolio"
)

// Response is the unified envelope for successful responses.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse carries the structured error code alongside the message
// so clients can branch without parsing text.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Code: 0, Data: data})
}

// writeErrorResponse maps structured engine errors to HTTP status codes
// and writes the error envelope.
func writeErrorResponse(w http.ResponseWriter, httpStatus int, err error) {
	response := ErrorResponse{
		Code:    httpStatus,
		Message: err.Error(),
	}

	var engineErr *benchfolio.Error
	if errors.As(err, &engineErr) {
		response.ErrorCode = string(engineErr.Code)
		httpStatus = mapErrorCodeToHTTPStatus(engineErr.Code)
		response.Code = httpStatus
	}

	writeJSON(w, httpStatus, response)
}

func mapErrorCodeToHTTPStatus(code benchfolio.ErrorCode) int {
	switch code {
	case benchfolio.ErrCodeInvalidInput, benchfolio.ErrCodeValidation:
		return http.StatusBadRequest
	case benchfolio.ErrCodeNotFound:
		return http.StatusNotFound
	case benchfolio.ErrCodeMissingCredential:
		return http.StatusPreconditionFailed
	case benchfolio.ErrCodeDatabase, benchfolio.ErrCodeInternal:
		return http.StatusInternalServerError
	case benchfolio.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
