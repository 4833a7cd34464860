package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"service-gateway/internal/common/errors"
	"service-gateway/internal/common/logging"
)

// ErrorResponse is the body of every gateway-generated error
type ErrorResponse struct {
	Success    bool        `json:"success" example:"false"`
	Message    string      `json:"message" example:"Access denied: path not whitelisted"`
	Data       interface{} `json:"data"`
	StatusCode int         `json:"statusCode" example:"403"`
	Timestamp  time.Time   `json:"timestamp"`
}

// MessageResponse acknowledges an administrative action
type MessageResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("Failed to encode response", logging.Err(err))
	}
}

// writeError renders err with its mapped status
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeErrorStatus(w, r, errors.HTTPStatus(err), err)
}

func writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	resp := ErrorResponse{
		Success:    false,
		Message:    publicMessage(status, err),
		StatusCode: status,
		Timestamp:  time.Now().UTC(),
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		if details, ok := appErr.Context["errors"]; ok {
			resp.Data = details
		}
	}

	if status >= http.StatusInternalServerError {
		logging.WithContext(r.Context()).Error("Request failed", err, logging.Int("status", status))
	}
	writeJSON(w, status, resp)
}

// publicMessage hides internal error detail from callers
func publicMessage(status int, err error) string {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		return http.StatusText(status)
	}

	switch appErr.Type {
	case errors.ErrTypeRouteDenied:
		return "Access denied: path not whitelisted"
	case errors.ErrTypeRouteNotConfigured:
		return "Service not configured"
	case errors.ErrTypeCircuitOpen:
		return "Service temporarily unavailable"
	case errors.ErrTypeTransport:
		if status == http.StatusServiceUnavailable {
			return "Service unavailable"
		}
		return "Bad gateway"
	case errors.ErrTypeInternal:
		return http.StatusText(status)
	default:
		return appErr.Message
	}
}
