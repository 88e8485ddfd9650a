package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// bufferPool holds encode buffers so a failed encode never writes a partial body
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 1024))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// HandleNotFound is the router's JSON 404
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, ErrMsgNotFoundError)
}

// HandleMethodNotAllowed is the router's JSON 405
func HandleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, ErrMsgMethodNotAllowed)
}

// respondServiceError logs err and maps it onto a status and user message
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(op, "error", err, "status", status)
	} else {
		log.Info(op, "error", err, "status", status)
	}
	respondError(w, status, msg)
}

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes and
// messages. Local rejections carry their own explanation; everything from the
// network side is reported generically.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	var ae *domain.ContractAssertionError
	switch {
	case errors.Is(err, domain.ErrActionPending):
		return http.StatusConflict, ErrMsgActionPendingError
	case errors.Is(err, domain.ErrOnCooldown):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, domain.ErrFarmNotFound),
		errors.Is(err, domain.ErrPlotNotFound),
		errors.Is(err, domain.ErrSlotNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrIllegalTransition):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &ae):
		return http.StatusUnprocessableEntity, ae.Message
	case errors.Is(err, domain.ErrNetworkOrIndexerLag):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
