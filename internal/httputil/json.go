package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/GiorgiUbiria/expense_tracker/internal/logger"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", zap.Error(err))
	}
}

func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, ErrorResponse{Message: msg})
}

func WriteMessage(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, MessageResponse{Message: msg})
}

// ServerError logs err and answers 500. The error text is included only
// when expose is set.
func ServerError(w http.ResponseWriter, r *http.Request, err error, msg string, expose bool) {
	logger.Log.Error(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))

	resp := ErrorResponse{Message: msg}
	if expose {
		resp.Error = err.Error()
	}
	WriteJSON(w, http.StatusInternalServerError, resp)
}

var ErrBadJSON = errors.New("invalid JSON body")

// DecodeJSON reads a JSON object from the request body. An empty body
// decodes as an empty object.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return ErrBadJSON
	}
	return nil
}
