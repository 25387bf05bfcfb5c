// Package handlers provides the HTTP handlers of the JSON API
package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/JhonatanAndres2004/TasteAI/pkg/errors"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError renders any error as the structured error envelope. Unknown
// errors become opaque internal errors so no storage or provider detail leaks.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		appErr = apperrors.Wrap(err, "An unexpected error occurred")
	}

	status := appErr.StatusCode()
	fields := []zap.Field{
		zap.String("code", string(appErr.Code)),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
	if status >= 500 {
		logger.Error("Request failed", fields...)
	} else {
		logger.Warn("Request rejected", fields...)
	}

	writeJSON(w, logger, status, apperrors.ToErrorResponse(appErr, chimiddleware.GetReqID(r.Context())))
}
