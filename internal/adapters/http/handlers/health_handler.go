// Package handlers agrupa os handlers HTTP da aplicação.
package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// HealthHandler responde a sonda de liveness. It sits outside the protection
// layer: no rate limiting, no cache, regardless of the caller's block state.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if logger != nil {
		logger.Error("request failed", zap.Error(err))
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
