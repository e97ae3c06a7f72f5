package config

import (
	"encoding/json"
	"net/http"
)

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		Logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// Error writes {"error": message} and, when details is non-empty, a "details" field.
func Error(w http.ResponseWriter, status int, message string, details string) {
	body := map[string]string{"error": message}
	if details != "" {
		body["details"] = details
	}
	JSON(w, status, body)
}
