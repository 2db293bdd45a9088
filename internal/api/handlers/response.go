package handlers

import (
	"encoding/json"
	"net/http"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

func respondWithErrorCode(w http.ResponseWriter, statusCode int, message, code string) {
	respondWithJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"message": message,
		"code":    code,
	})
}
