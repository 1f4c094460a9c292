package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"emberly_server/services"
)

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Dependency errors deliberately stay generic so internals never leak.
func respondServiceError(w http.ResponseWriter, err error) {
	if qe, ok := services.AsQuotaExceeded(err); ok {
		writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error":          "daily like limit reached",
			"remainingLikes": qe.Remaining,
			"dailyLimit":     qe.Limit,
			"isPremium":      qe.IsPremium,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "profile or match not found")
	case errors.Is(err, services.ErrConflict):
		writeError(w, http.StatusConflict, "concurrent update, please retry")
	case errors.Is(err, services.ErrDependency):
		log.Printf("❌ Dependency failure: %v", err)
		writeError(w, http.StatusServiceUnavailable, "temporarily unavailable, please retry later")
	default:
		log.Printf("❌ Unexpected error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
