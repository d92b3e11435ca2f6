package middleware

import (
	"encoding/json"
	"net/http"
)

// The API's error body is a bare {"error": message} object; request IDs
// travel in the X-Request-Id header instead.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
