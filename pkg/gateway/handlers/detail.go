package handlers

import (
	"encoding/json"
	"net/http"
)

// writeDetail serializes an error the way the conversion API does:
// a JSON object with a single "detail" field.
func writeDetail(w http.ResponseWriter, statusCode int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
