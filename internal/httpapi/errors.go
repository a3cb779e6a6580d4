package httpapi

import (
	"encoding/json"
	"net/http"

	"vaxslots/pkg/types"
)

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeJSON writes v with status 200. The center endpoints report failures
// in the body, never in the status code.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logError(err, "encode response")
	}
}

// writeFailure writes the {error: msg} body used by the legacy endpoints.
func writeFailure(w http.ResponseWriter, msg string) {
	writeJSON(w, types.ErrorResponse{Error: msg})
}

// decodeJSON reads a size-limited JSON body into v. On failure it writes a
// 400 and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// If exceeded size, MaxBytesReader may cause an error; still return 400 to avoid size leak details
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
