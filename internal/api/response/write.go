package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as a JSON body with the given status. Encoding errors
// are dropped; by the time Encode fails the status line is already on the
// wire.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
