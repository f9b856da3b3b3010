package webutil

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

const ContentTypeJSON = "application/json"

// WriteJSON writes body as the JSON response with the given status. Encode
// failures are logged with the request's logger since the status is already sent.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Err(err).Msg("Failed to encode response")
	}
}
