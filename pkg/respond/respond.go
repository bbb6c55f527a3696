package respond

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	json.NewEncoder(w).Encode(data)
}

// Error writes message together with the request id set by middleware.RequestID.
func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, ErrorBody{
		Error:     message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}
