package middleware

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusRecorder captures the status code written by the handler so
// error responses can be logged without altering them.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.written = true
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.written = true
	return r.ResponseWriter.Write(b)
}

// ErrorHandler recovers from handler panics with a JSON 500 response and
// logs every error status the wrapped handler produces. Handler bodies
// are passed through untouched.
func ErrorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, err)
				if !rec.written {
					rec.Header().Set("Content-Type", "application/json")
					rec.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(rec).Encode(ErrorResponse{Error: "Internal Server Error"})
				}
				return
			}
			if rec.statusCode >= 500 {
				log.Printf("%s %s returned %d", r.Method, r.URL.Path, rec.statusCode)
			}
		}()

		next.ServeHTTP(rec, r)
	})
}
