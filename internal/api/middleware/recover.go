package middleware

import (
	"log"
	"net/http"
	"runtime/debug"
)

// Recover is the last-resort handler for panics that escape a request.
// Clients get a generic 500 envelope; the stack goes to the log.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("ERROR [middleware.Recover] panic: %v\n%s", rec, debug.Stack())
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"payload":null,"message":"Server error...something went wrong"}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
