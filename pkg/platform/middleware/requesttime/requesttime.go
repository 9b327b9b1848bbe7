// Package requesttime captures a single "now" per HTTP request so the decision
// timestamp, the audit event, and the response agree.
package requesttime

import (
	"net/http"
	"time"

	"loanassist/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request
// and stores it in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
