// Package middleware provides various middleware functionality.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxType string

const requestIDKey ctxType = "requestID"

// RequestIDHandle tags every request with an identifier for log correlation,
// honoring an identifier supplied by an upstream proxy.
func RequestIDHandle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID)))
	})
}

// GetRequestID retrieves the request identifier set by RequestIDHandle.
func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey).(string)
	return requestID
}
