// Package middleware provides HTTP middleware for the CFO assistant.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/felipeotarola/cfo-orchestrator/internal/logger"
)

const (
	headerRequestID = "X-Request-ID"
	maxRequestIDLen = 64
)

// RequestID is HTTP middleware that propagates X-Request-ID from the request
// header, minting a UUID when the header is missing or oversized. The ID is
// stored in the context for log correlation and echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}

		ctx := logger.WithRequestID(r.Context(), id)
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
