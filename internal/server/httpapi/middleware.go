package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type contextKey string

const ownerIDContextKey contextKey = "ownerID"

// authMiddleware is the authorization gate. It extracts the bearer
// credential, verifies it, and puts the resolved subject into the request
// context. Any failure short-circuits with 403 before the wrapped handler
// runs; the gate knows nothing about records. A missing header and a bad
// token are both 403, with distinct error messages.
func (r *Router) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		authz := req.Header.Get("Authorization")
		if authz == "" {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Unauthorized"})
			return
		}
		fields := strings.Fields(authz)
		if len(fields) != 2 {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Invalid token"})
			return
		}
		ownerID, err := r.verifier.Verify(req.Context(), fields[1])
		if err != nil {
			// Every verifier failure collapses to the same response.
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Invalid token"})
			return
		}
		ctx := context.WithValue(req.Context(), ownerIDContextKey, ownerID)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func ownerID(ctx context.Context) string {
	if v := ctx.Value(ownerIDContextKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// requestLogger records method, path, status and duration for each request.
func (r *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, req)
		r.logger.Info("request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
