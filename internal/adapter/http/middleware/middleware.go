package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// APIKeyHeader lets callers send the Shodan key as a header instead of in the body
const APIKeyHeader = "API_KEY"

type contextKey struct{}

var apiKeyContextKey = contextKey{}

// APIKey stores the API_KEY header, when present, in the request context
func APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey := r.Header.Get(APIKeyHeader); apiKey != "" {
			r = r.WithContext(context.WithValue(r.Context(), apiKeyContextKey, apiKey))
		}
		next.ServeHTTP(w, r)
	})
}

// APIKeyFromContext returns the key stored by APIKey
func APIKeyFromContext(ctx context.Context) (string, bool) {
	apiKey, ok := ctx.Value(apiKeyContextKey).(string)
	return apiKey, ok && apiKey != ""
}

// RequestLogger logs one line per request with the client IP, status and duration
func RequestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			entry := log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"ip":       extractIP(r),
				"status":   ww.Status(),
				"bytes":    ww.BytesWritten(),
				"duration": time.Since(start).String(),
			})
			if ww.Status() >= http.StatusInternalServerError {
				entry.Warn("Request failed")
				return
			}
			entry.Info("Request handled")
		})
	}
}

// Recoverer turns a panic in a handler into a JSON 500
func Recoverer(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.WithField("panic", rec).WithField("path", r.URL.Path).Error("Handler panicked")
					sendInternalServerError(w, log)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// sendInternalServerError envia resposta de erro interno 500
func sendInternalServerError(w http.ResponseWriter, log logrus.FieldLogger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)

	response := map[string]string{
		"error": "Internal Server Error",
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.WithError(err).Error("Failed to encode JSON error response")
	}
}

// extractIP extrai o IP real do cliente considerando proxies
func extractIP(r *http.Request) string {
	// 1. Tenta X-Forwarded-For (proxy, load balancer)
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		// Pega o primeiro IP da lista (cliente original)
		ips := strings.Split(forwardedFor, ",")
		return strings.TrimSpace(ips[0])
	}

	// 2. Tenta X-Real-IP (nginx, cloudflare)
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	// 3. Usa RemoteAddr (conexão direta)
	// Remove porta: "192.168.1.1:12345" → "192.168.1.1", "[::1]:12345" → "::1"
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	return strings.Trim(ip, "[]")
}
