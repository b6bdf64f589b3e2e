package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"

	"sensorapi/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// unmatchedRoute labels requests no pattern matched, keeping the route label
// bounded.
const unmatchedRoute = "unmatched"

var (
	corsMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodOptions, http.MethodHead,
	}
	corsHeaders = []string{
		"Authorization", "Content-Type", "Accept", "X-Requested-With", requestIDHeader, "Origin",
	}
)

type requestIDKey struct{}

// RequestIDFromContext returns the id requestLogger assigned to the request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func requestLogger(next http.Handler, m *metrics.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, requestID))

		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)

		// The mux records the matched pattern on the request it was handed.
		route := r.Pattern
		if route == "" {
			route = unmatchedRoute
		}
		duration := time.Since(start)
		m.ObserveRequest(r.Method, route, sr.status, duration)

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", sr.status,
			"duration_ms", duration.Milliseconds(),
			"request_id", requestID,
		)
	})
}

// cors allows any origin with credentials. The request Origin is echoed
// because browsers reject "*" on credentialed requests.
func corsOptions(methods, headers []string) []handlers.CORSOption {
	return []handlers.CORSOption{
		handlers.AllowedOriginValidator(func(origin string) bool { return origin != "" }),
		handlers.AllowCredentials(),
		handlers.AllowedMethods(methods),
		handlers.AllowedHeaders(headers),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	}
}

// cors allows any origin, method and header. Preflights get a handler built
// from the request's own Access-Control-Request-* values so that whatever the
// browser asks for is echoed back.
func cors(next http.Handler) http.Handler {
	fixed := handlers.CORS(corsOptions(corsMethods, corsHeaders)...)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.Header.Get("Access-Control-Request-Method")
		if r.Method != http.MethodOptions || method == "" {
			fixed.ServeHTTP(w, r)
			return
		}
		headers := append([]string(nil), corsHeaders...)
		for _, h := range strings.Split(r.Header.Get("Access-Control-Request-Headers"), ",") {
			if h = strings.TrimSpace(h); h != "" {
				headers = append(headers, h)
			}
		}
		methods := append(append([]string(nil), corsMethods...), method)
		handlers.CORS(corsOptions(methods, headers)...)(next).ServeHTTP(w, r)
	})
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	slog.Error("http handler panic", "panic", fmt.Sprint(v...))
}

func recoverer(next http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(false),
	)(next)
}

// Wrap applies the middleware chain every response passes through.
func Wrap(h http.Handler, m *metrics.Metrics) http.Handler {
	return requestLogger(recoverer(cors(h)), m)
}
