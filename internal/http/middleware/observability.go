package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"courier-dispatch/internal/logx"
)

const anonymousRole = "anonymous"

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status", "role"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of non-streaming HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	httpOpenStreams = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_open_streams",
			Help: "Server-sent event streams currently open",
		},
		[]string{"path"},
	)
)

// init регистрируем метрики
func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpOpenStreams)
}

// Observability counts and logs every request. Event streams live for minutes,
// so they feed the open-streams gauge instead of the latency histogram.
// Expects Identity to run first.
func Observability(logger logx.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			streaming := isStream(r)

			var gauge prometheus.Gauge
			if streaming {
				// паттерн маршрута ещё не известен, метим по префиксу
				gauge = httpOpenStreams.WithLabelValues(streamLabel(r.URL.Path))
				gauge.Inc()
			}

			next.ServeHTTP(ww, r)

			if gauge != nil {
				gauge.Dec()
			}
			path := pathPattern(r) // чтобы не взорвать прометеус
			tm := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			role := anonymousRole
			fields := []logx.Field{
				logx.String("req_id", chimw.GetReqID(r.Context())),
				logx.String("method", r.Method),
				logx.String("path", path),
				logx.Int("status", status),
				logx.Duration("duration", tm),
			}
			if c, ok := CallerFrom(r.Context()); ok {
				role = string(c.Role)
				fields = append(fields, logx.String("caller_id", c.ID), logx.String("caller_role", role))
			}

			code := strconv.Itoa(status)
			httpRequestsTotal.WithLabelValues(r.Method, path, code, role).Inc()
			if !streaming {
				httpRequestDuration.WithLabelValues(r.Method, path, code).Observe(tm.Seconds())
			}

			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("http request", fields...)
			case streaming:
				logger.Info("http stream closed", fields...)
			default:
				logger.Info("http request", fields...)
			}
		})
	}
}

func isStream(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/stream/") ||
		strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

func streamLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/stream/pending"):
		return "/stream/pending"
	case strings.HasPrefix(path, "/stream/orders/"):
		return "/stream/orders/{id}"
	default:
		return "other"
	}
}

func pathPattern(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
