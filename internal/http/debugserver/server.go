// Package debugserver serves profiling and dispatch diagnostics on a separate listener.
package debugserver

import (
	"crypto/subtle"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"courier-dispatch/internal/broadcast"
	"courier-dispatch/internal/logx"
)

// Config stores debug server credentials. Loopback callers skip authentication.
type Config struct {
	User string
	Pass string
}

// StatsSource reports broadcaster subscriber counts.
type StatsSource interface {
	Stats() broadcast.Stats
}

// Handler returns /debug/pprof/*, /debug/vars and /debug/dispatch behind basic auth.
// A nil stats source disables /debug/dispatch.
func Handler(cfg Config, stats StatsSource, logger logx.Logger) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}

	r := chi.NewRouter()
	r.Use(guard(cfg, logger))
	r.Mount("/debug", chimw.Profiler())
	if stats != nil {
		r.Get("/debug/dispatch", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(stats.Stats()); err != nil {
				logger.Debug("debug stats write failed", logx.Err(err))
			}
		})
	}
	return r
}

func guard(cfg Config, logger logx.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isLoopback(r.RemoteAddr) {
				next.ServeHTTP(w, r)
				return
			}
			u, p, ok := r.BasicAuth()
			if cfg.User == "" || cfg.Pass == "" || !ok || !secureEq(u, cfg.User) || !secureEq(p, cfg.Pass) {
				logger.Warn("debug endpoint rejected",
					logx.String("remote", r.RemoteAddr),
					logx.String("path", r.URL.Path),
				)
				w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func secureEq(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func isLoopback(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	ip := net.ParseIP(strings.TrimSpace(host))
	return ip != nil && ip.IsLoopback()
}
