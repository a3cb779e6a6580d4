package httpapi

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once
var defaultLogLevel = parseLevel(os.Getenv("VAXSLOTS_HTTP_LOG_LEVEL"))

// SetDefaultLogLevel sets the request log level used when a request carries
// no override.
func SetDefaultLogLevel(s string) { defaultLogLevel = parseLevel(s) }

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// RequestLogger logs one line per request at the effective level. At error
// level only 5xx responses are logged.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lvl := requestLogLevel(r)
		if lvl == LevelOff {
			next.ServeHTTP(w, r)
			return
		}
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sr, r)
		if lvl == LevelError && sr.status < 500 {
			return
		}
		dur := time.Since(start)
		if zlog != nil {
			z := zlog.Info()
			if sr.status >= 500 {
				z = zlog.Error()
			}
			z = z.Str("method", r.Method).Str("path", routePatternOrPath(r)).Int("status", sr.status).Dur("dur", dur)
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				z = z.Str("request_id", rid)
			}
			if lvl >= LevelDebug {
				z = z.Str("remote", r.RemoteAddr).Str("outcome", sr.Header().Get(outcomeHeader))
			}
			z.Msg("request")
			return
		}
		log.Printf("request method=%s path=%s status=%d dur=%s", r.Method, r.URL.Path, sr.status, dur)
	})
}

// logError reports handler-internal failures that do not change the response.
func logError(err error, msg string) {
	if zlog != nil {
		zlog.Error().Err(err).Msg(msg)
		return
	}
	log.Printf("%s: %v", msg, err)
}
