package middleware

import (
	"net/http"
	"time"

	"modelwatch/internal/platform/logger"
	pnet "modelwatch/internal/platform/net"
)

// AccessLogOptions tunes the access line emitted per request
type AccessLogOptions struct {
	// Slow raises the line to warn once elapsed reaches it, zero never does
	Slow time.Duration
}

// responseTap records what the handler wrote so the access line can carry
// status and byte count. Handlers that never call WriteHeader implicitly
// send 200, which is why the tap starts there
type responseTap struct {
	http.ResponseWriter
	status int
	wrote  int
}

func (t *responseTap) WriteHeader(code int) {
	t.status = code
	t.ResponseWriter.WriteHeader(code)
}

func (t *responseTap) Write(b []byte) (int, error) {
	n, err := t.ResponseWriter.Write(b)
	t.wrote += n
	return n, err
}

// RequestScope copies the request id minted upstream into the logger scope,
// so every line logged while serving the request carries request_id without
// handlers threading it by hand. Mount after RequestID
func RequestScope() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := pnet.RequestID(r.Context()); id != "" {
				r = r.WithContext(logger.WithRequest(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog emits one structured line per served request through the scoped
// logger. It logs after the handler returns rather than from a defer, so it
// must sit outside RecoverJSON to see the 500 a recovered panic produces
func AccessLog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tap := &responseTap{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(tap, r)

			elapsed := time.Since(start)
			log := logger.C(r.Context())

			evt := log.Info()
			if opt.Slow > 0 && elapsed >= opt.Slow {
				evt = log.Warn()
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", tap.status).
				Int("bytes", tap.wrote).
				Dur("elapsed", elapsed).
				Msg("request served")
		})
	}
}
