package middleware

import (
	stdhttp "net/http"
	"runtime/debug"
	"strings"

	perr "modelwatch/internal/platform/errors"
	"modelwatch/internal/platform/logger"
	pnet "modelwatch/internal/platform/net"
	phttp "modelwatch/internal/platform/net/http"
)

// RecoverJSON turns a handler panic into a 500 in the standard envelope
// rather than the chi recoverer's plain-text page, so API clients never
// see a non-JSON body. The stack goes to the log under the request id
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}

			reqID := pnet.RequestID(r.Context())

			// indent continuation lines so the whole stack stays inside
			// one log record
			stack := strings.Join(strings.Split(string(debug.Stack()), "\n"), "\n\t")

			logger.C(r.Context()).Error().
				Str("request_id", reqID).
				Interface("panic", v).
				Msgf("panic recovered\n%s", stack)

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}

			status, wr := perr.HTTP(perr.PanicErrf("panic recovered"))
			phttp.JSON(w, status, phttp.Envelope{
				StatusCode: status,
				Status:     stdhttp.StatusText(status),
				Code:       wr.Code,
				Error:      wr.Message,
				RequestID:  reqID,
			})
		}()
		next.ServeHTTP(w, r)
	})
}
