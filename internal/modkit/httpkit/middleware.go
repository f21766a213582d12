package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"modelwatch/internal/platform/config"
	"modelwatch/internal/platform/net/middleware"
)

// CommonStack returns the baseline middleware slice for API scopes.
// MODELWATCH_API_CORS_ORIGINS narrows cross-origin access to a comma
// separated allowlist; unset means any origin, which suits a public feed.
// MODELWATCH_API_SLOW_REQ moves the warn threshold for slow requests
func CommonStack() []func(http.Handler) http.Handler {
	apiCfg := config.New().Prefix("MODELWATCH_API_")
	return []func(http.Handler) http.Handler{
		// correlation first so everything downstream logs with a request id
		middleware.RequestID(),
		middleware.RealIP(),

		// health probes answer here so balancer polling stays out of the log
		middleware.Heartbeat("/health"),

		middleware.RequestScope(),
		middleware.AccessLog(middleware.AccessLogOptions{
			Slow: apiCfg.MayDuration("SLOW_REQ", 2*time.Second),
		}),

		// the recoverer sits inside the access log so a recovered panic
		// still produces a 500 line
		middleware.RecoverJSON,

		// the API is public, keep a global in-flight cap
		middleware.Throttle(100),

		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil),
		}),
		middleware.NoCache(),
		middleware.Compress(flate.BestSpeed),

		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		middleware.Timeout(15 * time.Second),
	}
}
