// Package server provides HTTP routing, middleware, and the proxy's route
// handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. The [BasicRouter] implementation uses
// [http.ServeMux] internally with method filtering.
//
// # Handlers
//
// Two [Handler] implementations cover the surface:
//   - [UtilsHandler]: join codes, UUIDs, slugs, health checks. No auth.
//   - [YTMHandler]: ingest/validate/history/library/search/connect. Every
//     route compares the X-Client-Token header against the configured shared
//     secret before doing anything else.
//
// # Status code contract
//
//	401  bad or missing shared secret
//	404  no derivable browser session
//	422  malformed body or query parameters
//	429  rate limited
//	500  persistence or upstream failure
//
// Error bodies use the {"detail": ...} shape the browser extension and CLI
// both parse.
//
// # Middleware stack
//
// [Logging] (request-id tagged), [CORS] (configured origins plus browser
// extension schemes), [RateLimit] (process-wide token bucket), and
// [Metrics.Middleware] (Prometheus counters and latency histograms, exposed
// by [Metrics.Handler] at /metrics).
package server
