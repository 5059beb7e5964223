// Package services adapts the session cache and InnerTube client into the
// operations the HTTP layer exposes.
//
// # Outcome taxonomy
//
// Every query has three distinguishable outcomes:
//   - no derivable session: [shared.ErrNotConnected] (handlers map it to 404)
//   - upstream failure: an error wrapping [shared.ErrUpstream] (mapped to 500)
//   - success: nil error, possibly with zero rows (mapped to 200)
//
// Emptiness is never used as a failure sentinel; callers match with
// errors.Is instead of inspecting row counts.
//
// # Dispatch
//
// Upstream calls block on network I/O, so [YTMusicService] runs each one on
// the shared [tasks.Pool] and awaits the result. A request's context releases
// the handler on cancellation, but an in-flight upstream call keeps its
// worker slot until it returns.
//
// # Validation
//
// [YTMusicService.Validate] is the one advisory operation: it reports
// ok/message/sample for human consumption and deliberately collapses
// upstream failure and empty history into the same retry message.
package services
