// Package routine provides panic-safe function execution helpers.
//
//   - RunSafe/GoSafe: run a function synchronously or in a new goroutine,
//     recovering any panic instead of crashing the process
//   - Recover: deferred panic recovery with optional cleanup hooks
//   - Recovered/RecoveredError: turn a recovered panic into an error that
//     carries the panic site's stack trace
package routine
