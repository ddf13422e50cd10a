// Package reusable implements a low-allocation, resettable alternative to
// the one-shot promise-future pair.
//
// A Source is the producer handle; its Future is the consumer handle for
// the current production cycle. Unlike a one-shot future, the pair is
// recycled: consuming the result resets the shared holder, bumps the
// cycle generation, and (for pooled tasks) returns the bookkeeping object
// to its per-shape pool. Repeated asynchronous calls on a hot path
// therefore allocate nothing per call.
//
// The price of reuse is a stricter contract than package future's:
//
//   - exactly one logical producer and one logical consumer per cycle;
//   - the result may be consumed exactly once per cycle — a second Get or
//     Subscribe on the same generation fails with ErrConsumed;
//   - fanning a result out to several waiters goes through ToFuture,
//     which converts one cycle into an ordinary one-shot future.
//
// Suspension is cooperative: Get parks the calling goroutine on a
// continuation registered in the holder, it never polls. Completion runs
// the continuation on the producer's stack, or through the Executor
// captured with Via when context affinity is wanted.
//
// The driver boundary (Resumable, Task, Pool, Pools) supports external
// machinery that steps suspended computations: drivers are pooled per
// computation shape so resuming a computation does not allocate either.
package reusable
