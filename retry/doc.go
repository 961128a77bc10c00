// Package retry executes fallible units of work against an unreliable
// endpoint.
//
// Do runs one logical operation up to MaxAttempts times with exponential
// backoff between attempts.
//   - Errors that expose Retryable() bool and answer false are surfaced
//     immediately: the service gave a well-formed answer, and repeating the
//     question cannot change it.
//   - Every other error is presumed transient and retried while attempts
//     remain; the last one is surfaced when the budget is exhausted.
//   - The inter-attempt wait honors context cancellation, converting it into
//     an immediate abort rather than a further attempt.
//
// First runs an ordered chain of heterogeneous strategies for answering the
// same question, returning the first present result. It is not a retry:
// strategies are different question shapes, not repeated identical attempts.
package retry
