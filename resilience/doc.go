/*
Package resilience provides the failure-absorption primitives used by any node
that calls an external or slow provider: a TTL cache that falls back to stale
data when a refresh fails, and a retry wrapper with exponential backoff.

The retry wrapper is the one layer permitted to return an error to its caller
(the handler), since it sits beneath the node execution boundary; the handler's
boundary converts it into a FAILED result.
*/
package resilience
