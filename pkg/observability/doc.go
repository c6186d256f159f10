// Package observability turns run lifecycle events into Prometheus metrics and structured logs.
//
// Both are plain domain.LifecycleHooks; pass them to runstate.WithHooks, combined with Combine
// when more than one consumer is needed.
package observability
