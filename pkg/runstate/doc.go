// Package runstate holds the per-run ledger a workflow scheduler writes to: the variable pool,
// token and step counters, the node result history, the node dispatch ledger and the active
// iteration and loop frames.
//
// A State has a single writer. Use package coordinator when branches write concurrently.
package runstate
