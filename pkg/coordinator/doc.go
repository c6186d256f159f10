/*
Package coordinator serializes access to live runs.

A runstate.State has exactly one writer. When a scheduler executes branches concurrently, or
several replicas serve the same run, every mutation goes through Coordinator.Write, which holds
a per-run lock (and, when configured, a distributed lock) for the duration of the callback.
Readers use Coordinator.Read and may proceed in parallel while no writer holds the run.

Checkpoints turn the live state into a domain.RunSnapshot and hand it to a ports.RunStore.
*/
package coordinator
