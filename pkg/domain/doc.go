/*
Package domain contains the pure data model shared by the variable pool, the run state and
their persistence collaborators.

It is free of I/O. Everything here is plain data plus small helpers: the well-known scope
identifiers and system variable keys, the enumerations describing who invoked a run and how a
node finished, the node execution result record, iteration and loop frames, run snapshots and
lifecycle hooks.

# Key Entities

  - NodeRunResult: the outcome of one node attempt (status, inputs, outputs, metadata, usage, retry index).
  - NodeRunMetadataKey: the closed set of metadata keys a result may carry.
  - IterationState / LoopState: the active repeated-execution frame of a run.
  - RunSnapshot: a serializable copy of a run, produced for stores and traces.
  - LifecycleHooks: callbacks a scheduler installs to observe a run.
*/
package domain
