/*
Package ports defines the driven ports (interfaces) of weft.

The variable pool and the run state are plain in-memory values. These interfaces let a run
coordinator persist checkpoints and serialize writers without the core knowing about any
storage backend.

# Key Interfaces

  - RunStore: persists and loads run snapshots.
  - DistributedLocker: serializes writers of the same run across replicas.

RunStoreContract is a shared test suite every RunStore adapter runs.
*/
package ports
