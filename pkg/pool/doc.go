/*
Package pool implements the variable pool of a workflow run.

The pool maps selectors to segments. The first selector element is a scope: the system,
environment and conversation scopes are seeded once at construction, and every other scope
is a node id whose outputs the scheduler writes as the run progresses.

Lookups never fail loudly: a miss is reported as (nil, false). A selector whose last element
names a file attribute (for example "extension") resolves lazily against the file stored at
the shorter selector.

The pool is not synchronized. One writer per run mutates it; concurrent readers are safe only
while no writer is active (see package coordinator).
*/
package pool
