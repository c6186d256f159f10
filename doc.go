/*
Package weft is the variable resolution and run-state core of a workflow engine.

A scheduler (not part of this module) walks a graph of nodes. For every run it needs a place to
put node outputs so later nodes can reference them, and a ledger of what happened: which nodes
ran, their results and retries, tokens spent, steps taken and the iteration or loop frame it is
inside. Weft provides exactly that and nothing else.

# Concept

Values are segments (package segment): a closed set of kinds (string, number, object, array,
file, none) that render as text, log or markdown. The variable pool (package pool) maps
selectors such as ["node1", "output", "text"] to segments and expands templates like
"Hello {{#sys.user_id#}}". The run state (package runstate) wraps a pool with counters, ledgers
and frames.

# Usage

	run, err := weft.Start(weft.Invocation{
		Workflow:   domain.WorkflowMetadata{ID: "wf", TenantID: "t", AppID: "app", Type: domain.WorkflowTypeWorkflow},
		UserID:     "user-1",
		UserFrom:   domain.UserFromAccount,
		InvokeFrom: domain.InvokeFromServiceAPI,
	}, weft.Seed{
		System: map[domain.SystemVariableKey]any{domain.SystemQuery: "what's new?"},
	})
	if err != nil {
		log.Fatal(err)
	}

	// The scheduler writes node outputs and records results.
	_ = run.State.Pool().Add(pool.Selector{"llm", "text"}, "Nothing much.")
	run.State.RecordNodeResult(domain.NodeRef{ID: "llm", Type: "llm"}, domain.NodeRunResult{Status: domain.NodeStatusSucceeded})

	fmt.Println(run.State.Pool().ConvertTemplateText("Q: {{#sys.query#}} A: {{#llm.text#}}"))

# Concurrency

Pools and run states have a single writer. Schedulers that execute branches concurrently, or
replicas sharing runs, go through a coordinator.Coordinator, which also checkpoints snapshots
to a ports.RunStore (memory, file or redis adapters, optionally wrapped with masking and
encryption middleware).
*/
package weft
