package observability

import "github.com/aretw0/weft/pkg/domain"

// Combine fans every event out to all hooks, in order. Nil callbacks are skipped.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeResult:     fan(hooks, func(h domain.LifecycleHooks) func(*domain.NodeResultEvent) { return h.OnNodeResult }),
		OnIterationEnter: fan(hooks, func(h domain.LifecycleHooks) func(*domain.FrameEvent) { return h.OnIterationEnter }),
		OnIterationExit:  fan(hooks, func(h domain.LifecycleHooks) func(*domain.FrameEvent) { return h.OnIterationExit }),
		OnLoopEnter:      fan(hooks, func(h domain.LifecycleHooks) func(*domain.FrameEvent) { return h.OnLoopEnter }),
		OnLoopExit:       fan(hooks, func(h domain.LifecycleHooks) func(*domain.FrameEvent) { return h.OnLoopExit }),
		OnTokens:         fan(hooks, func(h domain.LifecycleHooks) func(*domain.TokenEvent) { return h.OnTokens }),
	}
}

func fan[E any](hooks []domain.LifecycleHooks, pick func(domain.LifecycleHooks) func(*E)) func(*E) {
	var fns []func(*E)
	for _, h := range hooks {
		if fn := pick(h); fn != nil {
			fns = append(fns, fn)
		}
	}
	if len(fns) == 0 {
		return nil
	}
	return func(e *E) {
		for _, fn := range fns {
			fn(e)
		}
	}
}
