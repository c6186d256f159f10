package weft_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/weft"
	"github.com/aretw0/weft/pkg/adapters/memory"
	"github.com/aretw0/weft/pkg/coordinator"
	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/pool"
	"github.com/aretw0/weft/pkg/runstate"
)

// ExampleWithCoordinator shows branches writing through a coordinator and a checkpoint.
func ExampleWithCoordinator() {
	store := memory.NewStore()
	c := coordinator.New(coordinator.WithStore(store))
	ctx := context.Background()

	run, err := weft.Start(weft.Invocation{
		Workflow:   domain.WorkflowMetadata{ID: "fanout", TenantID: "acme", AppID: "batch", Type: domain.WorkflowTypeWorkflow},
		UserFrom:   domain.UserFromAccount,
		InvokeFrom: domain.InvokeFromServiceAPI,
	}, weft.Seed{}, weft.WithRunID("run-2"), weft.WithCoordinator(c))
	if err != nil {
		log.Fatal(err)
	}

	for _, branch := range []string{"left", "right"} {
		err := c.Write(ctx, run.ID, func(s *runstate.State) error {
			s.RecordNodeRun(branch, "", "")
			return s.Pool().Add(pool.Selector{branch, "done"}, true)
		})
		if err != nil {
			log.Fatal(err)
		}
	}

	if err := c.Release(ctx, run.ID); err != nil {
		log.Fatal(err)
	}

	snap, err := store.Load(ctx, "run-2")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(len(snap.NodeRuns), len(c.Runs()))
	for _, v := range snap.Variables {
		if v.Scope() != domain.SystemScope {
			fmt.Println(v.Selector, v.Value)
		}
	}
	// Output:
	// 2 0
	// [left done] 1
	// [right done] 1
}
