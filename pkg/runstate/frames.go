package runstate

import (
	"fmt"
	"maps"

	"github.com/aretw0/weft/pkg/domain"
)

// EnterIteration activates an iteration frame. Entering while one is active panics with
// domain.ErrFrameActive; nested iterations save the outer frame with ExitIteration first.
func (s *State) EnterIteration(frame domain.IterationState) {
	if s.iteration != nil {
		panic(fmt.Errorf("%w: iteration %q", domain.ErrFrameActive, s.iteration.NodeID))
	}
	s.iteration = &frame
	s.fireFrame(s.hooks.OnIterationEnter, domain.EventIterationEnter, frame.NodeID, frame.Index)
}

// ExitIteration clears and returns the active iteration frame, or nil when none is active.
func (s *State) ExitIteration() *domain.IterationState {
	frame := s.iteration
	if frame == nil {
		return nil
	}
	s.iteration = nil
	s.fireFrame(s.hooks.OnIterationExit, domain.EventIterationExit, frame.NodeID, frame.Index)
	return frame
}

// CurrentIteration returns a copy of the active iteration frame.
func (s *State) CurrentIteration() (domain.IterationState, bool) {
	if s.iteration == nil {
		return domain.IterationState{}, false
	}
	frame := *s.iteration
	frame.Inputs = maps.Clone(frame.Inputs)
	return frame, true
}

// EnterLoop activates a loop frame. Entering while one is active panics with domain.ErrFrameActive.
func (s *State) EnterLoop(frame domain.LoopState) {
	if s.loop != nil {
		panic(fmt.Errorf("%w: loop %q", domain.ErrFrameActive, s.loop.NodeID))
	}
	s.loop = &frame
	s.fireFrame(s.hooks.OnLoopEnter, domain.EventLoopEnter, frame.NodeID, frame.Index)
}

// ExitLoop clears and returns the active loop frame, or nil when none is active.
func (s *State) ExitLoop() *domain.LoopState {
	frame := s.loop
	if frame == nil {
		return nil
	}
	s.loop = nil
	s.fireFrame(s.hooks.OnLoopExit, domain.EventLoopExit, frame.NodeID, frame.Index)
	return frame
}

// CurrentLoop returns a copy of the active loop frame.
func (s *State) CurrentLoop() (domain.LoopState, bool) {
	if s.loop == nil {
		return domain.LoopState{}, false
	}
	frame := *s.loop
	frame.Inputs = maps.Clone(frame.Inputs)
	return frame, true
}

func (s *State) fireFrame(hook func(*domain.FrameEvent), t domain.EventType, nodeID string, index int) {
	if hook == nil {
		return
	}
	hook(&domain.FrameEvent{
		EventBase: s.event(t),
		NodeID:    nodeID,
		Index:     index,
	})
}
