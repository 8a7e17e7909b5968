package agent

import (
	ai "github.com/agentkit-go/agentkit"
)

// RunUntil decides after each completed step whether the loop runs another
// one. ShouldContinue receives the 0-based index of the step that just
// finished and that step's finish reason; returning false stops the loop.
// Implementations may keep state across calls.
type RunUntil interface {
	ShouldContinue(step int, reason ai.FinishReason) bool
}

// RunUntilFunc adapts a plain function to RunUntil.
type RunUntilFunc func(step int, reason ai.FinishReason) bool

func (f RunUntilFunc) ShouldContinue(step int, reason ai.FinishReason) bool {
	return f(step, reason)
}

type maxSteps struct {
	max int
}

// MaxSteps stops the loop once n steps have completed, ignoring finish
// reasons. The first check happens only after a step completes, so the
// loop always executes at least one step; MaxSteps(0) and MaxSteps(1)
// both run exactly one.
func MaxSteps(n int) RunUntil {
	return maxSteps{max: n}
}

func (m maxSteps) ShouldContinue(step int, _ ai.FinishReason) bool {
	return step+1 < m.max
}

type stopOnReason struct {
	reasons map[ai.FinishReason]struct{}
}

// StopOnReason stops the loop as soon as a step finishes with one of the
// given reasons, regardless of step count.
func StopOnReason(reasons ...ai.FinishReason) RunUntil {
	set := make(map[ai.FinishReason]struct{}, len(reasons))
	for _, r := range reasons {
		set[r] = struct{}{}
	}
	return stopOnReason{reasons: set}
}

func (s stopOnReason) ShouldContinue(_ int, reason ai.FinishReason) bool {
	_, stop := s.reasons[reason]
	return !stop
}

type firstOf struct {
	strategies []RunUntil
}

// FirstOf stops the loop when any of the given strategies would stop it.
// All strategies are consulted on every step so stateful ones stay
// current.
func FirstOf(strategies ...RunUntil) RunUntil {
	return firstOf{strategies: strategies}
}

func (f firstOf) ShouldContinue(step int, reason ai.FinishReason) bool {
	cont := true
	for _, s := range f.strategies {
		if !s.ShouldContinue(step, reason) {
			cont = false
		}
	}
	return cont
}
