package dialogue

import (
	"context"
	"time"
)

// Strategy chooses the next action for one turn.
type Strategy interface {
	Decide(ctx context.Context, state *State, turn TurnInput) Action
}

// RuleStrategy answers with the deterministic engine alone.
type RuleStrategy struct {
	engine *Engine
}

func NewRuleStrategy() *RuleStrategy {
	return &RuleStrategy{engine: NewEngine()}
}

func (s *RuleStrategy) Decide(_ context.Context, state *State, turn TurnInput) Action {
	return s.engine.Decide(state, turn)
}

// Oracle suggests an action for the current turn. Implementations are
// untrusted: every suggestion is validated before use and the deterministic
// engine remains the ground truth.
type Oracle interface {
	SuggestAction(ctx context.Context, state *State, turn TurnInput) (string, error)
}

const defaultOracleTimeout = 5 * time.Second

// AdvisorStrategy consults an oracle but never lets it bypass the engine's
// gating rules. On any oracle failure, timeout, or invalid suggestion the
// deterministic answer is used; the correction is silent.
type AdvisorStrategy struct {
	engine  *Engine
	oracle  Oracle
	timeout time.Duration
}

func NewAdvisorStrategy(oracle Oracle, timeout time.Duration) *AdvisorStrategy {
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}
	return &AdvisorStrategy{engine: NewEngine(), oracle: oracle, timeout: timeout}
}

// Decide resolves the turn deterministically first, so state mutation
// happens exactly once, then lets a validated oracle suggestion replace the
// emitted token.
func (s *AdvisorStrategy) Decide(ctx context.Context, state *State, turn TurnInput) Action {
	pre := state.Clone()
	deterministic := s.engine.Decide(state, turn)
	if s.oracle == nil {
		return deterministic
	}

	oracleCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	raw, err := s.oracle.SuggestAction(oracleCtx, pre, turn)
	if err != nil {
		return deterministic
	}
	suggested, ok := ParseAction(raw)
	if !ok {
		return deterministic
	}
	if !admissible(pre, deterministic, suggested) {
		return deterministic
	}
	if suggested != deterministic {
		state.LastAction = suggested
	}
	return suggested
}

// admissible enforces the gating rules a suggestion must satisfy against
// the pre-turn state and the deterministic answer.
func admissible(pre *State, deterministic, suggested Action) bool {
	// A slot-change request is only legal while the denial loop is open.
	if suggested.Type == ActionRequestSlotChange {
		switch pre.LastAction.Type {
		case ActionAskConfirmation, ActionRequestSlotChange:
		default:
			return false
		}
	}
	// A mandatory carryover offer cannot be skipped.
	if deterministic.Type == ActionOfferSlotCarryover && suggested != deterministic {
		return false
	}
	// Completions and comparison results carry state mutations that were
	// resolved deterministically; the tokens must agree in both directions.
	if isFinalizing(suggested) != isFinalizing(deterministic) {
		return false
	}
	if isFinalizing(suggested) && suggested != deterministic {
		return false
	}
	return true
}

func isFinalizing(a Action) bool {
	return a.IsCompletion() || a.Type == ActionCompareCitiesResult
}
