// Package session implements the session state engine: the combatant
// registry, the initiative scheduler, the in-game clock, and whole-state
// export/import for persistence across save/load cycles.
//
// An Engine is the single owner of one session's state. All methods are
// synchronous and complete or fail atomically; callers hosting multiple
// concurrent triggers must serialize access per engine.
package session

import (
	"github.com/campaignkit/session-api/internal/entities"
	"github.com/campaignkit/session-api/internal/errors"
)

// Engine tracks one active play session
type Engine struct {
	order   []*entities.Combatant
	turnIdx int
	round   int
	clock   entities.GameClock
}

// New creates an engine with no combat active and the clock at the default
// epoch.
func New() *Engine {
	return &Engine{
		turnIdx: entities.NoCombatTurnIdx,
		clock:   entities.NewGameClock(),
	}
}

// CombatActive reports whether an initiative order exists
func (e *Engine) CombatActive() bool {
	return len(e.order) > 0
}

// Round returns the current combat round, 0 when combat has not started
func (e *Engine) Round() int {
	return e.round
}

// TurnIndex returns the current position in the initiative order, -1 when
// no combat is active.
func (e *Engine) TurnIndex() int {
	return e.turnIdx
}

// GameTime returns the current in-game clock
func (e *Engine) GameTime() entities.GameClock {
	return e.clock
}

// AdvanceTime moves the in-game clock forward. All amounts must be
// non-negative.
func (e *Engine) AdvanceTime(years, days, hours, minutes int) (entities.GameClock, error) {
	vb := errors.NewValidationBuilder()
	if years < 0 {
		vb.NonNegativeField("years", years)
	}
	if days < 0 {
		vb.NonNegativeField("days", days)
	}
	if hours < 0 {
		vb.NonNegativeField("hours", hours)
	}
	if minutes < 0 {
		vb.NonNegativeField("minutes", minutes)
	}
	if err := vb.Build(); err != nil {
		return e.clock, err
	}

	e.clock.Advance(years, days, hours, minutes)
	return e.clock, nil
}

// find returns the combatant with the given name and its position in the
// order, or a nil combatant when absent. Lookup is case-sensitive.
func (e *Engine) find(name string) (int, *entities.Combatant) {
	for i, combatant := range e.order {
		if combatant.Name == name {
			return i, combatant
		}
	}
	return -1, nil
}
