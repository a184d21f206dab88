package session

import (
	"sort"

	"github.com/campaignkit/session-api/internal/entities"
	"github.com/campaignkit/session-api/internal/errors"
)

// AddCombatantInput describes a combatant joining the initiative order
type AddCombatantInput struct {
	Name       string
	Initiative int
	MaxHP      int

	// CurrentHP defaults to MaxHP when nil; values are clamped into
	// [0, MaxHP]
	CurrentHP *int

	NPC              bool
	PlayerControlled bool
}

// AddCombatant adds a combatant and re-sorts the initiative order. Adding
// the first combatant starts combat at round 1 with that combatant current.
// Names are unique per session, case-sensitively.
func (e *Engine) AddCombatant(input *AddCombatantInput) (*entities.Combatant, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument("combatant name is required")
	}
	if input.MaxHP < 0 {
		return nil, errors.InvalidArgumentf("max HP must not be negative, got %d", input.MaxHP)
	}
	if _, existing := e.find(input.Name); existing != nil {
		return nil, errors.AlreadyExistsf("combatant %q already exists", input.Name)
	}

	currentHP := input.MaxHP
	if input.CurrentHP != nil {
		currentHP = clamp(*input.CurrentHP, 0, input.MaxHP)
	}

	combatant := &entities.Combatant{
		Name:             input.Name,
		Initiative:       input.Initiative,
		MaxHP:            input.MaxHP,
		CurrentHP:        currentHP,
		NPC:              input.NPC,
		PlayerControlled: input.PlayerControlled,
		StatusEffects:    make(map[string]*entities.StatusEffect),
	}

	e.order = append(e.order, combatant)
	e.sortOrder()

	if len(e.order) == 1 {
		e.round = 1
		e.turnIdx = 0
	}

	return combatant.Clone(), nil
}

// RemoveCombatant removes a combatant from the initiative order. Removing
// the current combatant makes the next one current without consuming a
// turn; removing the last combatant ends combat.
func (e *Engine) RemoveCombatant(name string) error {
	idx, combatant := e.find(name)
	if combatant == nil {
		return errors.NotFoundf("combatant %q not found", name)
	}

	e.order = append(e.order[:idx], e.order[idx+1:]...)

	if len(e.order) == 0 {
		e.round = 0
		e.turnIdx = entities.NoCombatTurnIdx
		return nil
	}

	switch {
	case idx < e.turnIdx:
		e.turnIdx--
	case idx == e.turnIdx && e.turnIdx >= len(e.order):
		// The current combatant was last in the order; the next turn
		// belongs to the top of the order.
		e.turnIdx = 0
	}

	return nil
}

// NextTurn advances to the next combatant. Wrapping past the end of the
// order starts a new round and ticks status effect durations. The second
// return is false when no combat is active.
func (e *Engine) NextTurn() (string, bool) {
	if len(e.order) == 0 {
		return "", false
	}

	e.turnIdx++
	if e.turnIdx >= len(e.order) {
		e.turnIdx = 0
		e.round++
		e.tickStatusEffects()
	}

	return e.order[e.turnIdx].Name, true
}

// CurrentCombatant returns a snapshot of the combatant whose turn it is,
// or nil when no combat is active.
func (e *Engine) CurrentCombatant() *entities.Combatant {
	if len(e.order) == 0 || e.turnIdx < 0 {
		return nil
	}
	return e.order[e.turnIdx].Clone()
}

// InitiativeOrder returns snapshots of all combatants, sorted by initiative
// descending. Mutating the returned combatants does not affect the engine.
func (e *Engine) InitiativeOrder() []*entities.Combatant {
	out := make([]*entities.Combatant, len(e.order))
	for i, combatant := range e.order {
		out[i] = combatant.Clone()
	}
	return out
}

// sortOrder sorts by initiative descending. The sort is stable so ties keep
// their relative insertion order across re-sorts.
func (e *Engine) sortOrder() {
	sort.SliceStable(e.order, func(i, j int) bool {
		return e.order[i].Initiative > e.order[j].Initiative
	})
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
