package session

import (
	"github.com/campaignkit/session-api/internal/entities"
	"github.com/campaignkit/session-api/internal/errors"
)

// GetCombatant returns a snapshot of the named combatant
func (e *Engine) GetCombatant(name string) (*entities.Combatant, error) {
	_, combatant := e.find(name)
	if combatant == nil {
		return nil, errors.NotFoundf("combatant %q not found", name)
	}
	return combatant.Clone(), nil
}

// DealDamage reduces a combatant's HP, flooring at 0. Negative amounts are
// a caller error.
func (e *Engine) DealDamage(name string, amount int) (*entities.Combatant, error) {
	if amount < 0 {
		return nil, errors.InvalidArgumentf("damage must not be negative, got %d", amount)
	}

	_, combatant := e.find(name)
	if combatant == nil {
		return nil, errors.NotFoundf("combatant %q not found", name)
	}

	combatant.CurrentHP = clamp(combatant.CurrentHP-amount, 0, combatant.MaxHP)
	return combatant.Clone(), nil
}

// Heal raises a combatant's HP, capping at max HP. Negative amounts are a
// caller error.
func (e *Engine) Heal(name string, amount int) (*entities.Combatant, error) {
	if amount < 0 {
		return nil, errors.InvalidArgumentf("healing must not be negative, got %d", amount)
	}

	_, combatant := e.find(name)
	if combatant == nil {
		return nil, errors.NotFoundf("combatant %q not found", name)
	}

	combatant.CurrentHP = clamp(combatant.CurrentHP+amount, 0, combatant.MaxHP)
	return combatant.Clone(), nil
}

// SetHP sets a combatant's current HP, clamped into [0, max HP]. When
// alsoSetMax is true the max is updated first (floored at 0) and the
// current HP is clamped into the new range.
func (e *Engine) SetHP(name string, hp int, alsoSetMax bool) (*entities.Combatant, error) {
	_, combatant := e.find(name)
	if combatant == nil {
		return nil, errors.NotFoundf("combatant %q not found", name)
	}

	if alsoSetMax {
		combatant.MaxHP = max(0, hp)
	}
	combatant.CurrentHP = clamp(hp, 0, combatant.MaxHP)
	return combatant.Clone(), nil
}

// SetMaxHP sets a combatant's max HP, floored at 0. The current HP never
// exceeds the max: lowering the max below the current HP always clamps the
// current down. When adjustCurrent is true, raising the max raises the
// current HP by the same amount.
func (e *Engine) SetMaxHP(name string, newMax int, adjustCurrent bool) (*entities.Combatant, error) {
	_, combatant := e.find(name)
	if combatant == nil {
		return nil, errors.NotFoundf("combatant %q not found", name)
	}

	oldMax := combatant.MaxHP
	combatant.MaxHP = max(0, newMax)
	if adjustCurrent && combatant.MaxHP > oldMax {
		combatant.CurrentHP += combatant.MaxHP - oldMax
	}
	combatant.CurrentHP = clamp(combatant.CurrentHP, 0, combatant.MaxHP)
	return combatant.Clone(), nil
}
