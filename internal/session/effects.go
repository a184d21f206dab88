package session

import (
	"github.com/campaignkit/session-api/internal/entities"
	"github.com/campaignkit/session-api/internal/errors"
)

// AddStatusEffect attaches a named effect to a combatant. A nil duration
// means the effect lasts until removed; a finite duration ticks down once
// per elapsed round. Adding an effect a combatant already has overwrites it.
func (e *Engine) AddStatusEffect(name, effectName string, durationRounds *int, notes string) error {
	if effectName == "" {
		return errors.InvalidArgument("effect name is required")
	}
	if durationRounds != nil && *durationRounds < 0 {
		return errors.InvalidArgumentf("effect duration must not be negative, got %d", *durationRounds)
	}

	_, combatant := e.find(name)
	if combatant == nil {
		return errors.NotFoundf("combatant %q not found", name)
	}

	effect := &entities.StatusEffect{
		Name:  effectName,
		Notes: notes,
	}
	if durationRounds != nil {
		rounds := *durationRounds
		effect.DurationRounds = &rounds
	}

	combatant.StatusEffects[effectName] = effect
	return nil
}

// RemoveStatusEffect removes a named effect from a combatant. Missing
// combatants and missing effects report distinct NotFound errors.
func (e *Engine) RemoveStatusEffect(name, effectName string) error {
	_, combatant := e.find(name)
	if combatant == nil {
		return errors.NotFoundf("combatant %q not found", name)
	}

	if _, ok := combatant.StatusEffects[effectName]; !ok {
		return errors.NotFoundf("combatant %q has no status effect %q", name, effectName)
	}

	delete(combatant.StatusEffects, effectName)
	return nil
}

// tickStatusEffects runs once per elapsed round: every finite duration
// decrements by one, and effects that reach zero are removed. Indefinite
// effects are untouched.
func (e *Engine) tickStatusEffects() {
	for _, combatant := range e.order {
		for name, effect := range combatant.StatusEffects {
			if effect.DurationRounds == nil {
				continue
			}
			*effect.DurationRounds--
			if *effect.DurationRounds <= 0 {
				delete(combatant.StatusEffects, name)
			}
		}
	}
}
