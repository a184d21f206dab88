// Package entities defines the domain types for a tabletop session: the
// combatants in the initiative order, their status effects, the in-game
// clock, and the serializable session state that composes them.
package entities

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
)

// EntityTypeCombatant is the core.Entity type reported by combatants.
const EntityTypeCombatant = "combatant"

// Ensure Combatant satisfies core.Entity
var _ core.Entity = (*Combatant)(nil)

// Combatant represents an entity participating in initiative-ordered combat.
// The name is the unique key within a session.
type Combatant struct {
	Name             string                   `json:"name"`
	Initiative       int                      `json:"initiative"`
	MaxHP            int                      `json:"max_hp"`
	CurrentHP        int                      `json:"current_hp"`
	NPC              bool                     `json:"npc"`
	PlayerControlled bool                     `json:"player_controlled"`
	StatusEffects    map[string]*StatusEffect `json:"status_effects"`
}

// GetID implements core.Entity
func (c *Combatant) GetID() string {
	return c.Name
}

// GetType implements core.Entity
func (c *Combatant) GetType() string {
	return EntityTypeCombatant
}

// Clone returns a deep copy of the combatant
func (c *Combatant) Clone() *Combatant {
	if c == nil {
		return nil
	}
	out := *c
	out.StatusEffects = make(map[string]*StatusEffect, len(c.StatusEffects))
	for name, effect := range c.StatusEffects {
		out.StatusEffects[name] = effect.Clone()
	}
	return &out
}

// StatusEffect is a named, optionally time-limited modifier attached to a
// combatant. A nil DurationRounds means the effect lasts until removed.
type StatusEffect struct {
	Name           string `json:"name"`
	DurationRounds *int   `json:"duration_rounds,omitempty"`
	Notes          string `json:"notes"`
}

// Clone returns a deep copy of the status effect
func (e *StatusEffect) Clone() *StatusEffect {
	if e == nil {
		return nil
	}
	out := *e
	if e.DurationRounds != nil {
		rounds := *e.DurationRounds
		out.DurationRounds = &rounds
	}
	return &out
}
