package session

import (
	"encoding/json"
	"fmt"

	"github.com/campaignkit/session-api/internal/entities"
	"github.com/campaignkit/session-api/internal/errors"
)

// ExportState returns a deep copy of the full session state. The snapshot
// is independent of subsequent mutation to the engine.
func (e *Engine) ExportState() *entities.SessionState {
	state := &entities.SessionState{
		InitiativeOrder: e.order,
		CurrentTurnIdx:  e.turnIdx,
		CombatRound:     e.round,
		GameTime:        e.clock,
	}
	return state.Clone()
}

// ImportState replaces the engine's state with a deep copy of the given
// snapshot. The snapshot is validated in full first; on any validation
// failure the engine's prior state is left unmodified.
func (e *Engine) ImportState(state *entities.SessionState) error {
	if err := validateState(state); err != nil {
		return err
	}

	imported := state.Clone()
	e.order = imported.InitiativeOrder
	e.turnIdx = imported.CurrentTurnIdx
	e.round = imported.CombatRound
	e.clock = imported.GameTime

	// Restore the ordering guarantee without disturbing tie order.
	e.sortOrder()
	return nil
}

// stateDocument mirrors SessionState with pointer fields so a decoded
// document can be checked for missing keys, which json.Unmarshal into the
// plain struct would silently zero.
type stateDocument struct {
	InitiativeOrder *[]*entities.Combatant `json:"initiative_order"`
	CurrentTurnIdx  *int                   `json:"current_turn_idx"`
	CombatRound     *int                   `json:"combat_round"`
	GameTime        *entities.GameClock    `json:"game_time"`
}

// ParseState decodes a serialized session state, reporting missing required
// fields and malformed JSON as validation failures. The result still needs
// ImportState's structural validation before use.
func ParseState(data []byte) (*entities.SessionState, error) {
	var doc stateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.InvalidArgumentf("malformed session state: %v", err)
	}

	vb := errors.NewValidationBuilder()
	if doc.InitiativeOrder == nil {
		vb.RequiredField("initiative_order")
	}
	if doc.CurrentTurnIdx == nil {
		vb.RequiredField("current_turn_idx")
	}
	if doc.CombatRound == nil {
		vb.RequiredField("combat_round")
	}
	if doc.GameTime == nil {
		vb.RequiredField("game_time")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	return &entities.SessionState{
		InitiativeOrder: *doc.InitiativeOrder,
		CurrentTurnIdx:  *doc.CurrentTurnIdx,
		CombatRound:     *doc.CombatRound,
		GameTime:        *doc.GameTime,
	}, nil
}

// validateState checks the structural shape of a snapshot: well-formed
// combatant entries, the turn index within bounds or -1, and non-negative
// round and clock fields.
func validateState(state *entities.SessionState) error {
	if state == nil {
		return errors.InvalidArgument("state is required")
	}

	vb := errors.NewValidationBuilder()

	seen := make(map[string]bool, len(state.InitiativeOrder))
	for i, combatant := range state.InitiativeOrder {
		field := fmt.Sprintf("initiative_order[%d]", i)
		if combatant == nil {
			vb.Field(field, "must not be null")
			continue
		}
		if combatant.Name == "" {
			vb.Field(field+".name", "is required")
		} else if seen[combatant.Name] {
			vb.Fieldf(field+".name", "duplicate combatant %q", combatant.Name)
		}
		seen[combatant.Name] = true

		if combatant.MaxHP < 0 {
			vb.NonNegativeField(field+".max_hp", combatant.MaxHP)
		}
		if combatant.CurrentHP < 0 || combatant.CurrentHP > combatant.MaxHP {
			vb.Fieldf(field+".current_hp", "must be between 0 and %d, got %d",
				combatant.MaxHP, combatant.CurrentHP)
		}

		for key, effect := range combatant.StatusEffects {
			effectField := fmt.Sprintf("%s.status_effects[%q]", field, key)
			if effect == nil {
				vb.Field(effectField, "must not be null")
				continue
			}
			if effect.Name != "" && effect.Name != key {
				vb.Fieldf(effectField, "effect name %q does not match its key", effect.Name)
			}
			if effect.DurationRounds != nil && *effect.DurationRounds < 0 {
				vb.NonNegativeField(effectField+".duration_rounds", *effect.DurationRounds)
			}
		}
	}

	if len(state.InitiativeOrder) == 0 {
		if state.CurrentTurnIdx != entities.NoCombatTurnIdx {
			vb.Fieldf("current_turn_idx", "must be %d with an empty initiative order, got %d",
				entities.NoCombatTurnIdx, state.CurrentTurnIdx)
		}
		if state.CombatRound != 0 {
			vb.Fieldf("combat_round", "must be 0 with an empty initiative order, got %d",
				state.CombatRound)
		}
	} else {
		if state.CurrentTurnIdx < 0 || state.CurrentTurnIdx >= len(state.InitiativeOrder) {
			vb.Fieldf("current_turn_idx", "must be within [0, %d), got %d",
				len(state.InitiativeOrder), state.CurrentTurnIdx)
		}
		if state.CombatRound < 1 {
			vb.Fieldf("combat_round", "must be at least 1 with combat active, got %d",
				state.CombatRound)
		}
	}

	if state.GameTime.Year < 0 {
		vb.NonNegativeField("game_time.year", state.GameTime.Year)
	}
	if state.GameTime.Day < 0 {
		vb.NonNegativeField("game_time.day", state.GameTime.Day)
	}
	if state.GameTime.Hour < 0 {
		vb.NonNegativeField("game_time.hour", state.GameTime.Hour)
	}
	if state.GameTime.Minute < 0 {
		vb.NonNegativeField("game_time.minute", state.GameTime.Minute)
	}

	return vb.Build()
}
