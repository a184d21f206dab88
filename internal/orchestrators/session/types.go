package session

import (
	"time"

	"github.com/campaignkit/session-api/internal/dice"
	"github.com/campaignkit/session-api/internal/entities"
)

// CreateSessionInput starts a fresh session for a campaign.
type CreateSessionInput struct {
	Campaign string
}

// CreateSessionOutput returns the identity of the new session.
type CreateSessionOutput struct {
	SessionID string
	Campaign  string
}

// GetSessionInput fetches a snapshot of a live session.
type GetSessionInput struct {
	SessionID string
}

// GetSessionOutput contains the full session snapshot.
type GetSessionOutput struct {
	SessionID string
	Campaign  string
	State     *entities.SessionState
}

// EndSessionInput archives a session and removes it from the live set.
type EndSessionInput struct {
	SessionID string
}

// EndSessionOutput reports where the archived record landed.
type EndSessionOutput struct {
	Campaign     string
	ArchiveIndex int
}

// SaveSessionInput persists the current state of a live session.
type SaveSessionInput struct {
	SessionID string
}

// SaveSessionOutput reports when the save happened.
type SaveSessionOutput struct {
	Campaign string
	SavedAt  time.Time
}

// LoadSessionInput restores the most recently saved state for a campaign
// into a new live session.
type LoadSessionInput struct {
	Campaign string
}

// LoadSessionOutput returns the restored session.
type LoadSessionOutput struct {
	SessionID string
	Campaign  string
	State     *entities.SessionState
	SavedAt   time.Time
}

// ExportStateInput requests a session's state as a portable snapshot.
type ExportStateInput struct {
	SessionID string
}

// ExportStateOutput carries the exported snapshot.
type ExportStateOutput struct {
	State *entities.SessionState
}

// ImportStateInput replaces a session's state with a serialized snapshot,
// for example one previously exported and hand-carried between servers.
type ImportStateInput struct {
	SessionID string
	Data      []byte
}

// ImportStateOutput carries the state as imported.
type ImportStateOutput struct {
	State *entities.SessionState
}

// AddCombatantInput adds a combatant to a session's initiative order.
type AddCombatantInput struct {
	SessionID        string
	Name             string
	Initiative       int
	MaxHP            int
	CurrentHP        *int
	NPC              bool
	PlayerControlled bool
}

// AddCombatantOutput returns the combatant as recorded.
type AddCombatantOutput struct {
	Combatant *entities.Combatant
}

// RemoveCombatantInput removes a combatant from a session.
type RemoveCombatantInput struct {
	SessionID string
	Name      string
}

// RemoveCombatantOutput is empty; absence of an error means removal succeeded.
type RemoveCombatantOutput struct{}

// NextTurnInput advances a session's initiative to the next combatant.
type NextTurnInput struct {
	SessionID string
}

// NextTurnOutput names the combatant whose turn it now is. Active is false
// when the session has no combatants.
type NextTurnOutput struct {
	CombatantName string
	Round         int
	Active        bool
}

// GetTurnOrderInput fetches a session's initiative order.
type GetTurnOrderInput struct {
	SessionID string
}

// GetTurnOrderOutput lists combatants in initiative order.
type GetTurnOrderOutput struct {
	Order          []*entities.Combatant
	CurrentTurnIdx int
	Round          int
}

// GetCombatantInput fetches a single combatant by name.
type GetCombatantInput struct {
	SessionID string
	Name      string
}

// GetCombatantOutput contains the combatant snapshot.
type GetCombatantOutput struct {
	Combatant *entities.Combatant
}

// DealDamageInput applies damage to a combatant.
type DealDamageInput struct {
	SessionID string
	Name      string
	Amount    int
}

// DealDamageOutput returns the combatant after the damage is applied.
type DealDamageOutput struct {
	Combatant *entities.Combatant
}

// HealInput restores hit points to a combatant.
type HealInput struct {
	SessionID string
	Name      string
	Amount    int
}

// HealOutput returns the combatant after healing.
type HealOutput struct {
	Combatant *entities.Combatant
}

// SetHPInput sets a combatant's current hit points directly.
type SetHPInput struct {
	SessionID  string
	Name       string
	HP         int
	AlsoSetMax bool
}

// SetHPOutput returns the combatant after the change.
type SetHPOutput struct {
	Combatant *entities.Combatant
}

// SetMaxHPInput changes a combatant's hit point maximum.
type SetMaxHPInput struct {
	SessionID     string
	Name          string
	MaxHP         int
	AdjustCurrent bool
}

// SetMaxHPOutput returns the combatant after the change.
type SetMaxHPOutput struct {
	Combatant *entities.Combatant
}

// AddStatusEffectInput attaches a status effect to a combatant.
type AddStatusEffectInput struct {
	SessionID      string
	Name           string
	EffectName     string
	DurationRounds *int
	Notes          string
}

// AddStatusEffectOutput returns the combatant with the effect applied.
type AddStatusEffectOutput struct {
	Combatant *entities.Combatant
}

// RemoveStatusEffectInput removes a named status effect from a combatant.
type RemoveStatusEffectInput struct {
	SessionID  string
	Name       string
	EffectName string
}

// RemoveStatusEffectOutput returns the combatant with the effect removed.
type RemoveStatusEffectOutput struct {
	Combatant *entities.Combatant
}

// AdvanceTimeInput moves a session's in-game clock forward.
type AdvanceTimeInput struct {
	SessionID string
	Years     int
	Days      int
	Hours     int
	Minutes   int
}

// AdvanceTimeOutput contains the clock after the advance.
type AdvanceTimeOutput struct {
	GameTime entities.GameClock
	Display  string
}

// GetGameTimeInput reads a session's in-game clock.
type GetGameTimeInput struct {
	SessionID string
}

// GetGameTimeOutput contains the current clock.
type GetGameTimeOutput struct {
	GameTime entities.GameClock
	Display  string
}

// RollDiceInput requests a dice roll. Rolls are stateless and do not
// require a session.
type RollDiceInput struct {
	Notation     string
	Advantage    bool
	Disadvantage bool
}

// RollDiceOutput contains the resolved roll.
type RollDiceOutput struct {
	Result *dice.RollResult
}
