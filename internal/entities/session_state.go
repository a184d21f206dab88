package entities

// NoCombatTurnIdx is the turn index reported while no combat is active.
const NoCombatTurnIdx = -1

// SessionState is the complete serializable snapshot of a session: the
// initiative order, whose turn it is, the round counter, and the in-game
// clock. It is the unit persisted to and restored from external storage.
// Field names are stable across versions; ImportState depends on them.
type SessionState struct {
	InitiativeOrder []*Combatant `json:"initiative_order"`
	CurrentTurnIdx  int          `json:"current_turn_idx"`
	CombatRound     int          `json:"combat_round"`
	GameTime        GameClock    `json:"game_time"`
}

// Clone returns a deep copy of the session state
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	out := *s
	out.InitiativeOrder = make([]*Combatant, len(s.InitiativeOrder))
	for i, combatant := range s.InitiativeOrder {
		out.InitiativeOrder[i] = combatant.Clone()
	}
	return &out
}
