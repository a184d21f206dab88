// Package session orchestrates live game sessions: it owns the in-memory
// session engines, guards them for concurrent callers, and coordinates
// persistence through the session state repository.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/campaignkit/session-api/internal/dice"
	"github.com/campaignkit/session-api/internal/errors"
	"github.com/campaignkit/session-api/internal/pkg/idgen"
	sessionstate "github.com/campaignkit/session-api/internal/repositories/session_state"
	engine "github.com/campaignkit/session-api/internal/session"
)

// Service defines the session orchestration operations
type Service interface {
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)
	EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error)

	SaveSession(ctx context.Context, input *SaveSessionInput) (*SaveSessionOutput, error)
	LoadSession(ctx context.Context, input *LoadSessionInput) (*LoadSessionOutput, error)

	ExportState(ctx context.Context, input *ExportStateInput) (*ExportStateOutput, error)
	ImportState(ctx context.Context, input *ImportStateInput) (*ImportStateOutput, error)

	AddCombatant(ctx context.Context, input *AddCombatantInput) (*AddCombatantOutput, error)
	RemoveCombatant(ctx context.Context, input *RemoveCombatantInput) (*RemoveCombatantOutput, error)
	NextTurn(ctx context.Context, input *NextTurnInput) (*NextTurnOutput, error)
	GetTurnOrder(ctx context.Context, input *GetTurnOrderInput) (*GetTurnOrderOutput, error)
	GetCombatant(ctx context.Context, input *GetCombatantInput) (*GetCombatantOutput, error)

	DealDamage(ctx context.Context, input *DealDamageInput) (*DealDamageOutput, error)
	Heal(ctx context.Context, input *HealInput) (*HealOutput, error)
	SetHP(ctx context.Context, input *SetHPInput) (*SetHPOutput, error)
	SetMaxHP(ctx context.Context, input *SetMaxHPInput) (*SetMaxHPOutput, error)

	AddStatusEffect(ctx context.Context, input *AddStatusEffectInput) (*AddStatusEffectOutput, error)
	RemoveStatusEffect(ctx context.Context, input *RemoveStatusEffectInput) (*RemoveStatusEffectOutput, error)

	AdvanceTime(ctx context.Context, input *AdvanceTimeInput) (*AdvanceTimeOutput, error)
	GetGameTime(ctx context.Context, input *GetGameTimeInput) (*GetGameTimeOutput, error)

	RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error)
}

// liveSession pairs an engine with the campaign it belongs to. The mutex
// serializes all engine access for that session.
type liveSession struct {
	mu       sync.Mutex
	id       string
	campaign string
	engine   *engine.Engine
}

// Ensure Orchestrator implements Service
var _ Service = (*Orchestrator)(nil)

// Orchestrator implements Service
type Orchestrator struct {
	repo     sessionstate.Repository
	resolver *dice.Resolver
	idGen    idgen.Generator
	log      *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*liveSession
}

// Config holds dependencies for the orchestrator
type Config struct {
	Repository   sessionstate.Repository
	DiceResolver *dice.Resolver
	IDGenerator  idgen.Generator

	// Logger is optional; slog.Default() is used when nil
	Logger *slog.Logger
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.DiceResolver == nil {
		vb.RequiredField("DiceResolver")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

// New creates a session orchestrator with the given configuration
func New(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Orchestrator{
		repo:     cfg.Repository,
		resolver: cfg.DiceResolver,
		idGen:    cfg.IDGenerator,
		log:      log,
		sessions: make(map[string]*liveSession),
	}, nil
}

// CreateSession starts a new in-memory session for a campaign. Only one
// live session may exist per campaign at a time.
func (o *Orchestrator) CreateSession(_ context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Campaign == "" {
		return nil, errors.InvalidArgument("campaign is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	for _, s := range o.sessions {
		if s.campaign == input.Campaign {
			return nil, errors.AlreadyExistsf("campaign %q already has a live session", input.Campaign)
		}
	}

	id := o.idGen.Generate()
	o.sessions[id] = &liveSession{
		id:       id,
		campaign: input.Campaign,
		engine:   engine.New(),
	}

	o.log.Info("session created", "session_id", id, "campaign", input.Campaign)

	return &CreateSessionOutput{
		SessionID: id,
		Campaign:  input.Campaign,
	}, nil
}

// GetSession returns a snapshot of a live session
func (o *Orchestrator) GetSession(_ context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return &GetSessionOutput{
		SessionID: s.id,
		Campaign:  s.campaign,
		State:     s.engine.ExportState(),
	}, nil
}

// SaveSession writes the session's current state as the campaign's live
// snapshot. The write is retried once; a failure leaves the in-memory
// session untouched.
func (o *Orchestrator) SaveSession(ctx context.Context, input *SaveSessionInput) (*SaveSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := o.saveLocked(ctx, s)
	if err != nil {
		return nil, err
	}

	o.log.Info("session saved", "session_id", s.id, "campaign", s.campaign)

	return &SaveSessionOutput{
		Campaign: s.campaign,
		SavedAt:  out.Record.SavedAt,
	}, nil
}

// saveLocked persists the session state, retrying once on failure. The
// caller must hold the session lock.
func (o *Orchestrator) saveLocked(ctx context.Context, s *liveSession) (*sessionstate.SaveOutput, error) {
	save := sessionstate.SaveInput{
		Campaign: s.campaign,
		State:    s.engine.ExportState(),
	}

	out, err := o.repo.Save(ctx, save)
	if err != nil {
		o.log.Warn("session save failed, retrying",
			"session_id", s.id,
			"campaign", s.campaign,
			"error", err,
		)
		out, err = o.repo.Save(ctx, save)
	}
	if err != nil {
		return nil, errors.Unavailablef("saving session for campaign %q: %v", s.campaign, err)
	}

	return out, nil
}

// LoadSession restores the campaign's saved snapshot into a new live
// session
func (o *Orchestrator) LoadSession(ctx context.Context, input *LoadSessionInput) (*LoadSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Campaign == "" {
		return nil, errors.InvalidArgument("campaign is required")
	}

	loaded, err := o.repo.Load(ctx, sessionstate.LoadInput{Campaign: input.Campaign})
	if err != nil {
		return nil, err
	}

	eng := engine.New()
	if err := eng.ImportState(loaded.Record.State); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	for _, s := range o.sessions {
		if s.campaign == input.Campaign {
			return nil, errors.AlreadyExistsf("campaign %q already has a live session", input.Campaign)
		}
	}

	id := o.idGen.Generate()
	s := &liveSession{
		id:       id,
		campaign: input.Campaign,
		engine:   eng,
	}
	o.sessions[id] = s

	o.log.Info("session loaded",
		"session_id", id,
		"campaign", input.Campaign,
		"saved_at", loaded.Record.SavedAt,
	)

	return &LoadSessionOutput{
		SessionID: id,
		Campaign:  input.Campaign,
		State:     eng.ExportState(),
		SavedAt:   loaded.Record.SavedAt,
	}, nil
}

// EndSession saves the session, archives the snapshot, removes the live
// copy from storage, and forgets the in-memory session. Any persistence
// failure leaves the session live.
func (o *Orchestrator) EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()

	if _, err := o.saveLocked(ctx, s); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	archived, err := o.repo.Archive(ctx, sessionstate.ArchiveInput{Campaign: s.campaign})
	if err != nil {
		s.mu.Unlock()
		return nil, errors.Wrapf(err, "archiving session for campaign %q", s.campaign)
	}

	if _, err := o.repo.Delete(ctx, sessionstate.DeleteInput{Campaign: s.campaign}); err != nil {
		s.mu.Unlock()
		return nil, errors.Wrapf(err, "removing live snapshot for campaign %q", s.campaign)
	}

	s.mu.Unlock()

	// Session lock released first: the map lock is always taken without a
	// session lock held, so the two can never wait on each other.
	o.mu.Lock()
	delete(o.sessions, s.id)
	o.mu.Unlock()

	o.log.Info("session ended",
		"session_id", s.id,
		"campaign", s.campaign,
		"archive_index", archived.ArchiveIndex,
	)

	return &EndSessionOutput{
		Campaign:     s.campaign,
		ArchiveIndex: archived.ArchiveIndex,
	}, nil
}

// ExportState returns the session's state as a portable snapshot
func (o *Orchestrator) ExportState(_ context.Context, input *ExportStateInput) (*ExportStateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return &ExportStateOutput{State: s.engine.ExportState()}, nil
}

// ImportState replaces the session's state with a serialized snapshot. A
// snapshot that fails to parse or validate leaves the session unchanged.
func (o *Orchestrator) ImportState(_ context.Context, input *ImportStateInput) (*ImportStateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	state, err := engine.ParseState(input.Data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.ImportState(state); err != nil {
		return nil, err
	}

	o.log.Info("session state imported",
		"session_id", s.id,
		"campaign", s.campaign,
		"combatants", len(state.InitiativeOrder),
	)

	return &ImportStateOutput{State: s.engine.ExportState()}, nil
}

// AddCombatant adds a combatant to the session's initiative order
func (o *Orchestrator) AddCombatant(_ context.Context, input *AddCombatantInput) (*AddCombatantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	combatant, err := s.engine.AddCombatant(&engine.AddCombatantInput{
		Name:             input.Name,
		Initiative:       input.Initiative,
		MaxHP:            input.MaxHP,
		CurrentHP:        input.CurrentHP,
		NPC:              input.NPC,
		PlayerControlled: input.PlayerControlled,
	})
	if err != nil {
		return nil, err
	}

	o.log.Info("combatant added",
		"session_id", s.id,
		"name", combatant.Name,
		"initiative", combatant.Initiative,
	)

	return &AddCombatantOutput{Combatant: combatant}, nil
}

// RemoveCombatant removes a combatant from the session
func (o *Orchestrator) RemoveCombatant(_ context.Context, input *RemoveCombatantInput) (*RemoveCombatantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.RemoveCombatant(input.Name); err != nil {
		return nil, err
	}

	o.log.Info("combatant removed", "session_id", s.id, "name", input.Name)

	return &RemoveCombatantOutput{}, nil
}

// NextTurn advances initiative to the next combatant
func (o *Orchestrator) NextTurn(_ context.Context, input *NextTurnInput) (*NextTurnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name, active := s.engine.NextTurn()

	return &NextTurnOutput{
		CombatantName: name,
		Round:         s.engine.Round(),
		Active:        active,
	}, nil
}

// GetTurnOrder returns the session's initiative order
func (o *Orchestrator) GetTurnOrder(_ context.Context, input *GetTurnOrderInput) (*GetTurnOrderOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return &GetTurnOrderOutput{
		Order:          s.engine.InitiativeOrder(),
		CurrentTurnIdx: s.engine.TurnIndex(),
		Round:          s.engine.Round(),
	}, nil
}

// GetCombatant returns a single combatant by name
func (o *Orchestrator) GetCombatant(_ context.Context, input *GetCombatantInput) (*GetCombatantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	combatant, err := s.engine.GetCombatant(input.Name)
	if err != nil {
		return nil, err
	}

	return &GetCombatantOutput{Combatant: combatant}, nil
}

// DealDamage applies damage to a combatant
func (o *Orchestrator) DealDamage(_ context.Context, input *DealDamageInput) (*DealDamageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	combatant, err := s.engine.DealDamage(input.Name, input.Amount)
	if err != nil {
		return nil, err
	}

	return &DealDamageOutput{Combatant: combatant}, nil
}

// Heal restores hit points to a combatant
func (o *Orchestrator) Heal(_ context.Context, input *HealInput) (*HealOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	combatant, err := s.engine.Heal(input.Name, input.Amount)
	if err != nil {
		return nil, err
	}

	return &HealOutput{Combatant: combatant}, nil
}

// SetHP sets a combatant's current hit points directly
func (o *Orchestrator) SetHP(_ context.Context, input *SetHPInput) (*SetHPOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	combatant, err := s.engine.SetHP(input.Name, input.HP, input.AlsoSetMax)
	if err != nil {
		return nil, err
	}

	return &SetHPOutput{Combatant: combatant}, nil
}

// SetMaxHP changes a combatant's hit point maximum
func (o *Orchestrator) SetMaxHP(_ context.Context, input *SetMaxHPInput) (*SetMaxHPOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	combatant, err := s.engine.SetMaxHP(input.Name, input.MaxHP, input.AdjustCurrent)
	if err != nil {
		return nil, err
	}

	return &SetMaxHPOutput{Combatant: combatant}, nil
}

// AddStatusEffect attaches a status effect to a combatant
func (o *Orchestrator) AddStatusEffect(_ context.Context, input *AddStatusEffectInput) (*AddStatusEffectOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.AddStatusEffect(input.Name, input.EffectName, input.DurationRounds, input.Notes); err != nil {
		return nil, err
	}

	combatant, err := s.engine.GetCombatant(input.Name)
	if err != nil {
		return nil, err
	}

	return &AddStatusEffectOutput{Combatant: combatant}, nil
}

// RemoveStatusEffect removes a named status effect from a combatant
func (o *Orchestrator) RemoveStatusEffect(_ context.Context, input *RemoveStatusEffectInput) (*RemoveStatusEffectOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.RemoveStatusEffect(input.Name, input.EffectName); err != nil {
		return nil, err
	}

	combatant, err := s.engine.GetCombatant(input.Name)
	if err != nil {
		return nil, err
	}

	return &RemoveStatusEffectOutput{Combatant: combatant}, nil
}

// AdvanceTime moves the session's in-game clock forward
func (o *Orchestrator) AdvanceTime(_ context.Context, input *AdvanceTimeInput) (*AdvanceTimeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	gameTime, err := s.engine.AdvanceTime(input.Years, input.Days, input.Hours, input.Minutes)
	if err != nil {
		return nil, err
	}

	return &AdvanceTimeOutput{
		GameTime: gameTime,
		Display:  gameTime.String(),
	}, nil
}

// GetGameTime reads the session's in-game clock
func (o *Orchestrator) GetGameTime(_ context.Context, input *GetGameTimeInput) (*GetGameTimeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	gameTime := s.engine.GameTime()

	return &GetGameTimeOutput{
		GameTime: gameTime,
		Display:  gameTime.String(),
	}, nil
}

// RollDice resolves a dice roll. Rolls are stateless and do not touch any
// session.
func (o *Orchestrator) RollDice(_ context.Context, input *RollDiceInput) (*RollDiceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	result, err := o.resolver.Roll(&dice.RollInput{
		Notation:     input.Notation,
		Advantage:    input.Advantage,
		Disadvantage: input.Disadvantage,
	})
	if err != nil {
		return nil, err
	}

	o.log.Info("dice rolled", "notation", result.Notation, "total", result.Total)

	return &RollDiceOutput{Result: result}, nil
}

// lookup finds a live session by ID
func (o *Orchestrator) lookup(sessionID string) (*liveSession, error) {
	if sessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	s, ok := o.sessions[sessionID]
	if !ok {
		return nil, errors.NotFoundf("session %q not found", sessionID)
	}

	return s, nil
}
