package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/campaignkit/session-api/internal/entities"
	"github.com/campaignkit/session-api/internal/errors"
	session "github.com/campaignkit/session-api/internal/orchestrators/session"
)

// maxStateBytes bounds the size of an imported state document
const maxStateBytes = 1 << 20

// SessionHandler serves the session lifecycle and combat endpoints.
//
// Routes:
//
//	POST   /v1/sessions                                        - create session
//	POST   /v1/sessions/load                                   - restore saved session
//	GET    /v1/sessions/{id}                                   - session snapshot
//	DELETE /v1/sessions/{id}                                   - end session
//	POST   /v1/sessions/{id}/save                              - save session
//	POST   /v1/sessions/{id}/turn                              - advance initiative
//	GET    /v1/sessions/{id}/time                              - read game clock
//	POST   /v1/sessions/{id}/time                              - advance game clock
//	GET    /v1/sessions/{id}/state                             - export state document
//	PUT    /v1/sessions/{id}/state                             - import state document
//	GET    /v1/sessions/{id}/combatants                        - turn order
//	POST   /v1/sessions/{id}/combatants                        - add combatant
//	GET    /v1/sessions/{id}/combatants/{name}                 - combatant detail
//	DELETE /v1/sessions/{id}/combatants/{name}                 - remove combatant
//	POST   /v1/sessions/{id}/combatants/{name}/damage          - deal damage
//	POST   /v1/sessions/{id}/combatants/{name}/heal            - heal
//	PUT    /v1/sessions/{id}/combatants/{name}/hp              - set current HP
//	PUT    /v1/sessions/{id}/combatants/{name}/max-hp          - set max HP
//	POST   /v1/sessions/{id}/combatants/{name}/effects         - add status effect
//	DELETE /v1/sessions/{id}/combatants/{name}/effects/{effect} - remove status effect
type SessionHandler struct {
	service session.Service
	logger  *slog.Logger
}

// NewSessionHandler creates a session handler backed by the given service
func NewSessionHandler(service session.Service, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger,
	}
}

type createSessionRequest struct {
	Campaign string `json:"campaign"`
}

type sessionResponse struct {
	SessionID string                 `json:"session_id"`
	Campaign  string                 `json:"campaign"`
	State     *entities.SessionState `json:"state,omitempty"`
	SavedAt   *time.Time             `json:"saved_at,omitempty"`
}

type endSessionResponse struct {
	Campaign     string `json:"campaign"`
	ArchiveIndex int    `json:"archive_index"`
}

type saveSessionResponse struct {
	Campaign string    `json:"campaign"`
	SavedAt  time.Time `json:"saved_at"`
}

type loadSessionRequest struct {
	Campaign string `json:"campaign"`
}

type addCombatantRequest struct {
	Name             string `json:"name"`
	Initiative       int    `json:"initiative"`
	MaxHP            int    `json:"max_hp"`
	CurrentHP        *int   `json:"current_hp,omitempty"`
	NPC              bool   `json:"npc"`
	PlayerControlled bool   `json:"player_controlled"`
}

type combatantResponse struct {
	Combatant *entities.Combatant `json:"combatant"`
}

type turnOrderResponse struct {
	Order          []*entities.Combatant `json:"order"`
	CurrentTurnIdx int                   `json:"current_turn_idx"`
	Round          int                   `json:"round"`
}

type nextTurnResponse struct {
	CombatantName string `json:"combatant_name,omitempty"`
	Round         int    `json:"round"`
	Active        bool   `json:"active"`
}

type amountRequest struct {
	Amount int `json:"amount"`
}

type setHPRequest struct {
	HP         int  `json:"hp"`
	AlsoSetMax bool `json:"also_set_max"`
}

type setMaxHPRequest struct {
	MaxHP         int  `json:"max_hp"`
	AdjustCurrent bool `json:"adjust_current"`
}

type addEffectRequest struct {
	Name           string `json:"name"`
	DurationRounds *int   `json:"duration_rounds,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

type advanceTimeRequest struct {
	Years   int `json:"years"`
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

type gameTimeResponse struct {
	GameTime entities.GameClock `json:"game_time"`
	Display  string             `json:"display"`
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	segments, err := splitPath(r.URL.Path, "/v1/sessions")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	switch {
	case len(segments) == 0:
		if r.Method != http.MethodPost {
			methodNotAllowed(w, h.logger, r.Method)
			return
		}
		h.handleCreate(w, r)

	case len(segments) == 1 && segments[0] == "load":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, h.logger, r.Method)
			return
		}
		h.handleLoad(w, r)

	case len(segments) == 1:
		h.handleSession(w, r, segments[0])

	case len(segments) == 2 && segments[1] == "save":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, h.logger, r.Method)
			return
		}
		h.handleSave(w, r, segments[0])

	case len(segments) == 2 && segments[1] == "turn":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, h.logger, r.Method)
			return
		}
		h.handleNextTurn(w, r, segments[0])

	case len(segments) == 2 && segments[1] == "time":
		h.handleTime(w, r, segments[0])

	case len(segments) == 2 && segments[1] == "state":
		h.handleState(w, r, segments[0])

	case segments[1] == "combatants":
		h.handleCombatants(w, r, segments[0], segments[2:])

	default:
		http.NotFound(w, r)
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	out, err := h.service.CreateSession(r.Context(), &session.CreateSessionInput{Campaign: req.Campaign})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, sessionResponse{
		SessionID: out.SessionID,
		Campaign:  out.Campaign,
	})
}

func (h *SessionHandler) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req loadSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	out, err := h.service.LoadSession(r.Context(), &session.LoadSessionInput{Campaign: req.Campaign})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, sessionResponse{
		SessionID: out.SessionID,
		Campaign:  out.Campaign,
		State:     out.State,
		SavedAt:   &out.SavedAt,
	})
}

func (h *SessionHandler) handleSession(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		out, err := h.service.GetSession(r.Context(), &session.GetSessionInput{SessionID: id})
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, sessionResponse{
			SessionID: out.SessionID,
			Campaign:  out.Campaign,
			State:     out.State,
		})

	case http.MethodDelete:
		out, err := h.service.EndSession(r.Context(), &session.EndSessionInput{SessionID: id})
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, endSessionResponse{
			Campaign:     out.Campaign,
			ArchiveIndex: out.ArchiveIndex,
		})

	default:
		methodNotAllowed(w, h.logger, r.Method)
	}
}

func (h *SessionHandler) handleSave(w http.ResponseWriter, r *http.Request, id string) {
	out, err := h.service.SaveSession(r.Context(), &session.SaveSessionInput{SessionID: id})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, saveSessionResponse{
		Campaign: out.Campaign,
		SavedAt:  out.SavedAt,
	})
}

func (h *SessionHandler) handleNextTurn(w http.ResponseWriter, r *http.Request, id string) {
	out, err := h.service.NextTurn(r.Context(), &session.NextTurnInput{SessionID: id})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, nextTurnResponse{
		CombatantName: out.CombatantName,
		Round:         out.Round,
		Active:        out.Active,
	})
}

func (h *SessionHandler) handleTime(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		out, err := h.service.GetGameTime(r.Context(), &session.GetGameTimeInput{SessionID: id})
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, gameTimeResponse{
			GameTime: out.GameTime,
			Display:  out.Display,
		})

	case http.MethodPost:
		var req advanceTimeRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, h.logger, err)
			return
		}
		out, err := h.service.AdvanceTime(r.Context(), &session.AdvanceTimeInput{
			SessionID: id,
			Years:     req.Years,
			Days:      req.Days,
			Hours:     req.Hours,
			Minutes:   req.Minutes,
		})
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, gameTimeResponse{
			GameTime: out.GameTime,
			Display:  out.Display,
		})

	default:
		methodNotAllowed(w, h.logger, r.Method)
	}
}

// handleState serves the portable snapshot endpoints. GET returns the bare
// state document; PUT replaces the session's state with the request body.
func (h *SessionHandler) handleState(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		out, err := h.service.ExportState(r.Context(), &session.ExportStateInput{SessionID: id})
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, out.State)

	case http.MethodPut:
		data, err := io.ReadAll(io.LimitReader(r.Body, maxStateBytes))
		if err != nil {
			writeError(w, h.logger, errors.InvalidArgumentf("reading request body: %v", err))
			return
		}
		out, err := h.service.ImportState(r.Context(), &session.ImportStateInput{SessionID: id, Data: data})
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, out.State)

	default:
		methodNotAllowed(w, h.logger, r.Method)
	}
}

func (h *SessionHandler) handleCombatants(w http.ResponseWriter, r *http.Request, id string, rest []string) {
	switch {
	case len(rest) == 0:
		h.handleCombatantCollection(w, r, id)

	case len(rest) == 1:
		h.handleCombatant(w, r, id, rest[0])

	case len(rest) == 2:
		h.handleCombatantAction(w, r, id, rest[0], rest[1])

	case len(rest) == 3 && rest[1] == "effects":
		if r.Method != http.MethodDelete {
			methodNotAllowed(w, h.logger, r.Method)
			return
		}
		h.handleRemoveEffect(w, r, id, rest[0], rest[2])

	default:
		http.NotFound(w, r)
	}
}

func (h *SessionHandler) handleCombatantCollection(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		out, err := h.service.GetTurnOrder(r.Context(), &session.GetTurnOrderInput{SessionID: id})
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, turnOrderResponse{
			Order:          out.Order,
			CurrentTurnIdx: out.CurrentTurnIdx,
			Round:          out.Round,
		})

	case http.MethodPost:
		var req addCombatantRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, h.logger, err)
			return
		}
		out, err := h.service.AddCombatant(r.Context(), &session.AddCombatantInput{
			SessionID:        id,
			Name:             req.Name,
			Initiative:       req.Initiative,
			MaxHP:            req.MaxHP,
			CurrentHP:        req.CurrentHP,
			NPC:              req.NPC,
			PlayerControlled: req.PlayerControlled,
		})
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusCreated, combatantResponse{Combatant: out.Combatant})

	default:
		methodNotAllowed(w, h.logger, r.Method)
	}
}

func (h *SessionHandler) handleCombatant(w http.ResponseWriter, r *http.Request, id, name string) {
	switch r.Method {
	case http.MethodGet:
		out, err := h.service.GetCombatant(r.Context(), &session.GetCombatantInput{SessionID: id, Name: name})
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, combatantResponse{Combatant: out.Combatant})

	case http.MethodDelete:
		if _, err := h.service.RemoveCombatant(r.Context(), &session.RemoveCombatantInput{SessionID: id, Name: name}); err != nil {
			writeError(w, h.logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, h.logger, r.Method)
	}
}

func (h *SessionHandler) handleCombatantAction(w http.ResponseWriter, r *http.Request, id, name, action string) {
	switch action {
	case "damage":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, h.logger, r.Method)
			return
		}
		var req amountRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, h.logger, err)
			return
		}
		out, err := h.service.DealDamage(r.Context(), &session.DealDamageInput{SessionID: id, Name: name, Amount: req.Amount})
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, combatantResponse{Combatant: out.Combatant})

	case "heal":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, h.logger, r.Method)
			return
		}
		var req amountRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, h.logger, err)
			return
		}
		out, err := h.service.Heal(r.Context(), &session.HealInput{SessionID: id, Name: name, Amount: req.Amount})
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, combatantResponse{Combatant: out.Combatant})

	case "hp":
		if r.Method != http.MethodPut {
			methodNotAllowed(w, h.logger, r.Method)
			return
		}
		var req setHPRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, h.logger, err)
			return
		}
		out, err := h.service.SetHP(r.Context(), &session.SetHPInput{
			SessionID:  id,
			Name:       name,
			HP:         req.HP,
			AlsoSetMax: req.AlsoSetMax,
		})
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, combatantResponse{Combatant: out.Combatant})

	case "max-hp":
		if r.Method != http.MethodPut {
			methodNotAllowed(w, h.logger, r.Method)
			return
		}
		var req setMaxHPRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, h.logger, err)
			return
		}
		out, err := h.service.SetMaxHP(r.Context(), &session.SetMaxHPInput{
			SessionID:     id,
			Name:          name,
			MaxHP:         req.MaxHP,
			AdjustCurrent: req.AdjustCurrent,
		})
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, combatantResponse{Combatant: out.Combatant})

	case "effects":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, h.logger, r.Method)
			return
		}
		var req addEffectRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, h.logger, err)
			return
		}
		out, err := h.service.AddStatusEffect(r.Context(), &session.AddStatusEffectInput{
			SessionID:      id,
			Name:           name,
			EffectName:     req.Name,
			DurationRounds: req.DurationRounds,
			Notes:          req.Notes,
		})
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusCreated, combatantResponse{Combatant: out.Combatant})

	default:
		http.NotFound(w, r)
	}
}

func (h *SessionHandler) handleRemoveEffect(w http.ResponseWriter, r *http.Request, id, name, effect string) {
	out, err := h.service.RemoveStatusEffect(r.Context(), &session.RemoveStatusEffectInput{
		SessionID:  id,
		Name:       name,
		EffectName: effect,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, combatantResponse{Combatant: out.Combatant})
}

// splitPath strips the route prefix and returns the unescaped path
// segments after it
func splitPath(path, prefix string) ([]string, error) {
	trimmed := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if trimmed == "" {
		return nil, nil
	}

	parts := strings.Split(trimmed, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		segment, err := url.PathUnescape(part)
		if err != nil {
			return nil, errInvalidPath
		}
		segments = append(segments, segment)
	}
	return segments, nil
}
