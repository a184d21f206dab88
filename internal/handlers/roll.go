package handlers

import (
	"log/slog"
	"net/http"

	session "github.com/campaignkit/session-api/internal/orchestrators/session"
)

// RollHandler serves stateless dice rolls.
//
// Routes:
//
//	POST /v1/roll - resolve a dice roll
type RollHandler struct {
	service session.Service
	logger  *slog.Logger
}

// NewRollHandler creates a roll handler backed by the given service
func NewRollHandler(service session.Service, logger *slog.Logger) *RollHandler {
	return &RollHandler{
		service: service,
		logger:  logger,
	}
}

type rollRequest struct {
	Notation     string `json:"notation"`
	Advantage    bool   `json:"advantage"`
	Disadvantage bool   `json:"disadvantage"`
}

func (h *RollHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, h.logger, r.Method)
		return
	}

	var req rollRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	out, err := h.service.RollDice(r.Context(), &session.RollDiceInput{
		Notation:     req.Notation,
		Advantage:    req.Advantage,
		Disadvantage: req.Disadvantage,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, out.Result)
}
