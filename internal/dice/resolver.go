// Package dice implements the dice resolver: parsing and evaluating dice
// expressions in NdM[+/-X] notation, with advantage and disadvantage
// handling for single d20 rolls.
package dice

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/campaignkit/session-api/internal/errors"
)

// Roll kinds reported on advantage/disadvantage results
const (
	KindStandard     = "standard"
	KindAdvantage    = "advantage"
	KindDisadvantage = "disadvantage"
)

const d20Size = 20

// Regex for dice notation like "2d6+3", "d20-1", "1d8". A missing count
// defaults to 1.
var notationRegex = regexp.MustCompile(`^(\d*)d(\d+)([+-]\d+)?$`)

// RollInput describes a single roll request
type RollInput struct {
	// Notation in NdM[+/-X] format, e.g. "2d6+3" or "d20"
	Notation string

	// Advantage rolls two d20s and keeps the higher. Only valid for a
	// single d20 roll, and mutually exclusive with Disadvantage.
	Advantage bool

	// Disadvantage rolls two d20s and keeps the lower
	Disadvantage bool
}

// RollResult holds the outcome of a resolved dice expression
type RollResult struct {
	// Notation is the normalized expression that was rolled
	Notation string `json:"notation"`

	// Rolls are the individual die results that count toward the total.
	// For advantage/disadvantage this is the single kept d20.
	Rolls []int `json:"rolls"`

	// Modifier is the signed flat modifier from the expression
	Modifier int `json:"modifier"`

	// Total is sum(Rolls) + Modifier
	Total int `json:"total"`

	// Kind is standard, advantage, or disadvantage
	Kind string `json:"kind"`

	// D20Outcomes holds both raw d20 draws, sorted ascending, when the
	// roll was made with advantage or disadvantage
	D20Outcomes []int `json:"d20_outcomes,omitempty"`

	// KeptRoll is the d20 draw that was selected
	KeptRoll int `json:"kept_roll,omitempty"`
}

// Config holds the dependencies for the resolver
type Config struct {
	// Roller supplies randomness. Nil selects the toolkit-backed roller.
	Roller dice.Roller
}

// Resolver parses and evaluates dice expressions
type Resolver struct {
	roller dice.Roller
}

// NewResolver creates a resolver with the provided randomness source
func NewResolver(cfg *Config) *Resolver {
	var roller dice.Roller
	if cfg != nil {
		roller = cfg.Roller
	}
	if roller == nil {
		roller = &toolkitRoller{}
	}
	return &Resolver{roller: roller}
}

// Roll parses and evaluates the expression in input. Advantage and
// disadvantage are rejected unless the expression is exactly a single d20.
func (r *Resolver) Roll(input *RollInput) (*RollResult, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	count, size, modifier, err := parseNotation(input.Notation)
	if err != nil {
		return nil, err
	}

	if input.Advantage && input.Disadvantage {
		return nil, errors.InvalidArgument("cannot roll with both advantage and disadvantage")
	}

	if input.Advantage || input.Disadvantage {
		if count != 1 || size != d20Size {
			return nil, errors.InvalidArgument("advantage and disadvantage apply only to a single d20 roll")
		}
		return r.rollD20Pair(input.Advantage, modifier)
	}

	rolls, err := r.roller.RollN(count, size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll dice")
	}

	total := modifier
	for _, roll := range rolls {
		total += roll
	}

	return &RollResult{
		Notation: formatNotation(count, size, modifier),
		Rolls:    rolls,
		Modifier: modifier,
		Total:    total,
		Kind:     KindStandard,
	}, nil
}

// rollD20Pair draws two d20s and keeps the higher (advantage) or lower
// (disadvantage).
func (r *Resolver) rollD20Pair(advantage bool, modifier int) (*RollResult, error) {
	draws, err := r.roller.RollN(2, d20Size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll dice")
	}
	if len(draws) != 2 {
		return nil, errors.Internalf("expected 2 d20 draws, got %d", len(draws))
	}

	kind := KindDisadvantage
	kept := draws[0]
	if draws[1] < kept {
		kept = draws[1]
	}
	if advantage {
		kind = KindAdvantage
		kept = draws[0]
		if draws[1] > kept {
			kept = draws[1]
		}
	}

	outcomes := []int{draws[0], draws[1]}
	sort.Ints(outcomes)

	return &RollResult{
		Notation:    formatNotation(1, d20Size, modifier),
		Rolls:       []int{kept},
		Modifier:    modifier,
		Total:       kept + modifier,
		Kind:        kind,
		D20Outcomes: outcomes,
		KeptRoll:    kept,
	}, nil
}

// parseNotation parses NdM[+/-X] notation and returns count, size, and the
// signed modifier.
func parseNotation(notation string) (count, size, modifier int, err error) {
	normalized := strings.ToLower(strings.ReplaceAll(notation, " ", ""))

	matches := notationRegex.FindStringSubmatch(normalized)
	if matches == nil {
		return 0, 0, 0, errors.InvalidArgumentf(
			"invalid dice notation: %q (expected NdM[+/-X], e.g. '2d6+3' or 'd20-1')", notation)
	}

	count = 1
	if matches[1] != "" {
		count, err = strconv.Atoi(matches[1])
		if err != nil {
			return 0, 0, 0, errors.InvalidArgumentf("invalid die count in notation: %q", notation)
		}
	}

	size, err = strconv.Atoi(matches[2])
	if err != nil {
		return 0, 0, 0, errors.InvalidArgumentf("invalid die size in notation: %q", notation)
	}

	if matches[3] != "" {
		modifier, err = strconv.Atoi(matches[3])
		if err != nil {
			return 0, 0, 0, errors.InvalidArgumentf("invalid modifier in notation: %q", notation)
		}
	}

	if count < 1 {
		return 0, 0, 0, errors.InvalidArgumentf("die count must be at least 1: %q", notation)
	}
	if size < 2 {
		return 0, 0, 0, errors.InvalidArgumentf("die size must be at least 2: %q", notation)
	}

	return count, size, modifier, nil
}

// formatNotation renders the normalized form of a parsed expression
func formatNotation(count, size, modifier int) string {
	notation := strconv.Itoa(count) + "d" + strconv.Itoa(size)
	if modifier > 0 {
		notation += "+" + strconv.Itoa(modifier)
	} else if modifier < 0 {
		notation += strconv.Itoa(modifier)
	}
	return notation
}
