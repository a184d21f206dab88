package dice

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/campaignkit/session-api/internal/errors"
)

// toolkitRoller implements dice.Roller on top of rpg-toolkit rolls. The
// toolkit does not expose individual die values directly, so they are
// recovered from the roll description, which renders as "+2d6[3,4]=7".
type toolkitRoller struct{}

var _ dice.Roller = (*toolkitRoller)(nil)

// Roll returns a single die result in [1, size]
func (r *toolkitRoller) Roll(size int) (int, error) {
	rolls, err := r.RollN(1, size)
	if err != nil {
		return 0, err
	}
	return rolls[0], nil
}

// RollN returns count individual die results, each in [1, size]
func (r *toolkitRoller) RollN(count, size int) ([]int, error) {
	roll, err := dice.NewRoll(count, size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create dice roll")
	}

	values, err := parseRollDescription(roll.GetDescription())
	if err != nil {
		return nil, err
	}
	if len(values) != count {
		return nil, errors.Internalf("expected %d die values, got %d", count, len(values))
	}

	return values, nil
}

// parseRollDescription extracts the bracketed die values from a toolkit
// roll description.
func parseRollDescription(description string) ([]int, error) {
	start := strings.Index(description, "[")
	end := strings.Index(description, "]")
	if start < 0 || end <= start {
		return nil, errors.Internalf("unparseable roll description: %q", description)
	}

	parts := strings.Split(description[start+1:end], ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.Internalf("unparseable die value in description: %q", description)
		}
		values = append(values, value)
	}

	return values, nil
}
