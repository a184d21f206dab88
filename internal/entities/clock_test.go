package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campaignkit/session-api/internal/entities"
)

func TestGameClock_Advance(t *testing.T) {
	tests := []struct {
		name                        string
		start                       entities.GameClock
		years, days, hours, minutes int
		want                        entities.GameClock
	}{
		{
			name:    "simple minutes",
			start:   entities.GameClock{Year: 1491, Day: 1, Hour: 12, Minute: 0},
			minutes: 15,
			want:    entities.GameClock{Year: 1491, Day: 1, Hour: 12, Minute: 15},
		},
		{
			name:    "minutes carry into hours",
			start:   entities.GameClock{Year: 1491, Day: 1, Hour: 12, Minute: 0},
			minutes: 90,
			want:    entities.GameClock{Year: 1491, Day: 1, Hour: 13, Minute: 30},
		},
		{
			name:  "hours carry into days",
			start: entities.GameClock{Year: 1491, Day: 1, Hour: 20, Minute: 0},
			hours: 10,
			want:  entities.GameClock{Year: 1491, Day: 2, Hour: 6, Minute: 0},
		},
		{
			name:  "days carry into years",
			start: entities.GameClock{Year: 1491, Day: 360, Hour: 0, Minute: 0},
			days:  10,
			want:  entities.GameClock{Year: 1492, Day: 5, Hour: 0, Minute: 0},
		},
		{
			name:  "day 365 is the last day of the year",
			start: entities.GameClock{Year: 1491, Day: 364, Hour: 0, Minute: 0},
			days:  1,
			want:  entities.GameClock{Year: 1491, Day: 365, Hour: 0, Minute: 0},
		},
		{
			name:  "day 366 wraps to day 1",
			start: entities.GameClock{Year: 1491, Day: 365, Hour: 0, Minute: 0},
			days:  1,
			want:  entities.GameClock{Year: 1492, Day: 1, Hour: 0, Minute: 0},
		},
		{
			name:  "years add directly",
			start: entities.GameClock{Year: 1491, Day: 40, Hour: 3, Minute: 5},
			years: 2,
			want:  entities.GameClock{Year: 1493, Day: 40, Hour: 3, Minute: 5},
		},
		{
			name:    "all units at once",
			start:   entities.GameClock{Year: 1491, Day: 1, Hour: 23, Minute: 45},
			years:   1,
			days:    2,
			hours:   1,
			minutes: 30,
			want:    entities.GameClock{Year: 1492, Day: 4, Hour: 1, Minute: 15},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clock := tc.start
			clock.Advance(tc.years, tc.days, tc.hours, tc.minutes)
			assert.Equal(t, tc.want, clock)
		})
	}
}

func TestGameClock_String(t *testing.T) {
	assert.Equal(t, "Year 1491, Day 1, 12:00", entities.NewGameClock().String())

	clock := entities.GameClock{Year: 1492, Day: 128, Hour: 7, Minute: 5}
	assert.Equal(t, "Year 1492, Day 128, 07:05", clock.String())
}

func TestCombatantClone(t *testing.T) {
	rounds := 3
	original := &entities.Combatant{
		Name:       "Arin",
		Initiative: 18,
		MaxHP:      35,
		CurrentHP:  20,
		StatusEffects: map[string]*entities.StatusEffect{
			"Blessed": {Name: "Blessed", DurationRounds: &rounds},
		},
	}

	clone := original.Clone()
	clone.CurrentHP = 1
	*clone.StatusEffects["Blessed"].DurationRounds = 99
	clone.StatusEffects["Poisoned"] = &entities.StatusEffect{Name: "Poisoned"}

	assert.Equal(t, 20, original.CurrentHP)
	assert.Equal(t, 3, *original.StatusEffects["Blessed"].DurationRounds)
	assert.NotContains(t, original.StatusEffects, "Poisoned")
}

func TestCombatantEntity(t *testing.T) {
	combatant := &entities.Combatant{Name: "Arin"}
	assert.Equal(t, "Arin", combatant.GetID())
	assert.Equal(t, entities.EntityTypeCombatant, combatant.GetType())
}
