package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campaignkit/session-api/internal/errors"
	"github.com/campaignkit/session-api/internal/session"
)

func addCombatant(t *testing.T, e *session.Engine, name string, initiative, maxHP int) {
	t.Helper()
	_, err := e.AddCombatant(&session.AddCombatantInput{
		Name:       name,
		Initiative: initiative,
		MaxHP:      maxHP,
	})
	require.NoError(t, err)
}

func orderNames(e *session.Engine) []string {
	order := e.InitiativeOrder()
	names := make([]string, len(order))
	for i, combatant := range order {
		names[i] = combatant.Name
	}
	return names
}

func TestAddCombatant_StartsCombat(t *testing.T) {
	e := session.New()
	assert.False(t, e.CombatActive())
	assert.Equal(t, 0, e.Round())
	assert.Equal(t, -1, e.TurnIndex())

	addCombatant(t, e, "Arin", 18, 35)

	assert.True(t, e.CombatActive())
	assert.Equal(t, 1, e.Round())
	assert.Equal(t, 0, e.TurnIndex())
	require.NotNil(t, e.CurrentCombatant())
	assert.Equal(t, "Arin", e.CurrentCombatant().Name)
}

func TestAddCombatant_DuplicateName(t *testing.T) {
	e := session.New()
	addCombatant(t, e, "Arin", 18, 35)

	_, err := e.AddCombatant(&session.AddCombatantInput{Name: "Arin", Initiative: 3, MaxHP: 10})
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))

	// The registry is unchanged after the failed call.
	order := e.InitiativeOrder()
	require.Len(t, order, 1)
	assert.Equal(t, 18, order[0].Initiative)
	assert.Equal(t, 35, order[0].MaxHP)
}

func TestAddCombatant_SortedDescending(t *testing.T) {
	e := session.New()
	addCombatant(t, e, "Goblin", 12, 7)
	addCombatant(t, e, "Arin", 18, 35)
	addCombatant(t, e, "Wolf", 15, 11)

	assert.Equal(t, []string{"Arin", "Wolf", "Goblin"}, orderNames(e))
}

func TestAddCombatant_TiesKeepInsertionOrder(t *testing.T) {
	e := session.New()
	addCombatant(t, e, "First", 10, 5)
	addCombatant(t, e, "Second", 10, 5)
	addCombatant(t, e, "Third", 10, 5)

	assert.Equal(t, []string{"First", "Second", "Third"}, orderNames(e))

	// A later insertion with a different score leaves the tie order alone.
	addCombatant(t, e, "Leader", 20, 5)
	assert.Equal(t, []string{"Leader", "First", "Second", "Third"}, orderNames(e))

	// Another tied insertion lands after the existing ties.
	addCombatant(t, e, "Fourth", 10, 5)
	assert.Equal(t, []string{"Leader", "First", "Second", "Third", "Fourth"}, orderNames(e))
}

func TestAddCombatant_CurrentHPDefaultsAndClamps(t *testing.T) {
	e := session.New()

	added, err := e.AddCombatant(&session.AddCombatantInput{Name: "Arin", Initiative: 18, MaxHP: 35})
	require.NoError(t, err)
	assert.Equal(t, 35, added.CurrentHP)

	hp := 50
	added, err = e.AddCombatant(&session.AddCombatantInput{
		Name:       "Goblin",
		Initiative: 12,
		MaxHP:      7,
		CurrentHP:  &hp,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, added.CurrentHP)
}

func TestNextTurn_NoCombat(t *testing.T) {
	e := session.New()
	name, ok := e.NextTurn()
	assert.False(t, ok)
	assert.Empty(t, name)
	assert.Nil(t, e.CurrentCombatant())
}

func TestNextTurn_WrapIncrementsRound(t *testing.T) {
	// The spec example: Arin 18/35, Goblin 12/7.
	e := session.New()
	addCombatant(t, e, "Arin", 18, 35)
	addCombatant(t, e, "Goblin", 12, 7)

	assert.Equal(t, []string{"Arin", "Goblin"}, orderNames(e))
	assert.Equal(t, 1, e.Round())
	assert.Equal(t, "Arin", e.CurrentCombatant().Name)

	goblin, err := e.DealDamage("Goblin", 10)
	require.NoError(t, err)
	assert.Equal(t, 0, goblin.CurrentHP)

	name, ok := e.NextTurn()
	require.True(t, ok)
	assert.Equal(t, "Goblin", name)
	assert.Equal(t, 1, e.Round())

	name, ok = e.NextTurn()
	require.True(t, ok)
	assert.Equal(t, "Arin", name)
	assert.Equal(t, 2, e.Round())
}

func TestNextTurn_FullCycleReturnsToStart(t *testing.T) {
	e := session.New()
	addCombatant(t, e, "Arin", 18, 35)
	addCombatant(t, e, "Wolf", 15, 11)
	addCombatant(t, e, "Goblin", 12, 7)

	start := e.CurrentCombatant().Name
	startRound := e.Round()

	for i := 0; i < 3; i++ {
		_, ok := e.NextTurn()
		require.True(t, ok)
	}

	assert.Equal(t, start, e.CurrentCombatant().Name)
	assert.Equal(t, startRound+1, e.Round())
}

func TestRemoveCombatant(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		e := session.New()
		err := e.RemoveCombatant("Nobody")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("before current decrements index", func(t *testing.T) {
		e := session.New()
		addCombatant(t, e, "Arin", 18, 35)
		addCombatant(t, e, "Wolf", 15, 11)
		addCombatant(t, e, "Goblin", 12, 7)

		// Advance so Goblin (index 2) is current.
		e.NextTurn()
		e.NextTurn()
		require.Equal(t, "Goblin", e.CurrentCombatant().Name)

		require.NoError(t, e.RemoveCombatant("Arin"))
		assert.Equal(t, "Goblin", e.CurrentCombatant().Name)
		assert.Equal(t, 1, e.TurnIndex())
	})

	t.Run("current passes turn to next", func(t *testing.T) {
		e := session.New()
		addCombatant(t, e, "Arin", 18, 35)
		addCombatant(t, e, "Wolf", 15, 11)
		addCombatant(t, e, "Goblin", 12, 7)

		e.NextTurn()
		require.Equal(t, "Wolf", e.CurrentCombatant().Name)

		require.NoError(t, e.RemoveCombatant("Wolf"))
		assert.Equal(t, "Goblin", e.CurrentCombatant().Name)
		assert.Equal(t, 1, e.TurnIndex())
	})

	t.Run("current at end wraps to top", func(t *testing.T) {
		e := session.New()
		addCombatant(t, e, "Arin", 18, 35)
		addCombatant(t, e, "Goblin", 12, 7)

		e.NextTurn()
		require.Equal(t, "Goblin", e.CurrentCombatant().Name)

		require.NoError(t, e.RemoveCombatant("Goblin"))
		assert.Equal(t, "Arin", e.CurrentCombatant().Name)
		assert.Equal(t, 0, e.TurnIndex())
	})

	t.Run("after current leaves index alone", func(t *testing.T) {
		e := session.New()
		addCombatant(t, e, "Arin", 18, 35)
		addCombatant(t, e, "Goblin", 12, 7)

		require.NoError(t, e.RemoveCombatant("Goblin"))
		assert.Equal(t, "Arin", e.CurrentCombatant().Name)
		assert.Equal(t, 0, e.TurnIndex())
	})

	t.Run("last combatant ends combat", func(t *testing.T) {
		e := session.New()
		addCombatant(t, e, "Arin", 18, 35)

		require.NoError(t, e.RemoveCombatant("Arin"))
		assert.False(t, e.CombatActive())
		assert.Equal(t, 0, e.Round())
		assert.Equal(t, -1, e.TurnIndex())
		assert.Nil(t, e.CurrentCombatant())
	})
}

func TestInitiativeOrder_SnapshotsAreIndependent(t *testing.T) {
	e := session.New()
	addCombatant(t, e, "Arin", 18, 35)

	snapshot := e.InitiativeOrder()
	snapshot[0].CurrentHP = 1
	snapshot[0].StatusEffects["Poisoned"] = nil

	fresh, err := e.GetCombatant("Arin")
	require.NoError(t, err)
	assert.Equal(t, 35, fresh.CurrentHP)
	assert.Empty(t, fresh.StatusEffects)
}
