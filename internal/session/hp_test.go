package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campaignkit/session-api/internal/errors"
	"github.com/campaignkit/session-api/internal/session"
)

func TestDealDamage(t *testing.T) {
	e := session.New()
	addCombatant(t, e, "Goblin", 12, 7)

	combatant, err := e.DealDamage("Goblin", 3)
	require.NoError(t, err)
	assert.Equal(t, 4, combatant.CurrentHP)

	// Damage past zero floors at zero.
	combatant, err = e.DealDamage("Goblin", 100)
	require.NoError(t, err)
	assert.Equal(t, 0, combatant.CurrentHP)

	_, err = e.DealDamage("Nobody", 1)
	assert.True(t, errors.IsNotFound(err))

	_, err = e.DealDamage("Goblin", -5)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestHeal(t *testing.T) {
	e := session.New()
	addCombatant(t, e, "Arin", 18, 35)
	_, err := e.DealDamage("Arin", 20)
	require.NoError(t, err)

	combatant, err := e.Heal("Arin", 10)
	require.NoError(t, err)
	assert.Equal(t, 25, combatant.CurrentHP)

	// Healing caps at max HP.
	combatant, err = e.Heal("Arin", 100)
	require.NoError(t, err)
	assert.Equal(t, 35, combatant.CurrentHP)

	_, err = e.Heal("Nobody", 1)
	assert.True(t, errors.IsNotFound(err))

	_, err = e.Heal("Arin", -5)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestSetHP(t *testing.T) {
	e := session.New()
	addCombatant(t, e, "Arin", 18, 35)

	combatant, err := e.SetHP("Arin", 12, false)
	require.NoError(t, err)
	assert.Equal(t, 12, combatant.CurrentHP)
	assert.Equal(t, 35, combatant.MaxHP)

	// Clamped into [0, max].
	combatant, err = e.SetHP("Arin", 99, false)
	require.NoError(t, err)
	assert.Equal(t, 35, combatant.CurrentHP)

	combatant, err = e.SetHP("Arin", -4, false)
	require.NoError(t, err)
	assert.Equal(t, 0, combatant.CurrentHP)

	// alsoSetMax raises the ceiling first.
	combatant, err = e.SetHP("Arin", 50, true)
	require.NoError(t, err)
	assert.Equal(t, 50, combatant.MaxHP)
	assert.Equal(t, 50, combatant.CurrentHP)

	_, err = e.SetHP("Nobody", 1, false)
	assert.True(t, errors.IsNotFound(err))
}

func TestSetMaxHP(t *testing.T) {
	e := session.New()
	addCombatant(t, e, "Arin", 18, 35)

	// Raising the max with adjustCurrent raises the current HP with it.
	combatant, err := e.SetMaxHP("Arin", 40, true)
	require.NoError(t, err)
	assert.Equal(t, 40, combatant.MaxHP)
	assert.Equal(t, 40, combatant.CurrentHP)

	// Raising the max without adjustCurrent leaves the current HP alone.
	_, err = e.SetHP("Arin", 10, false)
	require.NoError(t, err)
	combatant, err = e.SetMaxHP("Arin", 50, false)
	require.NoError(t, err)
	assert.Equal(t, 50, combatant.MaxHP)
	assert.Equal(t, 10, combatant.CurrentHP)

	// Lowering the max below the current HP clamps the current down
	// regardless of adjustCurrent.
	_, err = e.SetHP("Arin", 50, false)
	require.NoError(t, err)
	combatant, err = e.SetMaxHP("Arin", 20, false)
	require.NoError(t, err)
	assert.Equal(t, 20, combatant.MaxHP)
	assert.Equal(t, 20, combatant.CurrentHP)

	// Negative max floors at zero.
	combatant, err = e.SetMaxHP("Arin", -10, true)
	require.NoError(t, err)
	assert.Equal(t, 0, combatant.MaxHP)
	assert.Equal(t, 0, combatant.CurrentHP)

	_, err = e.SetMaxHP("Nobody", 10, true)
	assert.True(t, errors.IsNotFound(err))
}

func TestSetMaxHPExportStaysImportable(t *testing.T) {
	e := session.New()
	addCombatant(t, e, "Arin", 18, 35)

	combatant, err := e.SetMaxHP("Arin", 5, false)
	require.NoError(t, err)
	assert.Equal(t, 5, combatant.MaxHP)
	assert.Equal(t, 5, combatant.CurrentHP)

	restored := session.New()
	require.NoError(t, restored.ImportState(e.ExportState()))

	got, err := restored.GetCombatant("Arin")
	require.NoError(t, err)
	assert.Equal(t, 5, got.MaxHP)
	assert.Equal(t, 5, got.CurrentHP)
}

func TestHPInvariantAcrossMixedOperations(t *testing.T) {
	e := session.New()
	addCombatant(t, e, "Arin", 18, 35)
	addCombatant(t, e, "Goblin", 12, 7)

	steps := []func(){
		func() { _, _ = e.DealDamage("Arin", 40) },
		func() { _, _ = e.Heal("Arin", 200) },
		func() { _, _ = e.SetHP("Goblin", 100, false) },
		func() { _, _ = e.SetMaxHP("Goblin", 3, true) },
		func() { _, _ = e.DealDamage("Goblin", 1) },
		func() { _, _ = e.SetHP("Arin", -1, false) },
		func() { _, _ = e.Heal("Goblin", 50) },
	}

	for _, step := range steps {
		step()
		for _, combatant := range e.InitiativeOrder() {
			assert.GreaterOrEqual(t, combatant.CurrentHP, 0, combatant.Name)
			assert.LessOrEqual(t, combatant.CurrentHP, combatant.MaxHP, combatant.Name)
		}
	}
}
