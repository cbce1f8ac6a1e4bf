package npc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/dialectic/internal/game/character"
	"github.com/cory-johannsen/dialectic/internal/game/inventory"
	"github.com/cory-johannsen/dialectic/internal/game/npc"
	"github.com/cory-johannsen/dialectic/internal/game/stats"
)

func testItems(t *testing.T) *inventory.Registry {
	t.Helper()
	reg, err := inventory.NewRegistryFrom([]*inventory.Item{
		{ID: "quill", Name: "Quill", Type: inventory.TypeWeapon, LevelRequirement: 1,
			StatBonuses: stats.Modifiers{stats.MentalAttack: 2}},
		{ID: "crown", Name: "Crown", Type: inventory.TypeAccessory, LevelRequirement: 5,
			StatBonuses: stats.Modifiers{stats.SocialAttack: 4}},
	})
	require.NoError(t, err)
	return reg
}

func TestSpawn(t *testing.T) {
	tmpl, err := npc.LoadTemplateFromBytes([]byte(sophist + "equipment: [quill]\n"))
	require.NoError(t, err)

	inst, err := npc.Spawn(tmpl, testItems(t))
	require.NoError(t, err)

	c := inst.Character
	assert.Equal(t, 3, c.Level)
	assert.Equal(t, 0, c.AvailableStatPoints)
	assert.Equal(t, character.BaseMind+2+4, c.Stats.Mind)
	assert.Equal(t, character.BaseHeart+2, c.Stats.Heart)
	assert.Equal(t, 45, c.Age)

	require.NotNil(t, inst.Equipment.Weapon)
	assert.Equal(t, "quill", inst.Equipment.Weapon.ID)
	assert.Equal(t, stats.Modifiers{stats.MentalAttack: 2}, c.EquipmentBonus)

	// liar_paradox needs level 5
	assert.True(t, inst.Knowledge.Knows("circular_reasoning"))
	assert.False(t, inst.Knowledge.Knows("liar_paradox"))
	assert.True(t, inst.Knowledge.Knows("ad_hominem"))
}

func TestSpawn_Combatant(t *testing.T) {
	tmpl, err := npc.LoadTemplateFromBytes([]byte(sophist))
	require.NoError(t, err)
	inst, err := npc.Spawn(tmpl, nil)
	require.NoError(t, err)

	cbt := inst.Combatant()
	assert.Equal(t, "The Sophist", cbt.Name)
	assert.Equal(t, cbt.Stats.MaxHealth, cbt.Stats.Health)
	assert.Equal(t, inst.Character.DetailedStats, cbt.Stats.Block)
	require.NotNil(t, cbt.Knowledge)

	cbt.Knowledge.Known["straw_man"] = false
	assert.True(t, inst.Knowledge.Knows("straw_man"), "combatant knowledge is a copy")
}

func TestSpawn_UnknownItem(t *testing.T) {
	tmpl, err := npc.LoadTemplateFromBytes([]byte(sophist + "equipment: [sword]\n"))
	require.NoError(t, err)
	_, err = npc.Spawn(tmpl, testItems(t))
	assert.ErrorContains(t, err, "sword")
}

func TestSpawn_LevelRequirement(t *testing.T) {
	tmpl, err := npc.LoadTemplateFromBytes([]byte(sophist + "equipment: [crown]\n"))
	require.NoError(t, err)
	_, err = npc.Spawn(tmpl, testItems(t))
	assert.ErrorIs(t, err, inventory.ErrLevelRequirement)
}
