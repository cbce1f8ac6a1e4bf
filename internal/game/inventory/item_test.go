package inventory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/dialectic/internal/game/inventory"
	"github.com/cory-johannsen/dialectic/internal/game/stats"
)

func TestItem_Validate(t *testing.T) {
	assert.NoError(t, staff().Validate())

	bad := &inventory.Item{Type: "hat", LevelRequirement: -1, StatBonuses: stats.Modifiers{"luck": 1}}
	err := bad.Validate()
	require.Error(t, err)
	for _, want := range []string{"ID", "Name", "Type", "LevelRequirement", "luck"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadItems(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weapons.yaml"), []byte(`
- id: oak_staff
  name: Oak Staff
  type: weapon
  level_requirement: 1
  stat_bonuses:
    mental_attack: 3
  special_effects: ["set:sophist"]
- id: silver_ring
  name: Silver Ring
  type: accessory
  stat_bonuses:
    evasion: 2
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	items, err := inventory.LoadItems(dir)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].StatBonuses[stats.MentalAttack])
	assert.Equal(t, []string{"set:sophist"}, items[0].SpecialEffects)

	reg, err := inventory.NewRegistryFrom(items)
	require.NoError(t, err)
	it, ok := reg.Item("silver_ring")
	require.True(t, ok)
	assert.Equal(t, inventory.TypeAccessory, it.Type)
}

func TestLoadItems_UnknownStatRejected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(`
- id: cursed
  name: Cursed
  type: armor
  stat_bonuses:
    luck: 9
`), 0o644))
	_, err := inventory.LoadItems(dir)
	assert.Error(t, err)
}

func TestLoadItems_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yml"), []byte(`
- id: cursed
  name: Cursed
  type: armor
  weight: 3
`), 0o644))
	_, err := inventory.LoadItems(dir)
	assert.Error(t, err)
}

func TestLoadItems_MissingDir(t *testing.T) {
	_, err := inventory.LoadItems(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
