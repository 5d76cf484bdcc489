package weapon_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/armory/internal/game/unitdef"
	"github.com/cory-johannsen/armory/internal/game/weapon"
	"github.com/cory-johannsen/armory/internal/scripting"
)

func newScriptManager(t *testing.T, scope, src string) *scripting.Manager {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weapons.lua"), []byte(src), 0644))
	mgr := scripting.NewManager(zap.NewNop())
	t.Cleanup(mgr.Close)
	require.NoError(t, mgr.Load(scope, dir, 0))
	return mgr
}

func TestScriptSetupHook_OverridesFields(t *testing.T) {
	mgr := newScriptManager(t, "sniper", `
		function weapon_setup(w)
			if w.behavior == "Rifle" and w.num == 0 then
				return { range = w.range * 2, accuracy = 0 }
			end
		end
	`)
	l, _ := newTestLoader(t, weapon.WithSetupHook(weapon.NewScriptSetupHook(mgr)))
	def := defOf("Rifle")
	def.Range = 500
	def.Accuracy = 0.3
	slots := []unitdef.WeaponSlot{slotOf(def), slotOf(def)}

	owner := &testOwner{name: "sniper"}
	require.NoError(t, l.LoadWeapons(owner, slots))
	ws := owner.Weapons()
	assert.Equal(t, 1000.0, ws[0].Range)
	assert.Equal(t, 0.0, ws[0].Accuracy)
	assert.Equal(t, 500.0, ws[1].Range, "hook returned nothing for the second weapon")
	assert.Equal(t, 0.3, ws[1].Accuracy)
}

func TestScriptSetupHook_SeesSlaveIndex(t *testing.T) {
	mgr := newScriptManager(t, "tank", `
		function weapon_setup(w)
			if w.slaved_to ~= nil then
				return { height_mod = w.slaved_to + 10 }
			end
		end
	`)
	l, _ := newTestLoader(t, weapon.WithSetupHook(weapon.NewScriptSetupHook(mgr)))
	def := defOf("Cannon")
	slots := []unitdef.WeaponSlot{slotOf(def), slotOf(def)}
	slots[1].SlavedTo = 1

	owner := &testOwner{name: "tank"}
	require.NoError(t, l.LoadWeapons(owner, slots))
	assert.Equal(t, 0.0, owner.Weapons()[0].HeightMod)
	assert.Equal(t, 10.0, owner.Weapons()[1].HeightMod)
}

func TestScriptSetupHook_NoScopeIsNoOp(t *testing.T) {
	mgr := scripting.NewManager(zap.NewNop())
	t.Cleanup(mgr.Close)
	l, _ := newTestLoader(t, weapon.WithSetupHook(weapon.NewScriptSetupHook(mgr)))
	def := defOf("Cannon")
	def.Range = 300
	owner := &testOwner{name: "tank"}
	require.NoError(t, l.LoadWeapons(owner, []unitdef.WeaponSlot{slotOf(def)}))
	assert.Equal(t, 300.0, owner.Weapons()[0].Range)
}
