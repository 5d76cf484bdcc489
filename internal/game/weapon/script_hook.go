package weapon

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/armory/internal/scripting"
)

// ScriptSetupHookName is the Lua global called for every initialized weapon.
const ScriptSetupHookName = "weapon_setup"

// NewScriptSetupHook returns a SetupHook calling the weapon_setup Lua function
// in the owner's script scope (or the global scope). The function receives a
// table describing the weapon and may return a table overriding range,
// accuracy, spray_angle and height_mod.
//
// Precondition: mgr must be non-nil.
func NewScriptSetupHook(mgr *scripting.Manager) SetupHook {
	return func(w *Weapon) {
		scope := w.owner.DefName()
		tbl := mgr.NewTable(scope)
		if tbl == nil {
			return
		}
		tbl.RawSetString("unit", lua.LString(scope))
		tbl.RawSetString("num", lua.LNumber(w.Num))
		tbl.RawSetString("name", lua.LString(w.Def.Name))
		tbl.RawSetString("behavior", lua.LString(w.Behavior.Name()))
		tbl.RawSetString("reload_frames", lua.LNumber(w.ReloadFrames))
		tbl.RawSetString("range", lua.LNumber(w.Range))
		tbl.RawSetString("accuracy", lua.LNumber(w.Accuracy))
		tbl.RawSetString("spray_angle", lua.LNumber(w.SprayAngle))
		tbl.RawSetString("height_mod", lua.LNumber(w.HeightMod))
		if idx, ok := w.SlavedToIndex(); ok {
			tbl.RawSetString("slaved_to", lua.LNumber(idx))
		}

		ret, _ := mgr.CallHook(scope, ScriptSetupHookName, tbl)
		overrides, ok := ret.(*lua.LTable)
		if !ok {
			return
		}
		applyOverride(overrides, "range", &w.Range)
		applyOverride(overrides, "accuracy", &w.Accuracy)
		applyOverride(overrides, "spray_angle", &w.SprayAngle)
		applyOverride(overrides, "height_mod", &w.HeightMod)
	}
}

func applyOverride(tbl *lua.LTable, key string, dst *float64) {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		*dst = float64(n)
	}
}
