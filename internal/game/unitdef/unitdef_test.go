package unitdef_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/armory/internal/game/collision"
	"github.com/cory-johannsen/armory/internal/game/unitdef"
)

const cannonYAML = `name: light_cannon
type: Cannon
reload: 2.5
range: 400
accuracy: 0.02
salvo_size: 2
salvo_delay: 0.1
fire_sound:
  - name: cannon_fire
    id: 7
    volume: 0.8
avoid_friendly: false
collision_flags: [noFeatures]
`

const tankYAML = `name: tank
can_fly: false
weapons:
  - weapon: light_cannon
    main_dir: {x: 0, y: 0, z: 2}
    max_angle_dif: 180
    bad_target_category: 4
  - weapon: light_cannon
    slaved_to: 1
    fuel_usage: 3.5
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestParseWeaponKind_AllIdentifiers(t *testing.T) {
	for _, typ := range unitdef.TypeIdentifiers() {
		k, ok := unitdef.ParseWeaponKind(typ)
		assert.True(t, ok, "type %q should be recognized", typ)
		assert.NotEqual(t, unitdef.KindUnknown, k)
		assert.Equal(t, typ, k.String())
	}
	assert.Len(t, unitdef.TypeIdentifiers(), unitdef.NumKinds-1)
}

func TestParseWeaponKind_CaseSensitive(t *testing.T) {
	for _, typ := range []string{"", "cannon", "CANNON", "Cannon ", "NoWeapon"} {
		k, ok := unitdef.ParseWeaponKind(typ)
		assert.False(t, ok, "type %q must not be recognized", typ)
		assert.Equal(t, unitdef.KindUnknown, k)
	}
}

func TestLoadWeaponDefFromBytes_AppliesDefaults(t *testing.T) {
	d, err := unitdef.LoadWeaponDefFromBytes([]byte("name: bare\ntype: Rifle\n"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, d.Reload)
	assert.Equal(t, 1, d.SalvoSize)
	assert.Equal(t, 1, d.ProjectilesPerShot)
	assert.Equal(t, 180.0, d.MaxAngle)
	assert.True(t, d.AvoidNeutral)
	assert.True(t, d.AvoidFriendly)
	assert.True(t, d.AvoidFeature)
	assert.True(t, d.AvoidGround)
}

func TestLoadWeaponDefFromBytes_Fields(t *testing.T) {
	d, err := unitdef.LoadWeaponDefFromBytes([]byte(cannonYAML))
	require.NoError(t, err)
	assert.Equal(t, "light_cannon", d.Name)
	assert.Equal(t, 2.5, d.Reload)
	assert.Equal(t, 2, d.SalvoSize)
	assert.False(t, d.AvoidFriendly)
	assert.Equal(t, collision.NoFeatures, d.CollisionFlags)
	require.Len(t, d.FireSound, 1)
	assert.Equal(t, 7, d.FireSound[0].ID)
	k, ok := d.Kind()
	assert.True(t, ok)
	assert.Equal(t, unitdef.KindCannon, k)
}

func TestWeaponDef_Validate_RejectsNegativeReload(t *testing.T) {
	_, err := unitdef.LoadWeaponDefFromBytes([]byte("name: bad\ntype: Cannon\nreload: -1\n"))
	assert.Error(t, err)
}

func TestWeaponDef_Validate_UnknownTypeIsNotAnError(t *testing.T) {
	d, err := unitdef.LoadWeaponDefFromBytes([]byte("name: odd\ntype: Catapult\n"))
	require.NoError(t, err)
	_, ok := d.Kind()
	assert.False(t, ok)
}

func TestLoadUnitDefFromBytes_SlotDefaults(t *testing.T) {
	u, err := unitdef.LoadUnitDefFromBytes([]byte(tankYAML))
	require.NoError(t, err)
	require.Len(t, u.Weapons, 2)

	first := u.Weapons[0]
	assert.InDelta(t, 1.0, first.MainDir.Z, 1e-9, "main_dir must be normalized")
	assert.InDelta(t, math.Cos(math.Pi/2), first.MaxMainDirAngleDif, 1e-9)
	assert.Equal(t, uint32(4), first.BadTargetCategory)

	second := u.Weapons[1]
	assert.Equal(t, unitdef.Forward, second.MainDir)
	assert.InDelta(t, -1.0, second.MaxMainDirAngleDif, 1e-9, "default arc is a full circle")
	assert.Equal(t, 1, second.SlavedTo)
}

func TestUnitDef_Validate_RejectsNegativeSlave(t *testing.T) {
	_, err := unitdef.LoadUnitDefFromBytes([]byte("name: x\nweapons:\n  - weapon: a\n    slaved_to: -2\n"))
	assert.Error(t, err)
}

func TestLoadRegistry_LinksSlots(t *testing.T) {
	weaponsDir := t.TempDir()
	unitsDir := t.TempDir()
	writeFile(t, weaponsDir, "light_cannon.yaml", cannonYAML+"fuel_usage: 1.25\n")
	writeFile(t, weaponsDir, "README.txt", "ignored")
	writeFile(t, unitsDir, "tank.yaml", tankYAML)

	reg, err := unitdef.LoadRegistry(weaponsDir, unitsDir)
	require.NoError(t, err)

	u, ok := reg.Unit("tank")
	require.True(t, ok)
	w := reg.Weapon("light_cannon")
	require.NotNil(t, w)
	assert.Same(t, w, u.Weapons[0].Def)
	assert.Same(t, w, u.Weapons[1].Def)
	assert.Equal(t, 1.25, u.Weapons[0].FuelUsage, "slot without override uses definition fuel usage")
	assert.Equal(t, 3.5, u.Weapons[1].FuelUsage, "slot override wins")
}

func TestRegistry_Link_UnknownWeapon(t *testing.T) {
	u, err := unitdef.LoadUnitDefFromBytes([]byte(tankYAML))
	require.NoError(t, err)
	_, err = unitdef.BuildRegistry(nil, []*unitdef.UnitDef{u})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "light_cannon")
}

func TestRegistry_RegisterWeapon_Duplicate(t *testing.T) {
	reg := unitdef.NewRegistry()
	require.NoError(t, reg.RegisterWeapon(&unitdef.WeaponDef{Name: "a", Type: "Rifle"}))
	assert.Error(t, reg.RegisterWeapon(&unitdef.WeaponDef{Name: "a", Type: "Rifle"}))
}

func TestRegistry_RegisterUnit_Duplicate(t *testing.T) {
	reg := unitdef.NewRegistry()
	require.NoError(t, reg.RegisterUnit(&unitdef.UnitDef{Name: "u"}))
	assert.Error(t, reg.RegisterUnit(&unitdef.UnitDef{Name: "u"}))
}

func TestLoadWeaponDefs_InvalidDir(t *testing.T) {
	_, err := unitdef.LoadWeaponDefs("/nonexistent/weapons")
	assert.Error(t, err)
}

func TestRegistry_Checksum_ChangesWithContent(t *testing.T) {
	a, err := unitdef.BuildRegistry([]*unitdef.WeaponDef{{Name: "a", Type: "Rifle", Range: 100}}, nil)
	require.NoError(t, err)
	b, err := unitdef.BuildRegistry([]*unitdef.WeaponDef{{Name: "a", Type: "Rifle", Range: 101}}, nil)
	require.NoError(t, err)

	sumA, err := a.Checksum()
	require.NoError(t, err)
	sumB, err := b.Checksum()
	require.NoError(t, err)
	assert.Len(t, sumA, 64)
	assert.NotEqual(t, sumA, sumB)
}

func TestProperty_Registry_ChecksumIgnoresRegistrationOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "n")
		names := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,8}`), n, n, rapid.ID[string]).Draw(rt, "names")
		perm := rapid.Permutation(names).Draw(rt, "perm")

		build := func(order []string) string {
			reg := unitdef.NewRegistry()
			for _, name := range order {
				if err := reg.RegisterWeapon(&unitdef.WeaponDef{Name: name, Type: "Cannon", SalvoSize: 1}); err != nil {
					rt.Fatalf("register %q: %v", name, err)
				}
			}
			sum, err := reg.Checksum()
			if err != nil {
				rt.Fatalf("checksum: %v", err)
			}
			return sum
		}
		if build(names) != build(perm) {
			rt.Fatal("checksum must not depend on registration order")
		}
	})
}

func TestVec3_Normalize(t *testing.T) {
	v := unitdef.Vec3{X: 3, Y: 4}.Normalize()
	assert.InDelta(t, 1.0, v.Length(), 1e-9)
	assert.InDelta(t, 0.6, v.X, 1e-9)
	assert.Equal(t, unitdef.Vec3{}, unitdef.Vec3{}.Normalize())
}
