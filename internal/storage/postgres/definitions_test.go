package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/armory/internal/game/unitdef"
	"github.com/cory-johannsen/armory/internal/storage/postgres"
	"github.com/cory-johannsen/armory/internal/testutil"
)

const cannonYAML = `name: heavy_cannon
type: Cannon
reload: 2.5
range: 600
accuracy: 0.05
collision_flags: [noFriendlies, noFeatures]
fire_sound:
  - name: cannon_fire
    id: 7
    volume: 0.8
`

const tankYAML = `name: tank
weapons:
  - weapon: heavy_cannon
    max_angle_dif: 90
    main_dir: {x: 0, y: 0, z: 1}
  - weapon: heavy_cannon
    slaved_to: 1
    fuel_usage: 2
`

func seedRegistry(t *testing.T) *unitdef.Registry {
	t.Helper()
	w, err := unitdef.LoadWeaponDefFromBytes([]byte(cannonYAML))
	require.NoError(t, err)
	u, err := unitdef.LoadUnitDefFromBytes([]byte(tankYAML))
	require.NoError(t, err)
	reg, err := unitdef.BuildRegistry([]*unitdef.WeaponDef{w}, []*unitdef.UnitDef{u})
	require.NoError(t, err)
	return reg
}

func TestDefinitionRepository_RoundTrip(t *testing.T) {
	repo := postgres.NewDefinitionRepository(testutil.NewPool(t))
	ctx := context.Background()
	src := seedRegistry(t)

	for _, w := range src.AllWeapons() {
		require.NoError(t, repo.SaveWeaponDef(ctx, w))
	}
	for _, u := range src.AllUnits() {
		require.NoError(t, repo.SaveUnitDef(ctx, u))
	}

	got, err := repo.LoadRegistry(ctx)
	require.NoError(t, err)

	tank, ok := got.Unit("tank")
	require.True(t, ok)
	require.Len(t, tank.Weapons, 2)
	assert.Same(t, got.Weapon("heavy_cannon"), tank.Weapons[0].Def)
	assert.Equal(t, 1, tank.Weapons[1].SlavedTo)
	assert.Equal(t, 2.0, tank.Weapons[1].FuelUsage)
	assert.InDelta(t, src.AllUnits()[0].Weapons[0].MaxMainDirAngleDif, tank.Weapons[0].MaxMainDirAngleDif, 1e-12)

	want, err := src.Checksum()
	require.NoError(t, err)
	have, err := got.Checksum()
	require.NoError(t, err)
	assert.Equal(t, want, have, "stored definitions decode to the same content")
}

func TestDefinitionRepository_SaveReplaces(t *testing.T) {
	repo := postgres.NewDefinitionRepository(testutil.NewPool(t))
	ctx := context.Background()

	w, err := unitdef.LoadWeaponDefFromBytes([]byte(cannonYAML))
	require.NoError(t, err)
	require.NoError(t, repo.SaveWeaponDef(ctx, w))

	w.Range = 900
	require.NoError(t, repo.SaveWeaponDef(ctx, w))

	got, err := repo.WeaponDef(ctx, "heavy_cannon")
	require.NoError(t, err)
	assert.Equal(t, 900.0, got.Range)

	_, err = repo.WeaponDef(ctx, "missing")
	assert.ErrorIs(t, err, postgres.ErrDefinitionNotFound)
}

func TestDefinitionRepository_LoadRegistry_DanglingSlot(t *testing.T) {
	repo := postgres.NewDefinitionRepository(testutil.NewPool(t))
	ctx := context.Background()

	u, err := unitdef.LoadUnitDefFromBytes([]byte(tankYAML))
	require.NoError(t, err)
	require.NoError(t, repo.SaveUnitDef(ctx, u))

	_, err = repo.LoadRegistry(ctx)
	assert.ErrorContains(t, err, "heavy_cannon")
}

func TestDefinitionRepository_SaveRejectsUnnamed(t *testing.T) {
	repo := postgres.NewDefinitionRepository(nil)
	ctx := context.Background()
	assert.Error(t, repo.SaveWeaponDef(ctx, &unitdef.WeaponDef{}))
	assert.Error(t, repo.SaveUnitDef(ctx, nil))
}

// Property: any valid weapon def survives a save and load unchanged.
func TestPropertyWeaponDefRoundTrip(t *testing.T) {
	repo := postgres.NewDefinitionRepository(testutil.NewPool(t))
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[a-z]{3,12}`).Draw(rt, "name")
		typ := rapid.SampledFrom(unitdef.TypeIdentifiers()).Draw(rt, "type")
		reload := rapid.Float64Range(0, 30).Draw(rt, "reload")
		salvo := rapid.IntRange(1, 8).Draw(rt, "salvo")

		w, err := unitdef.LoadWeaponDefFromBytes([]byte("name: " + name + "\ntype: " + typ + "\n"))
		if err != nil {
			rt.Fatalf("building def: %v", err)
		}
		w.Reload = reload
		w.SalvoSize = salvo
		if err := repo.SaveWeaponDef(ctx, w); err != nil {
			rt.Fatalf("save: %v", err)
		}
		got, err := repo.WeaponDef(ctx, name)
		if err != nil {
			rt.Fatalf("load: %v", err)
		}
		if got.Type != typ || got.Reload != reload || got.SalvoSize != salvo {
			rt.Fatalf("round trip mismatch: got %+v", got)
		}
	})
}
