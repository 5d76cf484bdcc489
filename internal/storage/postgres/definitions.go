package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/armory/internal/game/unitdef"
)

// ErrDefinitionNotFound is returned when a definition lookup yields no rows.
var ErrDefinitionNotFound = errors.New("definition not found")

// DefinitionRepository stores weapon and unit definitions as YAML documents
// keyed by name. The YAML body is the same format the content directories use,
// so rows are decoded through the unitdef loaders.
type DefinitionRepository struct {
	db *pgxpool.Pool
}

// NewDefinitionRepository creates a DefinitionRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewDefinitionRepository(db *pgxpool.Pool) *DefinitionRepository {
	return &DefinitionRepository{db: db}
}

// SaveWeaponDef inserts or replaces the weapon definition named d.Name.
func (r *DefinitionRepository) SaveWeaponDef(ctx context.Context, d *unitdef.WeaponDef) error {
	if d == nil || d.Name == "" {
		return errors.New("weapon def must have a name")
	}
	body, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding weapon def %q: %w", d.Name, err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO weapon_defs (name, weapon_type, body)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE
		 SET weapon_type = EXCLUDED.weapon_type, body = EXCLUDED.body, updated_at = NOW()`,
		d.Name, d.Type, string(body),
	)
	if err != nil {
		return fmt.Errorf("saving weapon def %q: %w", d.Name, err)
	}
	return nil
}

// SaveUnitDef inserts or replaces the unit definition named u.Name.
func (r *DefinitionRepository) SaveUnitDef(ctx context.Context, u *unitdef.UnitDef) error {
	if u == nil || u.Name == "" {
		return errors.New("unit def must have a name")
	}
	body, err := yaml.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding unit def %q: %w", u.Name, err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO unit_defs (name, body)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE
		 SET body = EXCLUDED.body, updated_at = NOW()`,
		u.Name, string(body),
	)
	if err != nil {
		return fmt.Errorf("saving unit def %q: %w", u.Name, err)
	}
	return nil
}

// WeaponDef loads a single weapon definition by name.
//
// Postcondition: Returns ErrDefinitionNotFound if no row matches.
func (r *DefinitionRepository) WeaponDef(ctx context.Context, name string) (*unitdef.WeaponDef, error) {
	var body string
	err := r.db.QueryRow(ctx, `SELECT body FROM weapon_defs WHERE name = $1`, name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDefinitionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying weapon def %q: %w", name, err)
	}
	return unitdef.LoadWeaponDefFromBytes([]byte(body))
}

// LoadRegistry reads every stored definition and returns a linked registry.
func (r *DefinitionRepository) LoadRegistry(ctx context.Context) (*unitdef.Registry, error) {
	weapons, err := collect(ctx, r.db, `SELECT body FROM weapon_defs ORDER BY name`, unitdef.LoadWeaponDefFromBytes)
	if err != nil {
		return nil, fmt.Errorf("loading weapon defs: %w", err)
	}
	units, err := collect(ctx, r.db, `SELECT body FROM unit_defs ORDER BY name`, unitdef.LoadUnitDefFromBytes)
	if err != nil {
		return nil, fmt.Errorf("loading unit defs: %w", err)
	}
	return unitdef.BuildRegistry(weapons, units)
}

func collect[T any](ctx context.Context, db *pgxpool.Pool, query string, decode func([]byte) (T, error)) ([]T, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	bodies, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(bodies))
	for _, b := range bodies {
		v, err := decode([]byte(b))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
