package weapon

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/armory/internal/game/collision"
	"github.com/cory-johannsen/armory/internal/game/unitdef"
)

// DefaultTicksPerSecond is the simulation rate used when none is configured.
const DefaultTicksPerSecond = 30

// SetupHook runs after a weapon's variant setup, still inside Init.
type SetupHook func(w *Weapon)

// Option configures a Loader.
type Option func(*Loader)

// WithSetupHook installs a hook that runs once per weapon during Init.
func WithSetupHook(h SetupHook) Option {
	return func(l *Loader) { l.hook = h }
}

// Loader constructs and initializes weapons. It holds only immutable
// configuration and may be shared between goroutines loading different units.
type Loader struct {
	ticksPerSecond int
	logger         *zap.Logger
	hook           SetupHook
}

// NewLoader creates a Loader converting seconds to frames at ticksPerSecond.
//
// Precondition: logger must be non-nil.
// Postcondition: ticksPerSecond <= 0 is replaced with DefaultTicksPerSecond.
func NewLoader(ticksPerSecond int, logger *zap.Logger, opts ...Option) *Loader {
	if ticksPerSecond <= 0 {
		ticksPerSecond = DefaultTicksPerSecond
	}
	l := &Loader{ticksPerSecond: ticksPerSecond, logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TicksPerSecond returns the simulation rate used for conversions.
func (l *Loader) TicksPerSecond() int { return l.ticksPerSecond }

// LoadWeapons builds one weapon per slot of owner's unit definition, in slot
// order, appending each to owner as soon as it is initialized.
//
// Precondition: every slot has a non-nil Def.
// Postcondition: on nil error len(owner.Weapons()) grew by len(slots); on
// error the owner holds the weapons appended before the failing slot and must
// be discarded.
func (l *Loader) LoadWeapons(owner Owner, slots []unitdef.WeaponSlot) error {
	for i := range slots {
		slot := &slots[i]
		w, err := l.Init(owner, l.Load(owner, slot), slot)
		if err != nil {
			return err
		}
		owner.AppendWeapon(w)
	}
	return nil
}

// Load constructs the unattached weapon variant named by slot's definition.
// Unrecognized type identifiers yield an inert NoWeapon and one error log.
//
// Precondition: slot.Def must be non-nil.
// Postcondition: Returns a weapon in StateConstructed.
func (l *Loader) Load(owner Owner, slot *unitdef.WeaponSlot) *Weapon {
	def := slot.Def
	var b Behavior
	if kind, ok := def.Kind(); ok {
		b = constructors[kind](owner, def)
	} else {
		b = newNoWeapon()
		l.logger.Error("weapon type unknown or NOWEAPON",
			zap.String("type", def.Type),
			zap.String("weapon", def.Name),
			zap.String("unit", owner.DefName()),
		)
	}
	return &Weapon{
		owner:    owner,
		state:    StateConstructed,
		Def:      def,
		Behavior: b,
		slavedTo: noSlave,
	}
}

// Init populates every runtime field of w from its definition and slot, then
// runs the variant setup and the configured setup hook.
//
// Precondition: w was returned by Load for the same owner and slot and has
// not been appended yet.
// Postcondition: on nil error w is in StateInitialized and w.Num equals
// len(owner.Weapons()); returns a *ContentError for a bad slave reference and
// ErrAlreadyInitialized if w was initialized before.
func (l *Loader) Init(owner Owner, w *Weapon, slot *unitdef.WeaponSlot) (*Weapon, error) {
	if w.state != StateConstructed {
		return nil, fmt.Errorf("weapon %d of %s: %w", w.Num, owner.DefName(), ErrAlreadyInitialized)
	}
	def := slot.Def
	siblings := owner.Weapons()

	w.ReloadFrames = max(1, l.frames(def.Reload))
	w.StockpileFrames = l.frames(def.StockpileTime)
	w.SalvoDelayFrames = l.frames(def.SalvoDelay)

	w.Range = def.Range
	w.HeightMod = def.HeightMod
	w.ProjectileSpeed = def.ProjectileSpeed
	w.DamageAreaOfEffect = def.DamageAreaOfEffect
	w.CraterAreaOfEffect = def.CraterAreaOfEffect
	w.Accuracy = def.Accuracy
	w.SprayAngle = def.SprayAngle

	w.SalvoSize = def.SalvoSize
	w.ProjectilesPerShot = def.ProjectilesPerShot

	w.MetalFireCost = def.MetalCost
	w.EnergyFireCost = def.EnergyCost

	if len(def.FireSound) > 0 {
		w.FireSoundID = def.FireSound[0].ID
		w.FireSoundVolume = def.FireSound[0].Volume
	}

	w.OnlyForward = def.OnlyForward
	w.MaxForwardAngleDif = math.Cos(def.MaxAngle * math.Pi / 180)
	w.MaxMainDirAngleDif = slot.MaxMainDirAngleDif
	w.MainDir = slot.MainDir

	w.BadTargetCategory = slot.BadTargetCategory
	w.OnlyTargetCategory = slot.OnlyTargetCategory

	if slot.SlavedTo != 0 {
		idx := slot.SlavedTo - 1
		// only an already-loaded weapon can be followed
		if idx < 0 || idx >= len(siblings) {
			return nil, &ContentError{Unit: owner.DefName(), Slot: len(siblings) + 1, SlavedTo: slot.SlavedTo}
		}
		w.slavedTo = idx
	}

	w.FuelUsage = slot.FuelUsage
	w.TargetBorder = def.TargetBorder
	w.CylinderTargeting = def.CylinderTargeting
	w.MinIntensity = def.MinIntensity
	w.HeightBoostFactor = def.HeightBoostFactor
	w.CollisionFlags = def.CollisionFlags
	w.AvoidFlags = AvoidFlags(def)

	w.Num = len(siblings)
	w.Behavior.Setup(w)
	if l.hook != nil {
		l.hook(w)
	}
	w.state = StateInitialized

	l.logger.Debug("weapon initialized",
		zap.String("unit", owner.DefName()),
		zap.Int("num", w.Num),
		zap.String("weapon", def.Name),
		zap.String("behavior", w.Behavior.Name()),
		zap.Int("reload_frames", w.ReloadFrames),
	)
	return w, nil
}

// AvoidFlags returns the collision bits a weapon built from def sets to stop
// avoiding a category. A weapon avoids every category by default.
func AvoidFlags(def *unitdef.WeaponDef) collision.Flags {
	var f collision.Flags
	if !def.AvoidNeutral {
		f |= collision.NoNeutrals
	}
	if !def.AvoidFriendly {
		f |= collision.NoFriendlies
	}
	if !def.AvoidFeature {
		f |= collision.NoFeatures
	}
	if !def.AvoidGround {
		f |= collision.NoGround
	}
	return f
}

// frames converts a duration in seconds to simulation frames.
func (l *Loader) frames(seconds float64) int {
	return int(math.Round(seconds * float64(l.ticksPerSecond)))
}
