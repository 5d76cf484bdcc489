// Package main loads weapon and unit definitions, spawns one of every unit
// and prints the initialized weapon table of each.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/armory/internal/config"
	"github.com/cory-johannsen/armory/internal/game/unit"
	"github.com/cory-johannsen/armory/internal/game/unitdef"
	"github.com/cory-johannsen/armory/internal/game/weapon"
	"github.com/cory-johannsen/armory/internal/observability"
	"github.com/cory-johannsen/armory/internal/scripting"
	"github.com/cory-johannsen/armory/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	source := flag.String("source", "", "override content.source: yaml or postgres")
	only := flag.String("unit", "", "spawn only the named unit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *source != "" {
		cfg.Content.Source = *source
		if err := cfg.Validate(); err != nil {
			log.Fatalf("validating config: %v", err)
		}
	}

	logger, err := observability.NewLogger(cfg.Logging,
		observability.WithName("armory"),
		observability.WithOutputPaths("stderr"),
	)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	reg, err := loadRegistry(ctx, cfg)
	if err != nil {
		logger.Fatal("loading definitions", zap.String("source", cfg.Content.Source), zap.Error(err))
	}
	sum, err := reg.Checksum()
	if err != nil {
		logger.Fatal("computing checksum", zap.Error(err))
	}
	logger.Info("definitions loaded",
		zap.String("source", cfg.Content.Source),
		zap.Int("weapons", len(reg.AllWeapons())),
		zap.Int("units", len(reg.AllUnits())),
		zap.String("checksum", sum),
	)

	var opts []weapon.Option
	if cfg.Scripting.Dir != "" {
		scriptMgr := scripting.NewManager(logger)
		defer scriptMgr.Close()
		scopes, err := scriptMgr.LoadTree(cfg.Scripting.Dir, cfg.Scripting.InstructionLimit)
		if err != nil {
			logger.Fatal("loading setup scripts", zap.String("dir", cfg.Scripting.Dir), zap.Error(err))
		}
		logger.Info("setup scripts loaded", zap.Strings("scopes", scopes))
		opts = append(opts, weapon.WithSetupHook(weapon.NewScriptSetupHook(scriptMgr)))
	}

	loader := weapon.NewLoader(cfg.Sim.TicksPerSecond, logger, opts...)
	units := unit.NewManager(loader, logger)

	failed := 0
	for _, def := range reg.AllUnits() {
		if *only != "" && def.Name != *only {
			continue
		}
		u, err := units.Spawn(def)
		if err != nil {
			failed++
			continue
		}
		printWeapons(os.Stdout, u)
	}

	logger.Info("armory complete",
		zap.Int("spawned", units.Count()),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)),
	)
	if failed > 0 {
		os.Exit(1)
	}
}

func loadRegistry(ctx context.Context, cfg config.Config) (*unitdef.Registry, error) {
	if cfg.Content.Source != "postgres" {
		return unitdef.LoadRegistry(cfg.Content.WeaponsDir, cfg.Content.UnitsDir)
	}
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	defer pool.Close()
	return postgres.NewDefinitionRepository(pool.DB()).LoadRegistry(ctx)
}

func printWeapons(w io.Writer, u *unit.Unit) {
	fmt.Fprintf(w, "%s (%s)\n", u.Def.Name, u.ID)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  #\tweapon\tbehavior\treload\trange\tsalvo\tslaved\tavoid\tpassive")
	for _, wpn := range u.Weapons() {
		slaved := "-"
		if idx, ok := wpn.SlavedToIndex(); ok {
			slaved = fmt.Sprint(idx)
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%d\t%.0f\t%d\t%s\t%s\t%v\n",
			wpn.Num, wpn.Def.Name, wpn.Behavior.Name(), wpn.ReloadFrames, wpn.Range,
			wpn.SalvoSize, slaved, wpn.AvoidFlags, wpn.Passive)
	}
	tw.Flush()
	fmt.Fprintln(w)
}
