// Package main copies weapon and unit definition YAML into PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cory-johannsen/armory/internal/config"
	"github.com/cory-johannsen/armory/internal/game/unitdef"
	"github.com/cory-johannsen/armory/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	weaponsDir := flag.String("weapons", "", "weapon YAML directory (default content.weapons_dir)")
	unitsDir := flag.String("units", "", "unit YAML directory (default content.units_dir)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := config.ValidateDatabase(cfg.Database); err != nil {
		log.Fatalf("validating database config: %v", err)
	}
	if *weaponsDir == "" {
		*weaponsDir = cfg.Content.WeaponsDir
	}
	if *unitsDir == "" {
		*unitsDir = cfg.Content.UnitsDir
	}

	start := time.Now()
	// Linking first rejects units that name weapons missing from the import.
	reg, err := unitdef.LoadRegistry(*weaponsDir, *unitsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := postgres.NewDefinitionRepository(pool.DB())
	for _, w := range reg.AllWeapons() {
		if err := repo.SaveWeaponDef(ctx, w); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	for _, u := range reg.AllUnits() {
		if err := repo.SaveUnitDef(ctx, u); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	sum, _ := reg.Checksum()
	fmt.Printf("imported %d weapons, %d units (checksum %s) in %s\n",
		len(reg.AllWeapons()), len(reg.AllUnits()), sum, time.Since(start).Round(time.Millisecond))
}
