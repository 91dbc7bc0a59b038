// Package main provides the charsheet binary: it builds a rule-system
// backend, applies the requested edits, and prints every character sheet.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/config"
	"github.com/cory-johannsen/charsheet/internal/game/dsa"
	"github.com/cory-johannsen/charsheet/internal/game/system"
	"github.com/cory-johannsen/charsheet/internal/observability"
	"github.com/cory-johannsen/charsheet/internal/scripting"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = defaults and environment")
	players := flag.String("players", "Alrik", "comma-separated player names")
	var mods, sets, checks assignments
	flag.Var(&mods, "modifier", "SOURCE=ID selection for the first player (repeatable)")
	flag.Var(&sets, "set", "CODE=VALUE edit for the first player (repeatable)")
	flag.Var(&checks, "check", "ABILITY=MOD skill check for the first player (repeatable)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	registry := system.NewRegistry()
	dsa.Register(registry)

	deps := system.Deps{
		Logger:     observability.ForSystem(logger, cfg.Rules.System),
		Calendar:   cfg.Calendar.Calendar(),
		ContentDir: cfg.Rules.ContentDir,
	}
	if dir := cfg.Scripting.HouseRulesDir; dir != "" {
		mgr := scripting.NewManager(logger)
		defer mgr.Close()
		if err := mgr.LoadSystem(cfg.Rules.System, dir, cfg.Scripting.InstructionLimit); err != nil {
			logger.Fatal("loading house rules", zap.Error(err))
		}
		deps.Decorate = mgr.Calculator(cfg.Rules.System)
	}

	backend, err := registry.New(cfg.Rules.System, deps)
	if err != nil {
		logger.Fatal("building rule system",
			zap.String("system", cfg.Rules.System),
			zap.Strings("available", registry.IDs()),
			zap.Error(err),
		)
	}

	for _, name := range strings.Split(*players, ",") {
		if name = strings.TrimSpace(name); name != "" {
			backend.AddPlayer(name)
		}
	}
	if backend.PlayerCount() == 0 {
		logger.Fatal("no players given")
	}

	sheet := backend.CharacterSheet()
	first := backend.Player(0)
	if err := applyModifiers(sheet, first, mods); err != nil {
		logger.Fatal("selecting modifier", zap.Error(err))
	}
	if err := applyEdits(sheet, first, sets, logger); err != nil {
		logger.Fatal("applying edit", zap.Error(err))
	}

	fmt.Fprintln(os.Stdout, renderHeader(backend))
	for i := 0; i < backend.PlayerCount(); i++ {
		fmt.Fprintln(os.Stdout, renderPlayer(sheet, backend.Player(i)))
	}

	if len(checks) > 0 {
		checker, ok := backend.(checker)
		if !ok {
			logger.Fatal("rule system has no skill checks", zap.String("system", backend.ID()))
		}
		results, err := runChecks(checker, first, checks)
		if err != nil {
			logger.Fatal("rolling check", zap.Error(err))
		}
		fmt.Fprintln(os.Stdout, renderChecks(results))
	}

	logger.Info("sheets rendered",
		zap.Int("players", backend.PlayerCount()),
		zap.Duration("elapsed", time.Since(start)),
	)
}
