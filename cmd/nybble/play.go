package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/milk9111/nybble/ecs/render"
	"github.com/milk9111/nybble/engine"
	"github.com/milk9111/nybble/levels"
	"github.com/milk9111/nybble/storage"
)

var (
	flagWatch   bool
	flagProfile string
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Opens a window and runs the given level, or the config's start level.
Every embedded level is loaded so scripts can switch between them.

Keys:
  P    pause
  F12  toggle debug drawing
  F11  toggle the FPS readout`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload scripts when files under prefabs/ change")
	playCmd.Flags().StringVar(&flagProfile, "profile", "", "Write a profile to the current directory (cpu, mem)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	start := cfg.StartLevel
	if len(args) == 1 {
		start = args[0]
	}

	switch flagProfile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile %q (want cpu or mem)", flagProfile)
	}

	e := engine.New(cfg, render.GPUImages{})
	e.SetLogger(log.Default())
	defer func() {
		if err := e.Close(); err != nil {
			log.Warn("shutdown", "err", err)
		}
	}()

	if store, err := storage.Open(cfg.ScoresDB); err != nil {
		log.Warn("scores disabled", "db", cfg.ScoresDB, "err", err)
	} else {
		e.SetStore(store)
	}

	for _, name := range levels.Names() {
		if _, err := e.LoadLevel(name); err != nil {
			return err
		}
	}
	if err := e.SetWorld(start); err != nil {
		return err
	}

	if flagWatch {
		if err := e.Watch("prefabs", "prefabs/scripts"); err != nil {
			log.Warn("hot reload disabled", "err", err)
		}
	}

	return engine.Run(e)
}
