// nybble runs the Nybble engine and its sample levels.
//
// Usage:
//
//	nybble play [level]      - Open a window and play a level
//	nybble list              - List embedded levels and prefabs
//	nybble scores [level]    - Show saved high scores
//
// Global flags:
//
//	--config <path>  - Engine config file (default: ./nybble.yaml, then built-in)
//	--db <path>      - Override the scores database path
//	--debug          - Verbose logging and collider outlines
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/milk9111/nybble/engine"
)

var (
	flagConfig string
	flagDBPath string
	flagDebug  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nybble",
	Short: "Nybble - a small 2D game engine",
	Long: `Nybble runs worlds built from YAML levels, YAML prefabs and tengo scripts.

Examples:
  nybble play
  nybble play platformer --watch
  nybble list
  nybble scores breakout`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetDefault(newLogger())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging and drawing")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scoresCmd)
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "nybble",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadConfig applies the global flags on top of the config file.
func loadConfig() (engine.Config, error) {
	cfg, err := engine.LoadConfig(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.ScoresDB = flagDBPath
	}
	if flagDebug {
		cfg.Debug = true
	}
	return cfg, nil
}
