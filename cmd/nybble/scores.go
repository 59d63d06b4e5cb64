package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/nybble/storage"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show high scores",
	Long: `Shows the top scores for a level, or the best score of every level
that has scores when no level is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagLimit, "limit", "n", 10, "Number of scores to show")
}

func runScores(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := storage.Open(cfg.ScoresDB)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		names, err := store.Levels()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No scores recorded yet.")
			return nil
		}
		fmt.Printf("  %-16s  %s\n", "Level", "Best")
		fmt.Printf("  %-16s  %s\n", "-----", "----")
		for _, name := range names {
			best, err := store.HighScore(name)
			if err != nil {
				return err
			}
			fmt.Printf("  %-16s  %d\n", name, best)
		}
		return nil
	}

	level := args[0]
	scores, err := store.TopScores(level, flagLimit)
	if err != nil {
		return err
	}
	fmt.Printf("High Scores - %s\n\n", level)
	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}
	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, s := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, s.Score, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
