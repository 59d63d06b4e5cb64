package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/milk9111/nybble/levels"
	"github.com/milk9111/nybble/prefabs"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List embedded levels and prefabs",
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	fmt.Println("Levels:")
	for _, name := range levels.Names() {
		fmt.Printf("  %s\n", name)
	}

	fmt.Println()
	fmt.Println("Prefabs:")
	for _, name := range prefabs.Names() {
		fmt.Printf("  %s\n", strings.TrimSuffix(name, ".yaml"))
	}

	fmt.Println()
	fmt.Println("Run 'nybble play <level>' to play a level.")
}
