// Package main is the entry point for the session API server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "session-api",
	Short: "Tabletop session state server",
	Long:  `session-api tracks tabletop game sessions: initiative order, hit points, status effects, the in-game clock, and dice rolls, with Redis-backed persistence.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
