// Package cli wires the reelforge command-line surface: a single "render"
// subcommand driving the orchestrator against the local-filesystem
// reference MediaStore.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reelforge",
	Short: "Render a composition to a video or audio file",
	Long: `reelforge renders a JSON composition file to a finished container —
mp4/mov/webm/mkv video or mp3/aac/wav audio — frame-accurately and
deterministically, the same output every time for the same inputs.`,
}

// Execute runs the root command, exiting the process with status 1 on
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "reelforge: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
