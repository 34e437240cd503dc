package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/videoforge/compare-video/pkg/comparevideo"
)

var rootCmd = &cobra.Command{
	Use:   "compare-video <config-file>",
	Short: "Composite videos with identical properties side by side for comparison",
	Long: fmt.Sprintf(`compare-video verifies that a set of videos share frame size, frame rate
and duration, then composites them into a single side-by-side video with a
caption band beneath each clip.

Supported output formats:
%s
Example:
  # Compare the clips described in comparison.yaml
  compare-video comparison.yaml

Example configuration:
  videos:
    - path: baseline.mp4
      description: baseline model
    - path: candidate.mp4
      description: candidate model
  output_video: comparison.mp4
  text_area_height: 100
  font_size: 30`,
		formatSupportedFormats()),
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")

		return comparevideo.Run(comparevideo.Options{
			ConfigPath: args[0],
			Verbose:    verbose,
		})
	},
}

func formatSupportedFormats() string {
	var sb strings.Builder
	for _, format := range comparevideo.SupportedOutputFormats() {
		sb.WriteString(fmt.Sprintf("- %s\n", format))
	}
	return sb.String()
}

func init() {
	rootCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
