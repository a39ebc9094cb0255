package main

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "streamsed",
	Short: "Streaming multi-pattern search-and-replace over byte streams",
	Long: `streamsed applies a set of pattern replacements to a byte stream in a
single pass using an Aho-Corasick automaton, so it never rescans the
input or its own output regardless of how the input is chunked.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet mode (errors only)")

	rootCmd.AddCommand(replaceCmd)
	rootCmd.AddCommand(rulesetsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
