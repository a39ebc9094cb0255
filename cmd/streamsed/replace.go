package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/streamsed/streamsed"
	"github.com/streamsed/streamsed/pkg/ruleset"
)

var (
	replaceSetName  string
	replaceSetFile  string
	replaceInPath   string
	replaceOutPath  string
	replaceBufSize  int
	replaceColor    string
	replaceSummary  bool
)

var replaceCmd = &cobra.Command{
	Use:   "replace",
	Short: "Apply a needle set's replacements to a byte stream",
	Long: `replace reads a stream, applies every pattern replacement in a needle
set in a single pass, and writes the transformed stream.

Exactly one of --set or --file selects which needle set to apply.`,
	RunE: runReplace,
}

func init() {
	replaceCmd.Flags().StringVar(&replaceSetName, "set", "", "name of a builtin needle set")
	replaceCmd.Flags().StringVar(&replaceSetFile, "file", "", "path to a custom needle set YAML file")
	replaceCmd.Flags().StringVarP(&replaceInPath, "input", "i", "", "input file (default stdin)")
	replaceCmd.Flags().StringVarP(&replaceOutPath, "output", "o", "", "output file (default stdout)")
	replaceCmd.Flags().IntVar(&replaceBufSize, "buffer-size", 4096, "chunk size in bytes for the copy loop")
	replaceCmd.Flags().StringVar(&replaceColor, "color", "auto", "summary color output: auto, always, never")
	replaceCmd.Flags().BoolVar(&replaceSummary, "summary", true, "print a run summary to stderr")
}

func runReplace(cmd *cobra.Command, args []string) error {
	if (replaceSetName == "") == (replaceSetFile == "") {
		return fmt.Errorf("exactly one of --set or --file must be given")
	}

	loader := ruleset.NewLoader()
	var set struct {
		Name    string
		Needles []streamsed.Needle
	}
	if replaceSetName != "" {
		s, err := loader.LoadBuiltinSet(replaceSetName)
		if err != nil {
			return fmt.Errorf("loading builtin set %q: %w", replaceSetName, err)
		}
		set.Name, set.Needles = s.Name, s.Needles
	} else {
		s, err := loader.LoadSetFile(replaceSetFile)
		if err != nil {
			return fmt.Errorf("loading needle set file %q: %w", replaceSetFile, err)
		}
		set.Name, set.Needles = s.Name, s.Needles
	}

	a, err := streamsed.Build(set.Needles)
	if err != nil {
		return fmt.Errorf("building automaton: %w", err)
	}

	in := cmd.InOrStdin()
	if replaceInPath != "" {
		f, err := os.Open(replaceInPath)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	out := cmd.OutOrStdout()
	if replaceOutPath != "" {
		f, err := os.Create(replaceOutPath)
		if err != nil {
			return fmt.Errorf("opening output: %w", err)
		}
		defer f.Close()
		out = f
	}

	stats, err := a.ReplaceAll(context.Background(), in, out, replaceBufSize)
	if err != nil {
		return fmt.Errorf("replace failed: %w", err)
	}

	if replaceSummary {
		printSummary(cmd, set.Name, stats)
	}
	return nil
}

func printSummary(cmd *cobra.Command, setName string, stats streamsed.Stats) {
	switch replaceColor {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		if !term.IsTerminal(int(os.Stderr.Fd())) || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		} else {
			color.NoColor = false
		}
	}

	heading := color.New(color.Bold)
	metric := color.New(color.FgHiGreen)

	var totalHits int64
	for _, n := range stats.NeedleHits {
		totalHits += n
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", heading.Sprint("needle set:"), setName)
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s -> %s bytes\n",
		heading.Sprint("bytes:"),
		metric.Sprintf("%d", stats.InputBytes),
		metric.Sprintf("%d", stats.OutputBytes))
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s, %s %s\n",
		heading.Sprint("replacements:"), metric.Sprintf("%d", totalHits),
		heading.Sprint("elisions:"), metric.Sprintf("%d", stats.ElideCount))
}
