package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/streamsed/streamsed"
	"github.com/streamsed/streamsed/pkg/ruleset"
	"github.com/streamsed/streamsed/pkg/serve"
)

var (
	serveSetName string
	serveSetFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a long-lived NDJSON replace server",
	Long: `Run streamsed as a long-lived process that accepts replace requests via
stdin and emits results via stdout using NDJSON. The needle set is loaded
once at startup; the process runs until stdin closes or SIGTERM/SIGINT
is received.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveSetName, "set", "", "name of a builtin needle set")
	serveCmd.Flags().StringVar(&serveSetFile, "file", "", "path to a custom needle set YAML file")
}

func runServe(cmd *cobra.Command, args []string) error {
	if (serveSetName == "") == (serveSetFile == "") {
		return fmt.Errorf("exactly one of --set or --file must be given")
	}

	loader := ruleset.NewLoader()
	var needleSetID string
	var needles []streamsed.Needle

	if serveSetName != "" {
		set, err := loader.LoadBuiltinSet(serveSetName)
		if err != nil {
			return fmt.Errorf("loading builtin set %q: %w", serveSetName, err)
		}
		needleSetID, needles = set.StructuralID(), set.Needles
	} else {
		set, err := loader.LoadSetFile(serveSetFile)
		if err != nil {
			return fmt.Errorf("loading needle set file %q: %w", serveSetFile, err)
		}
		needleSetID, needles = set.StructuralID(), set.Needles
	}

	a, err := streamsed.Build(needles)
	if err != nil {
		return fmt.Errorf("building automaton: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		cancel()
	}()

	srv := serve.New(a, needleSetID, version)
	return srv.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}
