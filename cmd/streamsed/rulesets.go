package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/streamsed/streamsed/pkg/ruleset"
	"github.com/streamsed/streamsed/pkg/store"
)

var rulesetsDBPath string

var rulesetsCmd = &cobra.Command{
	Use:   "rulesets",
	Short: "Manage persisted needle sets",
	Long:  "Commands for storing, listing, and inspecting needle sets in a run store",
}

var rulesetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored needle sets",
	RunE:  runRulesetsList,
}

var rulesetsAddCmd = &cobra.Command{
	Use:   "add <file.yml>",
	Short: "Load a needle set from YAML and persist it",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesetsAdd,
}

var rulesetsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a stored needle set's needles",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesetsShow,
}

var rulesetsRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a stored needle set",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesetsRm,
}

func init() {
	rulesetsCmd.PersistentFlags().StringVar(&rulesetsDBPath, "db", "streamsed.db", "path to the run store database")

	rulesetsCmd.AddCommand(rulesetsListCmd)
	rulesetsCmd.AddCommand(rulesetsAddCmd)
	rulesetsCmd.AddCommand(rulesetsShowCmd)
	rulesetsCmd.AddCommand(rulesetsRmCmd)
}

func openStore() (store.Store, error) {
	s, err := store.New(store.Config{Path: rulesetsDBPath})
	if err != nil {
		return nil, fmt.Errorf("opening run store %s: %w", rulesetsDBPath, err)
	}
	return s, nil
}

func runRulesetsList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	names, err := s.ListNeedleSets()
	if err != nil {
		return fmt.Errorf("listing needle sets: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "NAME\n")
	for _, name := range names {
		fmt.Fprintf(w, "%s\n", name)
	}
	return nil
}

func runRulesetsAdd(cmd *cobra.Command, args []string) error {
	loader := ruleset.NewLoader()
	set, err := loader.LoadSetFile(args[0])
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.PutNeedleSet(set); err != nil {
		return fmt.Errorf("storing needle set %q: %w", set.Name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "stored needle set %q (%d needles)\n", set.Name, len(set.Needles))
	return nil
}

func runRulesetsShow(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	set, err := s.GetNeedleSet(args[0])
	if err != nil {
		return fmt.Errorf("loading needle set %q: %w", args[0], err)
	}

	shown := make([]map[string]string, 0, len(set.Needles))
	for _, n := range set.Needles {
		shown = append(shown, map[string]string{"pattern": string(n.Pattern), "action": n.Action.String()})
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(struct {
		Name    string              `json:"name"`
		Needles []map[string]string `json:"needles"`
	}{Name: set.Name, Needles: shown})
}

func runRulesetsRm(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteNeedleSet(args[0]); err != nil {
		return fmt.Errorf("deleting needle set %q: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted needle set %q\n", args[0])
	return nil
}
