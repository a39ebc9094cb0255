//go:build wasm

package main

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"syscall/js"

	"github.com/streamsed/streamsed"
	"github.com/streamsed/streamsed/pkg/report"
	"github.com/streamsed/streamsed/pkg/ruleset"
	"github.com/streamsed/streamsed/pkg/types"
)

// toRunStats adapts the root package's public Stats summary into the
// internal RunStats shape the report package knows how to render.
func toRunStats(needleSetID string, stats streamsed.Stats) *types.RunStats {
	rs := types.NewRunStats(needleSetID)
	rs.InputBytes = stats.InputBytes
	rs.OutputBytes = stats.OutputBytes
	rs.ElideCount = stats.ElideCount
	for idx, count := range stats.NeedleHits {
		rs.NeedleHits[idx] = count
	}
	return rs
}

type session struct {
	automaton   *streamsed.Automaton
	needleSetID string
}

var (
	sessions   = make(map[int]*session)
	sessionsMu sync.RWMutex
	nextID     int
)

// newSession builds an automaton from a needle-set YAML document.
// JS: StreamsedNewSession(yaml) -> {handle} or {error}
func newSession(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "needle set YAML argument required"}
	}

	loader := ruleset.NewLoader()
	set, err := loader.LoadSet([]byte(args[0].String()))
	if err != nil {
		return map[string]interface{}{"error": "failed to load needle set: " + err.Error()}
	}

	a, err := streamsed.Build(set.Needles)
	if err != nil {
		return map[string]interface{}{"error": "failed to build automaton: " + err.Error()}
	}

	sessionsMu.Lock()
	id := nextID
	nextID++
	sessions[id] = &session{automaton: a, needleSetID: set.StructuralID()}
	sessionsMu.Unlock()

	return map[string]interface{}{"handle": id}
}

// replace runs one string through the session's automaton.
// JS: StreamsedReplace(handle, content) -> {output, report} or {error}
func replace(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and content arguments required"}
	}

	handle := args[0].Int()
	content := args[1].String()

	sessionsMu.RLock()
	s, ok := sessions[handle]
	sessionsMu.RUnlock()
	if !ok {
		return map[string]interface{}{"error": "invalid session handle"}
	}

	var out strings.Builder
	stats, err := s.automaton.ReplaceAll(context.Background(), strings.NewReader(content), &out, 4096)
	if err != nil {
		return map[string]interface{}{"error": "replace failed: " + err.Error()}
	}

	rs := report.FromStats(toRunStats(s.needleSetID, stats))
	reportJSON, err := json.Marshal(rs)
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal report: " + err.Error()}
	}

	return map[string]interface{}{
		"output": out.String(),
		"report": string(reportJSON),
	}
}

// closeSession releases a session's handle.
// JS: StreamsedCloseSession(handle)
func closeSession(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "handle argument required"}
	}

	handle := args[0].Int()
	sessionsMu.Lock()
	_, ok := sessions[handle]
	delete(sessions, handle)
	sessionsMu.Unlock()

	if !ok {
		return map[string]interface{}{"error": "invalid session handle"}
	}
	return nil
}

// getBuiltinSets returns the embedded needle sets as JSON.
// JS: StreamsedGetBuiltinSets() -> JSON array or {error}
func getBuiltinSets(this js.Value, args []js.Value) interface{} {
	loader := ruleset.NewLoader()
	sets, err := loader.LoadBuiltinSets()
	if err != nil {
		return map[string]interface{}{"error": "failed to load builtin sets: " + err.Error()}
	}

	jsonBytes, err := json.Marshal(sets)
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal sets: " + err.Error()}
	}
	return string(jsonBytes)
}
