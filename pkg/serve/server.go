// Package serve runs streamsed as a long-lived NDJSON process: one
// JSON request per line in, one JSON response per line out. It lets a
// caller reuse a single built automaton across many short-lived
// transform requests without paying construction cost per request,
// the same shape as a language server or an editor plugin host.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/streamsed/streamsed"
	"github.com/streamsed/streamsed/pkg/report"
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

// Server reads Requests from an input stream and writes Responses to
// an output stream, applying every "replace" request to the same
// automaton.
type Server struct {
	automaton   *streamsed.Automaton
	needleSetID string
	version     string
}

// New returns a Server bound to an already-built automaton. needleSetID
// is attached to every report produced by this server (it does not need
// to be a real stored needle set's name, it is just a label).
func New(a *streamsed.Automaton, needleSetID, version string) *Server {
	return &Server{automaton: a, needleSetID: needleSetID, version: version}
}

// Run decodes one Request per line from r and encodes one Response per
// line to w, until r is exhausted, ctx is cancelled, decoding fails, or
// a "close" request is received. A per-request failure otherwise yields
// an error Response on that line; it does not stop the server.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	requests := make(chan Request)
	decodeErrs := make(chan error, 1)

	go func() {
		defer close(requests)
		dec := json.NewDecoder(bufio.NewReader(r))
		for {
			var req Request
			if err := dec.Decode(&req); err != nil {
				if err != io.EOF {
					decodeErrs <- err
				}
				return
			}
			select {
			case requests <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	enc := json.NewEncoder(w)
	if err := s.writeReady(enc); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-decodeErrs:
			if ok {
				return fmt.Errorf("streamsed: decoding request: %w", err)
			}
		case req, ok := <-requests:
			if !ok {
				return nil
			}
			done, err := s.handle(ctx, req, enc)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

func (s *Server) writeReady(enc *json.Encoder) error {
	data, err := json.Marshal(ReadyData{Version: s.version})
	if err != nil {
		return err
	}
	return enc.Encode(Response{Success: true, Type: "ready", Data: data})
}

// handle processes one request and reports whether Run should stop
// after it. A "close" request is the only thing that ends the loop.
func (s *Server) handle(ctx context.Context, req Request, enc *json.Encoder) (done bool, err error) {
	switch req.Type {
	case "replace":
		return false, s.handleReplace(ctx, req, enc)
	case "close":
		return true, enc.Encode(Response{Success: true, Type: "close"})
	default:
		return false, enc.Encode(Response{Success: false, Type: "error", Error: fmt.Sprintf("unknown request type %q", req.Type)})
	}
}

func (s *Server) handleReplace(ctx context.Context, req Request, enc *json.Encoder) error {
	var payload ReplacePayload
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return enc.Encode(Response{Success: false, Type: "error", Error: fmt.Sprintf("invalid replace payload: %v", err)})
	}

	var out strings.Builder
	stats, err := s.automaton.ReplaceAll(ctx, strings.NewReader(payload.Content), &out, 4096)
	if err != nil {
		return enc.Encode(Response{Success: false, Type: "error", Error: err.Error()})
	}

	rpt := report.FromStats(toRunStats(s.needleSetID, stats))
	reportJSON, err := json.Marshal(rpt)
	if err != nil {
		return err
	}

	data, err := json.Marshal(ReplaceData{Output: out.String(), Report: reportJSON})
	if err != nil {
		return err
	}
	return enc.Encode(Response{Success: true, Type: "replace", Data: data})
}
