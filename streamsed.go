// Package streamsed performs streaming multi-pattern search-and-replace
// over byte streams using an Aho-Corasick automaton driven by
// incrementally-fed input.
//
// Build an automaton from a set of (pattern, replacement) needles, then
// drive a byte stream through it with whichever shape fits your
// producer/consumer: NewReader wraps a source you pull from,
// NewWriter wraps a sink you push to, and ReplaceAll copies from a
// source to a sink for you.
//
//	a, err := streamsed.Build([]streamsed.Needle{
//	    {Pattern: []byte("secret"), Action: streamsed.Elide()},
//	    {Pattern: []byte("he"), Action: streamsed.Replace([]byte("HE"))},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stats, err := a.ReplaceAll(context.Background(), os.Stdin, os.Stdout, 4096)
//
// This file only re-exports the pieces a caller needs so most programs
// can import just "github.com/streamsed/streamsed" without reaching
// into subpackages.
package streamsed

import (
	"context"
	"io"

	"github.com/streamsed/streamsed/pkg/automaton"
	"github.com/streamsed/streamsed/pkg/stream"
	"github.com/streamsed/streamsed/pkg/types"
)

// Re-export the types a caller needs for construction.
type (
	// Needle is a single (pattern, action) pair.
	Needle = types.Needle
	// Action is what happens when a needle is committed: replace or elide.
	Action = types.Action
)

// Replace builds an Action that substitutes the matched needle with b.
func Replace(b []byte) Action { return types.Replace(b) }

// Elide builds an Action that drops the matched needle and protects its
// span from further matching.
func Elide() Action { return types.Elide() }

// Stats summarizes one ReplaceAll invocation.
type Stats struct {
	InputBytes  int64
	OutputBytes int64
	ElideCount  int64
	NeedleHits  map[int]int64
}

// Automaton is the built, immutable matching engine. Construct with
// Build; share freely across goroutines and sessions via Clone.
type Automaton struct {
	inner *automaton.Automaton
}

// Build constructs an Automaton from an ordered needle set. An empty
// needle set is valid and yields the identity transformer.
func Build(needles []Needle) (*Automaton, error) {
	inner, err := automaton.Build(needles)
	if err != nil {
		return nil, err
	}
	return &Automaton{inner: inner}, nil
}

// Clone returns a handle sharing this automaton's node storage with no
// deep copy.
func (a *Automaton) Clone() *Automaton {
	return &Automaton{inner: a.inner.Clone()}
}

// NewReader wraps source so reads from the result yield the
// needle-replaced stream.
func (a *Automaton) NewReader(source io.Reader) io.Reader {
	return stream.NewReader(a.inner, source)
}

// NewWriter wraps sink so that writes of source bytes result in the
// needle-replaced stream being written to sink.
func (a *Automaton) NewWriter(sink io.Writer) io.WriteCloser {
	return stream.NewWriter(a.inner, sink)
}

// ReplaceAll copies source to sink through the automaton in chunks of
// bufferSize bytes until source is exhausted. ctx is checked between
// chunks so a caller can abandon a long-running copy; the matcher
// itself never blocks on ctx.
func (a *Automaton) ReplaceAll(ctx context.Context, source io.Reader, sink io.Writer, bufferSize int) (Stats, error) {
	stats := Stats{NeedleHits: make(map[int]int64)}

	cr := &ctxReader{ctx: ctx, r: source}
	cw := &countingWriter{w: sink}
	counted := &countingReader{r: cr}

	err := stream.Pump(a.inner, counted, cw, bufferSize, func(needleIndex int, elided bool, replacement []byte) {
		if elided {
			stats.ElideCount++
		} else {
			stats.NeedleHits[needleIndex]++
		}
	})
	stats.InputBytes = counted.n
	stats.OutputBytes = cw.n
	return stats, err
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
