// Package stream provides three thin adapters over pkg/matcher's
// Session: a pull-mode io.Reader, a push-mode io.WriteCloser, and a
// convenience pump, none of which duplicate Session's logic. The
// adapters are plumbing: their only job is deciding when bytes are
// pulled from or pushed to the wrapped endpoint; the matching itself
// always happens through Session.Step.
package stream

import (
	"io"

	"github.com/streamsed/streamsed/pkg/automaton"
	"github.com/streamsed/streamsed/pkg/matcher"
)

const defaultScratchSize = 4096

// reader implements the pull-mode adapter: it wraps a source io.Reader
// and presents transformed bytes as another io.Reader.
type reader struct {
	src     io.Reader
	session *matcher.Session

	scratch []byte // raw bytes pulled from src, reused across Read calls
	staging []byte // transformed bytes waiting to be copied out
	eof     bool
}

// NewReader wraps source so that reads from the result yield the
// needle-replaced byte stream.
func NewReader(a *automaton.Automaton, source io.Reader) io.Reader {
	return &reader{
		src:     source,
		session: matcher.New(a),
		scratch: make([]byte, defaultScratchSize),
	}
}

// Read satisfies io.Reader: at least 1 and at most len(p) transformed
// bytes, 0 with io.EOF once both the source and the session are
// exhausted, or an error propagated verbatim from the source.
func (r *reader) Read(p []byte) (int, error) {
	for len(r.staging) == 0 && !r.eof {
		n, err := r.src.Read(r.scratch)
		for i := 0; i < n; i++ {
			r.staging = r.session.Step(r.staging, r.scratch[i])
		}
		if err == io.EOF {
			r.staging = r.session.Finish(r.staging)
			r.eof = true
			break
		}
		if err != nil {
			// Matcher state is retained: a retry after a transient source
			// error can pick up where it left off, modulo whatever bytes
			// were already staged this call.
			return r.drain(p), err
		}
		if n == 0 {
			// Source yielded nothing without EOF or error; ask again.
			continue
		}
	}

	if len(r.staging) == 0 {
		return 0, io.EOF
	}
	return r.drain(p), nil
}

// drain copies as much of the staging queue into p as fits and slides
// the remainder to the front.
func (r *reader) drain(p []byte) int {
	n := copy(p, r.staging)
	r.staging = r.staging[:copy(r.staging, r.staging[n:])]
	return n
}
