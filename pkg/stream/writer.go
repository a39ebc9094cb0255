package stream

import (
	"io"

	"github.com/streamsed/streamsed/pkg/automaton"
	"github.com/streamsed/streamsed/pkg/matcher"
)

// writer implements the push-mode adapter: the caller pushes source
// bytes via Write; transformed bytes are pushed to the wrapped sink,
// with partial sink acceptance handled by retaining a pending-output
// buffer drained before further input is accepted.
type writer struct {
	sink    io.Writer
	session *matcher.Session

	pendingOut []byte // transformed bytes not yet accepted by sink
}

// NewWriter wraps sink so that writes of source bytes result in the
// needle-replaced stream being written to sink. Close drives Finish
// into the sink and then closes it if it implements io.Closer.
func NewWriter(a *automaton.Automaton, sink io.Writer) io.WriteCloser {
	return &writer{sink: sink, session: matcher.New(a)}
}

// Write reports how many source bytes were accepted as matcher input,
// not how many transformed bytes were produced.
func (w *writer) Write(p []byte) (int, error) {
	if err := w.drainPending(); err != nil {
		return 0, err
	}

	var out []byte
	for _, b := range p {
		out = w.session.Step(out, b)
	}

	w.pendingOut = append(w.pendingOut, out...)
	if err := w.drainPending(); err != nil {
		// Every source byte was already consumed by the matcher; the
		// sink failure only affects how much *output* made it through,
		// which is retained in pendingOut for the next write attempt.
		return len(p), err
	}
	return len(p), nil
}

// drainPending pushes as much of pendingOut to the sink as it accepts,
// sliding any unaccepted remainder to the front.
func (w *writer) drainPending() error {
	for len(w.pendingOut) > 0 {
		n, err := w.sink.Write(w.pendingOut)
		w.pendingOut = w.pendingOut[:copy(w.pendingOut, w.pendingOut[n:])]
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
	}
	return nil
}

// Close runs Finish and flushes the result, then closes sink if it
// supports it.
func (w *writer) Close() error {
	var out []byte
	out = w.session.Finish(out)
	w.pendingOut = append(w.pendingOut, out...)
	if err := w.drainPending(); err != nil {
		return err
	}
	if c, ok := w.sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
