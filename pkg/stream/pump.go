package stream

import (
	"fmt"
	"io"

	"github.com/streamsed/streamsed/pkg/automaton"
	"github.com/streamsed/streamsed/pkg/matcher"
)

// Pump copies source to sink through the automaton in chunks of
// bufferSize bytes, calling Finish on source EOF. Output is
// byte-identical regardless of bufferSize, since chunking never
// affects Session's own state.
//
// onCommit, if non-nil, is invoked once per committed match, letting
// callers (pkg/report, pkg/store) accumulate run statistics without
// this package importing either.
func Pump(a *automaton.Automaton, source io.Reader, sink io.Writer, bufferSize int, onCommit func(needleIndex int, elided bool, replacement []byte)) error {
	if bufferSize < 1 {
		return fmt.Errorf("streamsed: buffer size must be >= 1, got %d", bufferSize)
	}

	s := matcher.New(a)
	if onCommit != nil {
		s.OnCommit(onCommit)
	}

	buf := make([]byte, bufferSize)
	var out []byte

	for {
		n, readErr := source.Read(buf)

		out = out[:0]
		for i := 0; i < n; i++ {
			out = s.Step(out, buf[i])
		}
		if len(out) > 0 {
			if err := writeAll(sink, out); err != nil {
				return err
			}
		}

		if readErr == io.EOF {
			out = out[:0]
			out = s.Finish(out)
			if len(out) > 0 {
				if err := writeAll(sink, out); err != nil {
					return err
				}
			}
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}

func writeAll(sink io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := sink.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}
