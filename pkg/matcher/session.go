// Package matcher drives an automaton.Automaton one byte at a time
// across arbitrary chunk boundaries. It is the substantive engineering
// the rest of the repo wraps: pkg/stream's reader/writer adapters and
// pump are thin plumbing around Session.Step and Session.Finish; they
// never duplicate this package's logic.
package matcher

import (
	"github.com/streamsed/streamsed/pkg/automaton"
	"github.com/streamsed/streamsed/pkg/types"
)

// Session holds the mutable per-stream state: the current cursor and
// the pending buffer of consumed-but-unemitted bytes. A Session is
// single-threaded and never suspends; it is cheap to construct and
// safe to reset for reuse.
type Session struct {
	a       *automaton.Automaton
	cursor  automaton.Cursor
	pending []byte

	onCommit func(needleIndex int, elided bool, replacement []byte)
}

// New returns a fresh session over a (immutable, shareable) automaton.
func New(a *automaton.Automaton) *Session {
	return &Session{
		a:       a,
		cursor:  a.Root(),
		pending: make([]byte, 0, a.MaxPatternLen()),
	}
}

// OnCommit registers a callback invoked synchronously every time the
// session commits a match, after the replacement/elide has been decided
// but before Step returns. Registering nil disables the callback.
func (s *Session) OnCommit(fn func(needleIndex int, elided bool, replacement []byte)) {
	s.onCommit = fn
}

// Reset returns the session to a fresh-equivalent state: cursor at the
// root, pending buffer cleared.
func (s *Session) Reset() {
	s.cursor = s.a.Root()
	s.pending = s.pending[:0]
}

// Step feeds one input byte through the automaton and appends any
// output bytes it produces to dst, returning the extended slice:
//
//  1. While there is no goto edge for b and we are not at the root,
//     back off along the failure link, flushing the pending bytes that
//     fall in front of the failure node's depth.
//  2. Follow the goto edge if one exists; otherwise emit b directly
//     (we are at the root with no edge).
//  3. If the new cursor carries a payload, commit it: emit the
//     replacement (or nothing, for elide) and reset to the root.
func (s *Session) Step(dst []byte, b byte) []byte {
	for {
		if _, ok := s.a.Step(s.cursor, b); ok || s.a.IsRoot(s.cursor) {
			break
		}
		// Flush rule: the bytes being dropped from the front of the
		// pending buffer cannot start any pattern that also contains
		// the retained suffix, by definition of the failure link as
		// the longest proper suffix that is itself a trie prefix.
		s.cursor = s.a.Failure(s.cursor)
		newDepth := s.a.Depth(s.cursor)
		dst = append(dst, s.pending[:len(s.pending)-newDepth]...)
		s.pending = s.pending[len(s.pending)-newDepth:]
	}

	if child, ok := s.a.Step(s.cursor, b); ok {
		s.cursor = child
		s.pending = append(s.pending, b)
	} else {
		// At the root with no edge for b: nothing can be extending, so
		// b is safe to emit immediately and the pending buffer, already
		// empty at the root, stays empty.
		dst = append(dst, b)
		return dst
	}

	if needleIndex, _, action, ok := s.a.MatchAt(s.cursor); ok {
		dst = s.commit(dst, needleIndex, action)
	}

	return dst
}

// commit emits a committed match's output and resets the cursor to the
// root.
func (s *Session) commit(dst []byte, needleIndex int, action types.Action) []byte {
	elided := action.Kind == types.ActionElide
	if !elided {
		dst = append(dst, action.ReplaceWith...)
	}
	if s.onCommit != nil {
		s.onCommit(needleIndex, elided, action.ReplaceWith)
	}
	s.cursor = s.a.Root()
	s.pending = s.pending[:0]
	return dst
}

// Finish flushes every byte remaining in the pending buffer and resets
// the cursor to the root. It is always well-defined: no construction or
// matching state can make it fail.
func (s *Session) Finish(dst []byte) []byte {
	dst = append(dst, s.pending...)
	s.pending = s.pending[:0]
	s.cursor = s.a.Root()
	return dst
}

// Pending reports the number of bytes currently held back, never more
// than MaxPatternLen()-1.
func (s *Session) Pending() int {
	return len(s.pending)
}
