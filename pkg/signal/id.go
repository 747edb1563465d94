// Package signal defines the value model that flows between action nodes:
// SignalId identifiers, the tagged-union SignalValue, and the Signal/State
// maps built from them.
package signal

import "golang.org/x/exp/slices"

// ID identifies one signal slot. Author-assigned in the task description
// and globally scoped within a block. 0 is reserved as the sentinel "no
// signal" and is implicitly a member of both the produced and consumed sets
// during the closure check.
type ID uint64

// None is the sentinel "no signal" id.
const None ID = 0

// Set is a small set-of-ID helper used by the closure check and by
// combinators computing in_signals()/out_signals() from their children.
type Set map[ID]struct{}

func NewSet(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Add(id ID) { s[id] = struct{}{} }

func (s Set) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}

// Equal reports whether s and other contain exactly the same ids.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Slice returns the set's members in ascending order, so callers that log
// or diff a Set (the closure check, StateChanged payloads) get stable
// output across runs.
func (s Set) Slice() []ID {
	out := make([]ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
