package signal

// Signal is a finite mapping from ID to Value, produced as a side-effect of
// an action operation (start/update/stop). An empty Signal is a valid "no
// change" return — callers should treat len(sig) == 0 as a no-op rather
// than special-casing nil vs. empty map.
type Signal map[ID]Value

// Merge layers other on top of s, returning a new Signal. Used when the
// Sync processor folds a node's returned Signal into the pending Emit
// batch.
func (s Signal) Merge(other Signal) Signal {
	out := make(Signal, len(s)+len(other))
	for id, v := range s {
		out[id] = v
	}
	for id, v := range other {
		out[id] = v
	}
	return out
}

func (s Signal) IDs() Set {
	ids := make(Set, len(s))
	for id := range s {
		ids.Add(id)
	}
	return ids
}

// State is the block-scoped mapping from ID to the most recently observed
// Value. Exactly one State is owned per running block, mutated only by the
// Sync processor; node code only ever reads through a
// *State handle passed into start/update/show/stop.
type State struct {
	values map[ID]Value
}

// NewState seeds a State from a block's default state map.
func NewState(defaults map[ID]Value) *State {
	values := make(map[ID]Value, len(defaults))
	for id, v := range defaults {
		values[id] = v
	}
	return &State{values: values}
}

func (s *State) Get(id ID) (Value, bool) {
	v, ok := s.values[id]
	return v, ok
}

// GetOr returns the stored value, or Null() if id was never set.
func (s *State) GetOr(id ID) Value {
	return s.values[id]
}

// Apply writes sig into the state map in place, returning the set of ids
// that actually changed value-wise (used to build StateChanged's id set).
// An id whose new value is byte-identical to the old one per Equal is not
// reported — this matches the "state updates become visible... after the
// Emit that carried them" causality guarantee without generating no-op
// StateChanged passes for idempotent re-emits.
func (s *State) Apply(sig Signal) Set {
	changed := make(Set, len(sig))
	for id, v := range sig {
		old, existed := s.values[id]
		if existed && old.Equal(v) {
			continue
		}
		s.values[id] = v
		changed.Add(id)
	}
	return changed
}

// Snapshot copies the current state map out, e.g. for the tree/info logger
// dump at block start.
func (s *State) Snapshot() map[ID]Value {
	out := make(map[ID]Value, len(s.values))
	for id, v := range s.values {
		out[id] = v
	}
	return out
}

// Equal performs a deep structural comparison, used by Apply to suppress
// no-op StateChanged notifications.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == other.Bool
	case KindInt:
		return v.Int == other.Int
	case KindFloat:
		return v.Float == other.Float
	case KindText:
		return v.Text == other.Text
	case KindBytes:
		return string(v.Bytes) == string(other.Bytes)
	case KindArray:
		if len(v.Array) != len(other.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(other.Array[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.Map) != len(other.Map) {
			return false
		}
		for k, e := range v.Map {
			oe, ok := other.Map[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
