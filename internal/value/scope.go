package value

// Scope is an ordered chain of frames, innermost first (spec.md §3). Lookup
// walks outward; writes always hit the innermost *user* frame — the `_`/`ans`
// frame is written only via SetAns, never by a plain assignment.
type Scope struct {
	vars   map[string]Value
	ans    Value
	parent *Scope
}

// NewScope creates a fresh top-level scope with no parent.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]Value)}
}

// Push stacks a new innermost frame over s (used for lambda application:
// the parameter frame sits over the lambda's captured scope).
func (s *Scope) Push() *Scope {
	return &Scope{vars: make(map[string]Value), parent: s}
}

// Get resolves name by walking outward; `_`/`ans` are served from the
// nearest frame's ans slot, not the vars map.
func (s *Scope) Get(name string) (Value, bool) {
	for f := s; f != nil; f = f.parent {
		if name == "_" || name == "ans" {
			if f.ans != nil {
				return f.ans, true
			}
			continue
		}
		if v, ok := f.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set binds name in the innermost frame (spec.md §4.3 Assignment).
func (s *Scope) Set(name string, v Value) {
	s.vars[name] = v
}

// SetAns records the result of the most recently evaluated top-level
// statement, readable back as `_` or `ans`.
func (s *Scope) SetAns(v Value) {
	s.ans = v
}

// UserBindings returns a shallow copy of this frame's own variable bindings
// (used by internal/serialize; does not include parent frames or ans).
func (s *Scope) UserBindings() map[string]Value {
	out := make(map[string]Value, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}
