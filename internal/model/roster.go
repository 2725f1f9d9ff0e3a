package model

import "strings"

// Roster is the fixed allow-list of participant names. Every name argument to
// a ledger operation must appear on it. The order is the configured order and
// is preserved for display.
type Roster struct {
	names []string
	index map[string]struct{}
}

// NewRoster creates a roster from the given names, dropping duplicates and
// empty entries while preserving first-seen order
func NewRoster(names []string) *Roster {
	r := &Roster{index: make(map[string]struct{})}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := r.index[name]; ok {
			continue
		}
		r.names = append(r.names, name)
		r.index[name] = struct{}{}
	}
	return r
}

// Contains reports whether name is on the roster
func (r *Roster) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Names returns the roster in configured order
func (r *Roster) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of names on the roster
func (r *Roster) Len() int {
	return len(r.names)
}

func (r *Roster) String() string {
	return strings.Join(r.names, ", ")
}

// Validate returns a ValidationError listing the valid names if any of the
// given names is not on the roster
func (r *Roster) Validate(names ...string) error {
	for _, name := range names {
		if !r.Contains(name) {
			return Validationf("unknown name %q. Valid names: %s", name, r)
		}
	}
	return nil
}
