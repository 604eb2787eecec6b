package forms

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// State holds the nested object a form screen edits.
// It owns its data: inputs are deep-copied and edits never leak to callers.
type State struct {
	kind Kind
	data map[string]any
}

// NewState creates a state from an existing nested object
func NewState(kind Kind, data map[string]any) (*State, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown form kind: %q", kind)
	}
	copied, _ := deepCopy(data).(map[string]any)
	if copied == nil {
		copied = map[string]any{}
	}
	return &State{kind: kind, data: copied}, nil
}

// Blank returns an empty state for a kind
func Blank(kind Kind) (*State, error) {
	form, err := New(kind)
	if err != nil {
		return nil, err
	}
	if m, ok := form.(*MaintenanceChecklist); ok {
		m.Sections = DefaultChecklist()
	}
	data, err := ToMap(form)
	if err != nil {
		return nil, err
	}
	return &State{kind: kind, data: data}, nil
}

// Kind returns the kind of the form being edited
func (s *State) Kind() Kind {
	return s.kind
}

// Data returns a copy of the current nested object
func (s *State) Data() map[string]any {
	copied, _ := deepCopy(s.data).(map[string]any)
	return copied
}

// Envelope returns the state as a serializable envelope
func (s *State) Envelope() *Envelope {
	return &Envelope{Kind: s.kind, Data: s.Data()}
}

// Form decodes the current state into its typed form
func (s *State) Form() (Form, error) {
	return FromMap(s.kind, s.data)
}

// MarshalJSON encodes the state as an envelope
func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Envelope())
}

// Get returns the value at a dotted path such as "materials.0.quantity"
func (s *State) Get(path string) (any, error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	var cur any = s.data
	for i, seg := range segments {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, fmt.Errorf("path %q: no field %q", path, strings.Join(segments[:i+1], "."))
			}
			cur = v
		case []any:
			idx, err := index(seg, len(node)-1)
			if err != nil {
				return nil, fmt.Errorf("path %q: %w", path, err)
			}
			cur = node[idx]
		default:
			return nil, fmt.Errorf("path %q: %q is not an object or list", path, strings.Join(segments[:i], "."))
		}
	}
	return deepCopy(cur), nil
}

// Set assigns value at a dotted path. Missing objects along the path are
// created; a list index equal to the list length appends.
func (s *State) Set(path string, value any) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}

	updated, err := setIn(s.data, segments, deepCopy(value), path)
	if err != nil {
		return err
	}
	s.data = updated.(map[string]any)
	return nil
}

// Remove deletes the value at a dotted path. Removing from a list shifts
// the following elements down.
func (s *State) Remove(path string) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}

	parentPath := segments[:len(segments)-1]
	last := segments[len(segments)-1]

	if len(parentPath) == 0 {
		if _, ok := s.data[last]; !ok {
			return fmt.Errorf("path %q: no field %q", path, last)
		}
		delete(s.data, last)
		return nil
	}

	parent, err := s.Get(strings.Join(parentPath, "."))
	if err != nil {
		return err
	}

	switch node := parent.(type) {
	case map[string]any:
		if _, ok := node[last]; !ok {
			return fmt.Errorf("path %q: no field %q", path, last)
		}
		delete(node, last)
		return s.Set(strings.Join(parentPath, "."), node)
	case []any:
		idx, err := index(last, len(node)-1)
		if err != nil {
			return fmt.Errorf("path %q: %w", path, err)
		}
		node = append(node[:idx], node[idx+1:]...)
		return s.Set(strings.Join(parentPath, "."), node)
	default:
		return fmt.Errorf("path %q: parent is not an object or list", path)
	}
}

func setIn(node any, segments []string, value any, path string) (any, error) {
	if len(segments) == 0 {
		return value, nil
	}
	seg := segments[0]

	switch n := node.(type) {
	case nil:
		// Create the container the next segment implies
		if _, err := strconv.Atoi(seg); err == nil {
			return setIn([]any{}, segments, value, path)
		}
		return setIn(map[string]any{}, segments, value, path)
	case map[string]any:
		child, err := setIn(n[seg], segments[1:], value, path)
		if err != nil {
			return nil, err
		}
		n[seg] = child
		return n, nil
	case []any:
		idx, err := index(seg, len(n))
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", path, err)
		}
		if idx == len(n) {
			n = append(n, nil)
		}
		child, err := setIn(n[idx], segments[1:], value, path)
		if err != nil {
			return nil, err
		}
		n[idx] = child
		return n, nil
	default:
		return nil, fmt.Errorf("path %q: cannot descend into %T at %q", path, node, seg)
	}
}

func splitPath(path string) ([]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}
	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("path %q has an empty segment", path)
		}
	}
	return segments, nil
}

func index(seg string, maxIdx int) (int, error) {
	idx, err := strconv.Atoi(seg)
	if err != nil {
		return 0, fmt.Errorf("%q is not a list index", seg)
	}
	if idx < 0 || idx > maxIdx {
		return 0, fmt.Errorf("index %d out of range", idx)
	}
	return idx, nil
}

func deepCopy(v any) any {
	switch n := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, val := range n {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, val := range n {
			out[i] = deepCopy(val)
		}
		return out
	case []map[string]any:
		out := make([]any, len(n))
		for i, val := range n {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
