package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Dependency map field names in a package manifest.
const (
	FieldDependencies     = "dependencies"
	FieldPeerDependencies = "peerDependencies"
)

// DependencyFields lists the dependency maps rewritten during propagation,
// in the order they are processed.
var DependencyFields = []string{FieldDependencies, FieldPeerDependencies}

// Manifest represents one unit's package.json.
//
// Name, Version, Private and the dependency maps are typed; every other key
// is carried through untouched so Save writes the document back in full with
// its original key order.
type Manifest struct {
	Name             string
	Version          string
	Private          bool
	Dependencies     *Deps
	PeerDependencies *Deps

	keys []string
	raw  map[string]json.RawMessage
}

// Deps returns the dependency map for field, or nil if the manifest has none.
func (m *Manifest) Deps(field string) *Deps {
	switch field {
	case FieldDependencies:
		return m.Dependencies
	case FieldPeerDependencies:
		return m.PeerDependencies
	}
	return nil
}

// Keys returns the top-level keys in document order.
func (m *Manifest) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Deps is a name → version-range map that remembers insertion order.
type Deps struct {
	names  []string
	ranges map[string]string
}

// NewDeps builds a Deps from alternating name, range pairs.
func NewDeps(pairs ...string) *Deps {
	d := &Deps{}
	for i := 0; i+1 < len(pairs); i += 2 {
		d.Set(pairs[i], pairs[i+1])
	}
	return d
}

// Len returns the number of entries.
func (d *Deps) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}

// Names returns the dependency names in order.
func (d *Deps) Names() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.names...)
}

// Get returns the range declared for name.
func (d *Deps) Get(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	r, ok := d.ranges[name]
	return r, ok
}

// Set updates name in place, or appends it when new.
func (d *Deps) Set(name, rng string) {
	if d.ranges == nil {
		d.ranges = make(map[string]string)
	}
	if _, ok := d.ranges[name]; !ok {
		d.names = append(d.names, name)
	}
	d.ranges[name] = rng
}

// MarshalJSON writes the entries in insertion order.
func (d *Deps) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range d.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := encode(name)
		if err != nil {
			return nil, err
		}
		v, err := encode(d.ranges[name])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of string values, keeping key order.
func (d *Deps) UnmarshalJSON(data []byte) error {
	*d = Deps{}
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	return decodeObject(data, func(key string, raw json.RawMessage) error {
		var rng string
		if err := json.Unmarshal(raw, &rng); err != nil {
			return fmt.Errorf("%q must be a string", key)
		}
		d.Set(key, rng)
		return nil
	})
}
