package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

var (
	// ErrNotFound is returned when a manifest file does not exist.
	ErrNotFound = errors.New("manifest not found")
	// ErrParse is returned when a manifest cannot be decoded.
	ErrParse = errors.New("manifest parse error")
	// ErrWrite is returned when a manifest cannot be encoded or written.
	ErrWrite = errors.New("manifest write error")
)

// Load reads and parses a package.json file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a workspace manifest path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes package.json content.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{raw: make(map[string]json.RawMessage)}
	err := decodeObject(data, func(key string, raw json.RawMessage) error {
		if _, seen := m.raw[key]; !seen {
			m.keys = append(m.keys, key)
		}
		m.raw[key] = raw
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if err := unmarshalField(m.raw, "name", &m.Name); err != nil {
		return nil, err
	}
	if err := unmarshalField(m.raw, "version", &m.Version); err != nil {
		return nil, err
	}
	if err := unmarshalField(m.raw, "private", &m.Private); err != nil {
		return nil, err
	}
	// A null map stays nil so Marshal writes the raw null back.
	if raw, ok := m.raw[FieldDependencies]; ok && !isNull(raw) {
		m.Dependencies = &Deps{}
		if err := unmarshalField(m.raw, FieldDependencies, m.Dependencies); err != nil {
			return nil, err
		}
	}
	if raw, ok := m.raw[FieldPeerDependencies]; ok && !isNull(raw) {
		m.PeerDependencies = &Deps{}
		if err := unmarshalField(m.raw, FieldPeerDependencies, m.PeerDependencies); err != nil {
			return nil, err
		}
	}

	if err := validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Marshal encodes the manifest with two-space indentation and a single
// trailing newline, keeping the original key order.
func (m *Manifest) Marshal() ([]byte, error) {
	fields := map[string]any{"name": m.Name}
	if _, ok := m.raw["version"]; ok || m.Version != "" {
		fields["version"] = m.Version
	}
	if m.Private {
		fields["private"] = true
	} else if _, ok := m.raw["private"]; ok {
		fields["private"] = false
	}
	if m.Dependencies != nil {
		fields[FieldDependencies] = m.Dependencies
	}
	if m.PeerDependencies != nil {
		fields[FieldPeerDependencies] = m.PeerDependencies
	}

	keys := m.Keys()
	for _, k := range []string{"name", "version", "private", FieldDependencies, FieldPeerDependencies} {
		if _, ok := fields[k]; ok && !contains(keys, k) {
			keys = append(keys, k)
		}
	}

	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			compact.WriteByte(',')
		}
		kb, err := encode(k)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWrite, err)
		}
		compact.Write(kb)
		compact.WriteByte(':')

		if v, ok := fields[k]; ok {
			vb, err := encode(v)
			if err != nil {
				return nil, fmt.Errorf("%w: encoding %q: %v", ErrWrite, k, err)
			}
			compact.Write(vb)
			continue
		}
		var raw bytes.Buffer
		if err := json.Compact(&raw, m.raw[k]); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrWrite, k, err)
		}
		compact.Write(raw.Bytes())
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Save writes a manifest to disk in full.
func Save(path string, m *Manifest) error {
	if err := validate(m); err != nil {
		return err
	}
	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // manifests are checked in and must stay readable
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	return nil
}

func validate(m *Manifest) error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrParse)
	}
	return nil
}

func unmarshalField(raw map[string]json.RawMessage, key string, v any) error {
	data, ok := raw[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: field %q: %v", ErrParse, key, err)
	}
	return nil
}

// decodeObject walks a JSON object and calls fn for each member in order.
func decodeObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after JSON object")
	}
	return nil
}

// encode marshals v without HTML escaping, matching how package managers
// write manifests.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
