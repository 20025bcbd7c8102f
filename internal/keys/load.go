package keys

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// registryFile is the YAML document layout.
type registryFile struct {
	Keys []defFile `yaml:"keys"`
}

// LoadFile extends r from a .yaml, .yml or .cue file.
func (r *Registry) LoadFile(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return r.LoadYAML(path)
	case ".cue":
		return r.LoadCUE(path)
	default:
		return fmt.Errorf("unsupported registry file %q: want .yaml, .yml or .cue", path)
	}
}

// LoadYAML extends r with the keys listed in a YAML file. Unknown fields
// are rejected. Either every key is added or none is.
func (r *Registry) LoadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read registry file: %w", err)
	}

	var file registryFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	defs := make([]Def, 0, len(file.Keys))
	for _, f := range file.Keys {
		d, err := f.toDef()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		defs = append(defs, d)
	}
	return r.merge(path, defs)
}

// LoadCUE extends r with the fields of the top-level "keys" struct of a CUE
// file. The field label is the key name.
func (r *Registry) LoadCUE(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read registry file: %w", err)
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return fmt.Errorf("building CUE value: %w", err)
	}

	keysVal := value.LookupPath(cue.ParsePath("keys"))
	if !keysVal.Exists() {
		return fmt.Errorf("%s: missing top-level \"keys\" struct", path)
	}
	iter, err := keysVal.Fields()
	if err != nil {
		return fmt.Errorf("iterating keys: %w", err)
	}

	var defs []Def
	for iter.Next() {
		label := iter.Label()
		var f defFile
		if err := iter.Value().Decode(&f); err != nil {
			return fmt.Errorf("%s: keys.%s: %w", path, label, err)
		}
		if f.Name != "" && f.Name != label {
			return fmt.Errorf("%s: keys.%s: name %q does not match label", path, label, f.Name)
		}
		f.Name = label
		d, err := f.toDef()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		defs = append(defs, d)
	}
	return r.merge(path, defs)
}

// merge registers defs into a scratch copy first so a conflict leaves r
// untouched.
func (r *Registry) merge(source string, defs []Def) error {
	next := &Registry{defs: make(map[string]Def, len(r.defs)+len(defs))}
	for k, d := range r.defs {
		next.defs[k] = d
	}
	for _, d := range defs {
		if err := next.Register(d); err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}
	}
	r.defs = next.defs
	return nil
}
