package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadJSON decodes a RawConfig from path with DecodeJSON, then validates
// its structural shape.
func LoadJSON(path string) (*RawConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	return DecodeJSON(f)
}

// DecodeJSON decodes a RawConfig from r without touching the filesystem,
// used directly by tests and by LoadJSON. Unknown top-level and nested
// object fields are rejected rather than silently ignored, so a typo in
// a config file fails loudly instead of falling back to defaults.
func DecodeJSON(r io.Reader) (*RawConfig, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var raw RawConfig
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json config: %w", err)
	}

	if err := Validate(&raw); err != nil {
		return nil, err
	}
	return &raw, nil
}
