// Package config loads and validates strsym.toml.
//
// The manifest is found by walking up from the input's directory, decoded on
// top of Default, and rejected when it carries unknown keys. CLI flags are
// applied by the caller after loading.
package config
