package config

import (
	"path/filepath"
	"strings"
)

// ResolveRelative joins value onto base unless value is absolute. An empty
// value yields base.
func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}
