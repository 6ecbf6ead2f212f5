package utils

import "path/filepath"

// EnsureAbsPath normalizes a path so printed destinations are unambiguous.
func EnsureAbsPath(path string) string {
	if path == "" {
		path = "."
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// OutputPath places a derived filename inside dir. An empty dir returns the name unchanged.
func OutputPath(dir, filename string) string {
	if dir == "" {
		return filename
	}
	return filepath.Join(EnsureAbsPath(dir), filename)
}
