// Package json persists credentials and generation results as versioned
// JSON files.
package json

import (
	"fmt"
	"os"
	"path/filepath"
)

// envelopeVersion is the only wire format version this package reads.
const envelopeVersion = 1

// writeFile writes data to path atomically, creating parent directories as
// needed. Files are private to the user.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func checkVersion(v int) error {
	if v != envelopeVersion {
		return fmt.Errorf("unsupported envelope version: %d", v)
	}
	return nil
}
