// Package export writes report payloads to disk for downstream consumers.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteJSON marshals data with indentation and writes it atomically: the
// payload lands in a temp file first and replaces the target with a rename,
// so readers never observe a partial file.
func WriteJSON(path string, data any) error {
	if path == "" {
		return fmt.Errorf("export path is required")
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	encoded = append(encoded, '\n')

	dir := filepath.Dir(filepath.Clean(path))
	if dir != "." {
		// #nosec G301 -- export directories use 0755 for multi-user access compatibility
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create export temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(encoded); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close export temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace export file: %w", err)
	}
	return nil
}
