package database

import (
	"encoding/json"
	"fmt"
	"os"
)

// readCollection loads a whole JSON array file into memory.
func readCollection[T any](path string) ([]T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", path, err)
	}
	return items, nil
}

// writeCollection replaces the file contents with the full collection.
func writeCollection[T any](path string, items []T) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	return nil
}
