package steuer

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadStore opens, decodes and returns the store persisted at path.
// A missing file is not an error: administration starts from an empty store.
func LoadStore(path string) (*Store, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open store file %q: %w", path, err)
	}
	defer f.Close()

	s, err := DecodeStore(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode store file %q: %w", path, err)
	}
	return s, nil
}

// SaveStore persists the store to path in canonical form, creating parent
// directories as needed.
func SaveStore(path string, s *Store) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for store %q: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening store file %q for writing: %w", path, err)
	}
	defer f.Close()

	return EncodeStore(f, s)
}
