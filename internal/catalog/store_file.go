package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

// FileStore keeps the catalog as one JSON document on disk. There is no
// locking across the read-modify-write cycle: acceptable for a single-process,
// low-write-volume catalog.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Ping(ctx context.Context) error { return nil }

// Load reads the whole document. A missing or corrupt file reads as an empty
// catalog; no error is surfaced either way.
func (s *FileStore) Load(ctx context.Context) Catalog {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return EmptyCatalog()
	}

	var c Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return EmptyCatalog()
	}
	return normalize(c)
}

func (s *FileStore) Save(ctx context.Context, c Catalog) error {
	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, raw, 0o644)
}

func normalize(c Catalog) Catalog {
	if c.Cars == nil {
		c.Cars = []Listing{}
	}
	if c.NextID < 1 {
		c.NextID = 1
	}
	return c
}
