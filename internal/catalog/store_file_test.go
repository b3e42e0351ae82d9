package catalog

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "cars.json"))
	ctx := context.Background()

	want := sampleCatalog()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := s.Load(ctx)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestFileStoreMissingFileReadsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nope", "cars.json"))

	got := s.Load(context.Background())
	if len(got.Cars) != 0 || got.NextID != 1 {
		t.Fatalf("missing file: got %+v", got)
	}
}

func TestFileStoreCorruptFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cars.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := NewFileStore(path).Load(context.Background())
	if len(got.Cars) != 0 || got.NextID != 1 {
		t.Fatalf("corrupt file: got %+v", got)
	}
}

func TestFileStoreNormalizesCounter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cars.json")
	if err := os.WriteFile(path, []byte(`{"cars":[],"nextId":0}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := NewFileStore(path).Load(context.Background())
	if got.NextID != 1 {
		t.Fatalf("nextId: got %d", got.NextID)
	}
}

func TestFileStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "cars.json")
	s := NewFileStore(path)

	if err := s.Save(context.Background(), EmptyCatalog()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}

func TestFileStoreSaveOverwritesWholeDocument(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "cars.json"))
	ctx := context.Background()

	if err := s.Save(ctx, sampleCatalog()); err != nil {
		t.Fatalf("save: %v", err)
	}

	smaller := Catalog{Cars: []Listing{{ID: 9, Make: "Audi"}}, NextID: 10}
	if err := s.Save(ctx, smaller); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := s.Load(ctx)
	if len(got.Cars) != 1 || got.Cars[0].ID != 9 || got.NextID != 10 {
		t.Fatalf("overwrite: got %+v", got)
	}
}

func TestMemStoreLoadReturnsCopy(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	if err := s.Save(ctx, sampleCatalog()); err != nil {
		t.Fatalf("save: %v", err)
	}

	first := s.Load(ctx)
	first.Cars[0].Make = "mutated"

	second := s.Load(ctx)
	if second.Cars[0].Make == "mutated" {
		t.Fatalf("load must not share backing array")
	}
}
