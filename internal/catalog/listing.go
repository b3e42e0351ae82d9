package catalog

import "context"

// Listing is one vehicle record in the catalog.
type Listing struct {
	ID        int    `json:"id"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	Year      int    `json:"year"`
	Price     int    `json:"price"`
	Location  string `json:"location"`
	Condition string `json:"condition"`
	Image     string `json:"image"`
	CreatedAt string `json:"createdAt"`
}

// Catalog is the full collection plus the next identifier to assign.
// NextID is always strictly greater than every ID present; IDs are never reused.
type Catalog struct {
	Cars   []Listing `json:"cars"`
	NextID int       `json:"nextId"`
}

// Store loads and persists the whole catalog document. Load never fails:
// an absent or unreadable document reads as an empty catalog. Save rewrites
// the full document; the last concurrent writer wins in full.
type Store interface {
	Ping(ctx context.Context) error
	Load(ctx context.Context) Catalog
	Save(ctx context.Context, c Catalog) error
}

// EmptyCatalog is the state before anything has been persisted.
func EmptyCatalog() Catalog {
	return Catalog{Cars: []Listing{}, NextID: 1}
}
