package catalog

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// CreateRequest carries the raw field values of a new listing. Year and price
// arrive as text (form fields or JSON strings) and are coerced on create.
type CreateRequest struct {
	Make      string `json:"make"`
	Model     string `json:"model"`
	Year      string `json:"year"`
	Price     string `json:"price"`
	Location  string `json:"location"`
	Condition string `json:"condition"`
	Image     string `json:"image"`
}

// ValidationError reports the required fields absent from a create request.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "Missing required fields: " + strings.Join(e.Missing, ", ")
}

var (
	errBadYear  = errors.New("year must be a number")
	errBadPrice = errors.New("price must be a number")
)

// CreateListing validates the request, assigns the next identifier, appends
// the listing to the catalog and advances the counter. Text fields are
// whitespace-trimmed; year and price are coerced to integers.
func CreateListing(c *Catalog, req CreateRequest, now time.Time) (Listing, error) {
	var missing []string
	for _, f := range []struct{ name, val string }{
		{"make", req.Make},
		{"model", req.Model},
		{"year", req.Year},
		{"price", req.Price},
		{"location", req.Location},
		{"condition", req.Condition},
		{"image", req.Image},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Listing{}, &ValidationError{Missing: missing}
	}

	year, err := strconv.Atoi(strings.TrimSpace(req.Year))
	if err != nil {
		return Listing{}, errBadYear
	}
	price, err := strconv.Atoi(strings.TrimSpace(req.Price))
	if err != nil {
		return Listing{}, errBadPrice
	}

	l := Listing{
		ID:        c.NextID,
		Make:      strings.TrimSpace(req.Make),
		Model:     strings.TrimSpace(req.Model),
		Year:      year,
		Price:     price,
		Location:  strings.TrimSpace(req.Location),
		Condition: strings.TrimSpace(req.Condition),
		Image:     strings.TrimSpace(req.Image),
		CreatedAt: now.UTC().Format(time.RFC3339),
	}

	c.Cars = append(c.Cars, l)
	c.NextID++
	return l, nil
}
