package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// IntParam is the result of parsing a numeric query parameter. A missing or
// non-numeric value is absent and the corresponding bound is not applied.
type IntParam struct {
	Val int
	OK  bool
}

func ParseIntParam(s string) IntParam {
	if s == "" {
		return IntParam{}
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return IntParam{}
	}
	return IntParam{Val: n, OK: true}
}

// Params are the recognized listing query parameters.
type Params struct {
	Search    string
	Make      string
	Model     string
	Location  string
	Condition string

	MinPrice IntParam
	MaxPrice IntParam
	MinYear  IntParam
	MaxYear  IntParam

	SortBy    string
	SortOrder string
}

func ParamsFromQuery(q url.Values) Params {
	return Params{
		Search:    q.Get("search"),
		Make:      q.Get("make"),
		Model:     q.Get("model"),
		Location:  q.Get("location"),
		Condition: q.Get("condition"),
		MinPrice:  ParseIntParam(q.Get("minPrice")),
		MaxPrice:  ParseIntParam(q.Get("maxPrice")),
		MinYear:   ParseIntParam(q.Get("minYear")),
		MaxYear:   ParseIntParam(q.Get("maxYear")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
}

// List filters the catalog, then sorts the remainder. Filters are conjunctive:
// absent parameters are no-ops, and the result is independent of the order the
// predicates are applied in.
func List(c Catalog, p Params) []Listing {
	out := make([]Listing, 0, len(c.Cars))
	for _, l := range c.Cars {
		if matches(l, p) {
			out = append(out, l)
		}
	}
	sortListings(out, p.SortBy, p.SortOrder)
	return out
}

func matches(l Listing, p Params) bool {
	if p.Search != "" && !containsFold(l.Make, p.Search) &&
		!containsFold(l.Model, p.Search) && !containsFold(l.Location, p.Search) {
		return false
	}
	if p.Make != "" && !strings.EqualFold(l.Make, p.Make) {
		return false
	}
	if p.Model != "" && !strings.EqualFold(l.Model, p.Model) {
		return false
	}
	if p.MinPrice.OK && l.Price < p.MinPrice.Val {
		return false
	}
	if p.MaxPrice.OK && l.Price > p.MaxPrice.Val {
		return false
	}
	if p.MinYear.OK && l.Year < p.MinYear.Val {
		return false
	}
	if p.MaxYear.OK && l.Year > p.MaxYear.Val {
		return false
	}
	if p.Location != "" && !containsFold(l.Location, p.Location) {
		return false
	}
	if p.Condition != "" && !strings.EqualFold(l.Condition, p.Condition) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// sortListings orders by the chosen field, default createdAt descending.
// Unknown fields fall back to createdAt. Equal keys break ties by ID ascending
// so the order is deterministic.
func sortListings(cars []Listing, sortBy, sortOrder string) {
	cmp := compareBy(sortBy)
	desc := sortOrder != "asc"

	sort.Slice(cars, func(i, j int) bool {
		c := cmp(cars[i], cars[j])
		if c == 0 {
			return cars[i].ID < cars[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareBy(field string) func(a, b Listing) int {
	switch field {
	case "id":
		return func(a, b Listing) int { return cmpInt(a.ID, b.ID) }
	case "price":
		return func(a, b Listing) int { return cmpInt(a.Price, b.Price) }
	case "year":
		return func(a, b Listing) int { return cmpInt(a.Year, b.Year) }
	case "make":
		return func(a, b Listing) int { return strings.Compare(a.Make, b.Make) }
	case "model":
		return func(a, b Listing) int { return strings.Compare(a.Model, b.Model) }
	case "location":
		return func(a, b Listing) int { return strings.Compare(a.Location, b.Location) }
	case "condition":
		return func(a, b Listing) int { return strings.Compare(a.Condition, b.Condition) }
	case "image":
		return func(a, b Listing) int { return strings.Compare(a.Image, b.Image) }
	default:
		// createdAt is ISO-8601, so lexicographic order is chronological.
		return func(a, b Listing) int { return strings.Compare(a.CreatedAt, b.CreatedAt) }
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// GetByID scans for an exact identifier match.
func GetByID(c Catalog, id int) (Listing, bool) {
	for _, l := range c.Cars {
		if l.ID == id {
			return l, true
		}
	}
	return Listing{}, false
}

// Makes returns the distinct makes, as stored, lexicographically sorted.
func Makes(c Catalog) []string {
	return distinct(c.Cars, func(l Listing) string { return l.Make })
}

// ModelsForMake returns the distinct models among listings whose make matches
// case-insensitively.
func ModelsForMake(c Catalog, mk string) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, l := range c.Cars {
		if !strings.EqualFold(l.Make, mk) {
			continue
		}
		if _, dup := seen[l.Model]; dup {
			continue
		}
		seen[l.Model] = struct{}{}
		out = append(out, l.Model)
	}
	sort.Strings(out)
	return out
}

func Locations(c Catalog) []string {
	return distinct(c.Cars, func(l Listing) string { return l.Location })
}

func distinct(cars []Listing, key func(Listing) string) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, l := range cars {
		k := key(l)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// PriceRange reports the min and max price over all listings. ok is false for
// an empty catalog, where the extrema are undefined.
func PriceRange(c Catalog) (min, max int, ok bool) {
	return extrema(c.Cars, func(l Listing) int { return l.Price })
}

func YearRange(c Catalog) (min, max int, ok bool) {
	return extrema(c.Cars, func(l Listing) int { return l.Year })
}

func extrema(cars []Listing, key func(Listing) int) (min, max int, ok bool) {
	if len(cars) == 0 {
		return 0, 0, false
	}
	min, max = key(cars[0]), key(cars[0])
	for _, l := range cars[1:] {
		v := key(l)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, true
}
