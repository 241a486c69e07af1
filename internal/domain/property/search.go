package property

import "strings"

type SearchSort string

const (
	SortByPriceAsc  SearchSort = "price_asc"
	SortByPriceDesc SearchSort = "price_desc"
	SortByNewest    SearchSort = "newest"

	defaultSearchLimit = 24
	maxSearchLimit     = 60
)

// SearchParams describe catalog filters and paging options.
type SearchParams struct {
	OwnerID       string
	City          string
	Country       string
	Statuses      []Status
	RentingTypes  []RentingType
	MinBedrooms   int
	PriceMinMinor int64
	PriceMaxMinor int64
	Sort          SearchSort
	Limit         int
	Offset        int
}

// Normalized returns a sanitized copy of params.
func (p SearchParams) Normalized() SearchParams {
	n := p
	n.City = strings.TrimSpace(strings.ToLower(n.City))
	n.Country = strings.TrimSpace(strings.ToLower(n.Country))
	if n.MinBedrooms < 0 {
		n.MinBedrooms = 0
	}
	if n.PriceMinMinor < 0 {
		n.PriceMinMinor = 0
	}
	if n.PriceMaxMinor > 0 && n.PriceMaxMinor < n.PriceMinMinor {
		n.PriceMaxMinor = 0
	}
	if n.Limit <= 0 {
		n.Limit = defaultSearchLimit
	}
	if n.Limit > maxSearchLimit {
		n.Limit = maxSearchLimit
	}
	if n.Offset < 0 {
		n.Offset = 0
	}
	switch n.Sort {
	case SortByPriceAsc, SortByPriceDesc, SortByNewest:
	default:
		n.Sort = SortByPriceAsc
	}
	types := make([]RentingType, 0, len(n.RentingTypes))
	for _, rt := range n.RentingTypes {
		if norm, ok := normalizeRentingType(rt); ok {
			types = append(types, norm)
		}
	}
	n.RentingTypes = types
	return n
}

// SearchResult wraps search hits with meta.
type SearchResult struct {
	Items []*Property
	Total int
}
