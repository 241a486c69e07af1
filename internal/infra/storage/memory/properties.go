package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainproperty "erents/internal/domain/property"
)

// PropertyRepository keeps the catalog in memory and evaluates search
// filters over a full scan. Fine for the data volumes it serves.
type PropertyRepository struct {
	mu    sync.RWMutex
	items map[domainproperty.ID]*domainproperty.Property
}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{items: make(map[domainproperty.ID]*domainproperty.Property)}
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.ID) (*domainproperty.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	prop, ok := r.items[id]
	if !ok {
		return nil, domainproperty.ErrNotFound
	}
	return prop, nil
}

func (r *PropertyRepository) Save(ctx context.Context, prop *domainproperty.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prop.Version++
	r.items[prop.ID] = prop
	return nil
}

func (r *PropertyRepository) Search(ctx context.Context, params domainproperty.SearchParams) (domainproperty.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := params.Normalized()
	matches := make([]*domainproperty.Property, 0, len(r.items))
	for _, prop := range r.items {
		select {
		case <-ctx.Done():
			return domainproperty.SearchResult{}, ctx.Err()
		default:
		}
		if !matchesSearch(prop, opts) {
			continue
		}
		matches = append(matches, prop)
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		switch opts.Sort {
		case domainproperty.SortByPriceDesc:
			if a.Price.Amount != b.Price.Amount {
				return a.Price.Amount > b.Price.Amount
			}
		case domainproperty.SortByNewest:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		default:
			if a.Price.Amount != b.Price.Amount {
				return a.Price.Amount < b.Price.Amount
			}
		}
		return a.ID < b.ID
	})

	total := len(matches)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return domainproperty.SearchResult{Items: matches[start:end], Total: total}, nil
}

func matchesSearch(prop *domainproperty.Property, opts domainproperty.SearchParams) bool {
	if opts.OwnerID != "" && string(prop.OwnerID) != opts.OwnerID {
		return false
	}
	if opts.City != "" && !strings.EqualFold(prop.Address.City, opts.City) {
		return false
	}
	if opts.Country != "" && !strings.EqualFold(prop.Address.Country, opts.Country) {
		return false
	}
	if len(opts.Statuses) > 0 && !statusIncluded(prop.Status, opts.Statuses) {
		return false
	}
	if len(opts.RentingTypes) > 0 && !rentingTypeIncluded(prop.RentingType, opts.RentingTypes) {
		return false
	}
	if opts.MinBedrooms > 0 && prop.Bedrooms < opts.MinBedrooms {
		return false
	}
	if opts.PriceMinMinor > 0 && prop.Price.Amount < opts.PriceMinMinor {
		return false
	}
	if opts.PriceMaxMinor > 0 && prop.Price.Amount > opts.PriceMaxMinor {
		return false
	}
	return true
}

func statusIncluded(status domainproperty.Status, allowed []domainproperty.Status) bool {
	for _, candidate := range allowed {
		if status == candidate {
			return true
		}
	}
	return false
}

func rentingTypeIncluded(rt domainproperty.RentingType, allowed []domainproperty.RentingType) bool {
	for _, candidate := range allowed {
		if rt == candidate {
			return true
		}
	}
	return false
}

var _ domainproperty.Repository = (*PropertyRepository)(nil)
