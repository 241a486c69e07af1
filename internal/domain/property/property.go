package property

import (
	"context"
	"errors"
	"strings"
	"time"

	"erents/internal/domain/shared/events"
	"erents/internal/domain/shared/money"
	"erents/internal/domain/user"
)

var (
	ErrIDRequired      = errors.New("property: id is required")
	ErrOwnerRequired   = errors.New("property: owner is required")
	ErrTitleRequired   = errors.New("property: title is required")
	ErrPriceInvalid    = errors.New("property: price must be positive")
	ErrBedroomsInvalid = errors.New("property: bedrooms must be at least 1")
	ErrRentingType     = errors.New("property: unknown renting type")
	ErrInvalidState    = errors.New("property: invalid status transition")
	ErrAddressRequired = errors.New("property: address must be provided")
	ErrNotFound        = errors.New("property: not found")
)

type ID string

type Status string

const (
	StatusAvailable        Status = "AVAILABLE"
	StatusOccupied         Status = "OCCUPIED"
	StatusUnderMaintenance Status = "UNDER_MAINTENANCE"
	StatusArchived         Status = "ARCHIVED"
)

// RentingType selects the pricing unit: per day for short stays, per month
// for annual leases.
type RentingType string

const (
	RentDaily   RentingType = "DAILY"
	RentMonthly RentingType = "MONTHLY"
)

type Address struct {
	Line1   string
	Line2   string
	City    string
	Country string
	Lat     float64
	Lon     float64
}

func (a Address) Valid() bool {
	return strings.TrimSpace(a.Line1) != "" && strings.TrimSpace(a.City) != "" && strings.TrimSpace(a.Country) != ""
}

type Property struct {
	ID          ID
	OwnerID     user.ID
	Title       string
	Description string
	Address     Address
	Amenities   []string
	Bedrooms    int
	Bathrooms   int
	AreaSqM     float64
	// Price is per month for RentMonthly properties and per day for
	// RentDaily ones.
	Price       money.Money
	RentingType RentingType
	Status      Status
	Photos      []string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Property, error)
	Save(ctx context.Context, p *Property) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}

type CreateParams struct {
	ID          ID
	OwnerID     user.ID
	Title       string
	Description string
	Address     Address
	Amenities   []string
	Bedrooms    int
	Bathrooms   int
	AreaSqM     float64
	Price       money.Money
	RentingType RentingType
	Photos      []string
	Now         time.Time
}

func New(params CreateParams) (*Property, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.OwnerID)) == "" {
		return nil, ErrOwnerRequired
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if !params.Price.IsPositive() {
		return nil, ErrPriceInvalid
	}
	if params.Bedrooms < 1 {
		return nil, ErrBedroomsInvalid
	}
	rentingType, ok := normalizeRentingType(params.RentingType)
	if !ok {
		return nil, ErrRentingType
	}
	if !params.Address.Valid() {
		return nil, ErrAddressRequired
	}

	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	p := &Property{
		ID:          params.ID,
		OwnerID:     params.OwnerID,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		Address:     params.Address,
		Amenities:   append([]string(nil), params.Amenities...),
		Bedrooms:    params.Bedrooms,
		Bathrooms:   params.Bathrooms,
		AreaSqM:     params.AreaSqM,
		Price:       params.Price,
		RentingType: rentingType,
		Status:      StatusAvailable,
		Photos:      append([]string(nil), params.Photos...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.Record(PropertyListed{PropertyID: p.ID, OwnerID: p.OwnerID, At: now})
	return p, nil
}

// MaxGuests caps occupancy at two guests per bedroom.
func (p *Property) MaxGuests() int {
	return p.Bedrooms * 2
}

func (p *Property) IsAvailable() bool {
	return p.Status == StatusAvailable
}

func (p *Property) MarkOccupied(now time.Time) error {
	if p.Status != StatusAvailable {
		return ErrInvalidState
	}
	p.setStatus(StatusOccupied, now)
	return nil
}

func (p *Property) MarkAvailable(now time.Time) error {
	if p.Status == StatusArchived {
		return ErrInvalidState
	}
	p.setStatus(StatusAvailable, now)
	return nil
}

func (p *Property) MarkUnderMaintenance(now time.Time) error {
	if p.Status == StatusArchived {
		return ErrInvalidState
	}
	p.setStatus(StatusUnderMaintenance, now)
	return nil
}

func (p *Property) Archive(now time.Time) error {
	if p.Status == StatusOccupied {
		return ErrInvalidState
	}
	p.setStatus(StatusArchived, now)
	return nil
}

type UpdateParams struct {
	Title       string
	Description string
	Address     Address
	Amenities   []string
	Bedrooms    int
	Bathrooms   int
	AreaSqM     float64
	Price       money.Money
	RentingType RentingType
	Now         time.Time
}

func (p *Property) Update(params UpdateParams) error {
	if strings.TrimSpace(params.Title) == "" {
		return ErrTitleRequired
	}
	if !params.Price.IsPositive() {
		return ErrPriceInvalid
	}
	if params.Bedrooms < 1 {
		return ErrBedroomsInvalid
	}
	rentingType, ok := normalizeRentingType(params.RentingType)
	if !ok {
		return ErrRentingType
	}
	if !params.Address.Valid() {
		return ErrAddressRequired
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	p.Title = strings.TrimSpace(params.Title)
	p.Description = strings.TrimSpace(params.Description)
	p.Address = params.Address
	p.Amenities = append([]string(nil), params.Amenities...)
	p.Bedrooms = params.Bedrooms
	p.Bathrooms = params.Bathrooms
	p.AreaSqM = params.AreaSqM
	p.Price = params.Price
	p.RentingType = rentingType
	p.UpdatedAt = now
	p.Record(PropertyUpdated{PropertyID: p.ID, At: now})
	return nil
}

func (p *Property) AttachPhoto(url string, now time.Time) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	p.Photos = append(p.Photos, url)
	p.UpdatedAt = now.UTC()
}

func (p *Property) setStatus(status Status, now time.Time) {
	p.Status = status
	p.UpdatedAt = now.UTC()
	p.Record(PropertyStatusChanged{PropertyID: p.ID, Status: status, At: p.UpdatedAt})
}

func normalizeRentingType(value RentingType) (RentingType, bool) {
	switch RentingType(strings.ToUpper(strings.TrimSpace(string(value)))) {
	case RentDaily:
		return RentDaily, true
	case RentMonthly, "":
		return RentMonthly, true
	default:
		return "", false
	}
}
