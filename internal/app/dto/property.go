package dto

import (
	"time"

	domainproperty "erents/internal/domain/property"
)

type AddressDTO struct {
	Line1   string  `json:"line1"`
	Line2   string  `json:"line2,omitempty"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"`
}

type PropertyDetail struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Address     AddressDTO `json:"address"`
	Amenities   []string   `json:"amenities,omitempty"`
	Bedrooms    int        `json:"bedrooms"`
	Bathrooms   int        `json:"bathrooms"`
	AreaSqM     float64    `json:"area_sqm,omitempty"`
	Price       MoneyDTO   `json:"price"`
	RentingType string     `json:"renting_type"`
	Status      string     `json:"status"`
	MaxGuests   int        `json:"max_guests"`
	Photos      []string   `json:"photos,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type PropertySummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Bedrooms    int      `json:"bedrooms"`
	Price       MoneyDTO `json:"price"`
	RentingType string   `json:"renting_type"`
	Status      string   `json:"status"`
	Photo       string   `json:"photo,omitempty"`
}

type PropertyCollection struct {
	Items []PropertySummary `json:"items"`
	Total int               `json:"total"`
}

func MapPropertyDetail(p *domainproperty.Property) PropertyDetail {
	return PropertyDetail{
		ID:          string(p.ID),
		OwnerID:     string(p.OwnerID),
		Title:       p.Title,
		Description: p.Description,
		Address: AddressDTO{
			Line1:   p.Address.Line1,
			Line2:   p.Address.Line2,
			City:    p.Address.City,
			Country: p.Address.Country,
			Lat:     p.Address.Lat,
			Lon:     p.Address.Lon,
		},
		Amenities:   append([]string(nil), p.Amenities...),
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		AreaSqM:     p.AreaSqM,
		Price:       MapMoney(p.Price),
		RentingType: string(p.RentingType),
		Status:      string(p.Status),
		MaxGuests:   p.MaxGuests(),
		Photos:      append([]string(nil), p.Photos...),
		CreatedAt:   p.CreatedAt,
	}
}

func MapPropertySummary(p *domainproperty.Property) PropertySummary {
	out := PropertySummary{
		ID:          string(p.ID),
		Title:       p.Title,
		City:        p.Address.City,
		Country:     p.Address.Country,
		Bedrooms:    p.Bedrooms,
		Price:       MapMoney(p.Price),
		RentingType: string(p.RentingType),
		Status:      string(p.Status),
	}
	if len(p.Photos) > 0 {
		out.Photo = p.Photos[0]
	}
	return out
}
