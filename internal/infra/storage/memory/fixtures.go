package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	domainproperty "erents/internal/domain/property"
	"erents/internal/domain/shared/money"
	domainuser "erents/internal/domain/user"
)

type userFixture struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	PasswordHash string   `json:"password_hash"`
	Roles        []string `json:"roles"`
}

type propertyFixture struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Line1       string   `json:"line1"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Amenities   []string `json:"amenities"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	AreaSqM     float64  `json:"area_sqm"`
	PriceMinor  int64    `json:"price_minor"`
	Currency    string   `json:"currency"`
	RentingType string   `json:"renting_type"`
}

type fixtureFile struct {
	Users      []userFixture     `json:"users"`
	Properties []propertyFixture `json:"properties"`
}

// LoadFixtures seeds the factory's repositories from a JSON file. A missing
// file is not an error so fresh checkouts start empty.
func (f *Factory) LoadFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if logger != nil {
				logger.Info("fixtures file not found, skipping", "path", path)
			}
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var file fixtureFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now()
	for _, fx := range file.Users {
		roles := make([]domainuser.Role, 0, len(fx.Roles))
		for _, role := range fx.Roles {
			roles = append(roles, domainuser.Role(role))
		}
		account, err := domainuser.New(domainuser.CreateParams{
			ID:           domainuser.ID(fx.ID),
			Email:        fx.Email,
			Name:         fx.Name,
			PasswordHash: fx.PasswordHash,
			Roles:        roles,
			CreatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("fixture user %s: %w", fx.ID, err)
		}
		if err := f.UsersRepo.Save(ctx, account); err != nil {
			return fmt.Errorf("fixture user %s: %w", fx.ID, err)
		}
	}

	for _, fx := range file.Properties {
		price, err := money.New(fx.PriceMinor, fx.Currency)
		if err != nil {
			return fmt.Errorf("fixture property %s: %w", fx.ID, err)
		}
		prop, err := domainproperty.New(domainproperty.CreateParams{
			ID:          domainproperty.ID(fx.ID),
			OwnerID:     domainuser.ID(fx.OwnerID),
			Title:       fx.Title,
			Description: fx.Description,
			Address: domainproperty.Address{
				Line1:   fx.Line1,
				City:    fx.City,
				Country: fx.Country,
			},
			Amenities:   fx.Amenities,
			Bedrooms:    fx.Bedrooms,
			Bathrooms:   fx.Bathrooms,
			AreaSqM:     fx.AreaSqM,
			Price:       price,
			RentingType: domainproperty.RentingType(fx.RentingType),
			Now:         now,
		})
		if err != nil {
			return fmt.Errorf("fixture property %s: %w", fx.ID, err)
		}
		prop.ClearEvents()
		if err := f.PropertiesRepo.Save(ctx, prop); err != nil {
			return fmt.Errorf("fixture property %s: %w", fx.ID, err)
		}
	}

	if logger != nil {
		logger.Info("fixtures loaded", "users", len(file.Users), "properties", len(file.Properties))
	}
	return nil
}
