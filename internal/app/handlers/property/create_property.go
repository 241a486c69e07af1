// Package property implements landlord property management and the public
// catalog queries.
package property

import (
	"context"
	"errors"
	"time"

	"erents/internal/app/apperr"
	"erents/internal/app/commands"
	"erents/internal/app/outbox"
	"erents/internal/app/uow"
	domainproperty "erents/internal/domain/property"
	domainmoney "erents/internal/domain/shared/money"
	domainuser "erents/internal/domain/user"
)

const createPropertyKey = "property.create"

var ErrUnitOfWorkRequired = errors.New("property: unit of work required")

type CreatePropertyCommand struct {
	CommandID   string
	OwnerID     string
	Title       string
	Description string
	Address     domainproperty.Address
	Amenities   []string
	Bedrooms    int
	Bathrooms   int
	AreaSqM     float64
	PriceMinor  int64
	Currency    string
	RentingType string
	Now         time.Time
}

func (c CreatePropertyCommand) Key() string { return createPropertyKey }

type CreatePropertyResult struct {
	PropertyID string `json:"property_id"`
}

type CreatePropertyHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CreatePropertyHandler) Handle(ctx context.Context, cmd CreatePropertyCommand) (*CreatePropertyResult, error) {
	unit, ctx, managed, err := beginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	owner, err := unit.Users().ByID(ctx, domainuser.ID(cmd.OwnerID))
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, apperr.NotFound("owner not found", err)
		}
		return nil, apperr.Unexpected("loading owner", err)
	}
	if !owner.IsLandlord() {
		return nil, apperr.Unauthorized("only landlords may list properties", nil)
	}

	price, err := domainmoney.New(cmd.PriceMinor, cmd.Currency)
	if err != nil {
		return nil, apperr.Validation("invalid price", err)
	}
	prop, err := domainproperty.New(domainproperty.CreateParams{
		ID:          domainproperty.ID(cmd.CommandID),
		OwnerID:     owner.ID,
		Title:       cmd.Title,
		Description: cmd.Description,
		Address:     cmd.Address,
		Amenities:   cmd.Amenities,
		Bedrooms:    cmd.Bedrooms,
		Bathrooms:   cmd.Bathrooms,
		AreaSqM:     cmd.AreaSqM,
		Price:       price,
		RentingType: domainproperty.RentingType(cmd.RentingType),
		Now:         cmd.Now,
	})
	if err != nil {
		return nil, apperr.Validation("building property", err)
	}

	if err := unit.Properties().Save(ctx, prop); err != nil {
		return nil, apperr.Unexpected("saving property", err)
	}
	if err := drainEvents(ctx, h.Outbox, h.Encoder, prop); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing property", err)
		}
		committed = true
	}
	return &CreatePropertyResult{PropertyID: string(prop.ID)}, nil
}

var _ commands.Handler[CreatePropertyCommand, *CreatePropertyResult] = (*CreatePropertyHandler)(nil)
