package property

import (
	"context"
	"time"

	"erents/internal/app/apperr"
	"erents/internal/app/commands"
	"erents/internal/app/outbox"
	"erents/internal/app/uow"
	domainproperty "erents/internal/domain/property"
	domainmoney "erents/internal/domain/shared/money"
)

const (
	updatePropertyKey       = "property.update"
	changePropertyStatusKey = "property.status"
)

type UpdatePropertyCommand struct {
	PropertyID  string
	ActorID     string
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

func (c UpdatePropertyCommand) Key() string { return updatePropertyKey }

type UpdatePropertyResult struct {
	PropertyID string `json:"property_id"`
}

type UpdatePropertyHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *UpdatePropertyHandler) Handle(ctx context.Context, cmd UpdatePropertyCommand) (*UpdatePropertyResult, error) {
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

	prop, err := loadOwned(ctx, unit, cmd.PropertyID, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	price, err := domainmoney.New(cmd.PriceMinor, cmd.Currency)
	if err != nil {
		return nil, apperr.Validation("invalid price", err)
	}
	if err := prop.Update(domainproperty.UpdateParams{
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
	}); err != nil {
		return nil, apperr.Validation("updating property", err)
	}

	if err := unit.Properties().Save(ctx, prop); err != nil {
		return nil, apperr.Unexpected("saving property", err)
	}
	if err := drainEvents(ctx, h.Outbox, h.Encoder, prop); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing update", err)
		}
		committed = true
	}
	return &UpdatePropertyResult{PropertyID: string(prop.ID)}, nil
}

// StatusAction names the owner-driven status transitions.
type StatusAction string

const (
	ActionList        StatusAction = "LIST"
	ActionMaintenance StatusAction = "MAINTENANCE"
	ActionArchive     StatusAction = "ARCHIVE"
)

type ChangeStatusCommand struct {
	PropertyID string
	ActorID    string
	Action     StatusAction
	Now        time.Time
}

func (c ChangeStatusCommand) Key() string { return changePropertyStatusKey }

type ChangeStatusResult struct {
	PropertyID string `json:"property_id"`
	Status     string `json:"status"`
}

type ChangeStatusHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *ChangeStatusHandler) Handle(ctx context.Context, cmd ChangeStatusCommand) (*ChangeStatusResult, error) {
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

	now := cmd.Now
	if now.IsZero() {
		now = time.Now()
	}

	prop, err := loadOwned(ctx, unit, cmd.PropertyID, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	switch cmd.Action {
	case ActionList:
		err = prop.MarkAvailable(now)
	case ActionMaintenance:
		err = prop.MarkUnderMaintenance(now)
	case ActionArchive:
		err = prop.Archive(now)
	default:
		return nil, apperr.Validation("unknown status action", nil)
	}
	if err != nil {
		return nil, apperr.InvalidState("changing property status", err)
	}

	if err := unit.Properties().Save(ctx, prop); err != nil {
		return nil, apperr.Unexpected("saving property", err)
	}
	if err := drainEvents(ctx, h.Outbox, h.Encoder, prop); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing status change", err)
		}
		committed = true
	}
	return &ChangeStatusResult{PropertyID: string(prop.ID), Status: string(prop.Status)}, nil
}

var _ commands.Handler[UpdatePropertyCommand, *UpdatePropertyResult] = (*UpdatePropertyHandler)(nil)
var _ commands.Handler[ChangeStatusCommand, *ChangeStatusResult] = (*ChangeStatusHandler)(nil)
