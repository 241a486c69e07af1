package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"erents/internal/app/apperr"
	"erents/internal/app/dto"
	handlersupport "erents/internal/app/handlers/support"
	"erents/internal/app/queries"
	"erents/internal/app/uow"
	domainproperty "erents/internal/domain/property"
	domainuser "erents/internal/domain/user"
)

const (
	listTenantBookingsKey   = "booking.list.tenant"
	listPropertyBookingsKey = "booking.list.property"
)

type ListTenantBookingsQuery struct {
	TenantID string
}

func (q ListTenantBookingsQuery) Key() string { return listTenantBookingsKey }

type ListTenantBookingsHandler struct {
	UoWFactory uow.Factory
	Logger     *slog.Logger
}

func (h *ListTenantBookingsHandler) Handle(ctx context.Context, q ListTenantBookingsQuery) (dto.BookingCollection, error) {
	tenantID := strings.TrimSpace(q.TenantID)
	if tenantID == "" {
		return dto.BookingCollection{}, errors.New("tenant id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	stays, err := unit.Bookings().ListByTenant(execCtx, domainuser.ID(tenantID))
	if err != nil {
		return dto.BookingCollection{}, apperr.Unexpected("listing bookings", err)
	}

	cache := make(map[domainproperty.ID]*domainproperty.Property)
	items := make([]dto.BookingSummary, 0, len(stays))
	for _, stay := range stays {
		prop, ok := cache[stay.PropertyID]
		if !ok {
			prop, err = unit.Properties().ByID(execCtx, stay.PropertyID)
			if err != nil {
				prop = nil
				if h.Logger != nil {
					h.Logger.Warn("property snapshot missing for booking", "booking_id", stay.ID, "property_id", stay.PropertyID, "error", err)
				}
			}
			cache[stay.PropertyID] = prop
		}
		items = append(items, dto.MapBookingSummary(stay, prop))
	}
	return dto.BookingCollection{Items: items}, nil
}

type ListPropertyBookingsQuery struct {
	PropertyID string
	ActorID    string
}

func (q ListPropertyBookingsQuery) Key() string { return listPropertyBookingsKey }

type ListPropertyBookingsHandler struct {
	UoWFactory uow.Factory
}

func (h *ListPropertyBookingsHandler) Handle(ctx context.Context, q ListPropertyBookingsQuery) (dto.BookingCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	prop, err := unit.Properties().ByID(execCtx, domainproperty.ID(q.PropertyID))
	if err != nil {
		if errors.Is(err, domainproperty.ErrNotFound) {
			return dto.BookingCollection{}, apperr.NotFound("property not found", err)
		}
		return dto.BookingCollection{}, apperr.Unexpected("loading property", err)
	}
	if prop.OwnerID != domainuser.ID(q.ActorID) {
		return dto.BookingCollection{}, apperr.Unauthorized("only the owner may list a property's bookings", nil)
	}

	stays, err := unit.Bookings().ListByProperty(execCtx, prop.ID)
	if err != nil {
		return dto.BookingCollection{}, apperr.Unexpected("listing bookings", err)
	}
	items := make([]dto.BookingSummary, 0, len(stays))
	for _, stay := range stays {
		items = append(items, dto.MapBookingSummary(stay, prop))
	}
	return dto.BookingCollection{Items: items}, nil
}

var _ queries.Handler[ListTenantBookingsQuery, dto.BookingCollection] = (*ListTenantBookingsHandler)(nil)
var _ queries.Handler[ListPropertyBookingsQuery, dto.BookingCollection] = (*ListPropertyBookingsHandler)(nil)
