package rental

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
	domainrental "erents/internal/domain/rental"
	domainuser "erents/internal/domain/user"
)

const (
	getRequestKey           = "rental.get"
	listTenantRequestsKey   = "rental.list.tenant"
	listPropertyRequestsKey = "rental.list.property"
)

type GetRequestQuery struct {
	RequestID string
	ActorID   string
}

func (q GetRequestQuery) Key() string { return getRequestKey }

type GetRequestHandler struct {
	UoWFactory uow.Factory
}

func (h *GetRequestHandler) Handle(ctx context.Context, q GetRequestQuery) (dto.RentalRequestSummary, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.RentalRequestSummary{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	req, err := unit.Rentals().ByID(execCtx, domainrental.RequestID(q.RequestID))
	if err != nil {
		if errors.Is(err, domainrental.ErrNotFound) {
			return dto.RentalRequestSummary{}, apperr.NotFound("rental request not found", err)
		}
		return dto.RentalRequestSummary{}, apperr.Unexpected("loading request", err)
	}

	prop, propErr := unit.Properties().ByID(execCtx, req.PropertyID)
	if propErr != nil && !errors.Is(propErr, domainproperty.ErrNotFound) {
		return dto.RentalRequestSummary{}, apperr.Unexpected("loading property", propErr)
	}

	// A request is visible to its two parties only.
	actor := domainuser.ID(q.ActorID)
	if req.TenantID != actor && (prop == nil || prop.OwnerID != actor) {
		return dto.RentalRequestSummary{}, apperr.Unauthorized("request is not visible to this user", nil)
	}
	return dto.MapRentalRequestSummary(req, prop), nil
}

type ListTenantRequestsQuery struct {
	TenantID string
}

func (q ListTenantRequestsQuery) Key() string { return listTenantRequestsKey }

type ListTenantRequestsHandler struct {
	UoWFactory uow.Factory
	Logger     *slog.Logger
}

func (h *ListTenantRequestsHandler) Handle(ctx context.Context, q ListTenantRequestsQuery) (dto.RentalRequestCollection, error) {
	tenantID := strings.TrimSpace(q.TenantID)
	if tenantID == "" {
		return dto.RentalRequestCollection{}, errors.New("tenant id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.RentalRequestCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	reqs, err := unit.Rentals().ListByTenant(execCtx, domainuser.ID(tenantID))
	if err != nil {
		return dto.RentalRequestCollection{}, apperr.Unexpected("listing requests", err)
	}

	cache := make(map[domainproperty.ID]*domainproperty.Property)
	items := make([]dto.RentalRequestSummary, 0, len(reqs))
	for _, req := range reqs {
		prop, err := loadProperty(execCtx, unit.Properties(), req.PropertyID, cache)
		if err != nil && h.Logger != nil {
			h.Logger.Warn("property snapshot missing for request", "request_id", req.ID, "property_id", req.PropertyID, "error", err)
		}
		items = append(items, dto.MapRentalRequestSummary(req, prop))
	}
	return dto.RentalRequestCollection{Items: items}, nil
}

type ListPropertyRequestsQuery struct {
	PropertyID string
	ActorID    string
}

func (q ListPropertyRequestsQuery) Key() string { return listPropertyRequestsKey }

type ListPropertyRequestsHandler struct {
	UoWFactory uow.Factory
}

func (h *ListPropertyRequestsHandler) Handle(ctx context.Context, q ListPropertyRequestsQuery) (dto.RentalRequestCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.RentalRequestCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	prop, err := unit.Properties().ByID(execCtx, domainproperty.ID(q.PropertyID))
	if err != nil {
		if errors.Is(err, domainproperty.ErrNotFound) {
			return dto.RentalRequestCollection{}, apperr.NotFound("property not found", err)
		}
		return dto.RentalRequestCollection{}, apperr.Unexpected("loading property", err)
	}
	if prop.OwnerID != domainuser.ID(q.ActorID) {
		return dto.RentalRequestCollection{}, apperr.Unauthorized("only the owner may list a property's requests", nil)
	}

	reqs, err := unit.Rentals().ListByProperty(execCtx, prop.ID)
	if err != nil {
		return dto.RentalRequestCollection{}, apperr.Unexpected("listing requests", err)
	}
	items := make([]dto.RentalRequestSummary, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, dto.MapRentalRequestSummary(req, prop))
	}
	return dto.RentalRequestCollection{Items: items}, nil
}

func loadProperty(
	ctx context.Context,
	repo domainproperty.Repository,
	id domainproperty.ID,
	cache map[domainproperty.ID]*domainproperty.Property,
) (*domainproperty.Property, error) {
	if prop, ok := cache[id]; ok {
		return prop, nil
	}
	prop, err := repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cache[id] = prop
	return prop, nil
}

var _ queries.Handler[GetRequestQuery, dto.RentalRequestSummary] = (*GetRequestHandler)(nil)
var _ queries.Handler[ListTenantRequestsQuery, dto.RentalRequestCollection] = (*ListTenantRequestsHandler)(nil)
var _ queries.Handler[ListPropertyRequestsQuery, dto.RentalRequestCollection] = (*ListPropertyRequestsHandler)(nil)
