// Package tenancy exposes lease read models.
package tenancy

import (
	"context"
	"errors"

	"erents/internal/app/apperr"
	"erents/internal/app/dto"
	handlersupport "erents/internal/app/handlers/support"
	"erents/internal/app/queries"
	"erents/internal/app/uow"
	domainproperty "erents/internal/domain/property"
	domaintenancy "erents/internal/domain/tenancy"
	domainuser "erents/internal/domain/user"
)

const (
	listTenantTenanciesKey = "tenancy.list.tenant"
	activeForPropertyKey   = "tenancy.active.property"
)

type ListTenantTenanciesQuery struct {
	TenantID string
}

func (q ListTenantTenanciesQuery) Key() string { return listTenantTenanciesKey }

type ListTenantTenanciesHandler struct {
	UoWFactory uow.Factory
}

func (h *ListTenantTenanciesHandler) Handle(ctx context.Context, q ListTenantTenanciesQuery) (dto.TenancyCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.TenancyCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Tenancies().ListByTenant(execCtx, domainuser.ID(q.TenantID))
	if err != nil {
		return dto.TenancyCollection{}, apperr.Unexpected("listing tenancies", err)
	}
	out := make([]dto.TenancySummary, 0, len(items))
	for _, lease := range items {
		out = append(out, dto.MapTenancySummary(lease))
	}
	return dto.TenancyCollection{Items: out}, nil
}

type ActiveForPropertyQuery struct {
	PropertyID string
	ActorID    string
}

func (q ActiveForPropertyQuery) Key() string { return activeForPropertyKey }

type ActiveForPropertyHandler struct {
	UoWFactory uow.Factory
}

func (h *ActiveForPropertyHandler) Handle(ctx context.Context, q ActiveForPropertyQuery) (dto.TenancySummary, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.TenancySummary{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	prop, err := unit.Properties().ByID(execCtx, domainproperty.ID(q.PropertyID))
	if err != nil {
		if errors.Is(err, domainproperty.ErrNotFound) {
			return dto.TenancySummary{}, apperr.NotFound("property not found", err)
		}
		return dto.TenancySummary{}, apperr.Unexpected("loading property", err)
	}
	if prop.OwnerID != domainuser.ID(q.ActorID) {
		return dto.TenancySummary{}, apperr.Unauthorized("only the owner may inspect the lease", nil)
	}

	lease, err := unit.Tenancies().ActiveByProperty(execCtx, prop.ID)
	if err != nil {
		if errors.Is(err, domaintenancy.ErrNotFound) {
			return dto.TenancySummary{}, apperr.NotFound("no active lease", err)
		}
		return dto.TenancySummary{}, apperr.Unexpected("loading tenancy", err)
	}
	return dto.MapTenancySummary(lease), nil
}

var _ queries.Handler[ListTenantTenanciesQuery, dto.TenancyCollection] = (*ListTenantTenanciesHandler)(nil)
var _ queries.Handler[ActiveForPropertyQuery, dto.TenancySummary] = (*ActiveForPropertyHandler)(nil)
