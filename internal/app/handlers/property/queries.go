package property

import (
	"context"
	"errors"

	"erents/internal/app/apperr"
	"erents/internal/app/dto"
	handlersupport "erents/internal/app/handlers/support"
	"erents/internal/app/queries"
	"erents/internal/app/uow"
	domainproperty "erents/internal/domain/property"
)

const (
	getPropertyKey         = "property.get"
	searchPropertiesKey    = "property.search"
	listOwnerPropertiesKey = "property.list.owner"
)

type GetPropertyQuery struct {
	PropertyID string
}

func (q GetPropertyQuery) Key() string { return getPropertyKey }

type GetPropertyHandler struct {
	UoWFactory uow.Factory
}

func (h *GetPropertyHandler) Handle(ctx context.Context, q GetPropertyQuery) (dto.PropertyDetail, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.PropertyDetail{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	prop, err := unit.Properties().ByID(execCtx, domainproperty.ID(q.PropertyID))
	if err != nil {
		if errors.Is(err, domainproperty.ErrNotFound) {
			return dto.PropertyDetail{}, apperr.NotFound("property not found", err)
		}
		return dto.PropertyDetail{}, apperr.Unexpected("loading property", err)
	}
	return dto.MapPropertyDetail(prop), nil
}

type SearchPropertiesQuery struct {
	Params domainproperty.SearchParams
}

func (q SearchPropertiesQuery) Key() string { return searchPropertiesKey }

type SearchPropertiesHandler struct {
	UoWFactory uow.Factory
}

func (h *SearchPropertiesHandler) Handle(ctx context.Context, q SearchPropertiesQuery) (dto.PropertyCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.PropertyCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	result, err := unit.Properties().Search(execCtx, q.Params.Normalized())
	if err != nil {
		return dto.PropertyCollection{}, apperr.Unexpected("searching properties", err)
	}
	items := make([]dto.PropertySummary, 0, len(result.Items))
	for _, prop := range result.Items {
		items = append(items, dto.MapPropertySummary(prop))
	}
	return dto.PropertyCollection{Items: items, Total: result.Total}, nil
}

type ListOwnerPropertiesQuery struct {
	OwnerID string
}

func (q ListOwnerPropertiesQuery) Key() string { return listOwnerPropertiesKey }

type ListOwnerPropertiesHandler struct {
	UoWFactory uow.Factory
}

func (h *ListOwnerPropertiesHandler) Handle(ctx context.Context, q ListOwnerPropertiesQuery) (dto.PropertyCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.PropertyCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	result, err := unit.Properties().Search(execCtx, domainproperty.SearchParams{
		OwnerID: q.OwnerID,
	}.Normalized())
	if err != nil {
		return dto.PropertyCollection{}, apperr.Unexpected("listing properties", err)
	}
	items := make([]dto.PropertySummary, 0, len(result.Items))
	for _, prop := range result.Items {
		items = append(items, dto.MapPropertySummary(prop))
	}
	return dto.PropertyCollection{Items: items, Total: result.Total}, nil
}

var _ queries.Handler[GetPropertyQuery, dto.PropertyDetail] = (*GetPropertyHandler)(nil)
var _ queries.Handler[SearchPropertiesQuery, dto.PropertyCollection] = (*SearchPropertiesHandler)(nil)
var _ queries.Handler[ListOwnerPropertiesQuery, dto.PropertyCollection] = (*ListOwnerPropertiesHandler)(nil)
