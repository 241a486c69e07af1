package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainproperty "erents/internal/domain/property"
	"erents/internal/domain/shared/daterange"
	domaintenancy "erents/internal/domain/tenancy"
	domainuser "erents/internal/domain/user"
)

type TenancyRepository struct {
	col *mongo.Collection
}

func NewTenancyRepository(db *mongo.Database) *TenancyRepository {
	col := db.Collection("tenancies")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "status", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &TenancyRepository{col: col}
}

type tenancyDocument struct {
	ID         string        `bson:"_id"`
	PropertyID string        `bson:"property_id"`
	TenantID   string        `bson:"tenant_id"`
	Lease      rangeDocument `bson:"lease"`
	RequestID  string        `bson:"request_id"`
	Status     string        `bson:"status"`
	CreatedAt  int64         `bson:"created_at"`
	EndedAt    int64         `bson:"ended_at"`
}

func (r *TenancyRepository) ByID(ctx context.Context, id domaintenancy.TenancyID) (*domaintenancy.Tenancy, error) {
	var doc tenancyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaintenancy.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *TenancyRepository) ActiveByProperty(ctx context.Context, propertyID domainproperty.ID) (*domaintenancy.Tenancy, error) {
	filter := bson.M{"property_id": propertyID, "status": string(domaintenancy.StatusActive)}
	var doc tenancyDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaintenancy.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *TenancyRepository) ActiveEndingBefore(ctx context.Context, now time.Time) ([]*domaintenancy.Tenancy, error) {
	filter := bson.M{
		"status":    string(domaintenancy.StatusActive),
		"lease.end": bson.M{"$lte": now.UTC().UnixMilli()},
	}
	return r.list(ctx, filter)
}

func (r *TenancyRepository) ListByTenant(ctx context.Context, tenantID domainuser.ID) ([]*domaintenancy.Tenancy, error) {
	return r.list(ctx, bson.M{"tenant_id": tenantID})
}

func (r *TenancyRepository) Save(ctx context.Context, lease *domaintenancy.Tenancy) error {
	doc := tenancyDocument{
		ID:         string(lease.ID),
		PropertyID: string(lease.PropertyID),
		TenantID:   string(lease.TenantID),
		Lease:      rangeDocument{Start: lease.Lease.Start.UnixMilli(), End: lease.Lease.End.UnixMilli()},
		RequestID:  lease.RequestID,
		Status:     string(lease.Status),
		CreatedAt:  lease.CreatedAt.UnixMilli(),
	}
	if !lease.EndedAt.IsZero() {
		doc.EndedAt = lease.EndedAt.UnixMilli()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *TenancyRepository) list(ctx context.Context, filter bson.M) ([]*domaintenancy.Tenancy, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domaintenancy.Tenancy, 0)
	for cursor.Next(ctx) {
		var doc tenancyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (d tenancyDocument) toAggregate() *domaintenancy.Tenancy {
	lease := &domaintenancy.Tenancy{
		ID:         domaintenancy.TenancyID(d.ID),
		PropertyID: domainproperty.ID(d.PropertyID),
		TenantID:   domainuser.ID(d.TenantID),
		Lease:      daterange.DateRange{Start: millisToTime(d.Lease.Start), End: millisToTime(d.Lease.End)},
		RequestID:  d.RequestID,
		Status:     domaintenancy.Status(d.Status),
		CreatedAt:  millisToTime(d.CreatedAt),
	}
	if d.EndedAt != 0 {
		lease.EndedAt = millisToTime(d.EndedAt)
	}
	return lease
}

var _ domaintenancy.Repository = (*TenancyRepository)(nil)
