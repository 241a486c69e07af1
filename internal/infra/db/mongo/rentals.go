package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainproperty "erents/internal/domain/property"
	domainrental "erents/internal/domain/rental"
	"erents/internal/domain/shared/daterange"
	"erents/internal/domain/shared/money"
	domainuser "erents/internal/domain/user"
)

type RentalRepository struct {
	col *mongo.Collection
}

func NewRentalRepository(db *mongo.Database) *RentalRepository {
	col := db.Collection("rental_requests")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "status", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &RentalRepository{col: col}
}

type rangeDocument struct {
	Start int64 `bson:"start"`
	End   int64 `bson:"end"`
}

type rentalDocument struct {
	ID            string        `bson:"_id"`
	PropertyID    string        `bson:"property_id"`
	TenantID      string        `bson:"tenant_id"`
	Range         rangeDocument `bson:"range"`
	Guests        int           `bson:"guests"`
	MonthlyRent   moneyDocument `bson:"monthly_rent"`
	TotalPrice    moneyDocument `bson:"total_price"`
	Status        string        `bson:"status"`
	Message       string        `bson:"message"`
	LandlordReply string        `bson:"landlord_reply"`
	RequestedAt   int64         `bson:"requested_at"`
	RespondedAt   int64         `bson:"responded_at"`
	Version       int64         `bson:"version"`
}

func (r *RentalRepository) ByID(ctx context.Context, id domainrental.RequestID) (*domainrental.Request, error) {
	var doc rentalDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrental.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *RentalRepository) Save(ctx context.Context, req *domainrental.Request) error {
	doc := newRentalDocument(req)
	filter := bson.M{"_id": doc.ID, "version": req.Version}
	doc.Version = req.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	req.Version = doc.Version
	return nil
}

func (r *RentalRepository) Delete(ctx context.Context, id domainrental.RequestID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainrental.ErrNotFound
	}
	return nil
}

func (r *RentalRepository) ListByTenant(ctx context.Context, tenantID domainuser.ID) ([]*domainrental.Request, error) {
	return r.list(ctx, bson.M{"tenant_id": tenantID})
}

func (r *RentalRepository) ListByProperty(ctx context.Context, propertyID domainproperty.ID) ([]*domainrental.Request, error) {
	return r.list(ctx, bson.M{"property_id": propertyID})
}

func (r *RentalRepository) ApprovedOverlapping(ctx context.Context, propertyID domainproperty.ID, dr daterange.DateRange, exclude domainrental.RequestID) ([]*domainrental.Request, error) {
	filter := bson.M{
		"property_id": propertyID,
		"status":      string(domainrental.StatusApproved),
		"range.start": bson.M{"$lt": dr.End.UnixMilli()},
		"range.end":   bson.M{"$gt": dr.Start.UnixMilli()},
	}
	if exclude != "" {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	return r.list(ctx, filter)
}

func (r *RentalRepository) list(ctx context.Context, filter bson.M) ([]*domainrental.Request, error) {
	opts := options.Find().SetSort(bson.D{{Key: "requested_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domainrental.Request, 0)
	for cursor.Next(ctx) {
		var doc rentalDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func newRentalDocument(req *domainrental.Request) rentalDocument {
	doc := rentalDocument{
		ID:            string(req.ID),
		PropertyID:    string(req.PropertyID),
		TenantID:      string(req.TenantID),
		Range:         rangeDocument{Start: req.Range.Start.UnixMilli(), End: req.Range.End.UnixMilli()},
		Guests:        req.Guests,
		MonthlyRent:   moneyDocument{Amount: req.MonthlyRent.Amount, Currency: req.MonthlyRent.Currency},
		TotalPrice:    moneyDocument{Amount: req.TotalPrice.Amount, Currency: req.TotalPrice.Currency},
		Status:        string(req.Status),
		Message:       req.Message,
		LandlordReply: req.LandlordReply,
		RequestedAt:   req.RequestedAt.UnixMilli(),
		Version:       req.Version,
	}
	if !req.RespondedAt.IsZero() {
		doc.RespondedAt = req.RespondedAt.UnixMilli()
	}
	return doc
}

func (d rentalDocument) toAggregate() *domainrental.Request {
	req := &domainrental.Request{
		ID:            domainrental.RequestID(d.ID),
		PropertyID:    domainproperty.ID(d.PropertyID),
		TenantID:      domainuser.ID(d.TenantID),
		Range:         daterange.DateRange{Start: millisToTime(d.Range.Start), End: millisToTime(d.Range.End)},
		Guests:        d.Guests,
		MonthlyRent:   money.Money{Amount: d.MonthlyRent.Amount, Currency: d.MonthlyRent.Currency},
		TotalPrice:    money.Money{Amount: d.TotalPrice.Amount, Currency: d.TotalPrice.Currency},
		Status:        domainrental.Status(d.Status),
		Message:       d.Message,
		LandlordReply: d.LandlordReply,
		RequestedAt:   millisToTime(d.RequestedAt),
		Version:       d.Version,
	}
	if d.RespondedAt != 0 {
		req.RespondedAt = millisToTime(d.RespondedAt)
	}
	return req
}

var _ domainrental.Repository = (*RentalRepository)(nil)
