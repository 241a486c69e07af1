package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "erents/internal/domain/booking"
	domainproperty "erents/internal/domain/property"
	"erents/internal/domain/shared/daterange"
	"erents/internal/domain/shared/money"
	domainuser "erents/internal/domain/user"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	col := db.Collection("bookings")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "status", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &BookingRepository{col: col}
}

type bookingDocument struct {
	ID            string        `bson:"_id"`
	PropertyID    string        `bson:"property_id"`
	TenantID      string        `bson:"tenant_id"`
	Range         rangeDocument `bson:"range"`
	Guests        int           `bson:"guests"`
	Total         moneyDocument `bson:"total"`
	Status        string        `bson:"status"`
	PaymentStatus string        `bson:"payment_status"`
	RequestID     string        `bson:"request_id"`
	PaymentHold   string        `bson:"payment_hold"`
	CreatedAt     int64         `bson:"created_at"`
	UpdatedAt     int64         `bson:"updated_at"`
	Version       int64         `bson:"version"`
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) ByRequest(ctx context.Context, requestID string) (*domainbooking.Booking, error) {
	if requestID == "" {
		return nil, domainbooking.ErrNotFound
	}
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"request_id": requestID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, stay *domainbooking.Booking) error {
	doc := newBookingDocument(stay)
	filter := bson.M{"_id": doc.ID, "version": stay.Version}
	doc.Version = stay.Version + 1
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
	stay.Version = doc.Version
	return nil
}

func (r *BookingRepository) ListByTenant(ctx context.Context, tenantID domainuser.ID) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"tenant_id": tenantID})
}

func (r *BookingRepository) ListByProperty(ctx context.Context, propertyID domainproperty.ID) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"property_id": propertyID})
}

func (r *BookingRepository) ClaimedOverlapping(ctx context.Context, propertyID domainproperty.ID, dr daterange.DateRange) ([]*domainbooking.Booking, error) {
	filter := bson.M{
		"property_id": propertyID,
		"status": bson.M{"$in": []string{
			string(domainbooking.StatusUpcoming),
			string(domainbooking.StatusActive),
		}},
		"range.start": bson.M{"$lt": dr.End.UnixMilli()},
		"range.end":   bson.M{"$gt": dr.Start.UnixMilli()},
	}
	return r.list(ctx, filter)
}

func (r *BookingRepository) DueForAdvance(ctx context.Context, now time.Time) ([]*domainbooking.Booking, error) {
	ms := now.UTC().UnixMilli()
	filter := bson.M{"$or": []bson.M{
		{"status": string(domainbooking.StatusUpcoming), "range.start": bson.M{"$lte": ms}},
		{"status": string(domainbooking.StatusActive), "range.end": bson.M{"$lte": ms}},
	}}
	return r.list(ctx, filter)
}

func (r *BookingRepository) list(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domainbooking.Booking, 0)
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func newBookingDocument(stay *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:            string(stay.ID),
		PropertyID:    string(stay.PropertyID),
		TenantID:      string(stay.TenantID),
		Range:         rangeDocument{Start: stay.Range.Start.UnixMilli(), End: stay.Range.End.UnixMilli()},
		Guests:        stay.Guests,
		Total:         moneyDocument{Amount: stay.Total.Amount, Currency: stay.Total.Currency},
		Status:        string(stay.Status),
		PaymentStatus: string(stay.PaymentStatus),
		RequestID:     stay.RequestID,
		PaymentHold:   stay.PaymentHold,
		CreatedAt:     stay.CreatedAt.UnixMilli(),
		UpdatedAt:     stay.UpdatedAt.UnixMilli(),
		Version:       stay.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:            domainbooking.BookingID(d.ID),
		PropertyID:    domainproperty.ID(d.PropertyID),
		TenantID:      domainuser.ID(d.TenantID),
		Range:         daterange.DateRange{Start: millisToTime(d.Range.Start), End: millisToTime(d.Range.End)},
		Guests:        d.Guests,
		Total:         money.Money{Amount: d.Total.Amount, Currency: d.Total.Currency},
		Status:        domainbooking.Status(d.Status),
		PaymentStatus: domainbooking.PaymentStatus(d.PaymentStatus),
		RequestID:     d.RequestID,
		PaymentHold:   d.PaymentHold,
		CreatedAt:     millisToTime(d.CreatedAt),
		UpdatedAt:     millisToTime(d.UpdatedAt),
		Version:       d.Version,
	}
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
