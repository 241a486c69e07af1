package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainproperty "erents/internal/domain/property"
	"erents/internal/domain/shared/money"
	domainuser "erents/internal/domain/user"
)

type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	col := db.Collection("properties")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "status", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &PropertyRepository{col: col}
}

type addressDocument struct {
	Line1   string  `bson:"line1"`
	Line2   string  `bson:"line2"`
	City    string  `bson:"city"`
	Country string  `bson:"country"`
	Lat     float64 `bson:"lat"`
	Lon     float64 `bson:"lon"`
}

type moneyDocument struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

type propertyDocument struct {
	ID          string          `bson:"_id"`
	OwnerID     string          `bson:"owner_id"`
	Title       string          `bson:"title"`
	Description string          `bson:"description"`
	Address     addressDocument `bson:"address"`
	Amenities   []string        `bson:"amenities"`
	Bedrooms    int             `bson:"bedrooms"`
	Bathrooms   int             `bson:"bathrooms"`
	AreaSqM     float64         `bson:"area_sqm"`
	Price       moneyDocument   `bson:"price"`
	RentingType string          `bson:"renting_type"`
	Status      string          `bson:"status"`
	Photos      []string        `bson:"photos"`
	Version     int64           `bson:"version"`
	CreatedAt   int64           `bson:"created_at"`
	UpdatedAt   int64           `bson:"updated_at"`
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.ID) (*domainproperty.Property, error) {
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainproperty.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *PropertyRepository) Save(ctx context.Context, prop *domainproperty.Property) error {
	doc := newPropertyDocument(prop)
	filter := bson.M{"_id": doc.ID, "version": prop.Version}
	doc.Version = prop.Version + 1
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
	prop.Version = doc.Version
	return nil
}

func (r *PropertyRepository) Search(ctx context.Context, params domainproperty.SearchParams) (domainproperty.SearchResult, error) {
	opts := params.Normalized()
	filter := bson.M{}
	if opts.OwnerID != "" {
		filter["owner_id"] = opts.OwnerID
	}
	if opts.City != "" {
		filter["address.city"] = bson.M{"$regex": "^" + opts.City + "$", "$options": "i"}
	}
	if opts.Country != "" {
		filter["address.country"] = bson.M{"$regex": "^" + opts.Country + "$", "$options": "i"}
	}
	if len(opts.Statuses) > 0 {
		filter["status"] = bson.M{"$in": opts.Statuses}
	}
	if len(opts.RentingTypes) > 0 {
		filter["renting_type"] = bson.M{"$in": opts.RentingTypes}
	}
	if opts.MinBedrooms > 0 {
		filter["bedrooms"] = bson.M{"$gte": opts.MinBedrooms}
	}
	price := bson.M{}
	if opts.PriceMinMinor > 0 {
		price["$gte"] = opts.PriceMinMinor
	}
	if opts.PriceMaxMinor > 0 {
		price["$lte"] = opts.PriceMaxMinor
	}
	if len(price) > 0 {
		filter["price.amount"] = price
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainproperty.SearchResult{}, err
	}

	sort := bson.D{{Key: "price.amount", Value: 1}, {Key: "_id", Value: 1}}
	switch opts.Sort {
	case domainproperty.SortByPriceDesc:
		sort = bson.D{{Key: "price.amount", Value: -1}, {Key: "_id", Value: 1}}
	case domainproperty.SortByNewest:
		sort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}
	}
	findOpts := options.Find().
		SetSort(sort).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit))

	cursor, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return domainproperty.SearchResult{}, err
	}
	defer cursor.Close(ctx)

	items := make([]*domainproperty.Property, 0, opts.Limit)
	for cursor.Next(ctx) {
		var doc propertyDocument
		if err := cursor.Decode(&doc); err != nil {
			return domainproperty.SearchResult{}, err
		}
		items = append(items, doc.toAggregate())
	}
	if err := cursor.Err(); err != nil {
		return domainproperty.SearchResult{}, err
	}
	return domainproperty.SearchResult{Items: items, Total: int(total)}, nil
}

func newPropertyDocument(prop *domainproperty.Property) propertyDocument {
	return propertyDocument{
		ID:          string(prop.ID),
		OwnerID:     string(prop.OwnerID),
		Title:       prop.Title,
		Description: prop.Description,
		Address: addressDocument{
			Line1:   prop.Address.Line1,
			Line2:   prop.Address.Line2,
			City:    prop.Address.City,
			Country: prop.Address.Country,
			Lat:     prop.Address.Lat,
			Lon:     prop.Address.Lon,
		},
		Amenities:   prop.Amenities,
		Bedrooms:    prop.Bedrooms,
		Bathrooms:   prop.Bathrooms,
		AreaSqM:     prop.AreaSqM,
		Price:       moneyDocument{Amount: prop.Price.Amount, Currency: prop.Price.Currency},
		RentingType: string(prop.RentingType),
		Status:      string(prop.Status),
		Photos:      prop.Photos,
		Version:     prop.Version,
		CreatedAt:   prop.CreatedAt.UnixMilli(),
		UpdatedAt:   prop.UpdatedAt.UnixMilli(),
	}
}

func (d propertyDocument) toAggregate() *domainproperty.Property {
	return &domainproperty.Property{
		ID:          domainproperty.ID(d.ID),
		OwnerID:     domainuser.ID(d.OwnerID),
		Title:       d.Title,
		Description: d.Description,
		Address: domainproperty.Address{
			Line1:   d.Address.Line1,
			Line2:   d.Address.Line2,
			City:    d.Address.City,
			Country: d.Address.Country,
			Lat:     d.Address.Lat,
			Lon:     d.Address.Lon,
		},
		Amenities:   d.Amenities,
		Bedrooms:    d.Bedrooms,
		Bathrooms:   d.Bathrooms,
		AreaSqM:     d.AreaSqM,
		Price:       money.Money{Amount: d.Price.Amount, Currency: d.Price.Currency},
		RentingType: domainproperty.RentingType(d.RentingType),
		Status:      domainproperty.Status(d.Status),
		Photos:      d.Photos,
		Version:     d.Version,
		CreatedAt:   millisToTime(d.CreatedAt),
		UpdatedAt:   millisToTime(d.UpdatedAt),
	}
}

var _ domainproperty.Repository = (*PropertyRepository)(nil)
