package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainmaintenance "erents/internal/domain/maintenance"
	domainproperty "erents/internal/domain/property"
	domainuser "erents/internal/domain/user"
)

type MaintenanceRepository struct {
	col *mongo.Collection
}

func NewMaintenanceRepository(db *mongo.Database) *MaintenanceRepository {
	col := db.Collection("maintenance_tickets")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "status", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &MaintenanceRepository{col: col}
}

type ticketDocument struct {
	ID          string `bson:"_id"`
	PropertyID  string `bson:"property_id"`
	ReporterID  string `bson:"reporter_id"`
	Title       string `bson:"title"`
	Description string `bson:"description"`
	Priority    string `bson:"priority"`
	Status      string `bson:"status"`
	Resolution  string `bson:"resolution"`
	CreatedAt   int64  `bson:"created_at"`
	UpdatedAt   int64  `bson:"updated_at"`
}

func (r *MaintenanceRepository) ByID(ctx context.Context, id domainmaintenance.TicketID) (*domainmaintenance.Ticket, error) {
	var doc ticketDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainmaintenance.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *MaintenanceRepository) ListByProperty(ctx context.Context, propertyID domainproperty.ID) ([]*domainmaintenance.Ticket, error) {
	return r.list(ctx, bson.M{"property_id": propertyID})
}

func (r *MaintenanceRepository) ListByReporter(ctx context.Context, reporterID domainuser.ID) ([]*domainmaintenance.Ticket, error) {
	return r.list(ctx, bson.M{"reporter_id": reporterID})
}

func (r *MaintenanceRepository) Save(ctx context.Context, ticket *domainmaintenance.Ticket) error {
	doc := ticketDocument{
		ID:          string(ticket.ID),
		PropertyID:  string(ticket.PropertyID),
		ReporterID:  string(ticket.ReporterID),
		Title:       ticket.Title,
		Description: ticket.Description,
		Priority:    string(ticket.Priority),
		Status:      string(ticket.Status),
		Resolution:  ticket.Resolution,
		CreatedAt:   ticket.CreatedAt.UnixMilli(),
		UpdatedAt:   ticket.UpdatedAt.UnixMilli(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *MaintenanceRepository) list(ctx context.Context, filter bson.M) ([]*domainmaintenance.Ticket, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domainmaintenance.Ticket, 0)
	for cursor.Next(ctx) {
		var doc ticketDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (d ticketDocument) toAggregate() *domainmaintenance.Ticket {
	return &domainmaintenance.Ticket{
		ID:          domainmaintenance.TicketID(d.ID),
		PropertyID:  domainproperty.ID(d.PropertyID),
		ReporterID:  domainuser.ID(d.ReporterID),
		Title:       d.Title,
		Description: d.Description,
		Priority:    domainmaintenance.Priority(d.Priority),
		Status:      domainmaintenance.Status(d.Status),
		Resolution:  d.Resolution,
		CreatedAt:   millisToTime(d.CreatedAt),
		UpdatedAt:   millisToTime(d.UpdatedAt),
	}
}

var _ domainmaintenance.Repository = (*MaintenanceRepository)(nil)
