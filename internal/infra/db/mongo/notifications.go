package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainnotification "erents/internal/domain/notification"
	domainuser "erents/internal/domain/user"
)

type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	col := db.Collection("notifications")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "read", Value: 1}, {Key: "created_at", Value: -1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &NotificationRepository{col: col}
}

type notificationDocument struct {
	ID          string `bson:"_id"`
	UserID      string `bson:"user_id"`
	Kind        string `bson:"kind"`
	Subject     string `bson:"subject"`
	Body        string `bson:"body"`
	AggregateID string `bson:"aggregate_id"`
	Read        bool   `bson:"read"`
	CreatedAt   int64  `bson:"created_at"`
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID domainuser.ID, unreadOnly bool) ([]*domainnotification.Notification, error) {
	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["read"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domainnotification.Notification, 0)
	for cursor.Next(ctx) {
		var doc notificationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *NotificationRepository) Save(ctx context.Context, note *domainnotification.Notification) error {
	doc := notificationDocument{
		ID:          string(note.ID),
		UserID:      string(note.UserID),
		Kind:        string(note.Kind),
		Subject:     note.Subject,
		Body:        note.Body,
		AggregateID: note.AggregateID,
		Read:        note.Read,
		CreatedAt:   note.CreatedAt.UnixMilli(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id domainnotification.NotificationID, userID domainuser.ID) error {
	filter := bson.M{"_id": id, "user_id": userID}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainnotification.ErrNotFound
	}
	return nil
}

func (d notificationDocument) toAggregate() *domainnotification.Notification {
	return &domainnotification.Notification{
		ID:          domainnotification.NotificationID(d.ID),
		UserID:      domainuser.ID(d.UserID),
		Kind:        domainnotification.Kind(d.Kind),
		Subject:     d.Subject,
		Body:        d.Body,
		AggregateID: d.AggregateID,
		Read:        d.Read,
		CreatedAt:   millisToTime(d.CreatedAt),
	}
}

var _ domainnotification.Repository = (*NotificationRepository)(nil)
