package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainmessaging "erents/internal/domain/messaging"
	domainproperty "erents/internal/domain/property"
	domainuser "erents/internal/domain/user"
)

type ConversationRepository struct {
	threads  *mongo.Collection
	messages *mongo.Collection
}

func NewConversationRepository(db *mongo.Database) *ConversationRepository {
	threads := db.Collection("conversations")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "property_id", Value: 1}, {Key: "tenant_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = threads.Indexes().CreateOne(context.Background(), idx)

	messages := db.Collection("messages")
	msgIdx := mongo.IndexModel{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: -1}}}
	_, _ = messages.Indexes().CreateOne(context.Background(), msgIdx)

	return &ConversationRepository{threads: threads, messages: messages}
}

type conversationDocument struct {
	ID            string `bson:"_id"`
	PropertyID    string `bson:"property_id"`
	TenantID      string `bson:"tenant_id"`
	LandlordID    string `bson:"landlord_id"`
	CreatedAt     int64  `bson:"created_at"`
	LastMessageAt int64  `bson:"last_message_at"`
}

type messageDocument struct {
	ID             string `bson:"_id"`
	ConversationID string `bson:"conversation_id"`
	SenderID       string `bson:"sender_id"`
	Text           string `bson:"text"`
	CreatedAt      int64  `bson:"created_at"`
}

func (r *ConversationRepository) ByID(ctx context.Context, id domainmessaging.ConversationID) (*domainmessaging.Conversation, error) {
	var doc conversationDocument
	if err := r.threads.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainmessaging.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ConversationRepository) ForProperty(ctx context.Context, propertyID domainproperty.ID, tenantID domainuser.ID) (*domainmessaging.Conversation, error) {
	filter := bson.M{"property_id": propertyID, "tenant_id": tenantID}
	var doc conversationDocument
	if err := r.threads.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainmessaging.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ConversationRepository) ListByUser(ctx context.Context, userID domainuser.ID) ([]*domainmessaging.Conversation, error) {
	filter := bson.M{"$or": []bson.M{{"tenant_id": userID}, {"landlord_id": userID}}}
	opts := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.threads.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domainmessaging.Conversation, 0)
	for cursor.Next(ctx) {
		var doc conversationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *ConversationRepository) Save(ctx context.Context, thread *domainmessaging.Conversation) error {
	doc := conversationDocument{
		ID:            string(thread.ID),
		PropertyID:    string(thread.PropertyID),
		TenantID:      string(thread.TenantID),
		LandlordID:    string(thread.LandlordID),
		CreatedAt:     thread.CreatedAt.UnixMilli(),
		LastMessageAt: thread.LastMessageAt.UnixMilli(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.threads.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *ConversationRepository) AppendMessage(ctx context.Context, msg *domainmessaging.Message) error {
	doc := messageDocument{
		ID:             string(msg.ID),
		ConversationID: string(msg.ConversationID),
		SenderID:       string(msg.SenderID),
		Text:           msg.Text,
		CreatedAt:      msg.CreatedAt.UnixMilli(),
	}
	_, err := r.messages.InsertOne(ctx, doc)
	return err
}

func (r *ConversationRepository) Messages(ctx context.Context, id domainmessaging.ConversationID, limit, offset int) ([]*domainmessaging.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cursor, err := r.messages.Find(ctx, bson.M{"conversation_id": id}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domainmessaging.Message, 0)
	for cursor.Next(ctx) {
		var doc messageDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, &domainmessaging.Message{
			ID:             domainmessaging.MessageID(doc.ID),
			ConversationID: domainmessaging.ConversationID(doc.ConversationID),
			SenderID:       domainuser.ID(doc.SenderID),
			Text:           doc.Text,
			CreatedAt:      millisToTime(doc.CreatedAt),
		})
	}
	return out, cursor.Err()
}

func (d conversationDocument) toAggregate() *domainmessaging.Conversation {
	return &domainmessaging.Conversation{
		ID:            domainmessaging.ConversationID(d.ID),
		PropertyID:    domainproperty.ID(d.PropertyID),
		TenantID:      domainuser.ID(d.TenantID),
		LandlordID:    domainuser.ID(d.LandlordID),
		CreatedAt:     millisToTime(d.CreatedAt),
		LastMessageAt: millisToTime(d.LastMessageAt),
	}
}

var _ domainmessaging.Repository = (*ConversationRepository)(nil)
