package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkeep/intelligent-support-form/internal/model"
)

// TicketRepo keeps a local record of every ticket created upstream
type TicketRepo interface {
	Save(ctx context.Context, record *model.TicketRecord) error
	GetByUpstreamID(ctx context.Context, upstreamID int64) (*model.TicketRecord, error)
	ListBySession(ctx context.Context, sessionID string) ([]*model.TicketRecord, error)
}

type ticketRepo struct {
	collection *mongo.Collection
}

// NewTicketRepo creates a new ticket repository
func NewTicketRepo(db *mongo.Database) TicketRepo {
	return &ticketRepo{
		collection: db.Collection("tickets"),
	}
}

func (r *ticketRepo) Save(ctx context.Context, record *model.TicketRecord) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": record.ID}, record, opts)
	return err
}

func (r *ticketRepo) GetByUpstreamID(ctx context.Context, upstreamID int64) (*model.TicketRecord, error) {
	var record model.TicketRecord
	err := r.collection.FindOne(ctx, bson.M{"upstreamTicketId": upstreamID}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *ticketRepo) ListBySession(ctx context.Context, sessionID string) ([]*model.TicketRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*model.TicketRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
