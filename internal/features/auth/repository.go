package auth

import (
	"context"

	"mineaction/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepository interface {
	Create(ctx context.Context, session *SessionRecord) error
	FindByID(ctx context.Context, id string) (*SessionRecord, error)
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type SessionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSessionRepository(mongodb *database.MongodbDB) SessionRepository {
	return &SessionRepositoryImpl{
		Collection: mongodb.DB.Collection("sessions"),
	}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *SessionRecord) error {
	_, err := r.Collection.InsertOne(ctx, session)
	return database.WriteError(err)
}

func (r *SessionRepositoryImpl) FindByID(ctx context.Context, id string) (*SessionRecord, error) {
	var session SessionRecord
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session); err != nil {
		return nil, database.ReadError(err)
	}
	return &session, nil
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, id string) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	return database.WriteError(err)
}

// EnsureIndexes lets Mongo expire sessions on its own.
func (r *SessionRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}
