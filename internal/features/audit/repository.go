package audit

import (
	"context"

	"mineaction/internal/common/models"
	"mineaction/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, q Query) ([]models.AuditLog, error)
	EnsureIndexes(ctx context.Context) error
}

type AuditRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAuditRepository(mongodb *database.MongodbDB) AuditRepository {
	return &AuditRepositoryImpl{
		Collection: mongodb.DB.Collection("audit_logs"),
	}
}

func (r *AuditRepositoryImpl) Create(ctx context.Context, log *models.AuditLog) error {
	_, err := r.Collection.InsertOne(ctx, log)
	return database.WriteError(err)
}

func (r *AuditRepositoryImpl) List(ctx context.Context, q Query) ([]models.AuditLog, error) {
	filter := bson.M{}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	if q.EntityID != "" {
		filter["entity_id"] = q.EntityID
	}
	if q.UserID != "" {
		filter["user_id"] = q.UserID
	}
	if q.Start != nil || q.End != nil {
		window := bson.M{}
		if q.Start != nil {
			window["$gte"] = *q.Start
		}
		if q.End != nil {
			window["$lte"] = *q.End
		}
		filter["timestamp"] = window
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	logs := []models.AuditLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *AuditRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "entity_id", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	return err
}
