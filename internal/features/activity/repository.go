package activity

import (
	"context"

	"mineaction/internal/common/models"
	"mineaction/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *Activity) error
	FindByID(ctx context.Context, id string) (*Activity, error)
	// List returns activities newest first; an empty projectID lists all.
	List(ctx context.Context, projectID string) ([]Activity, error)
	Update(ctx context.Context, id string, set bson.D) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type ActivityRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewActivityRepository(mongodb *database.MongodbDB) ActivityRepository {
	return &ActivityRepositoryImpl{
		Collection: mongodb.DB.Collection("activities"),
	}
}

func (r *ActivityRepositoryImpl) Create(ctx context.Context, activity *Activity) error {
	if activity.ID.IsZero() {
		activity.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, activity)
	return database.WriteError(err)
}

func (r *ActivityRepositoryImpl) FindByID(ctx context.Context, id string) (*Activity, error) {
	oid, err := database.ObjectID(id)
	if err != nil {
		return nil, err
	}
	var activity Activity
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&activity); err != nil {
		return nil, database.ReadError(err)
	}
	return &activity, nil
}

func (r *ActivityRepositoryImpl) List(ctx context.Context, projectID string) ([]Activity, error) {
	filter := bson.M{}
	if projectID != "" {
		filter["project_id"] = projectID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	activities := []Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *ActivityRepositoryImpl) Update(ctx context.Context, id string, set bson.D) error {
	oid, err := database.ObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return database.WriteError(err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ActivityRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := database.ObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return database.WriteError(err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ActivityRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
