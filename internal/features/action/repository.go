package action

import (
	"context"

	"mineaction/internal/common/models"
	"mineaction/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ActionRepository interface {
	Create(ctx context.Context, action *Action) error
	FindByID(ctx context.Context, id string) (*Action, error)
	ListByActivity(ctx context.Context, activityID string) ([]Action, error)
	ListAll(ctx context.Context) ([]Action, error)
	Update(ctx context.Context, id string, set bson.D) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type ActionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewActionRepository(mongodb *database.MongodbDB) ActionRepository {
	return &ActionRepositoryImpl{
		Collection: mongodb.DB.Collection("actions"),
	}
}

func (r *ActionRepositoryImpl) Create(ctx context.Context, action *Action) error {
	if action.ID.IsZero() {
		action.ID = primitive.NewObjectID()
	}
	if action.Comments == nil {
		action.Comments = []ActionComment{}
	}
	if action.Evidence == nil {
		action.Evidence = []ActionEvidence{}
	}
	_, err := r.Collection.InsertOne(ctx, action)
	return database.WriteError(err)
}

func (r *ActionRepositoryImpl) FindByID(ctx context.Context, id string) (*Action, error) {
	oid, err := database.ObjectID(id)
	if err != nil {
		return nil, err
	}
	var action Action
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&action)
	if err != nil {
		return nil, database.ReadError(err)
	}
	return &action, nil
}

func (r *ActionRepositoryImpl) ListByActivity(ctx context.Context, activityID string) ([]Action, error) {
	return r.list(ctx, bson.M{"activity_id": activityID})
}

// ListAll returns every action newest first. Filters are applied by the
// caller on the fetched slice.
func (r *ActionRepositoryImpl) ListAll(ctx context.Context) ([]Action, error) {
	return r.list(ctx, bson.M{})
}

func (r *ActionRepositoryImpl) list(ctx context.Context, filter bson.M) ([]Action, error) {
	cursor, err := r.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	actions := []Action{}
	for cursor.Next(ctx) {
		var a Action
		if err := cursor.Decode(&a); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, cursor.Err()
}

func (r *ActionRepositoryImpl) Update(ctx context.Context, id string, set bson.D) error {
	oid, err := database.ObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.Collection.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return database.WriteError(err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ActionRepositoryImpl) Delete(ctx context.Context, id string) error {
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

func (r *ActionRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "activity_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}
