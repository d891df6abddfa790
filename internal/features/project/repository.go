package project

import (
	"context"

	"mineaction/internal/common/models"
	"mineaction/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	ListByUser(ctx context.Context, uid string) ([]Project, error)
	Update(ctx context.Context, id string, set bson.D) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type ProjectRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewProjectRepository(mongodb *database.MongodbDB) ProjectRepository {
	return &ProjectRepositoryImpl{
		Collection: mongodb.DB.Collection("projects"),
	}
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *Project) error {
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, project)
	return database.WriteError(err)
}

func (r *ProjectRepositoryImpl) FindByID(ctx context.Context, id string) (*Project, error) {
	oid, err := database.ObjectID(id)
	if err != nil {
		return nil, err
	}
	var project Project
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&project); err != nil {
		return nil, database.ReadError(err)
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) List(ctx context.Context) ([]Project, error) {
	return r.find(ctx, bson.M{})
}

// ListByUser returns projects the user created or belongs to. One query
// covers both, so a creator who is also a member appears once.
func (r *ProjectRepositoryImpl) ListByUser(ctx context.Context, uid string) ([]Project, error) {
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"created_by": uid},
		bson.M{"users.id": uid},
	}})
}

func (r *ProjectRepositoryImpl) find(ctx context.Context, filter bson.M) ([]Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	projects := []Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepositoryImpl) Update(ctx context.Context, id string, set bson.D) error {
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

func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id string) error {
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

func (r *ProjectRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "users.id", Value: 1}}},
	})
	return err
}
