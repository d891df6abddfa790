package role

import (
	"context"

	"mineaction/internal/common/models"
	"mineaction/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RoleRepository interface {
	Create(ctx context.Context, role *models.RoleDefinition) error
	FindByID(ctx context.Context, id string) (*models.RoleDefinition, error)
	List(ctx context.Context) ([]models.RoleDefinition, error)
	UpdateRoutes(ctx context.Context, id string, routes []string) error
	EnsureIndexes(ctx context.Context) error
}

type RoleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRoleRepository(mongodb *database.MongodbDB) RoleRepository {
	return &RoleRepositoryImpl{
		Collection: mongodb.DB.Collection("roles"),
	}
}

func (r *RoleRepositoryImpl) Create(ctx context.Context, role *models.RoleDefinition) error {
	_, err := r.Collection.InsertOne(ctx, role)
	return database.WriteError(err)
}

func (r *RoleRepositoryImpl) FindByID(ctx context.Context, id string) (*models.RoleDefinition, error) {
	var role models.RoleDefinition
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&role); err != nil {
		return nil, database.ReadError(err)
	}
	return &role, nil
}

// List returns stored roles in insertion order.
func (r *RoleRepositoryImpl) List(ctx context.Context) ([]models.RoleDefinition, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	roles := []models.RoleDefinition{}
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *RoleRepositoryImpl) UpdateRoutes(ctx context.Context, id string, routes []string) error {
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"routes": routes}})
	if err != nil {
		return database.WriteError(err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *RoleRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
