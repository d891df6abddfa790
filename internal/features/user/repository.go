package user

import (
	"context"

	"mineaction/internal/common/models"
	"mineaction/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	FindByID(ctx context.Context, uid string) (*UserRecord, error)
	Create(ctx context.Context, user *UserRecord) error
	SetRole(ctx context.Context, uid, role string) error
	List(ctx context.Context) ([]UserRecord, error)
}

type UserRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewUserRepository(mongodb *database.MongodbDB) UserRepository {
	return &UserRepositoryImpl{
		Collection: mongodb.DB.Collection("users"),
	}
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, uid string) (*UserRecord, error) {
	var user UserRecord
	err := r.Collection.FindOne(ctx, bson.M{"_id": uid}).Decode(&user)
	if err != nil {
		return nil, database.ReadError(err)
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *UserRecord) error {
	_, err := r.Collection.InsertOne(ctx, user)
	return database.WriteError(err)
}

func (r *UserRepositoryImpl) SetRole(ctx context.Context, uid, role string) error {
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return database.WriteError(err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) List(ctx context.Context) ([]UserRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "email", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	users := []UserRecord{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
