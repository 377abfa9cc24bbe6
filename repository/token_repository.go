package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/database"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type TokenRepository interface {
	Create(ctx context.Context, token *models.Token) error
	Find(ctx context.Context, id string) (*models.Token, error)
	Touch(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type MongoTokenRepository struct {
	tokens *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) *MongoTokenRepository {
	return &MongoTokenRepository{tokens: db.Collection(database.TokensCollection)}
}

func (r *MongoTokenRepository) Create(ctx context.Context, token *models.Token) error {
	if _, err := r.tokens.InsertOne(ctx, token); err != nil {
		return fmt.Errorf("insert token: %w", translate(err))
	}
	return nil
}

func (r *MongoTokenRepository) Find(ctx context.Context, id string) (*models.Token, error) {
	var token models.Token
	if err := r.tokens.FindOne(ctx, bson.M{"_id": id}).Decode(&token); err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (r *MongoTokenRepository) Touch(ctx context.Context, id string, at time.Time) error {
	_, err := r.tokens.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"lastUsedAt": at}})
	return translate(err)
}

func (r *MongoTokenRepository) Delete(ctx context.Context, id string) error {
	result, err := r.tokens.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
