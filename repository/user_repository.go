package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/database"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository stores users and their 1:1 profiles.
type UserRepository interface {
	Create(ctx context.Context, user *models.User, profile *models.Profile) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.Profile, error)
	SetRole(ctx context.Context, email string, role models.Role) (*models.Profile, error)
}

type MongoUserRepository struct {
	users    *mongo.Collection
	profiles *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		users:    db.Collection(database.UsersCollection),
		profiles: db.Collection(database.ProfilesCollection),
	}
}

// Create inserts the user and then its profile. If the profile insert fails
// the user document is removed again so no half-registered account remains.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User, profile *models.Profile) error {
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("insert user: %w", translate(err))
	}
	if _, err := r.profiles.InsertOne(ctx, profile); err != nil {
		if _, delErr := r.users.DeleteOne(ctx, bson.M{"_id": user.ID}); delErr != nil {
			return fmt.Errorf("insert profile: %w (rollback failed: %v)", translate(err), delErr)
		}
		return fmt.Errorf("insert profile: %w", translate(err))
	}
	return nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *MongoUserRepository) FindProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.profiles.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile); err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// UpdateProfile writes name/phone to the profile; a changed name is mirrored
// onto the user record.
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.Profile, error) {
	now := time.Now().UTC()
	set := bson.M{"updatedAt": now}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}

	var profile models.Profile
	err := r.profiles.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&profile)
	if err != nil {
		return nil, translate(err)
	}

	delete(set, "updatedAt")
	if len(set) > 0 {
		set["updatedAt"] = now
		if _, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set}); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return &profile, nil
}

func (r *MongoUserRepository) SetRole(ctx context.Context, email string, role models.Role) (*models.Profile, error) {
	var profile models.Profile
	err := r.profiles.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&profile)
	if err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}
