// Package repository provides MongoDB-backed persistence for users and events.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventhub/eventhub/logging/logger"
)

// User represents a registered user. PasswordHash is the only credential
// form that ever touches storage.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*User, error)
}

type userRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewUserRepository creates a new user repository instance.
func NewUserRepository(db *mongo.Database, logger *logger.Logger) UserRepository {
	collection := db.Collection("users")

	// Unique indexes back the email/username conflict checks
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn(ctx, "failed to create user indexes", "error", err)
	}

	return &userRepository{
		collection: collection,
		logger:     logger,
	}
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *User) (*User, error) {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Races past the pre-insert lookups land here; the index name
			// in the error tells which constraint fired.
			if strings.Contains(err.Error(), "username") {
				return nil, ErrUsernameExists
			}
			return nil, ErrEmailExists
		}
		r.logger.Error(ctx, "failed to create user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info(ctx, "user created", "id", user.ID.Hex())
	return user, nil
}

// FindByID retrieves a user by ID.
func (r *userRepository) FindByID(ctx context.Context, id string) (*User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var user User
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		r.logger.Error(ctx, "failed to find user", "id", id, "error", err)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// FindByEmail retrieves a user by email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByUsername retrieves a user by username.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		r.logger.Error(ctx, "failed to find user", "error", err)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindByIDs retrieves the users matching the given ids. Missing ids are
// silently skipped; callers resolve display names best-effort.
func (r *userRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		r.logger.Error(ctx, "failed to find users", "error", err)
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*User
	if err := cursor.All(ctx, &users); err != nil {
		r.logger.Error(ctx, "failed to decode users", "error", err)
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}
