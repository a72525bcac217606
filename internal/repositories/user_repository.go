package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/moodline/backend/internal/apperrors"
	"github.com/moodline/backend/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByName(ctx context.Context, name string) (*models.User, error)
	GetUserByCode(ctx context.Context, code string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	AddMutualFriends(ctx context.Context, a, b primitive.ObjectID) error
	RemoveMutualFriends(ctx context.Context, a, b primitive.ObjectID) error
	SaveTokens(ctx context.Context, id primitive.ObjectID, access, refresh string) error
	ClearTokens(ctx context.Context, id primitive.ObjectID) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("%w: insert user: %v", apperrors.ErrStore, err)
	}
	return nil
}

// GetUserByID retrieves a user by id
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetUserByName retrieves a user by account name
func (r *MongoUserRepository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

// GetUserByCode retrieves a user by shareable friend code
func (r *MongoUserRepository) GetUserByCode(ctx context.Context, code string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

// GetUserByFirebaseUID retrieves a user by external identity
func (r *MongoUserRepository) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"services.firebase.uid": uid})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: find user: %v", apperrors.ErrStore, err)
	}
	return &user, nil
}

// GetUsersByIDs retrieves all users whose ids are in the given set
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("%w: find users: %v", apperrors.ErrStore, err)
	}
	defer cursor.Close(ctx)
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("%w: decode users: %v", apperrors.ErrStore, err)
	}
	return users, nil
}

// AddMutualFriends adds each user to the other's friend set. Friendship is
// symmetric, so both sides go through this single operation. The two writes
// are independent: if the second fails after the first succeeded there is
// no rollback, matching the store's last-write-wins model.
func (r *MongoUserRepository) AddMutualFriends(ctx context.Context, a, b primitive.ObjectID) error {
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": a}, bson.M{"$addToSet": bson.M{"friends": b}}); err != nil {
		return fmt.Errorf("%w: add friend: %v", apperrors.ErrStore, err)
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": b}, bson.M{"$addToSet": bson.M{"friends": a}}); err != nil {
		return fmt.Errorf("%w: add friend: %v", apperrors.ErrStore, err)
	}
	return nil
}

// RemoveMutualFriends removes each user from the other's friend set.
// Removing an id that is not present is a no-op, not an error.
func (r *MongoUserRepository) RemoveMutualFriends(ctx context.Context, a, b primitive.ObjectID) error {
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": a}, bson.M{"$pull": bson.M{"friends": b}}); err != nil {
		return fmt.Errorf("%w: remove friend: %v", apperrors.ErrStore, err)
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": b}, bson.M{"$pull": bson.M{"friends": a}}); err != nil {
		return fmt.Errorf("%w: remove friend: %v", apperrors.ErrStore, err)
	}
	return nil
}

// SaveTokens persists a freshly issued access/refresh pair, replacing any
// previously stored pair
func (r *MongoUserRepository) SaveTokens(ctx context.Context, id primitive.ObjectID, access, refresh string) error {
	update := bson.M{"$set": bson.M{
		"tokens.accessToken":  access,
		"tokens.refreshToken": refresh,
	}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("%w: save tokens: %v", apperrors.ErrStore, err)
	}
	return nil
}

// ClearTokens invalidates the stored access/refresh pair
func (r *MongoUserRepository) ClearTokens(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$unset": bson.M{
		"tokens.accessToken":  "",
		"tokens.refreshToken": "",
	}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("%w: clear tokens: %v", apperrors.ErrStore, err)
	}
	return nil
}
