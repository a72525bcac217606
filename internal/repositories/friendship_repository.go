package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moodline/backend/internal/apperrors"
	"github.com/moodline/backend/internal/models"
)

// FriendshipRepository defines the interface for friend request operations
type FriendshipRepository interface {
	CreateFriendRequest(ctx context.Context, req *models.FriendRequest) error
	GetFriendRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error)
	GetPendingRequest(ctx context.Context, from, to primitive.ObjectID) (*models.FriendRequest, error)
	ListPendingRequestsFor(ctx context.Context, to primitive.ObjectID) ([]models.FriendRequest, error)
	UpdateFriendRequestStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

// MongoFriendshipRepository implements FriendshipRepository for MongoDB
type MongoFriendshipRepository struct {
	collection *mongo.Collection
}

// NewMongoFriendshipRepository creates a new MongoFriendshipRepository
func NewMongoFriendshipRepository(db *mongo.Database) *MongoFriendshipRepository {
	return &MongoFriendshipRepository{collection: db.Collection("friendrequests")}
}

// CreateFriendRequest inserts a new request. The at-most-one-pending-per-
// direction rule is enforced by callers checking GetPendingRequest first,
// not by a uniqueness constraint.
func (r *MongoFriendshipRepository) CreateFriendRequest(ctx context.Context, req *models.FriendRequest) error {
	req.ID = primitive.NewObjectID()
	if req.Status == "" {
		req.Status = models.FriendRequestPending
	}
	req.CreatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("%w: insert friend request: %v", apperrors.ErrStore, err)
	}
	return nil
}

// GetFriendRequestByID retrieves a friend request by id
func (r *MongoFriendshipRepository) GetFriendRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: friend request %s", apperrors.ErrNotFound, id.Hex())
		}
		return nil, fmt.Errorf("%w: find friend request: %v", apperrors.ErrStore, err)
	}
	return &req, nil
}

// GetPendingRequest retrieves the pending request for an ordered (from, to)
// pair, or ErrNotFound when none exists
func (r *MongoFriendshipRepository) GetPendingRequest(ctx context.Context, from, to primitive.ObjectID) (*models.FriendRequest, error) {
	var req models.FriendRequest
	filter := bson.M{"from": from, "to": to, "status": models.FriendRequestPending}
	err := r.collection.FindOne(ctx, filter).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: pending friend request", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: find pending request: %v", apperrors.ErrStore, err)
	}
	return &req, nil
}

// ListPendingRequestsFor retrieves all incoming pending requests for a user,
// oldest first
func (r *MongoFriendshipRepository) ListPendingRequestsFor(ctx context.Context, to primitive.ObjectID) ([]models.FriendRequest, error) {
	filter := bson.M{"to": to, "status": models.FriendRequestPending}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: find pending requests: %v", apperrors.ErrStore, err)
	}
	defer cursor.Close(ctx)

	requests := []models.FriendRequest{}
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("%w: decode pending requests: %v", apperrors.ErrStore, err)
	}
	return requests, nil
}

// UpdateFriendRequestStatus updates the status of a friend request
func (r *MongoFriendshipRepository) UpdateFriendRequestStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	update := bson.M{"$set": bson.M{"status": status}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("%w: update friend request: %v", apperrors.ErrStore, err)
	}
	return nil
}
