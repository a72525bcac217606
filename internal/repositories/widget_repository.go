package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/moodline/backend/internal/apperrors"
	"github.com/moodline/backend/internal/models"
)

// WidgetRepository defines the interface for dashboard widget operations
type WidgetRepository interface {
	CreateWidget(ctx context.Context, widget *models.Widget) error
	ListWidgetsByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Widget, error)
	DeleteWidget(ctx context.Context, id primitive.ObjectID) error
	HasWithoutFriendWidget(ctx context.Context, owner primitive.ObjectID) (bool, error)
	DeleteWidgetsByOwnerAndFriend(ctx context.Context, owner, friend primitive.ObjectID) (int64, error)
}

// MongoWidgetRepository implements WidgetRepository for MongoDB
type MongoWidgetRepository struct {
	collection *mongo.Collection
}

// NewMongoWidgetRepository creates a new MongoWidgetRepository
func NewMongoWidgetRepository(db *mongo.Database) *MongoWidgetRepository {
	return &MongoWidgetRepository{collection: db.Collection("widgets")}
}

// CreateWidget inserts a new widget
func (r *MongoWidgetRepository) CreateWidget(ctx context.Context, widget *models.Widget) error {
	widget.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, widget); err != nil {
		return fmt.Errorf("%w: insert widget: %v", apperrors.ErrStore, err)
	}
	return nil
}

// ListWidgetsByOwner retrieves all widgets belonging to one user
func (r *MongoWidgetRepository) ListWidgetsByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Widget, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": owner})
	if err != nil {
		return nil, fmt.Errorf("%w: find widgets: %v", apperrors.ErrStore, err)
	}
	defer cursor.Close(ctx)

	widgets := []models.Widget{}
	if err = cursor.All(ctx, &widgets); err != nil {
		return nil, fmt.Errorf("%w: decode widgets: %v", apperrors.ErrStore, err)
	}
	return widgets, nil
}

// DeleteWidget deletes a widget by id, failing with ErrNotFound when no
// such widget exists
func (r *MongoWidgetRepository) DeleteWidget(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%w: delete widget: %v", apperrors.ErrStore, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: widget %s", apperrors.ErrNotFound, id.Hex())
	}
	return nil
}

// HasWithoutFriendWidget reports whether the owner already has a
// without_friend widget; at most one is allowed per user
func (r *MongoWidgetRepository) HasWithoutFriendWidget(ctx context.Context, owner primitive.ObjectID) (bool, error) {
	filter := bson.M{"userId": owner, "type": models.WidgetWithoutFriend}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("%w: count widgets: %v", apperrors.ErrStore, err)
	}
	return count > 0, nil
}

// DeleteWidgetsByOwnerAndFriend deletes the owner's widgets referencing the
// given friend; without_friend widgets are untouched
func (r *MongoWidgetRepository) DeleteWidgetsByOwnerAndFriend(ctx context.Context, owner, friend primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"userId": owner, "friendId": friend})
	if err != nil {
		return 0, fmt.Errorf("%w: delete widgets: %v", apperrors.ErrStore, err)
	}
	return res.DeletedCount, nil
}
