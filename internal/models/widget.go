package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Widget kinds. A with_friend widget shows a friend's summary and must name
// the friend; a without_friend widget shows the owner's own summary and is
// unique per owner.
const (
	WidgetWithFriend    = "with_friend"
	WidgetWithoutFriend = "without_friend"
)

// Widget represents a dashboard widget stored in MongoDB
type Widget struct {
	ID       primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID  primitive.ObjectID  `json:"userId" bson:"userId"`
	Kind     string              `json:"type" bson:"type"`
	FriendID *primitive.ObjectID `json:"friendId,omitempty" bson:"friendId,omitempty"`
}

// CreateWidgetRequest defines the request body for adding a widget
type CreateWidgetRequest struct {
	Kind     string `json:"type" validate:"required,oneof=with_friend without_friend"`
	FriendID string `json:"friendId,omitempty"`
}

// WidgetView is a widget with its friend's name resolved for listings
type WidgetView struct {
	ID         primitive.ObjectID  `json:"id"`
	Kind       string              `json:"type"`
	FriendID   *primitive.ObjectID `json:"friendId,omitempty"`
	FriendName string              `json:"friendName,omitempty"`
}
