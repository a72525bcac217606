package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Friend request statuses. pending is the only state a request can leave;
// accepted and declined are terminal.
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestDeclined = "declined"
)

// FriendRequest represents a friend request between two users
type FriendRequest struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	From      primitive.ObjectID `json:"from" bson:"from"`
	To        primitive.ObjectID `json:"to" bson:"to"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// SendFriendRequestRequest defines the request body for sending a friend
// request by shareable code
type SendFriendRequestRequest struct {
	FriendCode string `json:"friendCode" validate:"required"`
}

// HandleFriendRequestRequest defines the request body for accepting or
// declining a pending friend request
type HandleFriendRequestRequest struct {
	Action string `json:"action" validate:"required,oneof=accept decline"`
}

// RemoveFriendRequest defines the request body for removing a friend
type RemoveFriendRequest struct {
	FriendID string `json:"friendId" validate:"required"`
}

// FriendRequestView is an incoming pending request with its sender resolved
type FriendRequestView struct {
	ID        primitive.ObjectID `json:"id"`
	From      FriendSenderView   `json:"from"`
	CreatedAt time.Time          `json:"createdAt"`
}

type FriendSenderView struct {
	ID         primitive.ObjectID `json:"id"`
	Name       string             `json:"name"`
	FriendCode string             `json:"friendCode"`
}
