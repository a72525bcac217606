package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account stored in MongoDB. Friends is a symmetric set
// of user ids; both sides are updated together on every add/remove.
type User struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string               `json:"name" bson:"name"`
	Code      string               `json:"friendCode" bson:"code"` // shareable code used for friend discovery
	Friends   []primitive.ObjectID `json:"-" bson:"friends"`
	Services  UserServices         `json:"-" bson:"services"`
	Tokens    UserTokens           `json:"-" bson:"tokens"`
	CreatedAt time.Time            `json:"created_at" bson:"createdAt"`
}

// UserServices holds the credential the account was created with: a local
// password hash or an external identity, never both.
type UserServices struct {
	Password *PasswordService `bson:"password,omitempty"`
	Firebase *FirebaseService `bson:"firebase,omitempty"`
}

type PasswordService struct {
	Hash string `bson:"hash"`
}

type FirebaseService struct {
	UID   string `bson:"uid"`
	Email string `bson:"email,omitempty"`
}

// UserTokens is the currently valid access/refresh pair. A presented token
// must equal the stored one; rotation and logout invalidate old tokens.
type UserTokens struct {
	AccessToken  string `bson:"accessToken,omitempty"`
	RefreshToken string `bson:"refreshToken,omitempty"`
}

// RegisterRequest defines the request body for local registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the request body for local sign-in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest defines the request body for token rotation and logout
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// FirebaseLoginRequest defines the request body for external-identity login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FriendView is the public shape of a user in friend listings
type FriendView struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
