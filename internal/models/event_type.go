package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// EventType is a static reference row classifying events (Work, Study, ...)
type EventType struct {
	ID   primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name string             `json:"name" bson:"name"`
}
