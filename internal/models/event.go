package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event represents one journaled event stored in MongoDB. Events are owned
// by exactly one user and are immutable once created except for deletion.
type Event struct {
	ID             primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID        primitive.ObjectID   `json:"userId" bson:"userId"`
	EventTypeID    primitive.ObjectID   `json:"eventTypeId" bson:"eventType"`
	Name           string               `json:"name" bson:"name"`
	Description    string               `json:"description,omitempty" bson:"description,omitempty"`
	MoodSynonymIDs []primitive.ObjectID `json:"mids" bson:"mids"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
}

// CreateEventRequest defines the request body for recording a new event
type CreateEventRequest struct {
	EventTypeID    string   `json:"eventTypeId" validate:"required"`
	Name           string   `json:"name" validate:"required,min=1,max=120"`
	Description    string   `json:"description,omitempty" validate:"omitempty,max=1000"`
	MoodSynonymIDs []string `json:"mids" validate:"required,min=1,dive,required"`
}

// DeleteEventsRequest defines the request body for deleting events by id
type DeleteEventsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// MoodGroup is one mood type's slice of an event's detail view, collapsing
// the event's synonyms of that type into a single group.
type MoodGroup struct {
	MoodTypeID primitive.ObjectID `json:"moodTypeId" bson:"moodTypeId"`
	Name       string             `json:"name" bson:"name"`
	Synonyms   []string           `json:"synonyms" bson:"synonyms"`
}

// EventDetail is the fully joined shape of an event: resolved event type
// name plus mood synonyms grouped by mood type.
type EventDetail struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	Name          string             `json:"name" bson:"name"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	EventTypeName string             `json:"eventTypeName" bson:"eventTypeName"`
	Moods         []MoodGroup        `json:"moods" bson:"moods"`
}

// DayEvent is the day-scoped list shape: no mood-type grouping, just the
// flat list of synonym texts across all of the event's synonyms.
type DayEvent struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Name      string             `json:"name" bson:"name"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	Moods     []string           `json:"moods" bson:"moods"`
}
