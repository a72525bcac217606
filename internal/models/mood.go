package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// MoodType is one of the fixed mood categories with its display metadata.
// Shared, read-mostly reference data seeded once at startup.
type MoodType struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	DisabledIcon  string             `json:"disabledIcon" bson:"disabledIcon"`
	Icon          string             `json:"icon" bson:"icon"`
	GradientColor string             `json:"gradientColor" bson:"gradientColor"`
	PrimaryColor  string             `json:"primaryColor" bson:"primaryColor"`
	Background    []string           `json:"background" bson:"background"`
}

// MoodSynonym is one selectable word for a mood type; many synonyms map to
// one type. Stored in the "moods" collection.
type MoodSynonym struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	MoodTypeID primitive.ObjectID `json:"moodTypeId" bson:"moodTypeId"`
	Text       string             `json:"synonym" bson:"synonym"`
}
