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

// ReferenceRepository defines the interface for the shared reference-data
// catalogs: event types, mood types and mood synonyms
type ReferenceRepository interface {
	CountEventTypes(ctx context.Context) (int64, error)
	InsertEventTypes(ctx context.Context, types []models.EventType) error
	ListEventTypes(ctx context.Context) ([]models.EventType, error)
	CountMoodTypes(ctx context.Context) (int64, error)
	InsertMoodTypes(ctx context.Context, types []models.MoodType) error
	ListMoodTypes(ctx context.Context) ([]models.MoodType, error)
	CountMoodSynonyms(ctx context.Context) (int64, error)
	InsertMoodSynonym(ctx context.Context, synonym *models.MoodSynonym) error
	ListMoodSynonyms(ctx context.Context) ([]models.MoodSynonym, error)
	CountMoodSynonymsByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

// MongoReferenceRepository implements ReferenceRepository for MongoDB
type MongoReferenceRepository struct {
	eventTypes *mongo.Collection
	moodTypes  *mongo.Collection
	moods      *mongo.Collection
}

// NewMongoReferenceRepository creates a new MongoReferenceRepository
func NewMongoReferenceRepository(db *mongo.Database) *MongoReferenceRepository {
	return &MongoReferenceRepository{
		eventTypes: db.Collection("eventtypes"),
		moodTypes:  db.Collection("moodtypes"),
		moods:      db.Collection("moods"),
	}
}

func (r *MongoReferenceRepository) CountEventTypes(ctx context.Context) (int64, error) {
	return countAll(ctx, r.eventTypes)
}

func (r *MongoReferenceRepository) InsertEventTypes(ctx context.Context, types []models.EventType) error {
	docs := make([]interface{}, 0, len(types))
	for i := range types {
		types[i].ID = primitive.NewObjectID()
		docs = append(docs, types[i])
	}
	if _, err := r.eventTypes.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("%w: insert event types: %v", apperrors.ErrStore, err)
	}
	return nil
}

func (r *MongoReferenceRepository) ListEventTypes(ctx context.Context) ([]models.EventType, error) {
	types := []models.EventType{}
	if err := findAll(ctx, r.eventTypes, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *MongoReferenceRepository) CountMoodTypes(ctx context.Context) (int64, error) {
	return countAll(ctx, r.moodTypes)
}

func (r *MongoReferenceRepository) InsertMoodTypes(ctx context.Context, types []models.MoodType) error {
	docs := make([]interface{}, 0, len(types))
	for i := range types {
		types[i].ID = primitive.NewObjectID()
		docs = append(docs, types[i])
	}
	if _, err := r.moodTypes.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("%w: insert mood types: %v", apperrors.ErrStore, err)
	}
	return nil
}

func (r *MongoReferenceRepository) ListMoodTypes(ctx context.Context) ([]models.MoodType, error) {
	types := []models.MoodType{}
	if err := findAll(ctx, r.moodTypes, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *MongoReferenceRepository) CountMoodSynonyms(ctx context.Context) (int64, error) {
	return countAll(ctx, r.moods)
}

func (r *MongoReferenceRepository) InsertMoodSynonym(ctx context.Context, synonym *models.MoodSynonym) error {
	synonym.ID = primitive.NewObjectID()
	if _, err := r.moods.InsertOne(ctx, synonym); err != nil {
		return fmt.Errorf("%w: insert mood synonym: %v", apperrors.ErrStore, err)
	}
	return nil
}

func (r *MongoReferenceRepository) ListMoodSynonyms(ctx context.Context) ([]models.MoodSynonym, error) {
	synonyms := []models.MoodSynonym{}
	if err := findAll(ctx, r.moods, &synonyms); err != nil {
		return nil, err
	}
	return synonyms, nil
}

// CountMoodSynonymsByIDs counts how many of the given ids resolve to an
// existing synonym; one batch query, order-independent. Callers compare the
// count against the number of requested ids to validate event input.
func (r *MongoReferenceRepository) CountMoodSynonymsByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	count, err := r.moods.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("%w: count mood synonyms: %v", apperrors.ErrStore, err)
	}
	return count, nil
}

func countAll(ctx context.Context, coll *mongo.Collection) (int64, error) {
	count, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("%w: count %s: %v", apperrors.ErrStore, coll.Name(), err)
	}
	return count, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, out interface{}) error {
	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("%w: find %s: %v", apperrors.ErrStore, coll.Name(), err)
	}
	defer cursor.Close(ctx)
	if err = cursor.All(ctx, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", apperrors.ErrStore, coll.Name(), err)
	}
	return nil
}
