package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moodline/backend/internal/aggregation"
	"github.com/moodline/backend/internal/apperrors"
	"github.com/moodline/backend/internal/models"
)

// EventRepository defines the interface for event data operations
type EventRepository interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEventDetailByID(ctx context.Context, id primitive.ObjectID) (*models.EventDetail, error)
	ListEventsDetailed(ctx context.Context) ([]models.EventDetail, error)
	ListEventsByDay(ctx context.Context, owner primitive.ObjectID, from, to time.Time) ([]models.DayEvent, error)
	ListMoodOccurrences(ctx context.Context, owner primitive.ObjectID, from, to time.Time) ([]aggregation.Occurrence, error)
	ListCreatedBetween(ctx context.Context, owner primitive.ObjectID, from, to time.Time) ([]time.Time, error)
	DeleteEventsByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	DeleteEventsForDay(ctx context.Context, owner *primitive.ObjectID, from, to time.Time) (int64, error)
}

// MongoEventRepository implements EventRepository for MongoDB
type MongoEventRepository struct {
	collection *mongo.Collection
}

// NewMongoEventRepository creates a new MongoEventRepository
func NewMongoEventRepository(db *mongo.Database) *MongoEventRepository {
	return &MongoEventRepository{collection: db.Collection("events")}
}

// CreateEvent persists a new event with createdAt set to now. Mood synonym
// ids are validated by the caller against the reference catalog before this
// is called; the insert itself is all-or-nothing.
func (r *MongoEventRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("%w: insert event: %v", apperrors.ErrStore, err)
	}
	return nil
}

// joinedEvent is the raw shape produced by the detail pipeline before the
// per-mood-type grouping is applied.
type joinedEvent struct {
	ID            primitive.ObjectID   `bson:"_id"`
	Name          string               `bson:"name"`
	Description   string               `bson:"description"`
	CreatedAt     time.Time            `bson:"createdAt"`
	EventTypeName string               `bson:"eventTypeName"`
	MoodDetails   []models.MoodSynonym `bson:"moodDetails"`
	MoodTypes     []models.MoodType    `bson:"moodTypeDetails"`
}

// detailPipeline joins events to their event type, mood synonyms and mood
// types. The optional match stage narrows to a single event.
func detailPipeline(match bson.M) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if match != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	return append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "eventtypes",
			"localField":   "eventType",
			"foreignField": "_id",
			"as":           "eventTypeDefault",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "moods",
			"localField":   "mids",
			"foreignField": "_id",
			"as":           "moodDetails",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "moodtypes",
			"localField":   "moodDetails.moodTypeId",
			"foreignField": "_id",
			"as":           "moodTypeDetails",
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":             1,
			"name":            1,
			"description":     1,
			"createdAt":       1,
			"moodDetails":     1,
			"moodTypeDetails": 1,
			"eventTypeName":   bson.M{"$arrayElemAt": bson.A{"$eventTypeDefault.name", 0}},
		}}},
	)
}

// groupMoods collapses a joined event's synonyms into one group per mood
// type. An event referencing two synonyms of the same type yields a single
// group carrying both texts.
func groupMoods(synonyms []models.MoodSynonym, types []models.MoodType) []models.MoodGroup {
	byID := make(map[primitive.ObjectID]models.MoodType, len(types))
	for _, mt := range types {
		byID[mt.ID] = mt
	}
	index := make(map[primitive.ObjectID]int)
	groups := []models.MoodGroup{}
	for _, syn := range synonyms {
		mt, ok := byID[syn.MoodTypeID]
		if !ok {
			continue
		}
		i, ok := index[mt.ID]
		if !ok {
			i = len(groups)
			index[mt.ID] = i
			groups = append(groups, models.MoodGroup{MoodTypeID: mt.ID, Name: mt.Name})
		}
		groups[i].Synonyms = append(groups[i].Synonyms, syn.Text)
	}
	return groups
}

func (r *MongoEventRepository) runDetailPipeline(ctx context.Context, match bson.M) ([]models.EventDetail, error) {
	cursor, err := r.collection.Aggregate(ctx, detailPipeline(match))
	if err != nil {
		return nil, fmt.Errorf("%w: event detail pipeline: %v", apperrors.ErrStore, err)
	}
	defer cursor.Close(ctx)

	var joined []joinedEvent
	if err = cursor.All(ctx, &joined); err != nil {
		return nil, fmt.Errorf("%w: decode event detail: %v", apperrors.ErrStore, err)
	}

	details := make([]models.EventDetail, 0, len(joined))
	for _, row := range joined {
		details = append(details, models.EventDetail{
			ID:            row.ID,
			Name:          row.Name,
			Description:   row.Description,
			CreatedAt:     row.CreatedAt,
			EventTypeName: row.EventTypeName,
			Moods:         groupMoods(row.MoodDetails, row.MoodTypes),
		})
	}
	return details, nil
}

// ListEventsDetailed returns the fully joined detail view of all events
func (r *MongoEventRepository) ListEventsDetailed(ctx context.Context) ([]models.EventDetail, error) {
	return r.runDetailPipeline(ctx, nil)
}

// GetEventDetailByID returns the detail view of a single event
func (r *MongoEventRepository) GetEventDetailByID(ctx context.Context, id primitive.ObjectID) (*models.EventDetail, error) {
	details, err := r.runDetailPipeline(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, fmt.Errorf("%w: event %s", apperrors.ErrNotFound, id.Hex())
	}
	return &details[0], nil
}

// ListEventsByDay returns one owner's events with createdAt in [from, to),
// newest first, each with the flat list of its synonym texts.
func (r *MongoEventRepository) ListEventsByDay(ctx context.Context, owner primitive.ObjectID, from, to time.Time) ([]models.DayEvent, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"userId":    owner,
			"createdAt": bson.M{"$gte": from, "$lt": to},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "moods",
			"localField":   "mids",
			"foreignField": "_id",
			"as":           "moodDetails",
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":       1,
			"name":      1,
			"createdAt": 1,
			"moods":     "$moodDetails.synonym",
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: day list pipeline: %v", apperrors.ErrStore, err)
	}
	defer cursor.Close(ctx)

	events := []models.DayEvent{}
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("%w: decode day list: %v", apperrors.ErrStore, err)
	}
	return events, nil
}

// ListMoodOccurrences expands one owner's events in [from, to] into one row
// per (event, synonym) pair with the synonym's mood type resolved, newest
// event first. Deduplication by (event, mood type) is the consumer's job.
func (r *MongoEventRepository) ListMoodOccurrences(ctx context.Context, owner primitive.ObjectID, from, to time.Time) ([]aggregation.Occurrence, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"userId":    owner,
			"createdAt": bson.M{"$gte": from, "$lte": to},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "moods",
			"localField":   "mids",
			"foreignField": "_id",
			"as":           "moodDetails",
		}}},
		bson.D{{Key: "$unwind", Value: "$moodDetails"}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "moodtypes",
			"localField":   "moodDetails.moodTypeId",
			"foreignField": "_id",
			"as":           "moodType",
		}}},
		bson.D{{Key: "$unwind", Value: "$moodType"}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":           0,
			"eventId":       "$_id",
			"moodTypeId":    "$moodType._id",
			"moodName":      "$moodType.name",
			"icon":          "$moodType.icon",
			"gradientColor": "$moodType.gradientColor",
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: occurrence pipeline: %v", apperrors.ErrStore, err)
	}
	defer cursor.Close(ctx)

	rows := []aggregation.Occurrence{}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode occurrences: %v", apperrors.ErrStore, err)
	}
	return rows, nil
}

// ListCreatedBetween returns the creation timestamps of one owner's events
// with createdAt in [from, to]
func (r *MongoEventRepository) ListCreatedBetween(ctx context.Context, owner primitive.ObjectID, from, to time.Time) ([]time.Time, error) {
	filter := bson.M{
		"userId":    owner,
		"createdAt": bson.M{"$gte": from, "$lte": to},
	}
	findOptions := options.Find().SetProjection(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: find events: %v", apperrors.ErrStore, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		CreatedAt time.Time `bson:"createdAt"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode events: %v", apperrors.ErrStore, err)
	}
	stamps := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		stamps = append(stamps, row.CreatedAt)
	}
	return stamps, nil
}

// DeleteEventsByIDs deletes all events whose ids are in the given set and
// returns the number deleted; zero is a valid result
func (r *MongoEventRepository) DeleteEventsByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("%w: delete events: %v", apperrors.ErrStore, err)
	}
	return res.DeletedCount, nil
}

// DeleteEventsForDay deletes all events with createdAt in [from, to],
// optionally scoped to one owner
func (r *MongoEventRepository) DeleteEventsForDay(ctx context.Context, owner *primitive.ObjectID, from, to time.Time) (int64, error) {
	filter := bson.M{"createdAt": bson.M{"$gte": from, "$lte": to}}
	if owner != nil {
		filter["userId"] = *owner
	}
	res, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%w: delete events: %v", apperrors.ErrStore, err)
	}
	return res.DeletedCount, nil
}
