package seed

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/moodline/backend/internal/models"
)

// fakeReferenceRepository is an in-memory ReferenceRepository for seed tests
type fakeReferenceRepository struct {
	eventTypes []models.EventType
	moodTypes  []models.MoodType
	synonyms   []models.MoodSynonym
}

func (f *fakeReferenceRepository) CountEventTypes(ctx context.Context) (int64, error) {
	return int64(len(f.eventTypes)), nil
}

func (f *fakeReferenceRepository) InsertEventTypes(ctx context.Context, types []models.EventType) error {
	for i := range types {
		types[i].ID = primitive.NewObjectID()
		f.eventTypes = append(f.eventTypes, types[i])
	}
	return nil
}

func (f *fakeReferenceRepository) ListEventTypes(ctx context.Context) ([]models.EventType, error) {
	return f.eventTypes, nil
}

func (f *fakeReferenceRepository) CountMoodTypes(ctx context.Context) (int64, error) {
	return int64(len(f.moodTypes)), nil
}

func (f *fakeReferenceRepository) InsertMoodTypes(ctx context.Context, types []models.MoodType) error {
	for i := range types {
		types[i].ID = primitive.NewObjectID()
		f.moodTypes = append(f.moodTypes, types[i])
	}
	return nil
}

func (f *fakeReferenceRepository) ListMoodTypes(ctx context.Context) ([]models.MoodType, error) {
	return f.moodTypes, nil
}

func (f *fakeReferenceRepository) CountMoodSynonyms(ctx context.Context) (int64, error) {
	return int64(len(f.synonyms)), nil
}

func (f *fakeReferenceRepository) InsertMoodSynonym(ctx context.Context, synonym *models.MoodSynonym) error {
	synonym.ID = primitive.NewObjectID()
	f.synonyms = append(f.synonyms, *synonym)
	return nil
}

func (f *fakeReferenceRepository) ListMoodSynonyms(ctx context.Context) ([]models.MoodSynonym, error) {
	return f.synonyms, nil
}

func (f *fakeReferenceRepository) CountMoodSynonymsByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	var count int64
	for _, id := range ids {
		for _, synonym := range f.synonyms {
			if synonym.ID == id {
				count++
				break
			}
		}
	}
	return count, nil
}

func TestRunSeedsEmptyStore(t *testing.T) {
	repo := &fakeReferenceRepository{}
	if err := Run(context.Background(), repo); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(repo.eventTypes) != 6 {
		t.Errorf("expected 6 event types, got %d", len(repo.eventTypes))
	}
	if len(repo.moodTypes) != 5 {
		t.Errorf("expected 5 mood types, got %d", len(repo.moodTypes))
	}
	// 5 + 3 + 4 + 6 + 4 synonyms across the five mood types
	if len(repo.synonyms) != 22 {
		t.Errorf("expected 22 mood synonyms, got %d", len(repo.synonyms))
	}

	// Every synonym must reference a seeded mood type.
	typeIDs := make(map[primitive.ObjectID]bool)
	for _, moodType := range repo.moodTypes {
		typeIDs[moodType.ID] = true
	}
	for _, synonym := range repo.synonyms {
		if !typeIDs[synonym.MoodTypeID] {
			t.Errorf("synonym %q references unknown mood type %s", synonym.Text, synonym.MoodTypeID.Hex())
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	repo := &fakeReferenceRepository{}
	if err := Run(context.Background(), repo); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if err := Run(context.Background(), repo); err != nil {
		t.Fatalf("second Run failed: %v", err)
	}

	if len(repo.eventTypes) != 6 || len(repo.moodTypes) != 5 || len(repo.synonyms) != 22 {
		t.Errorf("re-running seed changed data: %d event types, %d mood types, %d synonyms",
			len(repo.eventTypes), len(repo.moodTypes), len(repo.synonyms))
	}
}

func TestSynonymsSkippedWhenParentTypeMissing(t *testing.T) {
	// Mood types already present but missing Joy: Joy's synonyms are
	// skipped with a warning, the others seed normally.
	repo := &fakeReferenceRepository{}
	partial := []models.MoodType{}
	for _, moodType := range defaultMoodTypes {
		if moodType.Name == "Joy" {
			continue
		}
		partial = append(partial, moodType)
	}
	if err := repo.InsertMoodTypes(context.Background(), partial); err != nil {
		t.Fatalf("InsertMoodTypes failed: %v", err)
	}

	if err := Run(context.Background(), repo); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// 22 defaults minus Joy's 6.
	if len(repo.synonyms) != 16 {
		t.Errorf("expected 16 synonyms, got %d", len(repo.synonyms))
	}
	for _, synonym := range repo.synonyms {
		for _, joyText := range defaultSynonyms["Joy"] {
			if synonym.Text == joyText {
				t.Errorf("unexpected Joy synonym %q seeded without its parent type", synonym.Text)
			}
		}
	}
}
