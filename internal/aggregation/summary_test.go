package aggregation

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSummarizeEmptyInput(t *testing.T) {
	shares := Summarize(nil)
	if len(shares) != 0 {
		t.Errorf("expected empty summary, got %d groups", len(shares))
	}
}

func TestSummarizeSingleEvent(t *testing.T) {
	event := primitive.NewObjectID()
	joy := primitive.NewObjectID()

	shares := Summarize([]Occurrence{
		{EventID: event, MoodTypeID: joy, MoodName: "Joy", Icon: "icons/joy.svg", GradientColor: "#FFC93C"},
	})
	if len(shares) != 1 {
		t.Fatalf("expected 1 group, got %d", len(shares))
	}
	got := shares[0]
	if got.Count != 1 {
		t.Errorf("count = %d, want 1", got.Count)
	}
	if got.Percent != 100 {
		t.Errorf("percent = %d, want 100", got.Percent)
	}
	if got.Name != "Joy" || got.Icon != "icons/joy.svg" {
		t.Errorf("unexpected display metadata: %+v", got)
	}
}

func TestSummarizeDeduplicatesSynonymsOfSameMoodType(t *testing.T) {
	// One event referencing two synonyms of the same mood type produces two
	// joined rows but must count once.
	event := primitive.NewObjectID()
	anger := primitive.NewObjectID()

	shares := Summarize([]Occurrence{
		{EventID: event, MoodTypeID: anger, MoodName: "Anger"},
		{EventID: event, MoodTypeID: anger, MoodName: "Anger"},
	})
	if len(shares) != 1 {
		t.Fatalf("expected 1 group, got %d", len(shares))
	}
	if shares[0].Count != 1 {
		t.Errorf("count = %d, want 1", shares[0].Count)
	}
	if shares[0].Percent != 100 {
		t.Errorf("percent = %d, want 100", shares[0].Percent)
	}
}

func TestSummarizeEventTouchingTwoMoodTypesCountsInBoth(t *testing.T) {
	event := primitive.NewObjectID()
	joy := primitive.NewObjectID()
	fatigue := primitive.NewObjectID()

	shares := Summarize([]Occurrence{
		{EventID: event, MoodTypeID: joy, MoodName: "Joy"},
		{EventID: event, MoodTypeID: fatigue, MoodName: "Fatigue"},
	})
	if len(shares) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(shares))
	}
	for _, share := range shares {
		if share.Count != 1 {
			t.Errorf("%s count = %d, want 1", share.Name, share.Count)
		}
		if share.Percent != 50 {
			t.Errorf("%s percent = %d, want 50", share.Name, share.Percent)
		}
	}
}

func TestSummarizeRoundsHalfUp(t *testing.T) {
	// Three mood types with one occurrence each: 1/3 rounds to 33. One of
	// them with two: 2/4 = 50, 1/4 = 25.
	joy := primitive.NewObjectID()
	anger := primitive.NewObjectID()
	sadness := primitive.NewObjectID()

	rows := []Occurrence{
		{EventID: primitive.NewObjectID(), MoodTypeID: joy, MoodName: "Joy"},
		{EventID: primitive.NewObjectID(), MoodTypeID: anger, MoodName: "Anger"},
		{EventID: primitive.NewObjectID(), MoodTypeID: sadness, MoodName: "Sadness"},
	}
	for _, share := range Summarize(rows) {
		if share.Percent != 33 {
			t.Errorf("%s percent = %d, want 33", share.Name, share.Percent)
		}
	}

	// 3/8 = 37.5 rounds half up to 38.
	rows = rows[:0]
	for i := 0; i < 3; i++ {
		rows = append(rows, Occurrence{EventID: primitive.NewObjectID(), MoodTypeID: joy, MoodName: "Joy"})
	}
	for i := 0; i < 5; i++ {
		rows = append(rows, Occurrence{EventID: primitive.NewObjectID(), MoodTypeID: anger, MoodName: "Anger"})
	}
	shares := Summarize(rows)
	byName := map[string]MoodShare{}
	for _, share := range shares {
		byName[share.Name] = share
	}
	if byName["Joy"].Percent != 38 {
		t.Errorf("Joy percent = %d, want 38", byName["Joy"].Percent)
	}
	if byName["Anger"].Percent != 63 {
		t.Errorf("Anger percent = %d, want 63", byName["Anger"].Percent)
	}
}

func TestSummarizePercentagesOverOccurrencesNotEvents(t *testing.T) {
	// Two events; the first touches two mood types. Total occurrences is 3,
	// so the shares are 33/33/33-ish, not 50/50.
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	joy := primitive.NewObjectID()
	fatigue := primitive.NewObjectID()

	shares := Summarize([]Occurrence{
		{EventID: first, MoodTypeID: joy, MoodName: "Joy"},
		{EventID: first, MoodTypeID: fatigue, MoodName: "Fatigue"},
		{EventID: second, MoodTypeID: joy, MoodName: "Joy"},
	})
	byName := map[string]MoodShare{}
	for _, share := range shares {
		byName[share.Name] = share
	}
	if byName["Joy"].Count != 2 {
		t.Errorf("Joy count = %d, want 2", byName["Joy"].Count)
	}
	if byName["Joy"].Percent != 67 {
		t.Errorf("Joy percent = %d, want 67", byName["Joy"].Percent)
	}
	if byName["Fatigue"].Percent != 33 {
		t.Errorf("Fatigue percent = %d, want 33", byName["Fatigue"].Percent)
	}
}

func TestSummarizeRepresentativeMetadataIsFirstSeen(t *testing.T) {
	// Rows arrive newest event first; the group keeps the first row's
	// metadata.
	joy := primitive.NewObjectID()
	shares := Summarize([]Occurrence{
		{EventID: primitive.NewObjectID(), MoodTypeID: joy, MoodName: "Joy", Icon: "newest.svg", GradientColor: "#111111"},
		{EventID: primitive.NewObjectID(), MoodTypeID: joy, MoodName: "Joy", Icon: "older.svg", GradientColor: "#222222"},
	})
	if len(shares) != 1 {
		t.Fatalf("expected 1 group, got %d", len(shares))
	}
	if shares[0].Icon != "newest.svg" {
		t.Errorf("icon = %q, want %q", shares[0].Icon, "newest.svg")
	}
}

func TestDistinctDatesDeduplicates(t *testing.T) {
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.Local)
	stamps := []time.Time{
		day.Add(9 * time.Hour),
		day.Add(18 * time.Hour),
		day.AddDate(0, 0, 1),
	}
	got := DistinctDates(stamps)
	want := []string{"05.03.2024", "06.03.2024"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDistinctDatesSortIsLexicographicAcrossMonths(t *testing.T) {
	// A week spanning a month boundary sorts by the DD.MM.YYYY string, so
	// 01.10 sorts before 30.09 even though it is later in time. Pinned
	// behavior; clients rely on the current ordering.
	stamps := []time.Time{
		time.Date(2024, time.September, 30, 12, 0, 0, 0, time.Local),
		time.Date(2024, time.October, 1, 12, 0, 0, 0, time.Local),
	}
	got := DistinctDates(stamps)
	if len(got) != 2 {
		t.Fatalf("expected 2 dates, got %v", got)
	}
	if got[0] != "01.10.2024" || got[1] != "30.09.2024" {
		t.Errorf("got %v, want [01.10.2024 30.09.2024]", got)
	}
}

func TestDistinctDatesEmptyInput(t *testing.T) {
	if got := DistinctDates(nil); len(got) != 0 {
		t.Errorf("expected no dates, got %v", got)
	}
}
