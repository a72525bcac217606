package aggregation

import (
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/moodline/backend/internal/dates"
)

// Occurrence is one row of the event → mood synonym → mood type join:
// one entry per (event, synonym) pair, carrying the resolved mood type and
// its display metadata. Rows are expected in createdAt-descending order.
type Occurrence struct {
	EventID       primitive.ObjectID `bson:"eventId"`
	MoodTypeID    primitive.ObjectID `bson:"moodTypeId"`
	MoodName      string             `bson:"moodName"`
	Icon          string             `bson:"icon"`
	GradientColor string             `bson:"gradientColor"`
}

// MoodShare is one mood type's slice of the day summary.
type MoodShare struct {
	MoodTypeID    primitive.ObjectID `json:"moodTypeId"`
	Name          string             `json:"name"`
	Icon          string             `json:"icon"`
	GradientColor string             `json:"gradientColor"`
	Count         int                `json:"count"`
	Percent       int                `json:"percent"`
}

// Summarize groups joined occurrence rows by mood type and computes the
// percentage breakdown. An event contributes at most once to a given mood
// type, no matter how many of that type's synonyms it references, so rows
// are first deduplicated by (event, mood type). Percentages are taken over
// the total number of deduplicated rows, not the number of events, and are
// rounded half up. Zero rows yield an empty summary.
func Summarize(rows []Occurrence) []MoodShare {
	type pair struct {
		event    primitive.ObjectID
		moodType primitive.ObjectID
	}
	seen := make(map[pair]struct{})
	groups := make(map[primitive.ObjectID]*MoodShare)
	var order []primitive.ObjectID

	for _, row := range rows {
		p := pair{row.EventID, row.MoodTypeID}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}

		g, ok := groups[row.MoodTypeID]
		if !ok {
			g = &MoodShare{
				MoodTypeID:    row.MoodTypeID,
				Name:          row.MoodName,
				Icon:          row.Icon,
				GradientColor: row.GradientColor,
			}
			groups[row.MoodTypeID] = g
			order = append(order, row.MoodTypeID)
		}
		g.Count++
	}

	total := len(seen)
	shares := make([]MoodShare, 0, len(order))
	for _, id := range order {
		g := groups[id]
		g.Percent = int(math.Floor(float64(g.Count)/float64(total)*100 + 0.5))
		shares = append(shares, *g)
	}
	return shares
}

// DistinctDates formats each timestamp as DD.MM.YYYY, deduplicates, and
// returns the distinct strings sorted ascending. The sort is lexicographic
// on the formatted string, which is not chronological across month or year
// boundaries; callers depend on this ordering as-is.
func DistinctDates(stamps []time.Time) []string {
	seen := make(map[string]struct{})
	var days []string
	for _, ts := range stamps {
		day := dates.FormatDayDot(ts)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}
