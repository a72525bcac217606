package seed

import (
	"context"
	"fmt"
	"log"

	"github.com/moodline/backend/internal/models"
	"github.com/moodline/backend/internal/repositories"
)

var defaultEventTypes = []models.EventType{
	{Name: "Work"},
	{Name: "Study"},
	{Name: "Relationships"},
	{Name: "Health"},
	{Name: "Hobby"},
	{Name: "Life"},
}

var defaultMoodTypes = []models.MoodType{
	{
		Name:          "Anger",
		DisabledIcon:  "icons/anger_disabled.svg",
		Icon:          "icons/anger.svg",
		GradientColor: "#FF5A3C",
		PrimaryColor:  "#D0321A",
		Background:    []string{"#FFE3DC", "#FFB8A8", "#FF8C73"},
	},
	{
		Name:          "Sadness",
		DisabledIcon:  "icons/sadness_disabled.svg",
		Icon:          "icons/sadness.svg",
		GradientColor: "#5A7BFF",
		PrimaryColor:  "#2F4FD0",
		Background:    []string{"#DEE5FF", "#B3C2FF", "#8AA0FF"},
	},
	{
		Name:          "Calmness",
		DisabledIcon:  "icons/calmness_disabled.svg",
		Icon:          "icons/calmness.svg",
		GradientColor: "#3CC98E",
		PrimaryColor:  "#1E9E68",
		Background:    []string{"#DCF7EB", "#A8E9CD", "#73DBB0"},
	},
	{
		Name:          "Joy",
		DisabledIcon:  "icons/joy_disabled.svg",
		Icon:          "icons/joy.svg",
		GradientColor: "#FFC93C",
		PrimaryColor:  "#E0A415",
		Background:    []string{"#FFF4D6", "#FFE49E", "#FFD666"},
	},
	{
		Name:          "Fatigue",
		DisabledIcon:  "icons/fatigue_disabled.svg",
		Icon:          "icons/fatigue.svg",
		GradientColor: "#9B8CFF",
		PrimaryColor:  "#6E5BD6",
		Background:    []string{"#E9E4FF", "#CCC2FF", "#AFA0FF"},
	},
}

var defaultSynonyms = map[string][]string{
	"Anger":    {"Rage", "Resentment", "Irritation", "Fury", "Frustration"},
	"Sadness":  {"Dejection", "Sorrow", "Low spirits"},
	"Calmness": {"Contentment", "Peace", "Relief", "Order"},
	"Joy":      {"Pleasure", "Delight", "Fun", "Amusement", "Excitement", "Bliss"},
	"Fatigue":  {"Exhaustion", "Burnout", "Weakness", "Depletion"},
}

// Run initializes the reference-data catalogs. The steps are sequenced:
// synonym seeding requires mood types to be present, so mood types are
// always seeded first. Each step is a no-op when its collection already
// holds data; re-running Run against a seeded store changes nothing.
func Run(ctx context.Context, refs repositories.ReferenceRepository) error {
	if err := seedEventTypes(ctx, refs); err != nil {
		return fmt.Errorf("seed event types: %w", err)
	}
	if err := seedMoodTypes(ctx, refs); err != nil {
		return fmt.Errorf("seed mood types: %w", err)
	}
	if err := seedMoodSynonyms(ctx, refs); err != nil {
		return fmt.Errorf("seed mood synonyms: %w", err)
	}
	return nil
}

func seedEventTypes(ctx context.Context, refs repositories.ReferenceRepository) error {
	count, err := refs.CountEventTypes(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Event types already exist")
		return nil
	}
	types := make([]models.EventType, len(defaultEventTypes))
	copy(types, defaultEventTypes)
	if err := refs.InsertEventTypes(ctx, types); err != nil {
		return err
	}
	log.Println("Event types initialized")
	return nil
}

func seedMoodTypes(ctx context.Context, refs repositories.ReferenceRepository) error {
	count, err := refs.CountMoodTypes(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Default mood types already exist")
		return nil
	}
	types := make([]models.MoodType, len(defaultMoodTypes))
	copy(types, defaultMoodTypes)
	if err := refs.InsertMoodTypes(ctx, types); err != nil {
		return err
	}
	log.Println("Default mood types have been added")
	return nil
}

func seedMoodSynonyms(ctx context.Context, refs repositories.ReferenceRepository) error {
	count, err := refs.CountMoodSynonyms(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Default mood synonyms already exist")
		return nil
	}

	moodTypes, err := refs.ListMoodTypes(ctx)
	if err != nil {
		return err
	}

	for _, moodType := range defaultMoodTypes {
		var parent *models.MoodType
		for i := range moodTypes {
			if moodTypes[i].Name == moodType.Name {
				parent = &moodTypes[i]
				break
			}
		}
		if parent == nil {
			log.Printf("Mood type for %q not found, skipping its synonyms", moodType.Name)
			continue
		}
		for _, text := range defaultSynonyms[moodType.Name] {
			synonym := &models.MoodSynonym{MoodTypeID: parent.ID, Text: text}
			if err := refs.InsertMoodSynonym(ctx, synonym); err != nil {
				return err
			}
		}
	}
	log.Println("Default mood synonyms have been added")
	return nil
}
