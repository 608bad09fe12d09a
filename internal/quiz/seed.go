package quiz

import (
	"context"

	"github.com/qrseekers/qrseekers/internal/qrseekers"
)

var demoZones = []qrseekers.Zone{
	{
		ID:   "charles-bridge",
		Name: "Charles bridge",
		Hint: "Cross the river where thirty saints keep watch.",
		Questions: []qrseekers.Question{
			{ID: "cb-1", Order: 1, Points: 10, Text: "How many statues line the bridge?", CorrectAnswer: "30"},
			{ID: "cb-2", Order: 2, Points: 5, Text: "Which river does the bridge cross?", Options: []string{"Vltava", "Danube", "Elbe"}, CorrectAnswer: "Vltava"},
			{ID: "cb-3", Order: 3, Points: 15, Text: "Take a team photo with the Old Town Bridge Tower."},
		},
	},
	{
		ID:   "prague-castle",
		Name: "Prague Castle",
		Hint: "Climb the hill to the largest ancient castle complex.",
		Questions: []qrseekers.Question{
			{ID: "pc-1", Order: 1, Points: 10, Text: "Which cathedral stands inside the castle?", Options: []string{"St. Vitus", "St. Peter", "St. Stephen"}, CorrectAnswer: "St. Vitus"},
			{ID: "pc-2", Order: 2, Points: 10, Text: "At what hour does the main changing of the guard take place?", CorrectAnswer: "12:00"},
		},
	},
}

// Seed stores the demo zones when none exist.
// Idempotent: does nothing if zones already exist.
func (s *DocSource) Seed(ctx context.Context) error {
	existing, err := s.docs.List(ctx, ZonesCollection)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, z := range demoZones {
		if err := s.SaveZone(ctx, z); err != nil {
			return err
		}
	}
	return nil
}
