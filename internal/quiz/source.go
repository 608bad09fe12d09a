// Package quiz loads the questions of a zone and grades submitted answers.
package quiz

import (
	"context"
	"fmt"
	"slices"

	"github.com/qrseekers/qrseekers/internal/docstore"
	"github.com/qrseekers/qrseekers/internal/qrseekers"
)

const (
	ZonesCollection       = "zones"
	SubmissionsCollection = "submissions"
)

// Source supplies the ordered questions of a zone.
type Source interface {
	LoadQuestions(ctx context.Context, zoneID string) ([]qrseekers.Question, error)
}

// DocSource reads zones, and the questions embedded in them, from the
// document store.
type DocSource struct {
	docs *docstore.Store
}

func NewDocSource(docs *docstore.Store) *DocSource {
	return &DocSource{docs: docs}
}

func (s *DocSource) LoadZone(ctx context.Context, zoneID string) (qrseekers.Zone, error) {
	doc, err := s.docs.Get(ctx, ZonesCollection, zoneID)
	if err != nil {
		return qrseekers.Zone{}, err
	}
	var z qrseekers.Zone
	if err := doc.Decode(&z); err != nil {
		return qrseekers.Zone{}, fmt.Errorf("decoding zone %s: %w", zoneID, err)
	}
	z.ID = zoneID
	sortQuestions(z.Questions)
	return z, nil
}

func (s *DocSource) LoadQuestions(ctx context.Context, zoneID string) ([]qrseekers.Question, error) {
	z, err := s.LoadZone(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	return z.Questions, nil
}

// SaveZone stores z under its id.
func (s *DocSource) SaveZone(ctx context.Context, z qrseekers.Zone) error {
	return s.docs.Set(ctx, ZonesCollection, z.ID, z)
}

func sortQuestions(qs []qrseekers.Question) {
	slices.SortStableFunc(qs, func(a, b qrseekers.Question) int {
		return a.Order - b.Order
	})
}
