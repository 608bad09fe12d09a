// Package games is the catalog of games a player can join.
package games

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/qrseekers/qrseekers/internal/docstore"
	"github.com/qrseekers/qrseekers/internal/qrseekers"
)

const (
	Collection      = "games"
	usersCollection = "users"
)

var ErrNotFound = errors.New("game not found")

var demoGames = []qrseekers.Game{
	{ID: "prague-discovery", Name: "Prague Discovery game", Description: "Discover the heart of the city"},
	{ID: "las-palmas", Name: "Las Palmas Game", Description: "Explore historic landmarks"},
	{ID: "esn-indoor", Name: "ESN Indoor activity", Description: "Solve the murder of our mascot"},
}

type Catalog struct {
	docs   *docstore.Store
	logger *slog.Logger
}

func NewCatalog(docs *docstore.Store, logger *slog.Logger) *Catalog {
	return &Catalog{docs: docs, logger: logger}
}

func (c *Catalog) List(ctx context.Context) ([]qrseekers.Game, error) {
	recs, err := c.docs.List(ctx, Collection)
	if err != nil {
		return nil, err
	}
	out := make([]qrseekers.Game, 0, len(recs))
	for _, rec := range recs {
		var g qrseekers.Game
		if err := rec.Data.Decode(&g); err != nil {
			return nil, fmt.Errorf("decoding game %s: %w", rec.ID, err)
		}
		g.ID = rec.ID
		out = append(out, g)
	}
	return out, nil
}

func (c *Catalog) Get(ctx context.Context, gameID string) (qrseekers.Game, error) {
	doc, err := c.docs.Get(ctx, Collection, gameID)
	if errors.Is(err, docstore.ErrNotFound) {
		return qrseekers.Game{}, ErrNotFound
	}
	if err != nil {
		return qrseekers.Game{}, err
	}
	var g qrseekers.Game
	if err := doc.Decode(&g); err != nil {
		return qrseekers.Game{}, err
	}
	g.ID = gameID
	return g, nil
}

// Join records the game as the one the user currently plays.
func (c *Catalog) Join(ctx context.Context, userID, gameID string) (qrseekers.Game, error) {
	g, err := c.Get(ctx, gameID)
	if err != nil {
		return qrseekers.Game{}, err
	}
	if err := c.docs.UpdateField(ctx, usersCollection, userID, "gameName", g.Name); err != nil {
		return qrseekers.Game{}, err
	}
	c.logger.Info("joined game", "user_id", userID, "game_id", gameID)
	return g, nil
}

// Seed inserts the demo games if the catalog is empty.
// Idempotent: does nothing if games already exist.
func (c *Catalog) Seed(ctx context.Context) error {
	existing, err := c.docs.List(ctx, Collection)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, g := range demoGames {
		if err := c.docs.Set(ctx, Collection, g.ID, g); err != nil {
			return err
		}
	}
	c.logger.Info("demo games seeded", "count", len(demoGames))
	return nil
}
