package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrseekers/qrseekers/internal/database"
	"github.com/qrseekers/qrseekers/internal/docstore"
	"github.com/qrseekers/qrseekers/internal/migrations"
	"github.com/qrseekers/qrseekers/internal/qrseekers"
)

type staticSource struct {
	questions []qrseekers.Question
	err       error
}

func (s staticSource) LoadQuestions(context.Context, string) ([]qrseekers.Question, error) {
	return s.questions, s.err
}

var bridgeQuestions = []qrseekers.Question{
	{ID: "q1", Text: "How many statues line the bridge?", Points: 10, CorrectAnswer: "30", Order: 1},
	{ID: "q2", Text: "Which river does it cross?", Points: 5, Options: []string{"Vltava", "Danube"}, CorrectAnswer: "Vltava", Order: 2},
	{ID: "q3", Text: "Take a team photo.", Points: 20, Order: 3},
}

func newStore(t *testing.T) *docstore.Store {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))
	return docstore.New(db)
}

func TestDocSourceOrdersQuestions(t *testing.T) {
	ctx := context.Background()
	src := NewDocSource(newStore(t))

	zone := qrseekers.Zone{
		ID:   "charles-bridge",
		Name: "Charles bridge",
		Questions: []qrseekers.Question{
			{ID: "c", Text: "third", Order: 3},
			{ID: "a", Text: "first", Order: 1},
			{ID: "b", Text: "second", Order: 2},
		},
	}
	require.NoError(t, src.SaveZone(ctx, zone))

	qs, err := src.LoadQuestions(ctx, "charles-bridge")
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{qs[0].ID, qs[1].ID, qs[2].ID})

	_, err = src.LoadQuestions(ctx, "nowhere")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestSessionLabelsAndAnswers(t *testing.T) {
	s, err := NewSession(context.Background(), staticSource{questions: bridgeQuestions}, "charles-bridge", "Charles bridge")
	require.NoError(t, err)

	assert.Equal(t, "ZONE: Charles bridge", s.Title())
	assert.Equal(t, "1. (10 pts) How many statues line the bridge?", s.Label(0))
	assert.Equal(t, "3. (20 pts) Take a team photo.", s.Label(2))

	require.NoError(t, s.UpdateAnswer("q1", "30"))
	require.NoError(t, s.UpdateAnswer("q1", "31"))
	got, ok := s.Answer("q1")
	require.True(t, ok)
	assert.Equal(t, "31", got)

	assert.ErrorIs(t, s.UpdateAnswer("q9", "x"), ErrUnknownQuestion)
	assert.ErrorIs(t, s.UpdateAnswer("q2", "Rhine"), ErrInvalidOption)
	_, ok = s.Answer("q2")
	assert.False(t, ok)
}

func TestSessionLoadError(t *testing.T) {
	boom := errors.New("offline")
	_, err := NewSession(context.Background(), staticSource{err: boom}, "z", "Z")
	assert.ErrorIs(t, err, boom)
}

func TestGrade(t *testing.T) {
	r := Grade(bridgeQuestions, map[string]string{
		"q1": " 30 ",
		"q2": "Danube",
		"q3": "photo.jpg",
	})

	assert.Equal(t, 10, r.Score)
	assert.Equal(t, 15, r.MaxScore)
	assert.Equal(t, 1, r.Correct)
	assert.Equal(t, 2, r.Graded)
}

func TestGradeNormalizesText(t *testing.T) {
	qs := []qrseekers.Question{
		{ID: "q1", Points: 3, CorrectAnswer: "Café Slavia"},
		{ID: "q2", Points: 2, CorrectAnswer: "STRASSE"},
	}

	r := Grade(qs, map[string]string{
		"q1": "  café SLAVIA",
		"q2": "straße",
	})

	assert.Equal(t, 2, r.Correct)
	assert.Equal(t, 5, r.Score)
}

func TestSubmitAndSave(t *testing.T) {
	ctx := context.Background()
	docs := newStore(t)
	s, err := NewSession(ctx, staticSource{questions: bridgeQuestions}, "charles-bridge", "Charles bridge")
	require.NoError(t, err)
	require.NoError(t, s.UpdateAnswer("q2", "Vltava"))

	r := s.Submit()
	assert.Equal(t, "charles-bridge", r.ZoneID)
	assert.Equal(t, 5, r.Score)

	id, err := Save(ctx, docs, "u1", r)
	require.NoError(t, err)

	doc, err := docs.Get(ctx, SubmissionsCollection, id)
	require.NoError(t, err)
	assert.Equal(t, "u1", doc.String("userId"))
	assert.Equal(t, float64(5), doc["score"])
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	src := NewDocSource(newStore(t))

	require.NoError(t, src.Seed(ctx))
	require.NoError(t, src.Seed(ctx))

	z, err := src.LoadZone(ctx, "charles-bridge")
	require.NoError(t, err)
	assert.Equal(t, "Charles bridge", z.Name)
	require.Len(t, z.Questions, 3)
	assert.True(t, z.Questions[1].MultipleChoice())
}
