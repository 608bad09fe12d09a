package quiz

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/qrseekers/qrseekers/internal/docstore"
	"github.com/qrseekers/qrseekers/internal/qrseekers"
)

var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrInvalidOption   = errors.New("answer is not one of the options")
)

// Session holds the answers a team is filling in for one zone.
type Session struct {
	zoneID    string
	zoneName  string
	questions []qrseekers.Question

	mu      sync.Mutex
	answers map[string]string
}

func NewSession(ctx context.Context, src Source, zoneID, zoneName string) (*Session, error) {
	qs, err := src.LoadQuestions(ctx, zoneID)
	if err != nil {
		return nil, fmt.Errorf("loading questions for zone %s: %w", zoneID, err)
	}
	return newSession(zoneID, zoneName, qs), nil
}

// SessionFor starts a session on an already loaded zone.
func SessionFor(z qrseekers.Zone) *Session {
	return newSession(z.ID, z.Name, z.Questions)
}

func newSession(zoneID, zoneName string, qs []qrseekers.Question) *Session {
	return &Session{
		zoneID:    zoneID,
		zoneName:  zoneName,
		questions: qs,
		answers:   make(map[string]string),
	}
}

func (s *Session) ZoneID() string { return s.zoneID }

func (s *Session) Title() string { return "ZONE: " + s.zoneName }

func (s *Session) Questions() []qrseekers.Question {
	return slices.Clone(s.questions)
}

// Label renders question i (0-based) as "N. (P pts) text".
func (s *Session) Label(i int) string {
	q := s.questions[i]
	return fmt.Sprintf("%d. (%d pts) %s", i+1, q.Points, q.Text)
}

func (s *Session) Answer(questionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.answers[questionID]
	return a, ok
}

func (s *Session) UpdateAnswer(questionID, answer string) error {
	i := slices.IndexFunc(s.questions, func(q qrseekers.Question) bool { return q.ID == questionID })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	if q := s.questions[i]; q.MultipleChoice() && !slices.Contains(q.Options, answer) {
		return fmt.Errorf("%w: %q", ErrInvalidOption, answer)
	}

	s.mu.Lock()
	s.answers[questionID] = answer
	s.mu.Unlock()
	return nil
}

func (s *Session) Answers() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.answers)
}

func (s *Session) Submit() Result {
	r := Grade(s.questions, s.Answers())
	r.ZoneID = s.zoneID
	return r
}

type Result struct {
	ZoneID   string            `json:"zoneId"`
	Answers  map[string]string `json:"answers"`
	Score    int               `json:"score"`
	MaxScore int               `json:"maxScore"`
	Correct  int               `json:"correct"`
	Graded   int               `json:"graded"`
}

// Grade scores answers against questions. Questions without a correct
// answer are not graded and do not count toward MaxScore.
func Grade(questions []qrseekers.Question, answers map[string]string) Result {
	r := Result{Answers: answers}
	for _, q := range questions {
		if q.CorrectAnswer == "" {
			continue
		}
		r.Graded++
		r.MaxScore += q.Points
		if a, ok := answers[q.ID]; ok && sameAnswer(a, q.CorrectAnswer) {
			r.Correct++
			r.Score += q.Points
		}
	}
	return r
}

func sameAnswer(a, b string) bool {
	return normalize(a) == normalize(b)
}

func normalize(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// Save stores a graded submission and returns its id.
func Save(ctx context.Context, docs *docstore.Store, userID string, r Result) (string, error) {
	id := uuid.NewString()
	doc := docstore.Document{
		"userId":      userID,
		"zoneId":      r.ZoneID,
		"answers":     r.Answers,
		"score":       r.Score,
		"maxScore":    r.MaxScore,
		"submittedAt": time.Now().UTC().Format(time.RFC3339),
	}
	if err := docs.Set(ctx, SubmissionsCollection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}
