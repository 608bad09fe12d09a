package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qrseekers/qrseekers/internal/docstore"
	"github.com/qrseekers/qrseekers/internal/qrseekers"
	"github.com/qrseekers/qrseekers/internal/quiz"
)

// QuestionItem is a question as shown to players: without its answer.
type QuestionItem struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	Points         int      `json:"points"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	MultipleChoice bool     `json:"multipleChoice"`
	Options        []string `json:"options,omitempty"`
}

type QuizResponse struct {
	ZoneID    string         `json:"zoneId"`
	Title     string         `json:"title"`
	Questions []QuestionItem `json:"questions"`
}

type SubmitQuizRequest struct {
	Answers map[string]string `json:"answers"`
}

type SubmitQuizResponse struct {
	SubmissionID string `json:"submissionId"`
	Score        int    `json:"score"`
	MaxScore     int    `json:"maxScore"`
	Correct      int    `json:"correct"`
	Graded       int    `json:"graded"`
}

func loadZone(w http.ResponseWriter, r *http.Request, zones *quiz.DocSource) (qrseekers.Zone, bool) {
	z, err := zones.LoadZone(r.Context(), chi.URLParam(r, "zoneID"))
	if errors.Is(err, docstore.ErrNotFound) {
		writeError(w, http.StatusNotFound, "zone not found")
		return qrseekers.Zone{}, false
	}
	if err != nil {
		// Degraded read: the quiz screen shows an error text.
		writeError(w, http.StatusBadGateway, "Error loading data")
		return qrseekers.Zone{}, false
	}
	return z, true
}

func handleQuiz(zones *quiz.DocSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		z, ok := loadZone(w, r, zones)
		if !ok {
			return
		}

		s := quiz.SessionFor(z)
		qs := s.Questions()
		resp := QuizResponse{
			ZoneID:    z.ID,
			Title:     s.Title(),
			Questions: make([]QuestionItem, len(qs)),
		}
		for i, q := range qs {
			resp.Questions[i] = QuestionItem{
				ID:             q.ID,
				Label:          s.Label(i),
				Points:         q.Points,
				ImageURL:       q.ImageURL,
				MultipleChoice: q.MultipleChoice(),
				Options:        q.Options,
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleSubmitQuiz(zones *quiz.DocSource, docs *docstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitQuizRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		z, ok := loadZone(w, r, zones)
		if !ok {
			return
		}

		s := quiz.SessionFor(z)
		for id, answer := range req.Answers {
			if err := s.UpdateAnswer(id, answer); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		result := s.Submit()
		id, err := quiz.Save(r.Context(), docs, userFrom(r), result)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, SubmitQuizResponse{
			SubmissionID: id,
			Score:        result.Score,
			MaxScore:     result.MaxScore,
			Correct:      result.Correct,
			Graded:       result.Graded,
		})
	}
}
