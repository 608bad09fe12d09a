// Package qrseekers defines the core domain types of the QRseekers client.
// It has no dependencies outside the standard library.
package qrseekers

type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Points        int      `json:"points"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Order         int      `json:"order"`
}

// MultipleChoice reports whether the question is answered by picking one of
// its options rather than with free text.
func (q Question) MultipleChoice() bool {
	return len(q.Options) > 0
}

type Zone struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Hint      string     `json:"hint,omitempty"`
	Questions []Question `json:"questions,omitempty"`
}

type Game struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Profile struct {
	UserID             string
	Email              string
	GameName           string
	ProfileImageBase64 string
}
