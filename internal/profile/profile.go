// Package profile loads what the profile screen shows and stores the
// user's profile picture.
package profile

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"strings"

	"github.com/qrseekers/qrseekers/internal/docstore"
)

const usersCollection = "users"

// Placeholder texts shown while data is missing or failed to load.
const (
	TextLoading      = "Loading..."
	TextNone         = "None"
	TextNoEmail      = "No Email"
	TextNoActiveGame = "No active game"
	TextLoadError    = "Error loading data"
)

const imageField = "profileImageBase64"

var ErrNotImage = errors.New("not a supported image")

// View is the profile screen's state.
type View struct {
	Email        string `json:"email"`
	Participates string `json:"participates"`
	ImageBase64  string `json:"profileImageBase64,omitempty"`
}

type Service struct {
	docs   *docstore.Store
	logger *slog.Logger
}

func NewService(docs *docstore.Store, logger *slog.Logger) *Service {
	return &Service{docs: docs, logger: logger}
}

// Load never fails: store errors degrade to placeholder texts.
func (s *Service) Load(ctx context.Context, userID string) View {
	v := View{Email: TextLoading, Participates: TextNone}

	doc, err := s.docs.Get(ctx, usersCollection, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return v
	}
	if err != nil {
		s.logger.Error("loading profile", "user_id", userID, "error", err)
		return View{Email: TextLoadError, Participates: TextLoadError}
	}

	v.Email = doc.String("email")
	if v.Email == "" {
		v.Email = TextNoEmail
	}
	v.Participates = doc.String("gameName")
	if v.Participates == "" {
		v.Participates = TextNoActiveGame
	}
	v.ImageBase64 = doc.String(imageField)
	return v
}

// SetImage validates raw as an image and stores it base64-encoded. It
// returns the encoded form.
func (s *Service) SetImage(ctx context.Context, userID string, raw []byte) (string, error) {
	if _, _, err := image.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	encoded := EncodeImage(raw)
	if err := s.docs.UpdateField(ctx, usersCollection, userID, imageField, encoded); err != nil {
		return "", err
	}
	s.logger.Info("profile image updated", "user_id", userID, "bytes", len(raw))
	return encoded, nil
}

func EncodeImage(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodeImage reverses EncodeImage. Line breaks in the input are ignored,
// so MIME-style wrapped encodings decode too.
func DecodeImage(encoded string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, encoded)
	return base64.StdEncoding.DecodeString(cleaned)
}
