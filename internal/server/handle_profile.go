package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/qrseekers/qrseekers/internal/docstore"
	"github.com/qrseekers/qrseekers/internal/profile"
)

const maxImageBytes = 5 << 20

type ProfileImageResponse struct {
	ProfileImageBase64 string `json:"profileImageBase64"`
}

func handleProfile(profiles *profile.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, profiles.Load(r.Context(), userFrom(r)))
	}
}

// handleProfileImage takes the raw image bytes as the request body.
func handleProfileImage(profiles *profile.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImageBytes))
		if err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}

		encoded, err := profiles.SetImage(r.Context(), userFrom(r), raw)
		switch {
		case errors.Is(err, profile.ErrNotImage):
			writeError(w, http.StatusBadRequest, "body is not a PNG, JPEG or GIF image")
			return
		case errors.Is(err, docstore.ErrNotFound):
			writeError(w, http.StatusNotFound, "profile not found")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, ProfileImageResponse{ProfileImageBase64: encoded})
	}
}
