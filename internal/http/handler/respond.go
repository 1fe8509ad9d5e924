package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"diary/internal/composer"
	"diary/internal/diary"
	"diary/internal/entry"
	"diary/internal/session"
	"diary/internal/viewer"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail maps domain errors onto statuses with short messages.
func fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownSession):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, diary.ErrStore):
		http.Error(w, "storage unavailable", http.StatusBadGateway)
	case errors.Is(err, entry.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, viewer.ErrNoImage):
		http.Error(w, "no image", http.StatusNotFound)
	case errors.Is(err, viewer.ErrImageUnreadable):
		http.Error(w, "could not load image", http.StatusUnprocessableEntity)
	case errors.Is(err, composer.ErrEmptyDraft):
		http.Error(w, "nothing to save", http.StatusBadRequest)
	case errors.Is(err, diary.ErrUnknownMonth):
		http.Error(w, "unknown month", http.StatusBadRequest)
	case errors.Is(err, viewer.ErrNothingFocused), errors.Is(err, viewer.ErrNoPendingDelete):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, composer.ErrImageTooLarge):
		http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, composer.ErrUnsupportedImage), errors.Is(err, composer.ErrEmptyImage):
		http.Error(w, "only png, jpg and jpeg images are accepted", http.StatusUnsupportedMediaType)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}
