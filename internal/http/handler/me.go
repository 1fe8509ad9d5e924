package handler

import (
	"net/http"

	"diary/internal/auth"
)

type MeHandler struct{}

func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"email":    sess.Email,
		"user_key": sess.UserKey,
	})
}
