package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"diary/internal/auth"
	"diary/internal/identity"
)

type AuthHandler struct {
	Identity *identity.Service
	JWT      *auth.JWT
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	sess, err := h.Identity.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		authFailed(w, err, http.StatusBadRequest)
		return
	}
	h.issue(w, sess, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	sess, err := h.Identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		authFailed(w, err, http.StatusUnauthorized)
		return
	}
	h.issue(w, sess, http.StatusOK)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	h.Identity.Logout(r.Context(), sess)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) issue(w http.ResponseWriter, sess identity.Session, status int) {
	token, err := h.JWT.Sign(sess)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, map[string]any{
		"token":    token,
		"email":    sess.Email,
		"user_key": sess.UserKey,
	})
}

// authFailed writes only the user-facing part of an identity error.
func authFailed(w http.ResponseWriter, err error, status int) {
	var ae *identity.AuthError
	if !errors.As(err, &ae) {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if errors.Is(err, identity.ErrEmailTaken) {
		status = http.StatusConflict
	}
	http.Error(w, ae.Msg, status)
}
