package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"diary/internal/auth"
	"diary/internal/composer"
	"diary/internal/diary"
	"diary/internal/entry"
	"diary/internal/identity"

	"github.com/go-chi/chi/v5"
)

// DiaryHandler exposes one endpoint per user action. Every state-changing
// action answers with the re-rendered page.
type DiaryHandler struct {
	App            *diary.App
	MaxUploadBytes int64
}

func (h *DiaryHandler) render(w http.ResponseWriter, r *http.Request, status int) {
	p, err := h.App.Page(r.Context(), sessionOf(r))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, status, p)
}

// act runs a state-only action and re-renders.
func (h *DiaryHandler) act(fn func(*diary.App, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(h.App, r); err != nil {
			fail(w, err)
			return
		}
		h.render(w, r, http.StatusOK)
	}
}

func sessionOf(r *http.Request) identity.Session {
	s, _ := auth.SessionFromContext(r.Context())
	return s
}

func (h *DiaryHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK)
}

type draftReq struct {
	Text string `json:"text"`
}

func (h *DiaryHandler) SetDraft(w http.ResponseWriter, r *http.Request) {
	var req draftReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := h.App.SetDraftText(sessionOf(r), req.Text); err != nil {
		fail(w, err)
		return
	}
	h.render(w, r, http.StatusOK)
}

func (h *DiaryHandler) Bullet() http.HandlerFunc {
	return h.act(func(a *diary.App, r *http.Request) error { return a.InsertBullet(sessionOf(r)) })
}

func (h *DiaryHandler) Paragraph() http.HandlerFunc {
	return h.act(func(a *diary.App, r *http.Request) error { return a.InsertParagraphBreak(sessionOf(r)) })
}

func (h *DiaryHandler) Divider() http.HandlerFunc {
	return h.act(func(a *diary.App, r *http.Request) error { return a.InsertDivider(sessionOf(r)) })
}

func (h *DiaryHandler) RemoveImage() http.HandlerFunc {
	return h.act(func(a *diary.App, r *http.Request) error { return a.DetachImage(sessionOf(r)) })
}

func (h *DiaryHandler) Close() http.HandlerFunc {
	return h.act(func(a *diary.App, r *http.Request) error { return a.Close(sessionOf(r)) })
}

func (h *DiaryHandler) RequestDelete() http.HandlerFunc {
	return h.act(func(a *diary.App, r *http.Request) error { return a.RequestDelete(sessionOf(r)) })
}

func (h *DiaryHandler) CancelDelete() http.HandlerFunc {
	return h.act(func(a *diary.App, r *http.Request) error { return a.CancelDelete(sessionOf(r)) })
}

func (h *DiaryHandler) ConfirmDelete() http.HandlerFunc {
	return h.act(func(a *diary.App, r *http.Request) error { return a.ConfirmDelete(r.Context(), sessionOf(r)) })
}

func (h *DiaryHandler) View() http.HandlerFunc {
	return h.act(func(a *diary.App, r *http.Request) error {
		return a.View(r.Context(), sessionOf(r), chi.URLParam(r, "id"))
	})
}

// UploadImage takes a multipart form with one file in the "image" field.
func (h *DiaryHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = composer.DefaultMaxImageBytes
	}
	// leave room for the multipart envelope; the file itself is checked below
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)

	file, hdr, err := r.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "image file required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "could not read upload", http.StatusBadRequest)
		return
	}

	mimeType := hdr.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = mt
	}
	img, err := composer.ValidateImage(composer.Image{
		Name:     hdr.Filename,
		MIMEType: mimeType,
		Data:     data,
	}, limit)
	if err != nil {
		fail(w, err)
		return
	}

	if err := h.App.AttachImage(sessionOf(r), img); err != nil {
		fail(w, err)
		return
	}
	h.render(w, r, http.StatusOK)
}

// savedPage is the page after a save plus a summary of the new entry.
type savedPage struct {
	diary.Page
	Saved entryDTO `json:"saved"`
}

func (h *DiaryHandler) Save(w http.ResponseWriter, r *http.Request) {
	saved, err := h.App.Save(r.Context(), sessionOf(r))
	if err != nil {
		fail(w, err)
		return
	}
	p, err := h.App.Page(r.Context(), sessionOf(r))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, savedPage{Page: p, Saved: toDTO(saved)})
}

type monthReq struct {
	Month string `json:"month"`
}

func (h *DiaryHandler) SelectMonth(w http.ResponseWriter, r *http.Request) {
	var req monthReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := h.App.SelectMonth(r.Context(), sessionOf(r), strings.TrimSpace(req.Month)); err != nil {
		fail(w, err)
		return
	}
	h.render(w, r, http.StatusOK)
}

type entryDTO struct {
	EntryID   string `json:"entry_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Timestamp string `json:"timestamp"`
	MonthYear string `json:"month_year"`
	Content   string `json:"content"`
	HasImage  bool   `json:"has_image"`
	ImageType string `json:"image_type,omitempty"`
}

func toDTO(e entry.Entry) entryDTO {
	return entryDTO{
		EntryID:   e.EntryID,
		Date:      e.Date,
		Time:      e.Time(),
		Timestamp: e.Timestamp,
		MonthYear: e.Month(),
		Content:   e.Content,
		HasImage:  e.HasImage(),
		ImageType: e.ImageType,
	}
}

func (h *DiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.App.Entries(r.Context(), sessionOf(r))
	if err != nil {
		fail(w, err)
		return
	}
	out := make([]entryDTO, 0, len(list))
	for _, e := range list {
		out = append(out, toDTO(e))
	}
	writeJSON(w, http.StatusOK, out)
}

// Export downloads one entry as JSON. With ?index=N the file is named after
// the entry's position in its day listing.
func (h *DiaryHandler) Export(w http.ResponseWriter, r *http.Request) {
	index := 0
	if v := strings.TrimSpace(r.URL.Query().Get("index")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "invalid index", http.StatusBadRequest)
			return
		}
		index = n
	}

	name, body, err := h.App.Export(r.Context(), sessionOf(r), chi.URLParam(r, "id"), index)
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	_, _ = w.Write(body)
}

func (h *DiaryHandler) Image(w http.ResponseWriter, r *http.Request) {
	img, err := h.App.Image(r.Context(), sessionOf(r), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Type", img.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	_, _ = w.Write(img.Data)
}
