// Package diary wires the composer, store, browser and viewer together. Each
// exported method is one user action against one session's state.
package diary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"diary/internal/browser"
	"diary/internal/composer"
	"diary/internal/entry"
	"diary/internal/identity"
	"diary/internal/logging"
	"diary/internal/session"
	"diary/internal/viewer"
)

var (
	// ErrStore marks failures of the entry store. They are recoverable: the
	// session keeps its state and an error banner is queued.
	ErrStore        = errors.New("entry store unavailable")
	ErrUnknownMonth = errors.New("no entries in that month")
)

const (
	noticeSaved   = "Entry saved successfully!"
	noticeDeleted = "Entry deleted successfully!"
	errSaveFailed = "Could not save the entry, please try again."
	errDelFailed  = "Could not delete the entry, please try again."
	errLoadFailed = "Could not load past entries."
	warnNoImage   = "Could not load image"
)

type App struct {
	Store    entry.Store
	Sessions *session.Registry
	Log      logging.Logger

	Now      func() time.Time
	Location *time.Location
}

func New(store entry.Store, sessions *session.Registry, log logging.Logger, loc *time.Location) *App {
	if loc == nil {
		loc = time.Local
	}
	return &App{Store: store, Sessions: sessions, Log: log, Now: time.Now, Location: loc}
}

func (a *App) now() time.Time {
	return a.Now().In(a.Location)
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStore, err)
}

func (a *App) with(sess identity.Session, fn func(*session.State) error) error {
	return a.Sessions.With(sess.ID, fn)
}

func (a *App) SetDraftText(sess identity.Session, text string) error {
	return a.with(sess, func(st *session.State) error {
		st.Draft.SetText(text)
		return nil
	})
}

func (a *App) InsertBullet(sess identity.Session) error {
	return a.with(sess, func(st *session.State) error {
		st.Draft.InsertBullet()
		return nil
	})
}

func (a *App) InsertParagraphBreak(sess identity.Session) error {
	return a.with(sess, func(st *session.State) error {
		st.Draft.InsertParagraphBreak()
		return nil
	})
}

func (a *App) InsertDivider(sess identity.Session) error {
	return a.with(sess, func(st *session.State) error {
		st.Draft.InsertDivider()
		return nil
	})
}

// AttachImage stores an already validated upload on the draft.
func (a *App) AttachImage(sess identity.Session, img composer.Image) error {
	return a.with(sess, func(st *session.State) error {
		st.Draft.AttachImage(img)
		return nil
	})
}

func (a *App) DetachImage(sess identity.Session) error {
	return a.with(sess, func(st *session.State) error {
		st.Draft.DetachImage()
		return nil
	})
}

func (a *App) Save(ctx context.Context, sess identity.Session) (entry.Entry, error) {
	var saved entry.Entry
	err := a.with(sess, func(st *session.State) error {
		e, err := st.Draft.Save(ctx, sess.UserKey, a.Store, a.now())
		if err != nil {
			if errors.Is(err, composer.ErrEmptyDraft) {
				return err
			}
			a.Log.Error(ctx, "save entry failed", "user_key", sess.UserKey, "err", err)
			st.Error = errSaveFailed
			return storeErr(err)
		}
		saved = e
		st.Notice = noticeSaved
		a.Log.Info(ctx, "entry saved", "user_key", sess.UserKey, "entry_id", e.EntryID, "has_image", e.HasImage())
		return nil
	})
	return saved, err
}

// Entries is the flat listing, newest first.
func (a *App) Entries(ctx context.Context, sess identity.Session) ([]entry.Entry, error) {
	list, err := a.Store.List(ctx, sess.UserKey)
	if err != nil {
		return nil, storeErr(err)
	}
	return list, nil
}

func (a *App) find(ctx context.Context, sess identity.Session, entryID string) (entry.Entry, error) {
	list, err := a.Entries(ctx, sess)
	if err != nil {
		return entry.Entry{}, err
	}
	return entry.Find(list, entryID)
}

func (a *App) SelectMonth(ctx context.Context, sess identity.Session, month string) error {
	list, err := a.Entries(ctx, sess)
	if err != nil {
		return err
	}
	if _, ok := browser.BuildIndex(list).Months[month]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMonth, month)
	}
	return a.with(sess, func(st *session.State) error {
		st.SelectedMonth = month
		return nil
	})
}

func (a *App) View(ctx context.Context, sess identity.Session, entryID string) error {
	e, err := a.find(ctx, sess, entryID)
	if err != nil {
		return err
	}
	return a.with(sess, func(st *session.State) error {
		st.Viewer.View(e)
		return nil
	})
}

// Close leaves the focused entry and returns to an empty writing area.
func (a *App) Close(sess identity.Session) error {
	return a.with(sess, func(st *session.State) error {
		st.Viewer.Close()
		st.Draft.SetText("")
		return nil
	})
}

func (a *App) RequestDelete(sess identity.Session) error {
	return a.with(sess, func(st *session.State) error {
		return st.Viewer.RequestDelete()
	})
}

func (a *App) CancelDelete(sess identity.Session) error {
	return a.with(sess, func(st *session.State) error {
		st.Viewer.CancelDelete()
		return nil
	})
}

func (a *App) ConfirmDelete(ctx context.Context, sess identity.Session) error {
	return a.with(sess, func(st *session.State) error {
		id, err := st.Viewer.ConfirmDelete(ctx, sess.UserKey, a.Store)
		if err != nil {
			if errors.Is(err, viewer.ErrNoPendingDelete) {
				return err
			}
			a.Log.Error(ctx, "delete entry failed", "user_key", sess.UserKey, "err", err)
			st.Error = errDelFailed
			return storeErr(err)
		}
		st.Notice = noticeDeleted
		a.Log.Info(ctx, "entry deleted", "user_key", sess.UserKey, "entry_id", id)
		return nil
	})
}

// Export returns the download name and JSON body of an entry. A positive
// index names the file after the entry's position in its day listing.
func (a *App) Export(ctx context.Context, sess identity.Session, entryID string, index int) (string, []byte, error) {
	e, err := a.find(ctx, sess, entryID)
	if err != nil {
		return "", nil, err
	}
	body, err := viewer.ExportJSON(e)
	if err != nil {
		return "", nil, err
	}
	name := viewer.DetailFilename(e)
	if index > 0 {
		name = viewer.ListFilename(e, index)
	}
	return name, body, nil
}

func (a *App) Image(ctx context.Context, sess identity.Session, entryID string) (viewer.Image, error) {
	e, err := a.find(ctx, sess, entryID)
	if err != nil {
		return viewer.Image{}, err
	}
	return viewer.DecodeImage(e)
}
