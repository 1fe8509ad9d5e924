package viewer

import (
	"context"
	"errors"
	"fmt"

	"diary/internal/entry"
)

var (
	ErrNothingFocused  = errors.New("no entry is being viewed")
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
)

// Viewer holds the focused entry and the delete confirmation state.
type Viewer struct {
	Focused       *entry.Entry
	PendingDelete string
}

func (v *Viewer) View(e entry.Entry) {
	if v.PendingDelete != e.EntryID {
		v.PendingDelete = ""
	}
	v.Focused = &e
}

func (v *Viewer) Close() {
	v.Focused = nil
	v.PendingDelete = ""
}

// RequestDelete marks the focused entry for deletion. Nothing is removed
// until ConfirmDelete.
func (v *Viewer) RequestDelete() error {
	if v.Focused == nil {
		return ErrNothingFocused
	}
	v.PendingDelete = v.Focused.EntryID
	return nil
}

func (v *Viewer) CancelDelete() {
	v.PendingDelete = ""
}

// ConfirmDelete removes the pending entry from the store and closes the view.
// If the store fails the view and the pending request are kept.
func (v *Viewer) ConfirmDelete(ctx context.Context, userKey string, store entry.Store) (string, error) {
	id := v.PendingDelete
	if id == "" {
		return "", ErrNoPendingDelete
	}
	if err := store.Delete(ctx, userKey, id); err != nil {
		return "", fmt.Errorf("delete entry %s: %w", id, err)
	}
	v.Close()
	return id, nil
}
