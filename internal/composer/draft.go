// Package composer accumulates an unsaved diary entry: its text, a few
// structural insertions and at most one attached image.
package composer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"diary/internal/entry"
)

const (
	Bullet         = "\n• "
	ParagraphBreak = "\n\n"
	Divider        = "\n---\n"
)

var ErrEmptyDraft = errors.New("nothing to save")

// Image is an uploaded picture as received from the client.
type Image struct {
	Name     string
	MIMEType string
	Data     []byte
}

type Draft struct {
	Text  string
	Image *Image
}

func (d *Draft) InsertBullet()         { d.Text += Bullet }
func (d *Draft) InsertParagraphBreak() { d.Text += ParagraphBreak }
func (d *Draft) InsertDivider()        { d.Text += Divider }

func (d *Draft) SetText(s string) { d.Text = s }

// AttachImage replaces any previously attached image.
func (d *Draft) AttachImage(img Image) { d.Image = &img }

func (d *Draft) DetachImage() { d.Image = nil }

func (d *Draft) Clear() {
	d.Text = ""
	d.Image = nil
}

// CanSave reports whether the draft has non-blank text or an image.
func (d *Draft) CanSave() bool {
	return strings.TrimSpace(d.Text) != "" || d.Image != nil
}

// Save writes the draft as a new entry stamped with now and clears the draft.
// On a store failure the draft is left untouched.
func (d *Draft) Save(ctx context.Context, userKey string, store entry.Store, now time.Time) (entry.Entry, error) {
	if !d.CanSave() {
		return entry.Entry{}, ErrEmptyDraft
	}

	var b64, typ string
	if d.Image != nil {
		b64 = base64.StdEncoding.EncodeToString(d.Image.Data)
		typ = d.Image.MIMEType
	}
	e := entry.New(now, d.Text, b64, typ)

	if err := store.Create(ctx, userKey, e); err != nil {
		return entry.Entry{}, fmt.Errorf("save entry %s: %w", e.EntryID, err)
	}
	e.UserKey = userKey

	d.Clear()
	return e, nil
}
