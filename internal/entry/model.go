// Package entry holds the diary entry record, its naming conventions and the
// per-user store it is persisted in.
package entry

import (
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
	TimestampLayout = "2006-01-02 15:04:05"
	MonthLayout     = "2006-01"
)

// Entry is one saved diary record. Entries are never edited after save.
type Entry struct {
	UserKey   string `gorm:"primaryKey;type:text" json:"-"`
	EntryID   string `gorm:"primaryKey;type:text" json:"entry_id"`
	Date      string `gorm:"type:text;not null" json:"date"`
	EntryTime string `gorm:"type:text;not null;default:''" json:"entry_time"`
	Timestamp string `gorm:"type:text;not null" json:"timestamp"`
	MonthYear string `gorm:"type:text;not null;default:''" json:"month_year"`
	Content   string `gorm:"type:text;not null;default:''" json:"content"`

	// Image is the base64 (std encoding) text of the attached image, if any.
	Image     string `gorm:"type:text;not null;default:''" json:"image,omitempty"`
	ImageType string `gorm:"type:text;not null;default:''" json:"image_type,omitempty"`
}

func (Entry) TableName() string { return "entries" }

func (e Entry) HasImage() bool { return e.Image != "" }

// Month is the grouping key. Records written without month_year fall back to
// the date prefix.
func (e Entry) Month() string {
	if e.MonthYear != "" {
		return e.MonthYear
	}
	if len(e.Date) >= 7 {
		return e.Date[:7]
	}
	return e.Date
}

// Time is the display time. Records written without entry_time fall back to
// the time part of the timestamp.
func (e Entry) Time() string {
	if e.EntryTime != "" {
		return e.EntryTime
	}
	_, t, ok := strings.Cut(e.Timestamp, " ")
	if !ok {
		return ""
	}
	if len(t) > 8 {
		t = t[:8]
	}
	return t
}

// UserKey derives the storage partition key from an email by replacing every
// '@' and '.' with '_'. Distinct emails may collide (a@b.com, a_b.com).
func UserKey(email string) string {
	return strings.NewReplacer("@", "_", ".", "_").Replace(email)
}

// ID is {date}_{time with ':' replaced by '-'}.
func ID(date, clock string) string {
	return date + "_" + strings.ReplaceAll(clock, ":", "-")
}

// New builds an entry stamped with now. image is the already encoded base64
// text; imageType is only kept when an image is present.
func New(now time.Time, content, image, imageType string) Entry {
	date := now.Format(DateLayout)
	clock := now.Format(TimeLayout)

	e := Entry{
		EntryID:   ID(date, clock),
		Date:      date,
		EntryTime: clock,
		Timestamp: now.Format(TimestampLayout),
		MonthYear: now.Format(MonthLayout),
		Content:   content,
	}
	if image != "" {
		e.Image = image
		e.ImageType = imageType
	}
	return e
}
