package entry

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("entry not found")

// Store is the per-user entry collection.
type Store interface {
	// Create writes e under userKey. Saving an existing id overwrites it.
	Create(ctx context.Context, userKey string, e Entry) error
	// List returns every entry of userKey, newest timestamp first.
	List(ctx context.Context, userKey string) ([]Entry, error)
	// Delete removes the entry. Deleting an absent id is not an error.
	Delete(ctx context.Context, userKey, entryID string) error
}

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Create(ctx context.Context, userKey string, e Entry) error {
	e.UserKey = userKey
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_key"}, {Name: "entry_id"}},
			UpdateAll: true,
		}).
		Create(&e).Error
}

func (s *GormStore) List(ctx context.Context, userKey string) ([]Entry, error) {
	var rows []Entry
	err := s.DB.WithContext(ctx).
		Where("user_key = ?", userKey).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "timestamp"}, Desc: true},
			{Column: clause.Column{Name: "entry_id"}, Desc: true},
		}}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) Delete(ctx context.Context, userKey, entryID string) error {
	return s.DB.WithContext(ctx).
		Where("user_key = ? AND entry_id = ?", userKey, entryID).
		Delete(&Entry{}).Error
}

// Find looks an entry up in a listed snapshot.
func Find(entries []Entry, entryID string) (Entry, error) {
	for _, e := range entries {
		if e.EntryID == entryID {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}
