package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/balkashynov/duedeck/internal/models"
)

// Table is the record-level contract the rest of the app relies on.
// Nothing beyond single-record writes and a bulk delete by id is assumed.
type Table[T any] interface {
	SelectAll(ctx context.Context) ([]T, error)
	Insert(ctx context.Context, record *T) error
	UpdateByID(ctx context.Context, id uint, fields map[string]any) error
	DeleteByID(ctx context.Context, id uint) error
	DeleteWhere(ctx context.Context, ids []uint) error
}

// Store groups the tables for every entity
type Store struct {
	Tasks      Table[models.Task]
	Members    Table[models.TeamMember]
	Categories Table[models.Category]
}

// NewStore builds a gorm-backed store.
// Tasks come back newest id first, members and categories by name.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Tasks:      &gormTable[models.Task]{db: db, entity: "task", order: "id DESC"},
		Members:    &gormTable[models.TeamMember]{db: db, entity: "team member", order: "name ASC"},
		Categories: &gormTable[models.Category]{db: db, entity: "category", order: "name ASC"},
	}
}

// WriteError is any failure writing to the store
type WriteError struct {
	Op     string // insert, update, delete
	Entity string
	ID     uint
	Err    error
}

func (e *WriteError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %s #%d: %v", e.Op, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsWriteError reports whether err carries a *WriteError
func IsWriteError(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}

// ErrNotFound is returned when an update or delete matched no row
var ErrNotFound = errors.New("record not found")

type gormTable[T any] struct {
	db     *gorm.DB
	entity string
	order  string
}

func (t *gormTable[T]) SelectAll(ctx context.Context) ([]T, error) {
	var records []T
	if err := t.db.WithContext(ctx).Order(t.order).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("select %s: %w", t.entity, err)
	}
	return records, nil
}

func (t *gormTable[T]) Insert(ctx context.Context, record *T) error {
	if err := t.db.WithContext(ctx).Create(record).Error; err != nil {
		return &WriteError{Op: "insert", Entity: t.entity, Err: err}
	}
	return nil
}

func (t *gormTable[T]) UpdateByID(ctx context.Context, id uint, fields map[string]any) error {
	res := t.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return &WriteError{Op: "update", Entity: t.entity, ID: id, Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &WriteError{Op: "update", Entity: t.entity, ID: id, Err: ErrNotFound}
	}
	return nil
}

func (t *gormTable[T]) DeleteByID(ctx context.Context, id uint) error {
	res := t.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return &WriteError{Op: "delete", Entity: t.entity, ID: id, Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &WriteError{Op: "delete", Entity: t.entity, ID: id, Err: ErrNotFound}
	}
	return nil
}

func (t *gormTable[T]) DeleteWhere(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := t.db.WithContext(ctx).Where("id IN ?", ids).Delete(new(T)).Error; err != nil {
		return &WriteError{Op: "delete", Entity: t.entity, Err: err}
	}
	return nil
}
