package store

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Store defines the persistence operations for all pricing entities. Every
// call is tenant-scoped and independently cancellable through its context.
type Store interface {
	MachineStore
	InkSetStore
	MaterialStore
	MarginProfileStore
	PricingProfileStore

	// DB exposes the underlying handle for handlers that manage
	// associations directly (push subscriptions).
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// ReferentialIntegrityError reports a delete blocked because pricing
// profiles still reference the record. Blocking beats cascading here: a
// silent cascade or null-out would silently change prices.
type ReferentialIntegrityError struct {
	Entity       string
	ID           int64
	ReferencedBy []string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s %d is referenced by pricing profiles: %s",
		e.Entity, e.ID, strings.Join(e.ReferencedBy, ", "))
}
