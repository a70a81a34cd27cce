package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"printshop-pricing-backend/internal/model"
	"printshop-pricing-backend/internal/pricing"
)

// MarginProfileStore manages margin profiles and their tier sets.
type MarginProfileStore interface {
	ListMarginProfiles(ctx context.Context, tenantID string) ([]model.MarginProfile, error)
	GetMarginProfile(ctx context.Context, tenantID string, id int64) (*model.MarginProfile, error)
	CreateMarginProfile(ctx context.Context, p *model.MarginProfile) error
	UpdateMarginProfile(ctx context.Context, p *model.MarginProfile) error
	DeleteMarginProfile(ctx context.Context, tenantID string, id int64) error
}

func (s *gormStore) ListMarginProfiles(ctx context.Context, tenantID string) ([]model.MarginProfile, error) {
	var profiles []model.MarginProfile
	err := s.db.WithContext(ctx).Preload("Tiers", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order")
	}).Where("tenant_id = ?", tenantID).Order("id").Find(&profiles).Error
	return profiles, err
}

func (s *gormStore) GetMarginProfile(ctx context.Context, tenantID string, id int64) (*model.MarginProfile, error) {
	var p model.MarginProfile
	err := s.db.WithContext(ctx).Preload("Tiers", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order")
	}).Where("tenant_id = ?", tenantID).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) CreateMarginProfile(ctx context.Context, p *model.MarginProfile) error {
	if err := pricing.ValidateMarginProfile(p); err != nil {
		return err
	}
	// gorm saves the tiers with the profile in one transaction.
	return s.db.WithContext(ctx).Create(p).Error
}

// UpdateMarginProfile saves the profile and diffs its tier set against the
// stored one inside a single transaction: changed tiers are updated, new
// ones inserted, removed ones deleted. A reader never observes a profile
// with zero tiers mid-save.
func (s *gormStore) UpdateMarginProfile(ctx context.Context, p *model.MarginProfile) error {
	if err := pricing.ValidateMarginProfile(p); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.MarginProfile
		if err := tx.Preload("Tiers").Where("tenant_id = ?", p.TenantID).First(&existing, p.ID).Error; err != nil {
			return err
		}

		if err := tx.Omit("Tiers").Save(p).Error; err != nil {
			return fmt.Errorf("failed to update margin profile %d: %w", p.ID, err)
		}

		return syncTiers(tx, p.ID, existing.Tiers, p.Tiers)
	})
}

func (s *gormStore) DeleteMarginProfile(ctx context.Context, tenantID string, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteOwned(tx, &model.MarginProfile{}, tenantID, id); err != nil {
			return err
		}
		// Tiers cascade with the profile.
		return tx.Where("margin_profile_id = ?", id).Delete(&model.MarginTier{}).Error
	})
}

// syncTiers reconciles the stored tier rows with the submitted set.
func syncTiers(tx *gorm.DB, profileID int64, stored, submitted []model.MarginTier) error {
	remaining := make(map[int64]model.MarginTier, len(stored))
	for _, t := range stored {
		remaining[t.ID] = t
	}

	for i := range submitted {
		t := &submitted[i]
		t.MarginProfileID = profileID

		old, known := remaining[t.ID]
		if t.ID != 0 && known {
			delete(remaining, t.ID)
			if tierEqual(old, *t) {
				continue
			}
			if err := tx.Save(t).Error; err != nil {
				return fmt.Errorf("failed to update tier %d: %w", t.ID, err)
			}
			continue
		}

		t.ID = 0
		if err := tx.Create(t).Error; err != nil {
			return fmt.Errorf("failed to insert tier for profile %d: %w", profileID, err)
		}
	}

	for id := range remaining {
		if err := tx.Delete(&model.MarginTier{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete tier %d: %w", id, err)
		}
	}
	return nil
}

func tierEqual(a, b model.MarginTier) bool {
	if a.QtyFrom != b.QtyFrom || a.Value != b.Value || a.SortOrder != b.SortOrder {
		return false
	}
	if (a.QtyTo == nil) != (b.QtyTo == nil) {
		return false
	}
	return a.QtyTo == nil || *a.QtyTo == *b.QtyTo
}
