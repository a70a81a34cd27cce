package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"printshop-pricing-backend/internal/model"
	"printshop-pricing-backend/internal/pricing"
)

// PricingProfileStore manages the machine+ink bindings and loads the record
// combination a quote needs.
type PricingProfileStore interface {
	ListPricingProfiles(ctx context.Context, tenantID string) ([]model.PricingProfile, error)
	GetPricingProfile(ctx context.Context, tenantID string, id int64) (*model.PricingProfile, error)
	CreatePricingProfile(ctx context.Context, p *model.PricingProfile) error
	UpdatePricingProfile(ctx context.Context, p *model.PricingProfile) error
	DeletePricingProfile(ctx context.Context, tenantID string, id int64) error

	LoadQuoteInputs(ctx context.Context, tenantID string, pricingProfileID, materialID, marginProfileID int64) (*QuoteInputs, error)
}

// QuoteInputs bundles the four records a quote combines. Each is fully
// typed at this boundary so the engine never touches partially-typed data.
type QuoteInputs struct {
	Profile       *model.PricingProfile
	Machine       *model.Machine
	InkSet        *model.InkSet
	Material      *model.Material
	MarginProfile *model.MarginProfile
}

func (s *gormStore) ListPricingProfiles(ctx context.Context, tenantID string) ([]model.PricingProfile, error) {
	var profiles []model.PricingProfile
	err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("id").Find(&profiles).Error
	return profiles, err
}

func (s *gormStore) GetPricingProfile(ctx context.Context, tenantID string, id int64) (*model.PricingProfile, error) {
	var p model.PricingProfile
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) CreatePricingProfile(ctx context.Context, p *model.PricingProfile) error {
	if err := pricing.ValidatePricingProfile(p); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkProfileRefs(tx, p); err != nil {
			return err
		}
		return tx.Create(p).Error
	})
}

func (s *gormStore) UpdatePricingProfile(ctx context.Context, p *model.PricingProfile) error {
	if err := pricing.ValidatePricingProfile(p); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwned(tx, &model.PricingProfile{}, p.TenantID, p.ID); err != nil {
			return err
		}
		if err := checkProfileRefs(tx, p); err != nil {
			return err
		}
		return tx.Omit("Machine", "InkSet").Save(p).Error
	})
}

func (s *gormStore) DeletePricingProfile(ctx context.Context, tenantID string, id int64) error {
	return deleteOwned(s.db.WithContext(ctx), &model.PricingProfile{}, tenantID, id)
}

// LoadQuoteInputs fetches the whole record combination in one pass,
// tenant-scoped, so a quote either gets four valid records or a not-found.
func (s *gormStore) LoadQuoteInputs(ctx context.Context, tenantID string, pricingProfileID, materialID, marginProfileID int64) (*QuoteInputs, error) {
	profile, err := s.GetPricingProfile(ctx, tenantID, pricingProfileID)
	if err != nil {
		return nil, fmt.Errorf("pricing profile %d: %w", pricingProfileID, err)
	}
	machine, err := s.GetMachine(ctx, tenantID, profile.MachineID)
	if err != nil {
		return nil, fmt.Errorf("machine %d: %w", profile.MachineID, err)
	}
	inkSet, err := s.GetInkSet(ctx, tenantID, profile.InkSetID)
	if err != nil {
		return nil, fmt.Errorf("ink set %d: %w", profile.InkSetID, err)
	}
	material, err := s.GetMaterial(ctx, tenantID, materialID)
	if err != nil {
		return nil, fmt.Errorf("material %d: %w", materialID, err)
	}
	marginProfile, err := s.GetMarginProfile(ctx, tenantID, marginProfileID)
	if err != nil {
		return nil, fmt.Errorf("margin profile %d: %w", marginProfileID, err)
	}

	return &QuoteInputs{
		Profile:       profile,
		Machine:       machine,
		InkSet:        inkSet,
		Material:      material,
		MarginProfile: marginProfile,
	}, nil
}

// checkProfileRefs confirms the referenced machine and ink set exist under
// the same tenant before the profile binds them.
func checkProfileRefs(tx *gorm.DB, p *model.PricingProfile) error {
	var machine model.Machine
	if err := tx.Where("tenant_id = ?", p.TenantID).First(&machine, p.MachineID).Error; err != nil {
		return fmt.Errorf("machine %d: %w", p.MachineID, err)
	}
	var inkSet model.InkSet
	if err := tx.Where("tenant_id = ?", p.TenantID).First(&inkSet, p.InkSetID).Error; err != nil {
		return fmt.Errorf("ink set %d: %w", p.InkSetID, err)
	}
	return nil
}
