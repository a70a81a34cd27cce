package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"printshop-pricing-backend/internal/model"
	"printshop-pricing-backend/internal/pricing"
)

// MachineStore manages press records.
type MachineStore interface {
	ListMachines(ctx context.Context, tenantID string) ([]model.Machine, error)
	GetMachine(ctx context.Context, tenantID string, id int64) (*model.Machine, error)
	CreateMachine(ctx context.Context, m *model.Machine) error
	// UpdateMachine returns the IDs of pricing profiles referencing the
	// machine, so callers can notify watchers that their prices moved.
	UpdateMachine(ctx context.Context, m *model.Machine) ([]int64, error)
	DeleteMachine(ctx context.Context, tenantID string, id int64) error
}

// InkSetStore manages ink set records.
type InkSetStore interface {
	ListInkSets(ctx context.Context, tenantID string) ([]model.InkSet, error)
	GetInkSet(ctx context.Context, tenantID string, id int64) (*model.InkSet, error)
	CreateInkSet(ctx context.Context, i *model.InkSet) error
	UpdateInkSet(ctx context.Context, i *model.InkSet) ([]int64, error)
	DeleteInkSet(ctx context.Context, tenantID string, id int64) error
}

// MaterialStore manages substrate records.
type MaterialStore interface {
	ListMaterials(ctx context.Context, tenantID string) ([]model.Material, error)
	GetMaterial(ctx context.Context, tenantID string, id int64) (*model.Material, error)
	CreateMaterial(ctx context.Context, mat *model.Material) error
	UpdateMaterial(ctx context.Context, mat *model.Material) error
	DeleteMaterial(ctx context.Context, tenantID string, id int64) error
}

func (s *gormStore) ListMachines(ctx context.Context, tenantID string) ([]model.Machine, error) {
	var machines []model.Machine
	err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("id").Find(&machines).Error
	return machines, err
}

func (s *gormStore) GetMachine(ctx context.Context, tenantID string, id int64) (*model.Machine, error) {
	var m model.Machine
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *gormStore) CreateMachine(ctx context.Context, m *model.Machine) error {
	if err := pricing.ValidateMachine(m); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *gormStore) UpdateMachine(ctx context.Context, m *model.Machine) ([]int64, error) {
	if err := pricing.ValidateMachine(m); err != nil {
		return nil, err
	}

	var impacted []int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwned(tx, &model.Machine{}, m.TenantID, m.ID); err != nil {
			return err
		}
		if err := tx.Save(m).Error; err != nil {
			return fmt.Errorf("failed to update machine %d: %w", m.ID, err)
		}
		return tx.Model(&model.PricingProfile{}).
			Where("tenant_id = ? AND machine_id = ?", m.TenantID, m.ID).
			Pluck("id", &impacted).Error
	})
	return impacted, err
}

func (s *gormStore) DeleteMachine(ctx context.Context, tenantID string, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := blockIfReferenced(tx, tenantID, "machine", "machine_id", id); err != nil {
			return err
		}
		return deleteOwned(tx, &model.Machine{}, tenantID, id)
	})
}

func (s *gormStore) ListInkSets(ctx context.Context, tenantID string) ([]model.InkSet, error) {
	var inkSets []model.InkSet
	err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("id").Find(&inkSets).Error
	return inkSets, err
}

func (s *gormStore) GetInkSet(ctx context.Context, tenantID string, id int64) (*model.InkSet, error) {
	var i model.InkSet
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&i, id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *gormStore) CreateInkSet(ctx context.Context, i *model.InkSet) error {
	if err := pricing.ValidateInkSet(i); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(i).Error
}

func (s *gormStore) UpdateInkSet(ctx context.Context, i *model.InkSet) ([]int64, error) {
	if err := pricing.ValidateInkSet(i); err != nil {
		return nil, err
	}

	var impacted []int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwned(tx, &model.InkSet{}, i.TenantID, i.ID); err != nil {
			return err
		}
		if err := tx.Save(i).Error; err != nil {
			return fmt.Errorf("failed to update ink set %d: %w", i.ID, err)
		}
		return tx.Model(&model.PricingProfile{}).
			Where("tenant_id = ? AND ink_set_id = ?", i.TenantID, i.ID).
			Pluck("id", &impacted).Error
	})
	return impacted, err
}

func (s *gormStore) DeleteInkSet(ctx context.Context, tenantID string, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := blockIfReferenced(tx, tenantID, "ink set", "ink_set_id", id); err != nil {
			return err
		}
		return deleteOwned(tx, &model.InkSet{}, tenantID, id)
	})
}

func (s *gormStore) ListMaterials(ctx context.Context, tenantID string) ([]model.Material, error) {
	var materials []model.Material
	err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("id").Find(&materials).Error
	return materials, err
}

func (s *gormStore) GetMaterial(ctx context.Context, tenantID string, id int64) (*model.Material, error) {
	var mat model.Material
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&mat, id).Error; err != nil {
		return nil, err
	}
	return &mat, nil
}

func (s *gormStore) CreateMaterial(ctx context.Context, mat *model.Material) error {
	if err := pricing.ValidateMaterial(mat); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(mat).Error
}

func (s *gormStore) UpdateMaterial(ctx context.Context, mat *model.Material) error {
	if err := pricing.ValidateMaterial(mat); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwned(tx, &model.Material{}, mat.TenantID, mat.ID); err != nil {
			return err
		}
		return tx.Save(mat).Error
	})
}

func (s *gormStore) DeleteMaterial(ctx context.Context, tenantID string, id int64) error {
	return deleteOwned(s.db.WithContext(ctx), &model.Material{}, tenantID, id)
}

// requireOwned confirms the record exists under the tenant before a write,
// so an update can never move a row across tenants.
func requireOwned(tx *gorm.DB, dest any, tenantID string, id int64) error {
	return tx.Where("tenant_id = ?", tenantID).First(dest, id).Error
}

// deleteOwned deletes a tenant's record, mapping a miss to ErrRecordNotFound.
func deleteOwned(tx *gorm.DB, entity any, tenantID string, id int64) error {
	res := tx.Where("tenant_id = ?", tenantID).Delete(entity, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// blockIfReferenced fails the delete when pricing profiles still bind the
// record, naming them so the caller can act.
func blockIfReferenced(tx *gorm.DB, tenantID, entity, column string, id int64) error {
	var names []string
	if err := tx.Model(&model.PricingProfile{}).
		Where("tenant_id = ? AND "+column+" = ?", tenantID, id).
		Pluck("name", &names).Error; err != nil {
		return err
	}
	if len(names) > 0 {
		return &ReferentialIntegrityError{Entity: entity, ID: id, ReferencedBy: names}
	}
	return nil
}
