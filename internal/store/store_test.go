package store

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"printshop-pricing-backend/internal/model"
	"printshop-pricing-backend/internal/pricing"
)

var testDBSeq atomic.Int64

// openTestStore opens a fresh in-memory SQLite database per test. The DSN is
// unique so parallel tests never share state through the shared cache.
func openTestStore(t *testing.T) Store {
	t.Helper()

	dsn := fmt.Sprintf("file:store_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(
		&model.Machine{},
		&model.InkSet{},
		&model.Material{},
		&model.MarginProfile{},
		&model.MarginTier{},
		&model.PricingProfile{},
		&model.PushSubscription{},
	))

	return NewGormStore(db)
}

func validMachine(tenantID string) *model.Machine {
	return &model.Machine{
		TenantID:           tenantID,
		Name:               "B2 press",
		Mode:               model.ModeSheet,
		SheetWidthMm:       700,
		SheetHeightMm:      1000,
		SheetsPerHour:      1000,
		MachineRatePerHour: decimal.NewFromInt(600),
		SetupWasteSheets:   20,
		RunWastePct:        2,
		SetupTimeMin:       15,
	}
}

func validInkSet(tenantID string) *model.InkSet {
	return &model.InkSet{
		TenantID:           tenantID,
		Name:               "CMYK",
		PricePerMl:         decimal.NewFromFloat(0.05),
		MlPerM2At100Pct:    15,
		DefaultCoveragePct: 10,
		TolerancePct:       5,
	}
}

func validMaterial(tenantID string) *model.Material {
	return &model.Material{
		TenantID:     tenantID,
		Name:         "135g gloss",
		MaterialType: model.MaterialPaper,
		PricingMode:  model.PricePerM2,
		PricePerM2:   decimal.NewFromInt(3),
	}
}

func validMarginProfile(tenantID string) *model.MarginProfile {
	upper := 100.0
	return &model.MarginProfile{
		TenantID:     tenantID,
		Name:         "standard",
		Mode:         model.Markup,
		TierBasis:    model.BasisQuantity,
		RoundingStep: decimal.NewFromFloat(0.5),
		Tiers: []model.MarginTier{
			{QtyFrom: 0, QtyTo: &upper, Value: 40, SortOrder: 0},
			{QtyFrom: 100, QtyTo: nil, Value: 25, SortOrder: 1},
		},
	}
}

func TestMachineCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	m := validMachine("shop-a")
	require.NoError(t, s.CreateMachine(ctx, m))
	require.NotZero(t, m.ID)

	got, err := s.GetMachine(ctx, "shop-a", m.ID)
	require.NoError(t, err)
	assert.Equal(t, "B2 press", got.Name)
	assert.True(t, got.MachineRatePerHour.Equal(decimal.NewFromInt(600)))

	got.Name = "B2 press (refurbished)"
	impacted, err := s.UpdateMachine(ctx, got)
	require.NoError(t, err)
	assert.Empty(t, impacted)

	list, err := s.ListMachines(ctx, "shop-a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "B2 press (refurbished)", list[0].Name)

	require.NoError(t, s.DeleteMachine(ctx, "shop-a", m.ID))
	_, err = s.GetMachine(ctx, "shop-a", m.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateMachineRejectsInvalid(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	m := validMachine("shop-a")
	m.SheetsPerHour = 0

	err := s.CreateMachine(ctx, m)
	var vErr *pricing.ValidationError
	require.ErrorAs(t, err, &vErr)

	list, err := s.ListMachines(ctx, "shop-a")
	require.NoError(t, err)
	assert.Empty(t, list, "an invalid machine must not be persisted")
}

func TestTenantIsolation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := validMachine("shop-a")
	require.NoError(t, s.CreateMachine(ctx, a))
	b := validMachine("shop-b")
	b.Name = "other press"
	require.NoError(t, s.CreateMachine(ctx, b))

	listA, err := s.ListMachines(ctx, "shop-a")
	require.NoError(t, err)
	require.Len(t, listA, 1)
	assert.Equal(t, "B2 press", listA[0].Name)

	_, err = s.GetMachine(ctx, "shop-b", a.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = s.DeleteMachine(ctx, "shop-b", a.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	a.TenantID = "shop-b"
	_, err = s.UpdateMachine(ctx, a)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "an update must not move a row across tenants")
}

func TestDeleteMachineBlockedWhileReferenced(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	m := validMachine("shop-a")
	require.NoError(t, s.CreateMachine(ctx, m))
	ink := validInkSet("shop-a")
	require.NoError(t, s.CreateInkSet(ctx, ink))

	p := &model.PricingProfile{
		TenantID: "shop-a", Name: "digital small format",
		MachineID: m.ID, InkSetID: ink.ID,
	}
	require.NoError(t, s.CreatePricingProfile(ctx, p))

	err := s.DeleteMachine(ctx, "shop-a", m.ID)
	var refErr *ReferentialIntegrityError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "machine", refErr.Entity)
	assert.Equal(t, []string{"digital small format"}, refErr.ReferencedBy)

	// Still there.
	_, err = s.GetMachine(ctx, "shop-a", m.ID)
	require.NoError(t, err)

	// Unbinding the profile unblocks the delete.
	require.NoError(t, s.DeletePricingProfile(ctx, "shop-a", p.ID))
	assert.NoError(t, s.DeleteMachine(ctx, "shop-a", m.ID))
}

func TestDeleteInkSetBlockedWhileReferenced(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	m := validMachine("shop-a")
	require.NoError(t, s.CreateMachine(ctx, m))
	ink := validInkSet("shop-a")
	require.NoError(t, s.CreateInkSet(ctx, ink))
	p := &model.PricingProfile{TenantID: "shop-a", Name: "offset", MachineID: m.ID, InkSetID: ink.ID}
	require.NoError(t, s.CreatePricingProfile(ctx, p))

	var refErr *ReferentialIntegrityError
	require.ErrorAs(t, s.DeleteInkSet(ctx, "shop-a", ink.ID), &refErr)
	assert.Equal(t, "ink set", refErr.Entity)
}

func TestUpdateMachineReportsImpactedProfiles(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	m := validMachine("shop-a")
	require.NoError(t, s.CreateMachine(ctx, m))
	other := validMachine("shop-a")
	other.Name = "proofing press"
	require.NoError(t, s.CreateMachine(ctx, other))
	ink := validInkSet("shop-a")
	require.NoError(t, s.CreateInkSet(ctx, ink))

	p1 := &model.PricingProfile{TenantID: "shop-a", Name: "p1", MachineID: m.ID, InkSetID: ink.ID}
	p2 := &model.PricingProfile{TenantID: "shop-a", Name: "p2", MachineID: m.ID, InkSetID: ink.ID}
	p3 := &model.PricingProfile{TenantID: "shop-a", Name: "p3", MachineID: other.ID, InkSetID: ink.ID}
	for _, p := range []*model.PricingProfile{p1, p2, p3} {
		require.NoError(t, s.CreatePricingProfile(ctx, p))
	}

	m.RunWastePct = 3
	impacted, err := s.UpdateMachine(ctx, m)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{p1.ID, p2.ID}, impacted)

	ink.TolerancePct = 6
	impacted, err = s.UpdateInkSet(ctx, ink)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{p1.ID, p2.ID, p3.ID}, impacted)
}

func TestMarginProfileTierSync(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := validMarginProfile("shop-a")
	require.NoError(t, s.CreateMarginProfile(ctx, p))
	require.Len(t, p.Tiers, 2)
	keptID := p.Tiers[0].ID
	droppedID := p.Tiers[1].ID
	require.NotZero(t, keptID)

	// Resubmit: first tier unchanged but for its bound, second replaced by
	// two new tiers.
	mid := 100.0
	upper := 500.0
	p.Tiers = []model.MarginTier{
		{ID: keptID, QtyFrom: 0, QtyTo: &mid, Value: 40, SortOrder: 0},
		{QtyFrom: 100, QtyTo: &upper, Value: 30, SortOrder: 1},
		{QtyFrom: 500, QtyTo: nil, Value: 20, SortOrder: 2},
	}
	require.NoError(t, s.UpdateMarginProfile(ctx, p))

	got, err := s.GetMarginProfile(ctx, "shop-a", p.ID)
	require.NoError(t, err)
	require.Len(t, got.Tiers, 3)

	// The resubmitted tier kept its row, the removed one is gone, the new
	// ones got fresh IDs.
	assert.Equal(t, keptID, got.Tiers[0].ID)
	for _, tier := range got.Tiers[1:] {
		assert.NotEqual(t, droppedID, tier.ID)
		assert.NotZero(t, tier.ID)
	}
	assert.Equal(t, []float64{40, 30, 20}, []float64{got.Tiers[0].Value, got.Tiers[1].Value, got.Tiers[2].Value})
}

func TestUpdateMarginProfileRejectsBrokenTierSet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := validMarginProfile("shop-a")
	require.NoError(t, s.CreateMarginProfile(ctx, p))

	broken := *p
	broken.Tiers = []model.MarginTier{{QtyFrom: 0, QtyTo: nil, Value: 40, SortOrder: 0}, {QtyFrom: 50, QtyTo: nil, Value: 30, SortOrder: 1}}
	var vErr *pricing.ValidationError
	require.ErrorAs(t, s.UpdateMarginProfile(ctx, &broken), &vErr)

	got, err := s.GetMarginProfile(ctx, "shop-a", p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Tiers, 2, "a rejected update must leave the stored tiers intact")
}

func TestDeleteMarginProfileCascadesTiers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := validMarginProfile("shop-a")
	require.NoError(t, s.CreateMarginProfile(ctx, p))
	require.NoError(t, s.DeleteMarginProfile(ctx, "shop-a", p.ID))

	var count int64
	require.NoError(t, s.DB().Model(&model.MarginTier{}).Where("margin_profile_id = ?", p.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreatePricingProfileChecksReferences(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ink := validInkSet("shop-a")
	require.NoError(t, s.CreateInkSet(ctx, ink))

	p := &model.PricingProfile{TenantID: "shop-a", Name: "orphan", MachineID: 999, InkSetID: ink.ID}
	err := s.CreatePricingProfile(ctx, p)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// A machine owned by another tenant does not satisfy the reference.
	m := validMachine("shop-b")
	require.NoError(t, s.CreateMachine(ctx, m))
	p.MachineID = m.ID
	assert.ErrorIs(t, s.CreatePricingProfile(ctx, p), gorm.ErrRecordNotFound)
}

func TestLoadQuoteInputs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	m := validMachine("shop-a")
	require.NoError(t, s.CreateMachine(ctx, m))
	ink := validInkSet("shop-a")
	require.NoError(t, s.CreateInkSet(ctx, ink))
	mat := validMaterial("shop-a")
	require.NoError(t, s.CreateMaterial(ctx, mat))
	mp := validMarginProfile("shop-a")
	require.NoError(t, s.CreateMarginProfile(ctx, mp))
	p := &model.PricingProfile{TenantID: "shop-a", Name: "default", MachineID: m.ID, InkSetID: ink.ID, DefaultBleedMm: 3}
	require.NoError(t, s.CreatePricingProfile(ctx, p))

	inputs, err := s.LoadQuoteInputs(ctx, "shop-a", p.ID, mat.ID, mp.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, inputs.Machine.ID)
	assert.Equal(t, ink.ID, inputs.InkSet.ID)
	assert.Equal(t, mat.ID, inputs.Material.ID)
	require.Len(t, inputs.MarginProfile.Tiers, 2)

	_, err = s.LoadQuoteInputs(ctx, "shop-b", p.ID, mat.ID, mp.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = s.LoadQuoteInputs(ctx, "shop-a", p.ID, 999, mp.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMaterialUpdateAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	mat := validMaterial("shop-a")
	require.NoError(t, s.CreateMaterial(ctx, mat))

	mat.PricePerM2 = decimal.NewFromFloat(3.5)
	require.NoError(t, s.UpdateMaterial(ctx, mat))

	got, err := s.GetMaterial(ctx, "shop-a", mat.ID)
	require.NoError(t, err)
	assert.True(t, got.PricePerM2.Equal(decimal.NewFromFloat(3.5)))

	require.NoError(t, s.DeleteMaterial(ctx, "shop-a", mat.ID))
	assert.ErrorIs(t, s.DeleteMaterial(ctx, "shop-a", mat.ID), gorm.ErrRecordNotFound)
}
