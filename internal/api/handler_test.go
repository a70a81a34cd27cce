package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"printshop-pricing-backend/internal/model"
	"printshop-pricing-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var apiDBSeq atomic.Int64

func setupRouter(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()

	dsn := fmt.Sprintf("file:api_test_%d?mode=memory&cache=shared", apiDBSeq.Add(1))
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

	s := store.NewGormStore(db)
	r := NewRouter(s, nil, nil, RouterOptions{
		RateLimitPerSec: 10000,
		RateLimitBurst:  10000,
		CacheTTL:        time.Nanosecond,
	})
	return r, s
}

func doRequest(r *gin.Engine, method, path, tenant string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tenant != "" {
		req.Header.Set("X-Tenant-ID", tenant)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMissingTenantHeader(t *testing.T) {
	r, _ := setupRouter(t)

	for _, path := range []string{"/api/machines", "/api/materials", "/api/pricing-profiles"} {
		w := doRequest(r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), "X-Tenant-ID")
	}
}

func TestMachineLifecycleOverHTTP(t *testing.T) {
	r, _ := setupRouter(t)

	create := map[string]any{
		"name": "B2 press", "mode": "SHEET",
		"sheetWidthMm": 700.0, "sheetHeightMm": 1000.0, "sheetsPerHour": 1000.0,
		"machineRatePerHour": "600", "setupWasteSheets": 20, "runWastePct": 2.0, "setupTimeMin": 15.0,
	}
	w := doRequest(r, http.MethodPost, "/api/machines", "shop-a", create)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created model.Machine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	assert.Equal(t, "shop-a", created.TenantID)

	path := fmt.Sprintf("/api/machines/%d", created.ID)

	w = doRequest(r, http.MethodGet, path, "shop-a", nil)
	require.Equal(t, http.StatusOK, w.Code)

	create["name"] = "B2 press II"
	w = doRequest(r, http.MethodPut, path, "shop-a", create)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The other tenant never sees the row.
	w = doRequest(r, http.MethodGet, path, "shop-b", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodDelete, path, "shop-a", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(r, http.MethodGet, path, "shop-a", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateMachineValidationOverHTTP(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/api/machines", "shop-a", map[string]any{
		"name": "broken", "mode": "SHEET",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "sheetsPerHour")
}

func TestInvalidIDParam(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/api/machines/abc", "shop-a", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// seedCatalog stores a complete record combination and returns the IDs the
// quote endpoint needs.
func seedCatalog(t *testing.T, s store.Store, tenant string) (profileID, materialID, marginProfileID int64) {
	t.Helper()
	ctx := context.Background()

	m := &model.Machine{
		TenantID: tenant, Name: "B2 press", Mode: model.ModeSheet,
		SheetWidthMm: 700, SheetHeightMm: 1000, SheetsPerHour: 1000,
		MachineRatePerHour: decimal.NewFromInt(600),
		SetupWasteSheets:   20, RunWastePct: 2, SetupTimeMin: 15,
	}
	require.NoError(t, s.CreateMachine(ctx, m))

	ink := &model.InkSet{
		TenantID: tenant, Name: "CMYK",
		PricePerMl: decimal.NewFromFloat(0.05), MlPerM2At100Pct: 15,
		DefaultCoveragePct: 10, TolerancePct: 5,
	}
	require.NoError(t, s.CreateInkSet(ctx, ink))

	mat := &model.Material{
		TenantID: tenant, Name: "135g gloss",
		MaterialType: model.MaterialPaper, PricingMode: model.PricePerM2,
		PricePerM2: decimal.NewFromInt(3),
	}
	require.NoError(t, s.CreateMaterial(ctx, mat))

	upper := 100.0
	mp := &model.MarginProfile{
		TenantID: tenant, Name: "standard",
		Mode: model.Markup, TierBasis: model.BasisQuantity,
		RoundingStep: decimal.NewFromFloat(0.5),
		Tiers: []model.MarginTier{
			{QtyFrom: 0, QtyTo: &upper, Value: 40, SortOrder: 0},
			{QtyFrom: 100, QtyTo: nil, Value: 25, SortOrder: 1},
		},
	}
	require.NoError(t, s.CreateMarginProfile(ctx, mp))

	p := &model.PricingProfile{
		TenantID: tenant, Name: "digital", MachineID: m.ID, InkSetID: ink.ID,
	}
	require.NoError(t, s.CreatePricingProfile(ctx, p))

	return p.ID, mat.ID, mp.ID
}

func TestQuoteOverHTTP(t *testing.T) {
	r, s := setupRouter(t)
	profileID, materialID, marginProfileID := seedCatalog(t, s, "shop-a")

	w := doRequest(r, http.MethodPost, "/api/quote", "shop-a", map[string]any{
		"pricingProfileId": profileID,
		"materialId":       materialID,
		"marginProfileId":  marginProfileID,
		"quantity":         1000,
		"widthMm":          100,
		"heightMm":         150,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Breakdown struct {
			MachineCost decimal.Decimal `json:"machineCost"`
			TotalCost   decimal.Decimal `json:"totalCost"`
			InkMl       float64         `json:"inkMl"`
			Run         struct {
				EffectiveQuantity int `json:"effectiveQuantity"`
			} `json:"run"`
		} `json:"breakdown"`
		BasisValue float64         `json:"basisValue"`
		TotalPrice decimal.Decimal `json:"totalPrice"`
		UnitPrice  decimal.Decimal `json:"unitPrice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 1040, resp.Breakdown.Run.EffectiveQuantity)
	assert.InDelta(t, 774, resp.Breakdown.MachineCost.InexactFloat64(), 1e-9)
	assert.InDelta(t, 24.57, resp.Breakdown.InkMl, 1e-9)
	assert.Equal(t, 1000.0, resp.BasisValue)
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromFloat(1025.5)), "got %s", resp.TotalPrice)
}

func TestQuoteRejectsBadRequests(t *testing.T) {
	r, s := setupRouter(t)
	profileID, materialID, marginProfileID := seedCatalog(t, s, "shop-a")

	t.Run("zero quantity", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/api/quote", "shop-a", map[string]any{
			"pricingProfileId": profileID, "materialId": materialID, "marginProfileId": marginProfileID,
			"quantity": 0, "widthMm": 100, "heightMm": 150,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown pricing profile", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/api/quote", "shop-a", map[string]any{
			"pricingProfileId": 9999, "materialId": materialID, "marginProfileId": marginProfileID,
			"quantity": 100, "widthMm": 100, "heightMm": 150,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("other tenant's records", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/api/quote", "shop-b", map[string]any{
			"pricingProfileId": profileID, "materialId": materialID, "marginProfileId": marginProfileID,
			"quantity": 100, "widthMm": 100, "heightMm": 150,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("piece larger than the sheet", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/api/quote", "shop-a", map[string]any{
			"pricingProfileId": profileID, "materialId": materialID, "marginProfileId": marginProfileID,
			"quantity": 100, "widthMm": 5000, "heightMm": 5000,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestDeleteReferencedMachineOverHTTP(t *testing.T) {
	r, s := setupRouter(t)
	profileID, _, _ := seedCatalog(t, s, "shop-a")

	p, err := s.GetPricingProfile(context.Background(), "shop-a", profileID)
	require.NoError(t, err)

	w := doRequest(r, http.MethodDelete, fmt.Sprintf("/api/machines/%d", p.MachineID), "shop-a", nil)
	require.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		ReferencedBy []string `json:"referenced_by"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"digital"}, resp.ReferencedBy)
}

func TestMarginProfileUpdateOverHTTP(t *testing.T) {
	r, s := setupRouter(t)
	_, _, marginProfileID := seedCatalog(t, s, "shop-a")

	w := doRequest(r, http.MethodPut, fmt.Sprintf("/api/margin-profiles/%d", marginProfileID), "shop-a", map[string]any{
		"name": "standard", "mode": "MARKUP", "tierBasis": "QUANTITY", "roundingStep": "0.5",
		"tiers": []map[string]any{
			{"qtyFrom": 0, "qtyTo": 250, "value": 35, "sortOrder": 0},
			{"qtyFrom": 250, "value": 20, "sortOrder": 1},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got, err := s.GetMarginProfile(context.Background(), "shop-a", marginProfileID)
	require.NoError(t, err)
	require.Len(t, got.Tiers, 2)
	assert.Equal(t, 35.0, got.Tiers[0].Value)

	// An incoherent tier set never reaches the database.
	w = doRequest(r, http.MethodPut, fmt.Sprintf("/api/margin-profiles/%d", marginProfileID), "shop-a", map[string]any{
		"name": "standard", "mode": "MARKUP", "tierBasis": "QUANTITY", "roundingStep": "0.5",
		"tiers": []map[string]any{
			{"qtyFrom": 0, "qtyTo": 100, "value": 35, "sortOrder": 0},
			{"qtyFrom": 300, "value": 20, "sortOrder": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionRoundTrip(t *testing.T) {
	r, s := setupRouter(t)
	profileID, _, _ := seedCatalog(t, s, "shop-a")

	w := doRequest(r, http.MethodPut, "/api/subscriptions", "shop-a", map[string]any{
		"endpoint": "https://push.example/abc", "p256dh": "key", "auth": "secret",
		"subscribed_profiles": []int64{profileID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(r, http.MethodGet, "/api/subscriptions?endpoint=https://push.example/abc", "shop-a", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SubscribedProfiles []int64 `json:"subscribed_profiles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []int64{profileID}, resp.SubscribedProfiles)

	w = doRequest(r, http.MethodDelete, "/api/subscriptions", "shop-a", map[string]any{
		"endpoint": "https://push.example/abc",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(r, http.MethodGet, "/api/subscriptions?endpoint=https://push.example/abc", "shop-a", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
