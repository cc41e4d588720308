package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"kasir-pos-backend/internal/domain/entity"
	"kasir-pos-backend/internal/domain/enum"
	"kasir-pos-backend/pkg/money"
)

func newTestPromotionService(repo *fakePromotionRepo, cache ActivePromotionsCache) *PromotionService {
	svc := NewPromotionService(repo, cache)
	svc.now = func() time.Time { return testNow }
	return svc
}

func activePromotion(name string, promoType enum.PromotionType) entity.Promotion {
	return entity.Promotion{
		ID:           uuid.New(),
		Name:         name,
		Type:         promoType,
		DiscountType: enum.DiscountTypePercentage,
		StartDate:    testNow.AddDate(0, 0, -1),
		EndDate:      testNow.AddDate(0, 0, 1),
		IsActive:     true,
	}
}

func targetProduct(p *entity.Promotion, productID uuid.UUID) {
	p.Products = append(p.Products, entity.PromotionProduct{PromotionID: p.ID, ProductID: productID})
}

func targetCategory(p *entity.Promotion, categoryID uuid.UUID) {
	p.Categories = append(p.Categories, entity.PromotionCategory{PromotionID: p.ID, CategoryID: categoryID})
}

func TestCalculateProductDiscountPercentage(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	promo := activePromotion("10% off", enum.PromotionTypeProductDiscount)
	promo.DiscountValue = dec("10")
	targetProduct(&promo, productID)

	repo := &fakePromotionRepo{promotions: []entity.Promotion{promo}}
	svc := newTestPromotionService(repo, nil)

	result, err := svc.Calculate(context.Background(), []CartItem{
		{ProductID: productID, Quantity: 2, UnitPrice: dec("50000")},
		{ProductID: uuid.New(), Quantity: 1, UnitPrice: dec("99999")}, // not targeted
	})
	require.NoError(t, err)
	require.True(t, result.TotalDiscount.Equal(dec("10000")), "got %s", result.TotalDiscount)
	require.Len(t, result.AppliedPromotions, 1)
	require.Equal(t, []uuid.UUID{productID}, result.AppliedPromotions[0].AffectedItems)
}

func TestCalculateThresholdValueAsFixedPerUnit(t *testing.T) {
	t.Parallel()

	// Values above 100 are treated as a fixed amount per unit regardless of
	// the declared discount type.
	productID := uuid.New()
	promo := activePromotion("5000 off each", enum.PromotionTypeProductDiscount)
	promo.DiscountValue = dec("5000")
	promo.DiscountType = enum.DiscountTypePercentage
	targetProduct(&promo, productID)

	repo := &fakePromotionRepo{promotions: []entity.Promotion{promo}}
	svc := newTestPromotionService(repo, nil)

	result, err := svc.Calculate(context.Background(), []CartItem{
		{ProductID: productID, Quantity: 3, UnitPrice: dec("20000")},
	})
	require.NoError(t, err)
	require.True(t, result.TotalDiscount.Equal(dec("15000")), "got %s", result.TotalDiscount)
}

func TestCalculateCategoryDiscount(t *testing.T) {
	t.Parallel()

	categoryID := uuid.New()
	promo := activePromotion("Category sale", enum.PromotionTypeCategoryDiscount)
	promo.DiscountValue = dec("20")
	targetCategory(&promo, categoryID)

	repo := &fakePromotionRepo{promotions: []entity.Promotion{promo}}
	svc := newTestPromotionService(repo, nil)

	otherCat := uuid.New()
	result, err := svc.Calculate(context.Background(), []CartItem{
		{ProductID: uuid.New(), CategoryID: &categoryID, Quantity: 1, UnitPrice: dec("40000")},
		{ProductID: uuid.New(), CategoryID: &otherCat, Quantity: 1, UnitPrice: dec("40000")},
		{ProductID: uuid.New(), Quantity: 1, UnitPrice: dec("40000")}, // uncategorized
	})
	require.NoError(t, err)
	require.True(t, result.TotalDiscount.Equal(dec("8000")), "got %s", result.TotalDiscount)
}

func TestCalculateBulkDiscount(t *testing.T) {
	t.Parallel()

	categoryID := uuid.New()
	promo := activePromotion("Bulk 15%", enum.PromotionTypeBulkDiscount)
	promo.DiscountValue = dec("15")
	promo.MinQuantity = intPtr(10)
	targetCategory(&promo, categoryID)

	repo := &fakePromotionRepo{promotions: []entity.Promotion{promo}}
	svc := newTestPromotionService(repo, nil)

	// Quantity aggregates across lines: 6 + 4 = 10 meets the threshold.
	result, err := svc.Calculate(context.Background(), []CartItem{
		{ProductID: uuid.New(), CategoryID: &categoryID, Quantity: 6, UnitPrice: dec("5000")},
		{ProductID: uuid.New(), CategoryID: &categoryID, Quantity: 4, UnitPrice: dec("6250")},
	})
	require.NoError(t, err)
	// 15% of (30000 + 25000) = 8250
	require.True(t, result.TotalDiscount.Equal(dec("8250")), "got %s", result.TotalDiscount)

	// One unit short: nothing applies
	result, err = svc.Calculate(context.Background(), []CartItem{
		{ProductID: uuid.New(), CategoryID: &categoryID, Quantity: 9, UnitPrice: dec("5000")},
	})
	require.NoError(t, err)
	require.True(t, result.TotalDiscount.IsZero())
	require.Empty(t, result.AppliedPromotions)
}

func TestCalculateBuyXGetY(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	promo := activePromotion("Buy 3 get 1", enum.PromotionTypeBuyXGetY)
	promo.BuyQuantity = intPtr(3)
	promo.GetQuantity = intPtr(1)
	targetProduct(&promo, productID)

	repo := &fakePromotionRepo{promotions: []entity.Promotion{promo}}
	svc := newTestPromotionService(repo, nil)

	// 7 units: two complete buy-3 sets earn 2 free units.
	result, err := svc.Calculate(context.Background(), []CartItem{
		{ProductID: productID, Quantity: 7, UnitPrice: dec("10000")},
	})
	require.NoError(t, err)
	require.True(t, result.TotalDiscount.Equal(dec("20000")), "got %s", result.TotalDiscount)

	// Below one full set: nothing free
	result, err = svc.Calculate(context.Background(), []CartItem{
		{ProductID: productID, Quantity: 2, UnitPrice: dec("10000")},
	})
	require.NoError(t, err)
	require.True(t, result.TotalDiscount.IsZero())
}

func TestCalculateBuyXGetYFreeUnitsCappedByLine(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	promo := activePromotion("Buy 1 get 3", enum.PromotionTypeBuyXGetY)
	promo.BuyQuantity = intPtr(1)
	promo.GetQuantity = intPtr(3)
	targetProduct(&promo, productID)

	repo := &fakePromotionRepo{promotions: []entity.Promotion{promo}}
	svc := newTestPromotionService(repo, nil)

	// 2 units would earn 6 free, but a line can never get more free units
	// than it holds.
	result, err := svc.Calculate(context.Background(), []CartItem{
		{ProductID: productID, Quantity: 2, UnitPrice: dec("10000")},
	})
	require.NoError(t, err)
	require.True(t, result.TotalDiscount.Equal(dec("20000")), "got %s", result.TotalDiscount)
}

func TestCalculateSumsRawThenRoundsOnce(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	first := activePromotion("First", enum.PromotionTypeProductDiscount)
	first.DiscountValue = dec("2.5")
	targetProduct(&first, productID)
	second := activePromotion("Second", enum.PromotionTypeProductDiscount)
	second.DiscountValue = dec("2.5")
	targetProduct(&second, productID)

	repo := &fakePromotionRepo{promotions: []entity.Promotion{first, second}}
	svc := newTestPromotionService(repo, nil)

	// Each promotion contributes a raw 0.125. Rounding per promotion would
	// give 0.13 + 0.13 = 0.26; the total must be round(0.25) = 0.25.
	result, err := svc.Calculate(context.Background(), []CartItem{
		{ProductID: productID, Quantity: 1, UnitPrice: dec("5")},
	})
	require.NoError(t, err)
	require.True(t, result.TotalDiscount.Equal(dec("0.25")), "got %s", result.TotalDiscount)
	require.Len(t, result.AppliedPromotions, 2)

	// The listed breakdown carries the raw contributions, so rounding its
	// sum reproduces the total exactly.
	listed := decimal.Zero
	for _, applied := range result.AppliedPromotions {
		listed = listed.Add(applied.DiscountAmount)
	}
	require.True(t, result.TotalDiscount.Equal(money.Round(listed)), "listed sum %s", listed)
	require.True(t, result.AppliedPromotions[0].DiscountAmount.Equal(dec("0.125")))
}

func TestCalculateSkipsInactiveAndOutOfWindow(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	inactive := activePromotion("Inactive", enum.PromotionTypeProductDiscount)
	inactive.DiscountValue = dec("10")
	inactive.IsActive = false
	targetProduct(&inactive, productID)
	ended := activePromotion("Ended", enum.PromotionTypeProductDiscount)
	ended.DiscountValue = dec("10")
	ended.EndDate = testNow.AddDate(0, 0, -1)
	targetProduct(&ended, productID)

	repo := &fakePromotionRepo{promotions: []entity.Promotion{inactive, ended}}
	svc := newTestPromotionService(repo, nil)

	result, err := svc.Calculate(context.Background(), []CartItem{
		{ProductID: productID, Quantity: 1, UnitPrice: dec("10000")},
	})
	require.NoError(t, err)
	require.True(t, result.TotalDiscount.IsZero())
}

func TestCalculateUsesCacheOnDisplayPath(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	promo := activePromotion("Cached", enum.PromotionTypeProductDiscount)
	promo.DiscountValue = dec("10")
	targetProduct(&promo, productID)

	repo := &fakePromotionRepo{promotions: []entity.Promotion{promo}}
	cache := &fakeCache{}
	svc := newTestPromotionService(repo, cache)
	cart := []CartItem{{ProductID: productID, Quantity: 1, UnitPrice: dec("10000")}}

	// First call misses and fills the cache.
	result, err := svc.Calculate(context.Background(), cart)
	require.NoError(t, err)
	require.True(t, result.TotalDiscount.Equal(dec("1000")))

	// A repo change is invisible until the snapshot expires or is invalidated.
	repo.mu.Lock()
	repo.promotions[0].DiscountValue = dec("50")
	repo.mu.Unlock()

	result, err = svc.Calculate(context.Background(), cart)
	require.NoError(t, err)
	require.True(t, result.TotalDiscount.Equal(dec("1000")), "display path serves the snapshot")
	require.Equal(t, 1, cache.hits)

	// The authoritative path always reads through.
	result, err = svc.CalculateAuthoritative(context.Background(), cart)
	require.NoError(t, err)
	require.True(t, result.TotalDiscount.Equal(dec("5000")))
}

func TestPromotionWritesInvalidateCache(t *testing.T) {
	t.Parallel()

	repo := &fakePromotionRepo{}
	cache := &fakeCache{}
	svc := newTestPromotionService(repo, cache)
	cache.Set([]entity.Promotion{})

	created, err := svc.CreatePromotion(context.Background(), &CreatePromotionInput{
		Name:          "Flash sale",
		Type:          enum.PromotionTypeProductDiscount,
		DiscountValue: dec("10"),
		DiscountType:  enum.DiscountTypePercentage,
		StartDate:     testNow,
		EndDate:       testNow.AddDate(0, 0, 7),
		IsActive:      true,
		ProductIDs:    []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)
	_, ok := cache.Get()
	require.False(t, ok, "create must invalidate the snapshot")

	cache.Set([]entity.Promotion{})
	require.NoError(t, svc.DeletePromotion(context.Background(), created.ID))
	_, ok = cache.Get()
	require.False(t, ok, "delete must invalidate the snapshot")
}

func TestCreatePromotionValidation(t *testing.T) {
	t.Parallel()

	svc := newTestPromotionService(&fakePromotionRepo{}, nil)
	base := CreatePromotionInput{
		Name:          "Promo",
		Type:          enum.PromotionTypeProductDiscount,
		DiscountValue: dec("10"),
		DiscountType:  enum.DiscountTypePercentage,
		StartDate:     testNow,
		EndDate:       testNow.AddDate(0, 0, 7),
		IsActive:      true,
		ProductIDs:    []uuid.UUID{uuid.New()},
	}

	noTargets := base
	noTargets.ProductIDs = nil
	_, err := svc.CreatePromotion(context.Background(), &noTargets)
	require.Error(t, err)

	bulkNoMin := base
	bulkNoMin.Type = enum.PromotionTypeBulkDiscount
	_, err = svc.CreatePromotion(context.Background(), &bulkNoMin)
	require.Error(t, err)

	bxgyNoQty := base
	bxgyNoQty.Type = enum.PromotionTypeBuyXGetY
	_, err = svc.CreatePromotion(context.Background(), &bxgyNoQty)
	require.Error(t, err)

	badWindow := base
	badWindow.EndDate = base.StartDate.AddDate(0, 0, -1)
	_, err = svc.CreatePromotion(context.Background(), &badWindow)
	require.Error(t, err)
}
