package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kasir-pos-backend/internal/domain/entity"
	"kasir-pos-backend/internal/domain/enum"
	"kasir-pos-backend/internal/domain/repository"
	"kasir-pos-backend/pkg/apperror"
	"kasir-pos-backend/pkg/money"
	"kasir-pos-backend/pkg/pagination"
)

// CartItem is one cart line as seen by the discount engine. It is built per
// request from the catalog and never persisted on its own.
type CartItem struct {
	ProductID  uuid.UUID       `json:"product_id"`
	CategoryID *uuid.UUID      `json:"category_id,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// Total returns unitPrice * quantity.
func (c CartItem) Total() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// AppliedPromotion is one promotion's contribution to a cart
type AppliedPromotion struct {
	PromotionID    uuid.UUID          `json:"promotion_id"`
	Name           string             `json:"name"`
	Type           enum.PromotionType `json:"type"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	AffectedItems  []uuid.UUID        `json:"affected_items"`
}

// DiscountResult is the aggregate outcome of promotion calculation
type DiscountResult struct {
	TotalDiscount     decimal.Decimal    `json:"total_discount"`
	AppliedPromotions []AppliedPromotion `json:"applied_promotions"`
}

// ActivePromotionsCache is a read-side snapshot source for display-path
// calculation. Implementations may serve slightly stale data; the checkout
// commit path never goes through it.
type ActivePromotionsCache interface {
	Get() ([]entity.Promotion, bool)
	Set(promotions []entity.Promotion)
	Invalidate()
}

// PromotionService scans active promotions against a cart and manages
// promotion definitions. Calculation is a pure function of the catalog
// snapshot and the cart; it never mutates anything.
type PromotionService struct {
	promotionRepo repository.PromotionRepository
	cache         ActivePromotionsCache
	now           func() time.Time
}

// NewPromotionService creates a new promotion service. cache may be nil, in
// which case every calculation reads from the repository.
func NewPromotionService(promotionRepo repository.PromotionRepository, cache ActivePromotionsCache) *PromotionService {
	return &PromotionService{
		promotionRepo: promotionRepo,
		cache:         cache,
		now:           time.Now,
	}
}

// Calculate computes the promotion discount for a cart using the display-path
// snapshot (cached when a cache is configured). Suitable for showing a
// cashier what would apply; the checkout recomputes authoritatively.
func (s *PromotionService) Calculate(ctx context.Context, items []CartItem) (*DiscountResult, error) {
	if s.cache != nil {
		if promotions, ok := s.cache.Get(); ok {
			return applyPromotions(promotions, items), nil
		}
	}

	promotions, err := s.promotionRepo.ListActive(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(promotions)
	}
	return applyPromotions(promotions, items), nil
}

// CalculateAuthoritative computes the promotion discount from the
// transactionally-consistent store, bypassing any cache. The checkout
// aggregator calls this inside its transaction.
func (s *PromotionService) CalculateAuthoritative(ctx context.Context, items []CartItem) (*DiscountResult, error) {
	promotions, err := s.promotionRepo.ListActive(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return applyPromotions(promotions, items), nil
}

// applyPromotions runs every promotion against the cart. Promotions are
// independent and additive: each contribution is summed raw and the total is
// rounded once at the end, so per-promotion rounding error cannot compound.
func applyPromotions(promotions []entity.Promotion, items []CartItem) *DiscountResult {
	result := &DiscountResult{
		TotalDiscount:     decimal.Zero,
		AppliedPromotions: []AppliedPromotion{},
	}

	total := decimal.Zero
	for i := range promotions {
		promo := &promotions[i]
		eligible := eligibleItems(promo, items)
		if len(eligible) == 0 {
			continue
		}

		discount, affected := promotionDiscount(promo, eligible)
		if discount.LessThanOrEqual(decimal.Zero) {
			continue
		}

		total = total.Add(discount)
		// Listed raw so the breakdown sums exactly to the total; rounding
		// each line would let the list disagree with TotalDiscount.
		result.AppliedPromotions = append(result.AppliedPromotions, AppliedPromotion{
			PromotionID:    promo.ID,
			Name:           promo.Name,
			Type:           promo.Type,
			DiscountAmount: discount,
			AffectedItems:  affected,
		})
	}

	result.TotalDiscount = money.Round(total)
	return result
}

// eligibleItems returns the cart lines whose product or category is targeted
// by the promotion.
func eligibleItems(promo *entity.Promotion, items []CartItem) []CartItem {
	productSet := make(map[uuid.UUID]bool, len(promo.Products))
	for _, pp := range promo.Products {
		productSet[pp.ProductID] = true
	}
	categorySet := make(map[uuid.UUID]bool, len(promo.Categories))
	for _, pc := range promo.Categories {
		categorySet[pc.CategoryID] = true
	}

	var eligible []CartItem
	for _, item := range items {
		if productSet[item.ProductID] {
			eligible = append(eligible, item)
			continue
		}
		if item.CategoryID != nil && categorySet[*item.CategoryID] {
			eligible = append(eligible, item)
		}
	}
	return eligible
}

// promotionDiscount computes one promotion's raw (unrounded) contribution and
// the product IDs it touched.
func promotionDiscount(promo *entity.Promotion, eligible []CartItem) (decimal.Decimal, []uuid.UUID) {
	switch promo.Type {
	case enum.PromotionTypeProductDiscount, enum.PromotionTypeCategoryDiscount:
		return perItemDiscount(promo.DiscountValue, eligible)
	case enum.PromotionTypeBulkDiscount:
		return bulkDiscount(promo, eligible)
	case enum.PromotionTypeBuyXGetY:
		return buyXGetYDiscount(promo, eligible)
	}
	return decimal.Zero, nil
}

// thresholdDiscount applies the legacy value interpretation: a value of 100
// or less is a percentage, anything larger is a fixed amount per unit. The
// promotion record carries an explicit discount type, but this calculation
// path has always ignored it and changing that would reprice existing
// promotions, so the threshold rule is kept as-is.
func thresholdDiscount(value, amount decimal.Decimal, quantity int) decimal.Decimal {
	if value.LessThanOrEqual(money.Hundred) {
		return money.Percent(amount, value)
	}
	return value.Mul(decimal.NewFromInt(int64(quantity)))
}

func perItemDiscount(value decimal.Decimal, eligible []CartItem) (decimal.Decimal, []uuid.UUID) {
	discount := decimal.Zero
	affected := make([]uuid.UUID, 0, len(eligible))
	for _, item := range eligible {
		discount = discount.Add(thresholdDiscount(value, item.Total(), item.Quantity))
		affected = append(affected, item.ProductID)
	}
	return discount, affected
}

// bulkDiscount triggers on the aggregate quantity across eligible lines and
// discounts the aggregate amount, not each line.
func bulkDiscount(promo *entity.Promotion, eligible []CartItem) (decimal.Decimal, []uuid.UUID) {
	if promo.MinQuantity == nil {
		return decimal.Zero, nil
	}

	totalQty := 0
	totalAmount := decimal.Zero
	affected := make([]uuid.UUID, 0, len(eligible))
	for _, item := range eligible {
		totalQty += item.Quantity
		totalAmount = totalAmount.Add(item.Total())
		affected = append(affected, item.ProductID)
	}
	if totalQty < *promo.MinQuantity {
		return decimal.Zero, nil
	}

	return thresholdDiscount(promo.DiscountValue, totalAmount, totalQty), affected
}

// buyXGetYDiscount grants free units per eligible line independently:
// every buyQuantity units purchased earn getQuantity free, the free units
// are 100% off, and a line can never get more free units than it holds.
func buyXGetYDiscount(promo *entity.Promotion, eligible []CartItem) (decimal.Decimal, []uuid.UUID) {
	if promo.BuyQuantity == nil || promo.GetQuantity == nil || *promo.BuyQuantity <= 0 {
		return decimal.Zero, nil
	}

	discount := decimal.Zero
	var affected []uuid.UUID
	for _, item := range eligible {
		freeSets := item.Quantity / *promo.BuyQuantity
		if freeSets == 0 {
			continue
		}
		freeUnits := freeSets * *promo.GetQuantity
		if freeUnits > item.Quantity {
			freeUnits = item.Quantity
		}
		discount = discount.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(freeUnits))))
		affected = append(affected, item.ProductID)
	}
	return discount, affected
}

// CreatePromotionInput represents the create promotion input
type CreatePromotionInput struct {
	Name          string
	Description   *string
	Type          enum.PromotionType
	DiscountValue decimal.Decimal
	DiscountType  enum.DiscountType
	MinQuantity   *int
	BuyQuantity   *int
	GetQuantity   *int
	StartDate     time.Time
	EndDate       time.Time
	IsActive      bool
	ProductIDs    []uuid.UUID
	CategoryIDs   []uuid.UUID
}

func (input *CreatePromotionInput) validate() error {
	if !input.Type.Valid() {
		return apperror.NewBadRequestError("Invalid promotion type")
	}
	if !input.DiscountType.Valid() {
		return apperror.NewBadRequestError("Invalid discount type")
	}
	if input.DiscountValue.LessThanOrEqual(decimal.Zero) && input.Type != enum.PromotionTypeBuyXGetY {
		return apperror.NewBadRequestError("Discount value must be greater than 0")
	}
	if input.EndDate.Before(input.StartDate) {
		return apperror.NewBadRequestError("End date must not be before start date")
	}
	if input.Type == enum.PromotionTypeBulkDiscount && (input.MinQuantity == nil || *input.MinQuantity <= 0) {
		return apperror.NewBadRequestError("Bulk discount requires a positive min quantity")
	}
	if input.Type == enum.PromotionTypeBuyXGetY {
		if input.BuyQuantity == nil || *input.BuyQuantity <= 0 || input.GetQuantity == nil || *input.GetQuantity <= 0 {
			return apperror.NewBadRequestError("Buy X get Y requires positive buy and get quantities")
		}
	}
	if len(input.ProductIDs) == 0 && len(input.CategoryIDs) == 0 {
		return apperror.NewBadRequestError("Promotion must target at least one product or category")
	}
	return nil
}

// CreatePromotion creates a new promotion with its eligibility sets
func (s *PromotionService) CreatePromotion(ctx context.Context, input *CreatePromotionInput) (*entity.Promotion, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	promotion := &entity.Promotion{
		Name:          input.Name,
		Description:   input.Description,
		Type:          input.Type,
		DiscountValue: input.DiscountValue,
		DiscountType:  input.DiscountType,
		MinQuantity:   input.MinQuantity,
		BuyQuantity:   input.BuyQuantity,
		GetQuantity:   input.GetQuantity,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		IsActive:      input.IsActive,
		Products:      targetProducts(input.ProductIDs),
		Categories:    targetCategories(input.CategoryIDs),
	}

	if err := s.promotionRepo.Create(ctx, promotion); err != nil {
		return nil, err
	}
	s.invalidateCache()
	return promotion, nil
}

// UpdatePromotion replaces a promotion definition, including both eligibility
// sets, wholesale.
func (s *PromotionService) UpdatePromotion(ctx context.Context, id uuid.UUID, input *CreatePromotionInput) (*entity.Promotion, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	promotion, err := s.promotionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, apperror.NewNotFoundError("Promotion")
	}

	promotion.Name = input.Name
	promotion.Description = input.Description
	promotion.Type = input.Type
	promotion.DiscountValue = input.DiscountValue
	promotion.DiscountType = input.DiscountType
	promotion.MinQuantity = input.MinQuantity
	promotion.BuyQuantity = input.BuyQuantity
	promotion.GetQuantity = input.GetQuantity
	promotion.StartDate = input.StartDate
	promotion.EndDate = input.EndDate
	promotion.IsActive = input.IsActive
	promotion.Products = targetProducts(input.ProductIDs)
	promotion.Categories = targetCategories(input.CategoryIDs)

	if err := s.promotionRepo.Update(ctx, promotion); err != nil {
		return nil, err
	}
	s.invalidateCache()
	return promotion, nil
}

func (s *PromotionService) invalidateCache() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

func targetProducts(ids []uuid.UUID) []entity.PromotionProduct {
	targets := make([]entity.PromotionProduct, 0, len(ids))
	for _, id := range ids {
		targets = append(targets, entity.PromotionProduct{ProductID: id})
	}
	return targets
}

func targetCategories(ids []uuid.UUID) []entity.PromotionCategory {
	targets := make([]entity.PromotionCategory, 0, len(ids))
	for _, id := range ids {
		targets = append(targets, entity.PromotionCategory{CategoryID: id})
	}
	return targets
}

// GetPromotion retrieves a promotion by ID
func (s *PromotionService) GetPromotion(ctx context.Context, id uuid.UUID) (*entity.Promotion, error) {
	promotion, err := s.promotionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, apperror.NewNotFoundError("Promotion")
	}
	return promotion, nil
}

// DeletePromotion removes a promotion definition
func (s *PromotionService) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	promotion, err := s.promotionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if promotion == nil {
		return apperror.NewNotFoundError("Promotion")
	}
	if err := s.promotionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache()
	return nil
}

// ListPromotions lists promotions with filtering
func (s *PromotionService) ListPromotions(ctx context.Context, params *repository.PromotionFilterParams) (*pagination.PaginatedResult[entity.Promotion], error) {
	promotions, total, err := s.promotionRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(promotions, pag), nil
}
