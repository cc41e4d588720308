package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"kasir-pos-backend/internal/application/service"
	"kasir-pos-backend/internal/domain/enum"
	"kasir-pos-backend/internal/domain/repository"
	"kasir-pos-backend/internal/presentation/http/dto/request"
	"kasir-pos-backend/internal/presentation/http/dto/response"
)

// PromotionHandler handles promotion-related HTTP requests
type PromotionHandler struct {
	promotionService *service.PromotionService
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(promotionService *service.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

func promotionInput(req *request.CreatePromotionRequest) *service.CreatePromotionInput {
	return &service.CreatePromotionInput{
		Name:          req.Name,
		Description:   req.Description,
		Type:          enum.PromotionType(req.Type),
		DiscountValue: req.DiscountValue,
		DiscountType:  enum.DiscountType(req.DiscountType),
		MinQuantity:   req.MinQuantity,
		BuyQuantity:   req.BuyQuantity,
		GetQuantity:   req.GetQuantity,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		IsActive:      req.IsActive,
		ProductIDs:    req.ProductIDs,
		CategoryIDs:   req.CategoryIDs,
	}
}

// Create handles creating a promotion
func (h *PromotionHandler) Create(c *gin.Context) {
	var req request.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	promotion, err := h.promotionService.CreatePromotion(c.Request.Context(), promotionInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Promotion created successfully", promotion)
}

// Get handles getting a single promotion
func (h *PromotionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid promotion ID")
		return
	}

	promotion, err := h.promotionService.GetPromotion(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Promotion retrieved successfully", promotion)
}

// List handles listing promotions
func (h *PromotionHandler) List(c *gin.Context) {
	params := &repository.PromotionFilterParams{
		Pagination: pageParams(c),
		Search:     c.Query("search"),
		IsActive:   boolQuery(c, "is_active"),
	}

	result, err := h.promotionService.ListPromotions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Promotions retrieved successfully", result)
}

// Update handles replacing a promotion definition
func (h *PromotionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid promotion ID")
		return
	}

	var req request.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	promotion, err := h.promotionService.UpdatePromotion(c.Request.Context(), id, promotionInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Promotion updated successfully", promotion)
}

// Delete handles deleting a promotion
func (h *PromotionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid promotion ID")
		return
	}

	if err := h.promotionService.DeletePromotion(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Promotion deleted successfully", nil)
}

// Calculate handles previewing promotion discounts for a cart. Cart lines are
// taken as submitted; the checkout commit re-resolves everything from the
// catalog.
func (h *PromotionHandler) Calculate(c *gin.Context) {
	var req request.CalculateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.CartItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.CartItem{
			ProductID:  item.ProductID,
			CategoryID: item.CategoryID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		}
	}

	result, err := h.promotionService.Calculate(c.Request.Context(), items)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discounts calculated", result)
}
