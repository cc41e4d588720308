package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"kasir-pos-backend/internal/application/service"
	"kasir-pos-backend/internal/domain/enum"
	"kasir-pos-backend/internal/domain/repository"
	"kasir-pos-backend/internal/presentation/http/dto/request"
	"kasir-pos-backend/internal/presentation/http/dto/response"
	"kasir-pos-backend/pkg/apperror"
)

// VoucherHandler handles voucher-related HTTP requests
type VoucherHandler struct {
	voucherService *service.VoucherService
}

// NewVoucherHandler creates a new voucher handler
func NewVoucherHandler(voucherService *service.VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherService: voucherService}
}

// Create handles creating a voucher
func (h *VoucherHandler) Create(c *gin.Context) {
	var req request.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), &service.CreateVoucherInput{
		Code:         req.Code,
		Name:         req.Name,
		Type:         enum.VoucherType(req.Type),
		Value:        req.Value,
		MinPurchase:  req.MinPurchase,
		MaxDiscount:  req.MaxDiscount,
		UsageLimit:   req.UsageLimit,
		PerUserLimit: req.PerUserLimit,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsActive:     req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Voucher created successfully", voucher)
}

// Get handles getting a single voucher
func (h *VoucherHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid voucher ID")
		return
	}

	voucher, err := h.voucherService.GetVoucher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher retrieved successfully", voucher)
}

// List handles listing vouchers
func (h *VoucherHandler) List(c *gin.Context) {
	params := &repository.VoucherFilterParams{
		Pagination: pageParams(c),
		Search:     c.Query("search"),
		IsActive:   boolQuery(c, "is_active"),
	}

	result, err := h.voucherService.ListVouchers(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Vouchers retrieved successfully", result)
}

// Update handles updating a voucher
func (h *VoucherHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid voucher ID")
		return
	}

	var req request.UpdateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	voucher, err := h.voucherService.UpdateVoucher(c.Request.Context(), id, &service.UpdateVoucherInput{
		Name:         req.Name,
		Value:        req.Value,
		MinPurchase:  req.MinPurchase,
		MaxDiscount:  req.MaxDiscount,
		UsageLimit:   req.UsageLimit,
		PerUserLimit: req.PerUserLimit,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsActive:     req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher updated successfully", voucher)
}

// Delete handles deleting a voucher
func (h *VoucherHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid voucher ID")
		return
	}

	if err := h.voucherService.DeleteVoucher(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher deleted successfully", nil)
}

// Validate handles checking a voucher code against a subtotal without
// consuming a usage slot. Rejections map to 404 (unknown code) or 400
// with a machine-readable reason the register UI can react to.
func (h *VoucherHandler) Validate(c *gin.Context) {
	var req request.ValidateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	evaluation, err := h.voucherService.Evaluate(c.Request.Context(), req.Code, req.Subtotal, service.UsageContext{
		UserID:   req.UserID,
		MemberID: req.MemberID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if !evaluation.Valid {
		response.Error(c, apperror.NewRuleViolation(evaluation.Reason, evaluation.Message))
		return
	}

	response.OK(c, "Voucher is valid", evaluation)
}
