package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"kasir-pos-backend/internal/application/service"
	"kasir-pos-backend/internal/domain/enum"
	"kasir-pos-backend/internal/domain/repository"
	"kasir-pos-backend/internal/presentation/http/dto/request"
	"kasir-pos-backend/internal/presentation/http/dto/response"
)

// TransactionHandler handles checkout and transaction HTTP requests
type TransactionHandler struct {
	checkoutService *service.CheckoutService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(checkoutService *service.CheckoutService) *TransactionHandler {
	return &TransactionHandler{checkoutService: checkoutService}
}

// Create handles committing a checkout
func (h *TransactionHandler) Create(c *gin.Context) {
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.CheckoutItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.CheckoutItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	transaction, err := h.checkoutService.Commit(c.Request.Context(), &service.CheckoutInput{
		UserID:        req.UserID,
		MemberID:      req.MemberID,
		VoucherCode:   req.VoucherCode,
		PointsUsed:    req.PointsUsed,
		PaymentMethod: enum.PaymentMethod(req.PaymentMethod),
		AmountPaid:    req.AmountPaid,
		Items:         items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction created successfully", transaction)
}

// Get handles getting a single transaction with its items
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.checkoutService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", transaction)
}

// GetByInvoice handles looking a transaction up by its invoice number
func (h *TransactionHandler) GetByInvoice(c *gin.Context) {
	transaction, err := h.checkoutService.GetTransactionByInvoice(c.Request.Context(), c.Param("invoiceNo"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", transaction)
}

// List handles listing transactions
func (h *TransactionHandler) List(c *gin.Context) {
	params := &repository.TransactionFilterParams{
		Pagination: pageParams(c),
		Search:     c.Query("search"),
	}

	if memberIDStr := c.Query("member_id"); memberIDStr != "" {
		if memberID, err := uuid.Parse(memberIDStr); err == nil {
			params.MemberID = &memberID
		}
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.checkoutService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}
