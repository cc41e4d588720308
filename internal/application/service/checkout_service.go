package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kasir-pos-backend/internal/domain/entity"
	"kasir-pos-backend/internal/domain/enum"
	"kasir-pos-backend/internal/domain/repository"
	"kasir-pos-backend/pkg/apperror"
	"kasir-pos-backend/pkg/money"
	"kasir-pos-backend/pkg/pagination"
)

// pointsPerCurrency is the spend required to earn one loyalty point.
var pointsPerCurrency = decimal.NewFromInt(10000)

// CheckoutService is the only component that mutates persistent state. It
// recomputes every discount server-side inside one database transaction;
// client-supplied discount figures are never trusted.
type CheckoutService struct {
	txManager       repository.TxManager
	voucherService  *VoucherService
	promotionSvc    *PromotionService
	voucherRepo     repository.VoucherRepository
	productRepo     repository.ProductRepository
	memberRepo      repository.MemberRepository
	transactionRepo repository.TransactionRepository
	taxRate         decimal.Decimal
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	txManager repository.TxManager,
	voucherService *VoucherService,
	promotionSvc *PromotionService,
	voucherRepo repository.VoucherRepository,
	productRepo repository.ProductRepository,
	memberRepo repository.MemberRepository,
	transactionRepo repository.TransactionRepository,
	taxRate decimal.Decimal,
) *CheckoutService {
	return &CheckoutService{
		txManager:       txManager,
		voucherService:  voucherService,
		promotionSvc:    promotionSvc,
		voucherRepo:     voucherRepo,
		productRepo:     productRepo,
		memberRepo:      memberRepo,
		transactionRepo: transactionRepo,
		taxRate:         taxRate,
	}
}

// CheckoutItemInput is one requested cart line. Prices are resolved from the
// catalog, not taken from the client.
type CheckoutItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CheckoutInput represents a checkout commit request
type CheckoutInput struct {
	UserID        *uuid.UUID // cashier
	MemberID      *uuid.UUID
	VoucherCode   string
	PointsUsed    int
	PaymentMethod enum.PaymentMethod
	AmountPaid    decimal.Decimal
	Items         []CheckoutItemInput
}

// Commit runs the whole checkout atomically: voucher re-validation, promotion
// calculation, totals, stock decrements, loyalty points, voucher usage
// counting and the transaction snapshot either all commit or none do.
func (s *CheckoutService) Commit(ctx context.Context, input *CheckoutInput) (*entity.Transaction, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Checkout requires at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be positive")
		}
	}
	if !input.PaymentMethod.Valid() {
		return nil, apperror.NewBadRequestError("Invalid payment method")
	}
	if input.PointsUsed < 0 {
		return nil, apperror.NewBadRequestError("Points used cannot be negative")
	}
	if input.PointsUsed > 0 && input.MemberID == nil {
		return nil, apperror.NewBadRequestError("Points can only be used by a member")
	}

	// Fail fast on insufficient points before opening the transaction.
	if input.MemberID != nil {
		member, err := s.memberRepo.GetByID(ctx, *input.MemberID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, apperror.NewNotFoundError("Member")
		}
		if input.PointsUsed > member.Points {
			return nil, apperror.NewRuleViolation(apperror.ReasonInsufficientPoints,
				fmt.Sprintf("Member has %d points, %d requested", member.Points, input.PointsUsed))
		}
	}

	var transactionID uuid.UUID
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		id, err := s.commitTx(txCtx, input)
		if err != nil {
			return err
		}
		transactionID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.transactionRepo.GetWithItems(ctx, transactionID)
}

// commitTx is the body of the checkout transaction.
func (s *CheckoutService) commitTx(ctx context.Context, input *CheckoutInput) (uuid.UUID, error) {
	cartItems, txItems, decrements, err := s.resolveCart(ctx, input.Items)
	if err != nil {
		return uuid.Nil, err
	}

	subtotal := decimal.Zero
	for _, item := range cartItems {
		subtotal = subtotal.Add(item.Total())
	}
	subtotal = money.Round(subtotal)

	// Recompute both discounts against the live catalog snapshot.
	promoResult, err := s.promotionSvc.CalculateAuthoritative(ctx, cartItems)
	if err != nil {
		return uuid.Nil, err
	}

	var voucher *entity.Voucher
	voucherDiscount := decimal.Zero
	if strings.TrimSpace(input.VoucherCode) != "" {
		eval, err := s.voucherService.Evaluate(ctx, input.VoucherCode, subtotal, UsageContext{
			UserID:   input.UserID,
			MemberID: input.MemberID,
		})
		if err != nil {
			return uuid.Nil, err
		}
		if !eval.Valid {
			return uuid.Nil, apperror.NewRuleViolation(eval.Reason, eval.Message)
		}
		voucher = eval.Voucher
		voucherDiscount = *eval.DiscountAmount
	}

	tax := money.Round(subtotal.Mul(s.taxRate))
	total := money.ClampFloor(
		money.Round(subtotal.Add(tax).Sub(voucherDiscount).Sub(promoResult.TotalDiscount)),
		decimal.Zero,
	)

	// Conditional stock decrements; a lost race on any line aborts everything.
	failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, decrements)
	if err != nil {
		return uuid.Nil, err
	}
	if len(failedIDs) > 0 {
		return uuid.Nil, apperror.NewConcurrencyConflict(apperror.ReasonInsufficientStock,
			fmt.Sprintf("Insufficient stock for %d item(s)", len(failedIDs)))
	}

	detail, err := json.Marshal(promoResult.AppliedPromotions)
	if err != nil {
		return uuid.Nil, err
	}

	pointsEarned := 0
	if input.MemberID != nil {
		pointsEarned = int(total.Div(pointsPerCurrency).IntPart())
	}

	transaction := &entity.Transaction{
		InvoiceNo:         fmt.Sprintf("TRX-%s", strings.ToUpper(uuid.New().String()[:8])),
		UserID:            input.UserID,
		MemberID:          input.MemberID,
		SubTotal:          subtotal,
		Tax:               tax,
		VoucherDiscount:   voucherDiscount,
		PromotionDiscount: promoResult.TotalDiscount,
		PointsUsed:        input.PointsUsed,
		PointsEarned:      pointsEarned,
		Total:             total,
		PaymentMethod:     input.PaymentMethod,
		AmountPaid:        input.AmountPaid,
		ChangeAmount:      money.ClampFloor(input.AmountPaid.Sub(total), decimal.Zero),
		DiscountDetail:    string(detail),
	}
	if voucher != nil {
		transaction.VoucherID = &voucher.ID
	}

	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return uuid.Nil, err
	}

	for i := range txItems {
		txItems[i].TransactionID = transaction.ID
	}
	if err := s.transactionRepo.CreateItems(ctx, txItems); err != nil {
		return uuid.Nil, err
	}

	if input.MemberID != nil {
		if err := s.settleMemberPoints(ctx, *input.MemberID, transaction.ID, pointsEarned, input.PointsUsed, total); err != nil {
			return uuid.Nil, err
		}
	}

	if voucher != nil {
		if err := s.redeemVoucher(ctx, voucher.ID, transaction.ID, input, voucherDiscount); err != nil {
			return uuid.Nil, err
		}
	}

	return transaction.ID, nil
}

// resolveCart loads the catalog rows for the requested lines and builds the
// engine cart, the frozen transaction items and the stock decrement map.
func (s *CheckoutService) resolveCart(ctx context.Context, items []CheckoutItemInput) ([]CartItem, []entity.TransactionItem, map[uuid.UUID]int, error) {
	productIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	cartItems := make([]CartItem, 0, len(items))
	txItems := make([]entity.TransactionItem, 0, len(items))
	decrements := make(map[uuid.UUID]int, len(items))

	for _, item := range items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, nil, nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}

		cartItems = append(cartItems, CartItem{
			ProductID:  product.ID,
			CategoryID: product.CategoryID,
			Quantity:   item.Quantity,
			UnitPrice:  product.Price,
		})
		txItems = append(txItems, entity.TransactionItem{
			ProductID:   product.ID,
			CategoryID:  product.CategoryID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			Total:       product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
		decrements[product.ID] += item.Quantity
	}

	return cartItems, txItems, decrements, nil
}

// settleMemberPoints applies the earn and redeem deltas as two separate
// history entries, never netted, and adds the sale to lifetime spend.
func (s *CheckoutService) settleMemberPoints(ctx context.Context, memberID, transactionID uuid.UUID, earned, used int, total decimal.Decimal) error {
	if used > 0 {
		ok, err := s.memberRepo.AtomicRedeemPoints(ctx, memberID, used)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewConcurrencyConflict(apperror.ReasonInsufficientPoints,
				"Member points balance changed, insufficient points")
		}
		if err := s.memberRepo.CreatePointEntry(ctx, &entity.MemberPointEntry{
			MemberID:      memberID,
			TransactionID: &transactionID,
			Type:          enum.PointEntryRedeem,
			Points:        used,
		}); err != nil {
			return err
		}
	}

	if earned > 0 {
		if err := s.memberRepo.AddPoints(ctx, memberID, earned); err != nil {
			return err
		}
		if err := s.memberRepo.CreatePointEntry(ctx, &entity.MemberPointEntry{
			MemberID:      memberID,
			TransactionID: &transactionID,
			Type:          enum.PointEntryEarn,
			Points:        earned,
		}); err != nil {
			return err
		}
	}

	return s.memberRepo.AddTotalSpent(ctx, memberID, total)
}

// redeemVoucher consumes exactly one usage slot and appends the usage record.
// The increment condition re-checks the limit so two concurrent redemptions
// of the last slot cannot both pass.
func (s *CheckoutService) redeemVoucher(ctx context.Context, voucherID, transactionID uuid.UUID, input *CheckoutInput, discount decimal.Decimal) error {
	ok, err := s.voucherRepo.IncrementUsage(ctx, voucherID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewConcurrencyConflict(apperror.ReasonUsageLimitExceeded,
			"Voucher usage limit was reached by a concurrent redemption")
	}

	return s.voucherRepo.CreateUsage(ctx, &entity.VoucherUsage{
		VoucherID:     voucherID,
		TransactionID: transactionID,
		MemberID:      input.MemberID,
		UserID:        input.UserID,
		Discount:      discount,
	})
}

// GetTransaction retrieves a stored transaction with its items
func (s *CheckoutService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	transaction, err := s.transactionRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return transaction, nil
}

// GetTransactionByInvoice retrieves a stored transaction by its invoice number
func (s *CheckoutService) GetTransactionByInvoice(ctx context.Context, invoiceNo string) (*entity.Transaction, error) {
	transaction, err := s.transactionRepo.GetByInvoiceNo(ctx, strings.ToUpper(strings.TrimSpace(invoiceNo)))
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return s.transactionRepo.GetWithItems(ctx, transaction.ID)
}

// ListTransactions lists transactions with filtering
func (s *CheckoutService) ListTransactions(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	transactions, total, err := s.transactionRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(transactions, pag), nil
}
