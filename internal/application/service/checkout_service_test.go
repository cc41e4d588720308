package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"kasir-pos-backend/internal/domain/entity"
	"kasir-pos-backend/internal/domain/enum"
	"kasir-pos-backend/pkg/apperror"
)

type checkoutFixture struct {
	svc             *CheckoutService
	voucherRepo     *fakeVoucherRepo
	promotionRepo   *fakePromotionRepo
	productRepo     *fakeProductRepo
	memberRepo      *fakeMemberRepo
	transactionRepo *fakeTransactionRepo
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		voucherRepo:     newFakeVoucherRepo(),
		promotionRepo:   &fakePromotionRepo{},
		productRepo:     newFakeProductRepo(),
		memberRepo:      newFakeMemberRepo(),
		transactionRepo: newFakeTransactionRepo(),
	}
	voucherService := newTestVoucherService(f.voucherRepo)
	promotionService := newTestPromotionService(f.promotionRepo, nil)
	f.svc = NewCheckoutService(
		fakeTxManager{},
		voucherService,
		promotionService,
		f.voucherRepo,
		f.productRepo,
		f.memberRepo,
		f.transactionRepo,
		dec("0.10"),
	)
	return f
}

func (f *checkoutFixture) addProduct(t *testing.T, price string, stock int) uuid.UUID {
	t.Helper()
	p := &entity.Product{Name: "Product", Code: uuid.New().String(), Price: dec(price), Stock: stock}
	require.NoError(t, f.productRepo.Create(context.Background(), p))
	return p.ID
}

func TestCheckoutCommitAppliesBothDiscountLayers(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture()
	productID := f.addProduct(t, "100000", 10)

	promo := activePromotion("5% off", enum.PromotionTypeProductDiscount)
	promo.DiscountValue = dec("5")
	targetProduct(&promo, productID)
	require.NoError(t, f.promotionRepo.Create(context.Background(), &promo))

	voucher := activeVoucher("POTONG15")
	voucher.Type = enum.VoucherTypeFixedAmount
	voucher.Value = dec("15000")
	require.NoError(t, f.voucherRepo.Create(context.Background(), voucher))

	cashierID := uuid.New()
	tx, err := f.svc.Commit(context.Background(), &CheckoutInput{
		UserID:        &cashierID,
		VoucherCode:   "POTONG15",
		PaymentMethod: "CASH",
		AmountPaid:    dec("100000"),
		Items:         []CheckoutItemInput{{ProductID: productID, Quantity: 1}},
	})
	require.NoError(t, err)

	// subtotal 100000, tax 10000, voucher 15000, promotion 5000
	require.True(t, tx.SubTotal.Equal(dec("100000")))
	require.True(t, tx.Tax.Equal(dec("10000")))
	require.True(t, tx.VoucherDiscount.Equal(dec("15000")))
	require.True(t, tx.PromotionDiscount.Equal(dec("5000")))
	require.True(t, tx.Total.Equal(dec("90000")), "got %s", tx.Total)
	require.True(t, tx.ChangeAmount.Equal(dec("10000")))
	require.NotEmpty(t, tx.InvoiceNo)
	require.NotNil(t, tx.VoucherID)

	// Line frozen from the catalog
	require.Len(t, tx.Items, 1)
	require.True(t, tx.Items[0].UnitPrice.Equal(dec("100000")))
	require.Equal(t, "Product", tx.Items[0].ProductName)

	// Side effects: stock, voucher counter, usage record
	require.Equal(t, 9, f.productRepo.stock(productID))
	require.Equal(t, 1, f.voucherRepo.usageCount(voucher.ID))
	require.Len(t, f.voucherRepo.usages, 1)
	require.True(t, f.voucherRepo.usages[0].Discount.Equal(dec("15000")))

	// Cashier attribution carries through to the snapshot and usage record
	require.NotNil(t, tx.UserID)
	require.Equal(t, cashierID, *tx.UserID)
	require.NotNil(t, f.voucherRepo.usages[0].UserID)
	require.Equal(t, cashierID, *f.voucherRepo.usages[0].UserID)
}

func TestCheckoutGetTransactionByInvoice(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture()
	productID := f.addProduct(t, "25000", 5)

	tx, err := f.svc.Commit(context.Background(), &CheckoutInput{
		PaymentMethod: "CASH",
		AmountPaid:    dec("30000"),
		Items:         []CheckoutItemInput{{ProductID: productID, Quantity: 1}},
	})
	require.NoError(t, err)

	found, err := f.svc.GetTransactionByInvoice(context.Background(), "  "+tx.InvoiceNo+" ")
	require.NoError(t, err)
	require.Equal(t, tx.ID, found.ID)
	require.Len(t, found.Items, 1)

	_, err = f.svc.GetTransactionByInvoice(context.Background(), "TRX-TIDAKADA")
	appErr := apperror.GetAppError(err)
	require.NotNil(t, appErr)
	require.Equal(t, 404, appErr.Code)
}

func TestCheckoutCommitTotalFloorsAtZero(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture()
	productID := f.addProduct(t, "10000", 5)

	voucher := activeVoucher("BESAR")
	voucher.Type = enum.VoucherTypeFreeShipping
	voucher.Value = dec("50000")
	require.NoError(t, f.voucherRepo.Create(context.Background(), voucher))

	tx, err := f.svc.Commit(context.Background(), &CheckoutInput{
		VoucherCode:   "BESAR",
		PaymentMethod: "CASH",
		AmountPaid:    dec("0"),
		Items:         []CheckoutItemInput{{ProductID: productID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.True(t, tx.Total.IsZero(), "got %s", tx.Total)
	require.True(t, tx.ChangeAmount.IsZero())
}

func TestCheckoutCommitRejectsInvalidVoucher(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture()
	productID := f.addProduct(t, "10000", 5)

	_, err := f.svc.Commit(context.Background(), &CheckoutInput{
		VoucherCode:   "TIDAKADA",
		PaymentMethod: "CASH",
		AmountPaid:    dec("20000"),
		Items:         []CheckoutItemInput{{ProductID: productID, Quantity: 1}},
	})
	require.Error(t, err)
	require.Equal(t, apperror.ReasonVoucherNotFound, apperror.ReasonOf(err))

	// Nothing was persisted
	txs, _, listErr := f.transactionRepo.List(context.Background(), nil)
	require.NoError(t, listErr)
	require.Empty(t, txs)
}

func TestCheckoutCommitInsufficientStock(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture()
	productID := f.addProduct(t, "10000", 1)

	_, err := f.svc.Commit(context.Background(), &CheckoutInput{
		PaymentMethod: "CASH",
		AmountPaid:    dec("20000"),
		Items:         []CheckoutItemInput{{ProductID: productID, Quantity: 2}},
	})
	require.Error(t, err)
	require.Equal(t, apperror.ReasonInsufficientStock, apperror.ReasonOf(err))
	require.Equal(t, 409, apperror.GetAppError(err).Code)
	require.Equal(t, 1, f.productRepo.stock(productID), "stock untouched")
}

func TestCheckoutCommitUnknownProduct(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture()

	_, err := f.svc.Commit(context.Background(), &CheckoutInput{
		PaymentMethod: "CASH",
		AmountPaid:    dec("20000"),
		Items:         []CheckoutItemInput{{ProductID: uuid.New(), Quantity: 1}},
	})
	require.Error(t, err)
	require.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestCheckoutCommitValidation(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture()
	productID := f.addProduct(t, "10000", 5)

	_, err := f.svc.Commit(context.Background(), &CheckoutInput{
		PaymentMethod: "CASH",
	})
	require.Error(t, err, "empty cart")

	_, err = f.svc.Commit(context.Background(), &CheckoutInput{
		PaymentMethod: "CASH",
		Items:         []CheckoutItemInput{{ProductID: productID, Quantity: 0}},
	})
	require.Error(t, err, "non-positive quantity")

	_, err = f.svc.Commit(context.Background(), &CheckoutInput{
		PaymentMethod: "CASH",
		PointsUsed:    10,
		Items:         []CheckoutItemInput{{ProductID: productID, Quantity: 1}},
	})
	require.Error(t, err, "points without a member")

	_, err = f.svc.Commit(context.Background(), &CheckoutInput{
		PaymentMethod: "BARTER",
		Items:         []CheckoutItemInput{{ProductID: productID, Quantity: 1}},
	})
	require.Error(t, err, "unknown payment method")
}

func TestCheckoutCommitSettlesMemberPoints(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture()
	productID := f.addProduct(t, "90000", 5)

	member := &entity.Member{Code: "M001", Name: "Member", Points: 50}
	require.NoError(t, f.memberRepo.Create(context.Background(), member))

	tx, err := f.svc.Commit(context.Background(), &CheckoutInput{
		MemberID:      &member.ID,
		PointsUsed:    30,
		PaymentMethod: "CASH",
		AmountPaid:    dec("99000"),
		Items:         []CheckoutItemInput{{ProductID: productID, Quantity: 1}},
	})
	require.NoError(t, err)

	// total = 90000 + 9000 tax = 99000; earns floor(99000/10000) = 9 points
	require.True(t, tx.Total.Equal(dec("99000")))
	require.Equal(t, 30, tx.PointsUsed)
	require.Equal(t, 9, tx.PointsEarned)

	// Balance nets out but the ledger keeps both entries
	require.Equal(t, 50-30+9, f.memberRepo.points(member.ID))
	require.Len(t, f.memberRepo.entries, 2)
	require.Equal(t, enum.PointEntryRedeem, f.memberRepo.entries[0].Type)
	require.Equal(t, 30, f.memberRepo.entries[0].Points)
	require.Equal(t, enum.PointEntryEarn, f.memberRepo.entries[1].Type)
	require.Equal(t, 9, f.memberRepo.entries[1].Points)

	updated, err := f.memberRepo.GetByID(context.Background(), member.ID)
	require.NoError(t, err)
	require.True(t, updated.TotalSpent.Equal(dec("99000")))
}

func TestCheckoutCommitInsufficientPointsFailsFast(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture()
	productID := f.addProduct(t, "10000", 5)

	member := &entity.Member{Code: "M002", Name: "Member", Points: 5}
	require.NoError(t, f.memberRepo.Create(context.Background(), member))

	_, err := f.svc.Commit(context.Background(), &CheckoutInput{
		MemberID:      &member.ID,
		PointsUsed:    10,
		PaymentMethod: "CASH",
		AmountPaid:    dec("20000"),
		Items:         []CheckoutItemInput{{ProductID: productID, Quantity: 1}},
	})
	require.Error(t, err)
	require.Equal(t, apperror.ReasonInsufficientPoints, apperror.ReasonOf(err))
	require.Equal(t, 5, f.memberRepo.points(member.ID))
	require.Equal(t, 5, f.productRepo.stock(productID), "nothing committed")
}

func TestCheckoutCommitGuestEarnsNoPoints(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture()
	productID := f.addProduct(t, "100000", 5)

	tx, err := f.svc.Commit(context.Background(), &CheckoutInput{
		PaymentMethod: "CASH",
		AmountPaid:    dec("110000"),
		Items:         []CheckoutItemInput{{ProductID: productID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, 0, tx.PointsEarned)
}

func TestCheckoutVoucherLastSlotRace(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture()
	productID := f.addProduct(t, "10000", 100)

	voucher := activeVoucher("TERAKHIR")
	voucher.Type = enum.VoucherTypeFixedAmount
	voucher.Value = dec("5000")
	voucher.UsageLimit = intPtr(1)
	require.NoError(t, f.voucherRepo.Create(context.Background(), voucher))

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Commit(context.Background(), &CheckoutInput{
				VoucherCode:   "TERAKHIR",
				PaymentMethod: "CASH",
				AmountPaid:    dec("20000"),
				Items:         []CheckoutItemInput{{ProductID: productID, Quantity: 1}},
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			reason := apperror.ReasonOf(err)
			require.Equal(t, apperror.ReasonUsageLimitExceeded, reason)
		}
	}
	require.Equal(t, 1, successes, "exactly one commit may take the last slot")
	require.Equal(t, 1, f.voucherRepo.usageCount(voucher.ID))
	require.Len(t, f.voucherRepo.usages, 1)
}
