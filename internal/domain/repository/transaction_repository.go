package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kasir-pos-backend/internal/domain/entity"
	"kasir-pos-backend/pkg/pagination"
)

// TransactionRepository defines the interface for transaction data operations
type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	CreateItems(ctx context.Context, items []entity.TransactionItem) error
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Transaction, error)
	// GetWithItems loads the transaction with its line items and member/voucher.
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
}

// TransactionFilterParams contains filtering parameters for transaction queries
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	MemberID   *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}
