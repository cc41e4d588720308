package repository

import "context"

// TxManager runs fn inside a single database transaction. Repository calls
// made with the context passed to fn join that transaction, so the checkout's
// counter updates, stock decrements and inserts commit or roll back together.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
