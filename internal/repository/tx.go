package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner executes a function with job and application repositories bound to
// a single database transaction. The application-acceptance and claim
// cascades run through it so the job transition, the accepted application and
// the sibling rejections commit or roll back together.
type TxRunner interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context, jobs JobRepository, apps ApplicationRepository) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

// NewTxRunner creates a transaction runner over the shared connection.
func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTransaction(ctx context.Context, fn func(ctx context.Context, jobs JobRepository, apps ApplicationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &jobRepository{db: tx}, &applicationRepository{db: tx})
	})
}
