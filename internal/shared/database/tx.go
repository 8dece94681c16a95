package database

import (
	"context"
	"fmt"

	"umrahcore/internal/shared/config"

	"gorm.io/gorm"
)

type txKey struct{}

// Transactor runs a unit of work inside one database transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Conn returns the transaction carried by ctx, or db bound to ctx.
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// InTransaction reports whether ctx already carries a transaction.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}

type gormTransactor struct {
	db  *gorm.DB
	cfg config.PersistenceConfig
}

// NewTransactor builds a Transactor that bounds each attempt with the
// configured timeout and retries persistence conflicts.
func NewTransactor(db *gorm.DB, cfg config.PersistenceConfig) Transactor {
	return &gormTransactor{db: db, cfg: cfg}
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested calls join the outer transaction.
	if InTransaction(ctx) {
		return fn(ctx)
	}

	return Retry(ctx, t.cfg.MaxRetries, t.cfg.RetryBackoff, func() error {
		opCtx := ctx
		if t.cfg.OperationTimeout > 0 {
			var cancel context.CancelFunc
			opCtx, cancel = context.WithTimeout(ctx, t.cfg.OperationTimeout)
			defer cancel()
		}

		err := t.db.WithContext(opCtx).Transaction(func(tx *gorm.DB) error {
			if t.cfg.LockTimeout > 0 {
				stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", t.cfg.LockTimeout.Milliseconds())
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return fn(context.WithValue(opCtx, txKey{}, tx))
		})
		return Classify(opCtx, err)
	})
}
