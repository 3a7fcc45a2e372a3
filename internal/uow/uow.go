// Package uow binds one transactional session to each request context.
// Repositories read the ambient session from the context and never open
// sessions of their own, so a failed inner step rolls back the whole request.
package uow

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNoAmbientSession is returned when database code runs outside a unit of work.
var ErrNoAmbientSession = errors.New("no ambient session bound to context")

type sessionKey struct{}

// UnitOfWork is one request-scoped transaction. It must be finished exactly
// once, by Commit or Rollback; further calls are no-ops.
type UnitOfWork struct {
	tx   *gorm.DB
	done bool
}

// Begin opens a transaction on db and returns a derived context carrying it
// as the ambient session.
func Begin(ctx context.Context, db *gorm.DB) (context.Context, *UnitOfWork, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return ctx, nil, tx.Error
	}
	return context.WithValue(ctx, sessionKey{}, tx), &UnitOfWork{tx: tx}, nil
}

// Commit flushes and commits the transaction.
func (u *UnitOfWork) Commit() error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Commit().Error
}

// Rollback aborts the transaction. Calling it after Commit, or twice, is a
// no-op, so callers can defer it unconditionally.
func (u *UnitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Rollback().Error
}

// Current returns the ambient session bound to ctx.
func Current(ctx context.Context) (*gorm.DB, error) {
	tx, ok := ctx.Value(sessionKey{}).(*gorm.DB)
	if !ok {
		return nil, ErrNoAmbientSession
	}
	return tx, nil
}

// RunInTransaction runs fn inside a fresh unit of work: commit when fn
// returns nil, roll back otherwise. Used by non-HTTP callers and tests; HTTP
// requests get their unit of work from the transaction middleware.
func RunInTransaction(ctx context.Context, db *gorm.DB, fn func(ctx context.Context) error) error {
	txCtx, unit, err := Begin(ctx, db)
	if err != nil {
		return err
	}
	defer unit.Rollback()

	if err := fn(txCtx); err != nil {
		return err
	}
	return unit.Commit()
}
