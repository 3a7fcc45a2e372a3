// Package repository implements the typed repositories over the relational
// store. All operations use the ambient session bound to the request context
// and never open transactions of their own.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"anoa.com/peerreview/pkg/apperror"
)

// optimizedSavingPolicyApplied is logged when an update changes nothing and
// the save is skipped.
const optimizedSavingPolicyApplied = "optimized saving policy applied: entity %s does not change by the update (%s)"

// entityOps is the capability set a typed repository hands to the generic
// primitives: validate, sanitize, convert both ways, and the existence hook.
type entityOps[E any, A any] struct {
	sanitize    func(*A)
	validate    func(*A) []string
	toEntity    func(*A) *E
	fromEntity  func(*E) *A
	hasExisting func(ctx context.Context, tx *gorm.DB, a *A) (bool, error)
	describe    func(*A) string
}

// entitiesRepo holds the CRUD primitives shared by all typed repositories.
type entitiesRepo[E any, A any] struct {
	ops entityOps[E, A]
}

// createEntity runs sanitize, validate, the existence hook and the insert,
// in that order, and returns fresh attributes built from the stored entity.
func (r *entitiesRepo[E, A]) createEntity(ctx context.Context, a *A) (*A, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}

	r.ops.sanitize(a)
	if reasons := r.ops.validate(a); len(reasons) > 0 {
		return nil, apperror.NewInvalidParameters(reasons)
	}

	exists, err := r.ops.hasExisting(ctx, tx, a)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: trying to create an entity that exists: %s",
			apperror.ErrEntityAlreadyExists, r.ops.describe(a))
	}

	entity := r.ops.toEntity(a)
	if err := tx.Create(entity).Error; err != nil {
		// A concurrent create can slip past the existence hook; the unique
		// constraint is the authority.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: trying to create an entity that exists: %s",
				apperror.ErrEntityAlreadyExists, r.ops.describe(a))
		}
		return nil, err
	}

	log.Printf("entity created: %s", r.ops.describe(a))
	return r.ops.fromEntity(entity), nil
}

// saveEntity merges the entity within the ambient session.
func (r *entitiesRepo[E, A]) saveEntity(ctx context.Context, entity *E) error {
	tx, err := ambient(ctx)
	if err != nil {
		return err
	}
	return tx.Save(entity).Error
}

// deleteEntity removes the entity within the ambient session. A nil entity
// is a no-op.
func (r *entitiesRepo[E, A]) deleteEntity(ctx context.Context, entity *E) error {
	if entity == nil {
		return nil
	}
	tx, err := ambient(ctx)
	if err != nil {
		return err
	}
	return tx.Delete(entity).Error
}

// makeAttributes converts a stored entity to attributes.
func (r *entitiesRepo[E, A]) makeAttributes(entity *E) *A {
	return r.ops.fromEntity(entity)
}

// makeAttributesOrNil converts a possibly-nil entity.
func (r *entitiesRepo[E, A]) makeAttributesOrNil(entity *E) *A {
	if entity == nil {
		return nil
	}
	return r.ops.fromEntity(entity)
}

// hasSameValue is the equality used by the optimized no-op write pattern.
func hasSameValue[T comparable](oldValue, newValue T) bool {
	return oldValue == newValue
}
