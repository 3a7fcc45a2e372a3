package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"anoa.com/peerreview/internal/uow"
)

// ambient resolves the request-scoped session. Repositories depend on it
// exclusively; a missing session is a wiring bug surfaced immediately.
func ambient(ctx context.Context) (*gorm.DB, error) {
	return uow.Current(ctx)
}

// first runs the query and maps gorm's not-found to a nil entity.
func first[E any](tx *gorm.DB, conds ...interface{}) (*E, error) {
	var entity E
	err := tx.First(&entity, conds...).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}
