package repository

import (
	"context"

	"weddingplanner/internal/entity"

	"gorm.io/gorm"
)

const defaultPageBatchSize = 100

type WeddingPageRepository interface {
	// EachLiveBatch streams live pages with a wedding date, owner and owner's
	// plan preloaded, one batch at a time. Returning an error from fn stops the scan.
	EachLiveBatch(ctx context.Context, batchSize int, fn func(pages []entity.WeddingPage) error) error
}

type weddingPageRepository struct {
	db *gorm.DB
}

func NewWeddingPageRepository(db *gorm.DB) WeddingPageRepository {
	return &weddingPageRepository{db: db}
}

func (r *weddingPageRepository) EachLiveBatch(ctx context.Context, batchSize int, fn func(pages []entity.WeddingPage) error) error {
	if batchSize <= 0 {
		batchSize = defaultPageBatchSize
	}
	var pages []entity.WeddingPage
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("User.Plan").
		Where("is_live = ? AND wedding_date IS NOT NULL", true).
		FindInBatches(&pages, batchSize, func(_ *gorm.DB, _ int) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(pages)
		}).Error
}
