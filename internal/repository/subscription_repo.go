package repository

import (
	"context"
	"errors"

	"weddingplanner/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	FindByReference(ctx context.Context, reference string) (*entity.Subscription, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Create relies on the unique paystack_reference index; a concurrent capture of
// the same reference fails with ErrDuplicateKey.
func (r *subscriptionRepository) Create(ctx context.Context, s *entity.Subscription) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error)
}

func (r *subscriptionRepository) FindByReference(ctx context.Context, reference string) (*entity.Subscription, error) {
	var subscription entity.Subscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("paystack_reference = ?", reference).
		First(&subscription).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}
