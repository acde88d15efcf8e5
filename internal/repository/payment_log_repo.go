package repository

import (
	"context"

	"weddingplanner/internal/entity"

	"gorm.io/gorm"
)

type PaymentLogRepository interface {
	Log(ctx context.Context, log *entity.PaymentLog) error
}

type paymentLogRepository struct {
	db *gorm.DB
}

func NewPaymentLogRepository(db *gorm.DB) PaymentLogRepository {
	return &paymentLogRepository{db: db}
}

func (r *paymentLogRepository) Log(ctx context.Context, log *entity.PaymentLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}
