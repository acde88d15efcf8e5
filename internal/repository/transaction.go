package repository

import (
	"context"

	"gorm.io/gorm"
)

// Tx exposes the repositories that take part in a single database transaction.
type Tx struct {
	Users         UserRepository
	Subscriptions SubscriptionRepository
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx Tx) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(tx Tx) error) error {
	return t.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(Tx{
			Users:         NewUserRepository(db),
			Subscriptions: NewSubscriptionRepository(db),
		})
	})
}
