package entity

// Models lists every table owned by the service, in migration order.
func Models() []any {
	return []any{
		&Plan{},
		&User{},
		&Subscription{},
		&WeddingPage{},
		&PaymentLog{},
	}
}
