package repository

// AutoMigrateModels lists every GORM model owned by the entity store, in
// dependency order, for schema migration.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&AccountModel{},
		&ProductModel{},
		&PaymentEventModel{},
		&SubscriptionModel{},
		&CertificateModel{},
		&WebhookDeliveryModel{},
	}
}
