package models

// All returns one pointer per table, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Property{},
		&Lead{},
		&LeadInsight{},
		&Contract{},
		&FinancialTransaction{},
		&BlogPost{},
		&WebhookLog{},
	}
}
