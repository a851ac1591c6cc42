package models

var ModelTypeRegistry = map[string]interface{}{
	"BlogPost":             BlogPost{},
	"Contract":             Contract{},
	"FinancialTransaction": FinancialTransaction{},
	"Lead":                 Lead{},
	"LeadInsight":          LeadInsight{},
	"Property":             Property{},
	"User":                 User{},
	"WebhookLog":           WebhookLog{},
}
