package models

import (
	"fmt"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// EnumType is a named, closed value set backed by a Postgres enum type.
type EnumType struct {
	Name   string
	Values []string
}

// EnumTypes lists every enum type the schema declares, in creation order.
func EnumTypes() []EnumType {
	return []EnumType{
		{Name: "role", Values: variants(roles)},
		{Name: "property_type", Values: variants(propertyTypes)},
		{Name: "transaction_type", Values: variants(transactionModes)},
		{Name: "lead_status", Values: variants(leadStatuses)},
		{Name: "transaction_type_finance", Values: variants(financeTypes)},
		{Name: "transaction_status", Values: variants(transactionStatuses)},
		{Name: "contract_status", Values: variants(contractStatuses)},
	}
}

// Role of a User.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
	RoleTenant Role = "tenant"
	RoleClient Role = "client"
)

var roles = []Role{RoleAdmin, RoleOwner, RoleTenant, RoleClient}

func (r Role) Valid() bool { return slices.Contains(roles, r) }
func (Role) Variants() []string { return variants(roles) }
func (Role) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return enumColumnType(db, "role", 20)
}

// PropertyType classifies a listing.
type PropertyType string

const (
	PropertyCasa        PropertyType = "casa"
	PropertyApartamento PropertyType = "apartamento"
	PropertyCobertura   PropertyType = "cobertura"
	PropertyTerreno     PropertyType = "terreno"
	PropertyComercial   PropertyType = "comercial"
	PropertyRural       PropertyType = "rural"
)

var propertyTypes = []PropertyType{
	PropertyCasa, PropertyApartamento, PropertyCobertura,
	PropertyTerreno, PropertyComercial, PropertyRural,
}

func (p PropertyType) Valid() bool { return slices.Contains(propertyTypes, p) }
func (PropertyType) Variants() []string { return variants(propertyTypes) }
func (PropertyType) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return enumColumnType(db, "property_type", 20)
}

// TransactionMode says whether a property is offered for sale, rent or both.
type TransactionMode string

const (
	ModeVenda   TransactionMode = "venda"
	ModeLocacao TransactionMode = "locacao"
	ModeAmbos   TransactionMode = "ambos"
)

var transactionModes = []TransactionMode{ModeVenda, ModeLocacao, ModeAmbos}

func (m TransactionMode) Valid() bool { return slices.Contains(transactionModes, m) }
func (TransactionMode) Variants() []string { return variants(transactionModes) }
func (TransactionMode) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return enumColumnType(db, "transaction_type", 20)
}

// LeadStatus is the position of a Lead in the sales funnel.
type LeadStatus string

const (
	LeadNovo            LeadStatus = "novo"
	LeadContatoInicial  LeadStatus = "contato_inicial"
	LeadQualificado     LeadStatus = "qualificado"
	LeadVisitaAgendada  LeadStatus = "visita_agendada"
	LeadVisitaRealizada LeadStatus = "visita_realizada"
	LeadProposta        LeadStatus = "proposta"
	LeadNegociacao      LeadStatus = "negociacao"
	LeadFechadoGanho    LeadStatus = "fechado_ganho"
	LeadFechadoPerdido  LeadStatus = "fechado_perdido"
	LeadSemInteresse    LeadStatus = "sem_interesse"
)

var leadStatuses = []LeadStatus{
	LeadNovo, LeadContatoInicial, LeadQualificado, LeadVisitaAgendada, LeadVisitaRealizada,
	LeadProposta, LeadNegociacao, LeadFechadoGanho, LeadFechadoPerdido, LeadSemInteresse,
}

func (s LeadStatus) Valid() bool { return slices.Contains(leadStatuses, s) }
func (LeadStatus) Variants() []string { return variants(leadStatuses) }
func (LeadStatus) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return enumColumnType(db, "lead_status", 30)
}

// IsTerminal reports whether s closes the funnel. Writes out of a terminal
// status are not rejected; the set is advisory.
func (s LeadStatus) IsTerminal() bool {
	switch s {
	case LeadFechadoGanho, LeadFechadoPerdido, LeadSemInteresse:
		return true
	}
	return false
}

// FinanceType classifies a ledger entry.
type FinanceType string

const (
	FinanceRevenue    FinanceType = "revenue"
	FinanceExpense    FinanceType = "expense"
	FinanceTransfer   FinanceType = "transfer"
	FinanceCommission FinanceType = "commission"
)

var financeTypes = []FinanceType{FinanceRevenue, FinanceExpense, FinanceTransfer, FinanceCommission}

func (t FinanceType) Valid() bool { return slices.Contains(financeTypes, t) }
func (FinanceType) Variants() []string { return variants(financeTypes) }
func (FinanceType) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return enumColumnType(db, "transaction_type_finance", 20)
}

// TransactionStatus is the settlement state of a ledger entry.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionPaid      TransactionStatus = "paid"
	TransactionOverdue   TransactionStatus = "overdue"
	TransactionCancelled TransactionStatus = "cancelled"
)

var transactionStatuses = []TransactionStatus{
	TransactionPending, TransactionPaid, TransactionOverdue, TransactionCancelled,
}

func (s TransactionStatus) Valid() bool { return slices.Contains(transactionStatuses, s) }
func (TransactionStatus) Variants() []string { return variants(transactionStatuses) }
func (TransactionStatus) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return enumColumnType(db, "transaction_status", 20)
}

// ContractStatus is the lifecycle state of a rental contract.
type ContractStatus string

const (
	ContractActive     ContractStatus = "ACTIVE"
	ContractInactive   ContractStatus = "INACTIVE"
	ContractTerminated ContractStatus = "TERMINATED"
	ContractExpired    ContractStatus = "EXPIRED"
)

var contractStatuses = []ContractStatus{ContractActive, ContractInactive, ContractTerminated, ContractExpired}

func (s ContractStatus) Valid() bool { return slices.Contains(contractStatuses, s) }
func (ContractStatus) Variants() []string { return variants(contractStatuses) }
func (ContractStatus) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return enumColumnType(db, "contract_status", 20)
}

// Sender identifies who produced a LeadInsight message. Stored as varchar.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
	SenderSystem    Sender = "system"
)

var senders = []Sender{SenderUser, SenderAssistant, SenderSystem}

func (s Sender) Valid() bool { return slices.Contains(senders, s) }
func (Sender) Variants() []string { return variants(senders) }

func variants[T ~string](set []T) []string {
	out := make([]string, len(set))
	for i, v := range set {
		out[i] = string(v)
	}
	return out
}

// enumColumnType maps an enum to its named Postgres type, or to a bounded
// varchar on dialects without enum types.
func enumColumnType(db *gorm.DB, name string, width int) string {
	if db != nil && db.Dialector != nil && db.Dialector.Name() == "postgres" {
		return name
	}
	return fmt.Sprintf("varchar(%d)", width)
}
