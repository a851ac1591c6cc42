package integrity

// Table names of the CasaDF schema.
const (
	TableUsers                 = "users"
	TableProperties            = "properties"
	TableLeads                 = "leads"
	TableLeadInsights          = "lead_insights"
	TableContracts             = "contracts"
	TableFinancialTransactions = "financial_transactions"
	TableBlogPosts             = "blog_posts"
	TableWebhookLogs           = "webhook_logs"
)

// Action is the referential action taken on dependent rows when their parent is deleted.
type Action string

const (
	Cascade  Action = "CASCADE"
	Restrict Action = "RESTRICT"
	SetNull  Action = "SET NULL"
)

// Relation is a single child → parent foreign key together with its delete policy.
type Relation struct {
	Name     string // constraint name
	Child    string // child table
	Column   string // foreign key column on the child table
	Field    string // foreign key name as exposed to callers
	Parent   string // referenced table (always by id)
	OnDelete Action
}

// Relations is the referential-action table of the domain graph.
var Relations = []Relation{
	{Name: "properties_owner_id_fk", Child: TableProperties, Column: "owner_id", Field: "ownerId", Parent: TableUsers, OnDelete: SetNull},
	{Name: "properties_created_by_fk", Child: TableProperties, Column: "created_by", Field: "createdBy", Parent: TableUsers, OnDelete: SetNull},
	{Name: "leads_interested_property_id_fk", Child: TableLeads, Column: "interested_property_id", Field: "interestedPropertyId", Parent: TableProperties, OnDelete: SetNull},
	{Name: "leads_assigned_to_fk", Child: TableLeads, Column: "assigned_to", Field: "assignedTo", Parent: TableUsers, OnDelete: SetNull},
	{Name: "lead_insights_lead_id_fk", Child: TableLeadInsights, Column: "lead_id", Field: "leadId", Parent: TableLeads, OnDelete: Cascade},
	{Name: "contracts_property_id_fk", Child: TableContracts, Column: "property_id", Field: "propertyId", Parent: TableProperties, OnDelete: Cascade},
	{Name: "contracts_tenant_id_fk", Child: TableContracts, Column: "tenant_id", Field: "tenantId", Parent: TableUsers, OnDelete: Restrict},
	{Name: "contracts_owner_id_fk", Child: TableContracts, Column: "owner_id", Field: "ownerId", Parent: TableUsers, OnDelete: Restrict},
	{Name: "financial_transactions_contract_id_fk", Child: TableFinancialTransactions, Column: "contract_id", Field: "contractId", Parent: TableContracts, OnDelete: SetNull},
	{Name: "financial_transactions_property_id_fk", Child: TableFinancialTransactions, Column: "property_id", Field: "propertyId", Parent: TableProperties, OnDelete: SetNull},
}

// timestamped lists the tables carrying an updated_at column.
var timestamped = map[string]bool{
	TableUsers:                 true,
	TableProperties:            true,
	TableLeads:                 true,
	TableContracts:             true,
	TableFinancialTransactions: true,
	TableBlogPosts:             true,
}

// HasUpdatedAt reports whether rows of table carry a last-updated timestamp.
func HasUpdatedAt(table string) bool {
	return timestamped[table]
}

// DependentsOf returns the relations in rules whose parent is table, in declaration order.
func DependentsOf(rules []Relation, table string) []Relation {
	var out []Relation
	for _, rel := range rules {
		if rel.Parent == table {
			out = append(out, rel)
		}
	}
	return out
}

// ParentsOf returns the relations in rules whose child is table.
func ParentsOf(rules []Relation, table string) []Relation {
	var out []Relation
	for _, rel := range rules {
		if rel.Child == table {
			out = append(out, rel)
		}
	}
	return out
}

// Lookup finds the relation declared for child.column.
func Lookup(rules []Relation, child, column string) (Relation, bool) {
	for _, rel := range rules {
		if rel.Child == child && rel.Column == column {
			return rel, true
		}
	}
	return Relation{}, false
}
