package store_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/beesaferoot/casadf-schema/models"
	"github.com/beesaferoot/casadf-schema/store"
)

func TestRoundTrip_Property(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "Ana", "ana@example.com", models.RoleOwner)

	in := &models.Property{
		Title:           "Cobertura no Sudoeste",
		Description:     ptr("Vista livre, 3 suites"),
		PropertyType:    models.PropertyCobertura,
		TransactionType: models.ModeAmbos,
		SalePrice:       decimal.NewNullDecimal(decimal.RequireFromString("2450000.00")),
		RentPrice:       decimal.NewNullDecimal(decimal.RequireFromString("12500.50")),
		Address:         "SQSW 300 Bloco A",
		Neighborhood:    ptr("Sudoeste"),
		City:            "Brasilia",
		State:           "DF",
		ZipCode:         ptr("70673-000"),
		Latitude:        decimal.NewNullDecimal(decimal.RequireFromString("-15.7942")),
		Longitude:       decimal.NewNullDecimal(decimal.RequireFromString("-47.9292")),
		Bedrooms:        ptr(3),
		Bathrooms:       ptr(4),
		ParkingSpaces:   ptr(2),
		TotalArea:       decimal.NewNullDecimal(decimal.RequireFromString("310.25")),
		MainImage:       ptr("https://cdn.example.com/p/1.jpg"),
		Images:          datatypes.JSONSlice[string]{"https://cdn.example.com/p/1.jpg", "https://cdn.example.com/p/2.jpg"},
		Featured:        ptr(true),
		OwnerID:         &owner.ID,
		CreatedBy:       &owner.ID,
	}
	require.NoError(t, f.store.CreateProperty(f.ctx, in))

	got, err := f.store.GetProperty(f.ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Title, got.Title)
	assert.Equal(t, *in.Description, *got.Description)
	assert.Equal(t, models.PropertyCobertura, got.PropertyType)
	assert.Equal(t, models.ModeAmbos, got.TransactionType)
	assert.True(t, got.SalePrice.Valid && got.SalePrice.Decimal.Equal(in.SalePrice.Decimal), "sale price %s", got.SalePrice.Decimal)
	assert.True(t, got.RentPrice.Decimal.Equal(decimal.RequireFromString("12500.5")))
	assert.True(t, got.Latitude.Decimal.Equal(in.Latitude.Decimal))
	assert.True(t, got.Longitude.Decimal.Equal(in.Longitude.Decimal))
	assert.True(t, got.TotalArea.Decimal.Equal(in.TotalArea.Decimal))
	assert.False(t, got.BuiltArea.Valid)
	assert.Equal(t, 3, *got.Bedrooms)
	assert.Equal(t, []string(in.Images), []string(got.Images))
	assert.Equal(t, models.DefaultPropertyStatus, *got.Status)
	assert.True(t, *got.Featured)
	assert.True(t, *got.Published)
	assert.Equal(t, owner.ID, *got.OwnerID)
	assert.True(t, got.CreatedAt.Equal(epoch))
}

func TestRoundTrip_ContractAndLedger(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "Ana", "ana@example.com", models.RoleOwner)
	tenant := f.user(t, "Bruno", "bruno@example.com", models.RoleTenant)
	prop := f.property(t, &owner.ID)

	brt := time.FixedZone("BRT", -3*60*60)
	end := time.Date(2026, 2, 28, 0, 0, 0, 0, brt)
	c := &models.Contract{
		PropertyID:      prop.ID,
		TenantID:        tenant.ID,
		OwnerID:         owner.ID,
		RentAmount:      decimal.RequireFromString("3500.00"),
		AdminFeeAmount:  decimal.NewNullDecimal(decimal.RequireFromString("350.00")),
		SecurityDeposit: decimal.NewNullDecimal(decimal.RequireFromString("10500.00")),
		StartDate:       time.Date(2025, 3, 1, 0, 0, 0, 0, brt),
		EndDate:         &end,
		DocumentURL:     ptr("https://docs.example.com/c/1.pdf"),
	}
	require.NoError(t, f.store.CreateContract(f.ctx, c))

	got, err := f.store.GetContract(f.ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.RentAmount.Equal(decimal.NewFromInt(3500)))
	assert.True(t, got.AdminFeeRate.Decimal.Equal(models.DefaultAdminFeeRate))
	assert.True(t, got.AdminFeeAmount.Decimal.Equal(decimal.NewFromInt(350)))
	assert.True(t, got.StartDate.Equal(c.StartDate))
	require.NotNil(t, got.EndDate)
	assert.True(t, got.EndDate.Equal(end))
	assert.Equal(t, models.DefaultPaymentDay, *got.PaymentDay)
	assert.Equal(t, models.ContractActive, got.Status)

	paid := time.Date(2025, 3, 4, 14, 0, 0, 0, time.UTC)
	entry := &models.FinancialTransaction{
		ContractID:      &c.ID,
		PropertyID:      &prop.ID,
		Type:            models.FinanceRevenue,
		Category:        "aluguel",
		Amount:          decimal.RequireFromString("3500.00"),
		Description:     ptr("Aluguel marco/2025"),
		Status:          models.TransactionPaid,
		DueDate:         time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		PaymentDate:     &paid,
		ReferenceNumber: ptr("PIX-0001"),
	}
	require.NoError(t, f.store.CreateFinancialTransaction(f.ctx, entry))

	gotTx, err := f.store.GetFinancialTransaction(f.ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCurrency, *gotTx.Currency)
	assert.True(t, gotTx.Amount.Equal(entry.Amount))
	assert.Equal(t, models.TransactionPaid, gotTx.Status)
	assert.True(t, gotTx.PaymentDate.Equal(paid))
	assert.Equal(t, "PIX-0001", *gotTx.ReferenceNumber)
}

func TestRoundTrip_LeadWithInsights(t *testing.T) {
	f := newFixture(t, store.WithSessionIDs(func() string { return "sess-fixed" }))
	prop := f.property(t, nil)

	contacted := epoch.Add(-48 * time.Hour)
	lead := &models.Lead{
		Name:                 "Carla",
		Email:                ptr("carla@example.com"),
		Whatsapp:             ptr("+5561999990000"),
		Source:               ptr("whatsapp"),
		Score:                ptr(72),
		BudgetMin:            decimal.NewNullDecimal(decimal.NewFromInt(2000)),
		BudgetMax:            decimal.NewNullDecimal(decimal.NewFromInt(4000)),
		InterestedPropertyID: &prop.ID,
		Tags:                 datatypes.JSONSlice[string]{"asa-norte", "pet"},
		LastContactedAt:      &contacted,
	}
	require.NoError(t, f.store.CreateLead(f.ctx, lead))

	got, err := f.store.GetLead(f.ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeadNovo, got.Status)
	assert.Equal(t, 72, *got.Score)
	assert.Equal(t, models.DefaultLeadPriority, *got.Priority)
	assert.True(t, got.BudgetMax.Decimal.Equal(decimal.NewFromInt(4000)))
	assert.Equal(t, []string{"asa-norte", "pet"}, []string(got.Tags))
	assert.True(t, got.LastContactedAt.Equal(contacted))

	in := &models.LeadInsight{
		LeadID:            lead.ID,
		Content:           ptr("Procuro 2 quartos perto do metro"),
		Sender:            ptr(models.SenderUser),
		SentimentScore:    ptr(80),
		AISummary:         ptr("Interesse alto em locacao"),
		RecommendedAction: ptr("Agendar visita"),
		Metadata:          datatypes.JSON(`{"channel":"whatsapp","tokens":[1,2]}`),
	}
	require.NoError(t, f.store.AppendLeadInsight(f.ctx, in))
	require.NotNil(t, in.SessionID)
	assert.Equal(t, "sess-fixed", *in.SessionID)

	gotIn, err := f.store.GetLeadInsight(f.ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SenderUser, *gotIn.Sender)
	assert.Equal(t, 80, *gotIn.SentimentScore)
	assert.JSONEq(t, `{"tokens":[1,2],"channel":"whatsapp"}`, string(gotIn.Metadata))
	assert.True(t, gotIn.CreatedAt.Equal(epoch))
}

func TestRoundTrip_WebhookLog(t *testing.T) {
	f := newFixture(t)
	payload, err := json.Marshal(map[string]any{"event": "message", "from": "+5561999990000"})
	require.NoError(t, err)

	w := &models.WebhookLog{
		Source:       " whatsapp ",
		Event:        "message.received",
		Payload:      datatypes.JSON(payload),
		Response:     datatypes.JSON(`{"ok":false}`),
		Status:       "failed",
		ErrorMessage: ptr("upstream timeout"),
	}
	require.NoError(t, f.store.AppendWebhookLog(f.ctx, w))

	got, err := f.store.GetWebhookLog(f.ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "whatsapp", got.Source)
	assert.JSONEq(t, string(payload), string(got.Payload))
	assert.JSONEq(t, `{"ok":false}`, string(got.Response))
	assert.Equal(t, "upstream timeout", *got.ErrorMessage)
}

func TestAppendOnlyRowsRejectUpdates(t *testing.T) {
	f := newFixture(t)
	lead := f.lead(t, "Carla")
	in := &models.LeadInsight{LeadID: lead.ID, Content: ptr("oi")}
	require.NoError(t, f.store.AppendLeadInsight(f.ctx, in))

	err := f.store.DB().Model(in).Update("content", "editado").Error
	assert.ErrorIs(t, err, models.ErrImmutable)

	w := &models.WebhookLog{Source: "stripe", Event: "charge", Status: "ok"}
	require.NoError(t, f.store.AppendWebhookLog(f.ctx, w))
	err = f.store.DB().Model(w).Update("status", "retried").Error
	assert.ErrorIs(t, err, models.ErrImmutable)

	got, err := f.store.GetLeadInsight(f.ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, "oi", *got.Content)
}

func TestInsightSessions(t *testing.T) {
	n := 0
	f := newFixture(t, store.WithSessionIDs(func() string {
		n++
		return fmt.Sprintf("s-%d", n)
	}))
	lead := f.lead(t, "Carla")

	session, err := f.store.StartInsightSession(f.ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "s-1", session)

	for _, msg := range []string{"oi", "tudo bem?"} {
		require.NoError(t, f.store.AppendLeadInsight(f.ctx, &models.LeadInsight{LeadID: lead.ID, SessionID: &session, Content: ptr(msg)}))
	}
	require.NoError(t, f.store.AppendLeadInsight(f.ctx, &models.LeadInsight{LeadID: lead.ID, Content: ptr("nova conversa")}))

	res, err := f.store.ListLeadInsights(f.ctx, store.InsightFilter{SessionID: session}, store.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.TotalItems)

	res, err = f.store.ListLeadInsights(f.ctx, store.InsightFilter{SessionID: "s-2"}, store.Page{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "nova conversa", *res.Items[0].Content)

	blank := &models.LeadInsight{LeadID: lead.ID, SessionID: ptr("   "), Content: ptr("sem sessao")}
	require.NoError(t, f.store.AppendLeadInsight(f.ctx, blank))
	require.NotNil(t, blank.SessionID)
	assert.Equal(t, "s-3", *blank.SessionID)
	got, err := f.store.GetLeadInsight(f.ctx, blank.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SessionID)
	assert.Equal(t, "s-3", *got.SessionID)

	_, err = f.store.StartInsightSession(f.ctx, 999)
	requireNotFound(t, err)
}

func TestList_Pagination(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 25; i++ {
		f.lead(t, fmt.Sprintf("Lead %02d", i))
	}

	res, err := f.store.ListLeads(f.ctx, store.LeadFilter{}, store.Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, store.DefaultPageSize, res.PageSize)
	assert.Len(t, res.Items, store.DefaultPageSize)
	assert.EqualValues(t, 25, res.TotalItems)
	assert.Equal(t, 2, res.TotalPages())
	assert.Equal(t, "Lead 00", res.Items[0].Name)

	res, err = f.store.ListLeads(f.ctx, store.LeadFilter{}, store.Page{Page: 2, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, res.Items, 5)
	assert.Equal(t, "Lead 20", res.Items[0].Name)

	res, err = f.store.ListLeads(f.ctx, store.LeadFilter{}, store.Page{Page: -3, PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, store.MaxPageSize, res.PageSize)
	assert.Len(t, res.Items, 25)

	res, err = f.store.ListLeads(f.ctx, store.LeadFilter{}, store.Page{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
}

func TestList_Filters(t *testing.T) {
	f := newFixture(t)
	ana := f.user(t, "Ana", "ana@example.com", models.RoleOwner)
	bia := f.user(t, "Bia", "bia@example.com", models.RoleOwner)
	f.user(t, "Caio", "caio@example.com", models.RoleTenant)

	users, err := f.store.ListUsers(f.ctx, store.UserFilter{Role: models.RoleOwner}, store.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, users.TotalItems)

	f.property(t, &ana.ID)
	f.property(t, &ana.ID)
	f.property(t, &bia.ID)
	props, err := f.store.ListProperties(f.ctx, store.PropertyFilter{OwnerID: &ana.ID, City: "Brasilia"}, store.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, props.TotalItems)
	props, err = f.store.ListProperties(f.ctx, store.PropertyFilter{PropertyType: models.PropertyTerreno}, store.Page{})
	require.NoError(t, err)
	assert.Zero(t, props.TotalItems)

	require.NoError(t, f.store.CreateLead(f.ctx, &models.Lead{Name: "L1", Source: ptr("site"), AssignedTo: &ana.ID}))
	require.NoError(t, f.store.CreateLead(f.ctx, &models.Lead{Name: "L2", Source: ptr("site"), Status: models.LeadQualificado}))
	require.NoError(t, f.store.CreateLead(f.ctx, &models.Lead{Name: "L3", Source: ptr("whatsapp")}))
	leads, err := f.store.ListLeads(f.ctx, store.LeadFilter{Source: "site"}, store.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, leads.TotalItems)
	leads, err = f.store.ListLeads(f.ctx, store.LeadFilter{Status: models.LeadQualificado}, store.Page{})
	require.NoError(t, err)
	require.Len(t, leads.Items, 1)
	assert.Equal(t, "L2", leads.Items[0].Name)
	leads, err = f.store.ListLeads(f.ctx, store.LeadFilter{AssignedTo: &ana.ID}, store.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, leads.TotalItems)

	require.NoError(t, f.store.CreateBlogPost(f.ctx, &models.BlogPost{Title: "A", Slug: "a", Content: "...", Published: ptr(true), Status: ptr("published")}))
	require.NoError(t, f.store.CreateBlogPost(f.ctx, &models.BlogPost{Title: "B", Slug: "b", Content: "..."}))
	posts, err := f.store.ListBlogPosts(f.ctx, store.BlogPostFilter{Published: ptr(true)}, store.Page{})
	require.NoError(t, err)
	require.Len(t, posts.Items, 1)
	assert.Equal(t, "a", posts.Items[0].Slug)
	posts, err = f.store.ListBlogPosts(f.ctx, store.BlogPostFilter{Status: models.DefaultBlogStatus}, store.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, posts.TotalItems)

	for _, w := range []*models.WebhookLog{
		{Source: "whatsapp", Event: "message", Status: "ok"},
		{Source: "whatsapp", Event: "status", Status: "failed"},
		{Source: "stripe", Event: "charge", Status: "ok"},
	} {
		require.NoError(t, f.store.AppendWebhookLog(f.ctx, w))
	}
	logs, err := f.store.ListWebhookLogs(f.ctx, store.WebhookLogFilter{Source: "whatsapp", Status: "ok"}, store.Page{})
	require.NoError(t, err)
	require.Len(t, logs.Items, 1)
	assert.Equal(t, "message", logs.Items[0].Event)
}

func TestList_FinancialTransactionsByDueWindow(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "Ana", "ana@example.com", models.RoleOwner)
	tenant := f.user(t, "Bruno", "bruno@example.com", models.RoleTenant)
	prop := f.property(t, &owner.ID)
	c := f.contract(t, prop.ID, tenant.ID, owner.ID)

	for month := time.January; month <= time.June; month++ {
		entry := &models.FinancialTransaction{
			ContractID: &c.ID,
			PropertyID: &prop.ID,
			Type:       models.FinanceRevenue,
			Category:   "aluguel",
			Amount:     decimal.RequireFromString("3500.00"),
			DueDate:    time.Date(2025, month, 5, 0, 0, 0, 0, time.UTC),
		}
		if month < time.March {
			entry.Status = models.TransactionPaid
		}
		require.NoError(t, f.store.CreateFinancialTransaction(f.ctx, entry))
	}
	require.NoError(t, f.store.CreateFinancialTransaction(f.ctx, &models.FinancialTransaction{
		PropertyID: &prop.ID, Type: models.FinanceExpense, Category: "iptu",
		Amount: decimal.RequireFromString("420.00"), DueDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}))

	from := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	before := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	res, err := f.store.ListFinancialTransactions(f.ctx, store.FinancialTransactionFilter{DueFrom: &from, DueBefore: &before}, store.Page{})
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.True(t, res.Items[0].DueDate.Equal(from), "lower bound is inclusive")
	for _, item := range res.Items {
		assert.True(t, item.DueDate.Before(before), "upper bound is exclusive")
	}

	res, err = f.store.ListFinancialTransactions(f.ctx, store.FinancialTransactionFilter{ContractID: &c.ID, Status: models.TransactionPending}, store.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, res.TotalItems)

	res, err = f.store.ListFinancialTransactions(f.ctx, store.FinancialTransactionFilter{PropertyID: &prop.ID, Type: models.FinanceExpense}, store.Page{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "iptu", res.Items[0].Category)

	contracts, err := f.store.ListContracts(f.ctx, store.ContractFilter{TenantID: &tenant.ID, Status: models.ContractActive}, store.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, contracts.TotalItems)
}
