package store_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/beesaferoot/casadf-schema/internal/metrics"
	"github.com/beesaferoot/casadf-schema/models"
	"github.com/beesaferoot/casadf-schema/store"
)

func TestUpdateLead_LeavingTerminalStatusIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	f := newFixture(t, store.WithLogger(zap.New(core)))

	lead := f.lead(t, "Carla")
	lead.Status = models.LeadQualificado
	require.NoError(t, f.store.UpdateLead(f.ctx, lead))
	lead.Status = models.LeadFechadoPerdido
	require.NoError(t, f.store.UpdateLead(f.ctx, lead))
	assert.Zero(t, logs.Len(), "moving into a terminal status is silent")

	lead.Status = models.LeadNegociacao
	require.NoError(t, f.store.UpdateLead(f.ctx, lead))

	entries := logs.FilterMessage("lead left terminal status").AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, lead.ID, fields["lead_id"])
	assert.Equal(t, "fechado_perdido", fields["from"])
	assert.Equal(t, "negociacao", fields["to"])

	got, err := f.store.GetLead(f.ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeadNegociacao, got.Status)
}

func TestRestrictedDeleteIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	f := newFixture(t, store.WithLogger(zap.New(core)))
	owner := f.user(t, "Ana", "ana@example.com", models.RoleOwner)
	tenant := f.user(t, "Bruno", "bruno@example.com", models.RoleTenant)
	f.contract(t, f.property(t, nil).ID, tenant.ID, owner.ID)

	require.Error(t, f.store.DeleteUser(f.ctx, tenant.ID))

	entries := logs.FilterMessage("delete blocked by restrict relation").AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, "integrity", entries[0].LoggerName)
	assert.Equal(t, "contracts_tenant_id_fk", entries[0].ContextMap()["relation"])
}

func TestMetricsObserver(t *testing.T) {
	m := metrics.New("casadf_test", prometheus.NewRegistry())
	f := newFixture(t, store.WithObserver(m))

	owner := f.user(t, "Ana", "ana@example.com", models.RoleOwner)
	tenant := f.user(t, "Bruno", "bruno@example.com", models.RoleTenant)
	prop := f.property(t, &owner.ID)
	f.property(t, &owner.ID)
	c := f.contract(t, prop.ID, tenant.ID, owner.ID)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("users", "create", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("properties", "create", "ok")))

	err := f.store.CreateUser(f.ctx, &models.User{Name: "Ana 2", Email: "ana@example.com"})
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("users", "create", "duplicate")))

	require.Error(t, f.store.DeleteUser(f.ctx, owner.ID))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("users", "delete", "restricted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IntegrityBlocked.WithLabelValues("contracts_owner_id_fk")))

	_, err = f.store.GetLead(f.ctx, 12)
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("leads", "get", "not_found")))

	require.NoError(t, f.store.DeleteContract(f.ctx, c.ID))
	require.NoError(t, f.store.DeleteUser(f.ctx, owner.ID))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.IntegrityActions.WithLabelValues("properties_owner_id_fk", "SET NULL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("users", "delete", "ok")))
}
