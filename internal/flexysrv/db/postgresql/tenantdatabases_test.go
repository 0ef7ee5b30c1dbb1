package postgresql

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemanthpathath/flexy-db/internal/flexysrv/config"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
)

func TestTenantDatabaseRecordLifecycle(t *testing.T) {
	skipIfNoIntegration(t)
	s := setupTestStore(t)
	ctx := context.Background()

	tenant := createTestTenant(t, s)
	dbName := config.Config().Tenant.DBPrefix + strings.ToLower(tenant.ID.String())

	_, err := s.GetTenantDatabase(ctx, tenant.ID)
	assert.ErrorIs(t, err, dberror.ErrNotFound)

	td := &models.TenantDatabase{TenantID: tenant.ID, DBName: dbName}
	require.Nil(t, s.CreateTenantDatabase(ctx, td))
	assert.False(t, td.CreatedAt.IsZero())

	// Recording it twice reports the conflict instead of clobbering.
	dup := &models.TenantDatabase{TenantID: tenant.ID, DBName: dbName}
	err = s.CreateTenantDatabase(ctx, dup)
	assert.ErrorIs(t, err, dberror.ErrAlreadyExists)

	got, err := s.GetTenantDatabase(ctx, tenant.ID)
	require.Nil(t, err)
	assert.Equal(t, dbName, got.DBName)

	require.Nil(t, s.DeleteTenantDatabase(ctx, tenant.ID))
	_, err = s.GetTenantDatabase(ctx, tenant.ID)
	assert.ErrorIs(t, err, dberror.ErrNotFound)
	err = s.DeleteTenantDatabase(ctx, tenant.ID)
	assert.ErrorIs(t, err, dberror.ErrNotFound)
}

func TestTenantMigrationRecords(t *testing.T) {
	skipIfNoIntegration(t)
	s := setupTestStore(t)
	ctx := context.Background()

	tenant := createTestTenant(t, s)
	t.Cleanup(func() {
		s.DeleteTenantMigrations(context.Background(), tenant.ID)
	})

	highest, err := s.HighestTenantMigration(ctx, tenant.ID)
	require.Nil(t, err)
	assert.Equal(t, 0, highest)

	for v := 1; v <= 3; v++ {
		require.Nil(t, s.RecordTenantMigration(ctx, tenant.ID, v))
	}

	// Re-recording a version is absorbed, not duplicated.
	require.Nil(t, s.RecordTenantMigration(ctx, tenant.ID, 2))

	highest, err = s.HighestTenantMigration(ctx, tenant.ID)
	require.Nil(t, err)
	assert.Equal(t, 3, highest)

	applied, err := s.ListTenantMigrations(ctx, tenant.ID)
	require.Nil(t, err)
	require.Len(t, applied, 3)
	for i, m := range applied {
		assert.Equal(t, i+1, m.Version)
		assert.False(t, m.AppliedAt.IsZero())
	}

	require.Nil(t, s.DeleteTenantMigrations(ctx, tenant.ID))
	highest, err = s.HighestTenantMigration(ctx, tenant.ID)
	require.Nil(t, err)
	assert.Equal(t, 0, highest)
}
