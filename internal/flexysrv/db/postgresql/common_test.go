package postgresql

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"

	"github.com/hemanthpathath/flexy-db/internal/common/uuid"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/config"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dbmanager"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/flexcommon"
	"github.com/hemanthpathath/flexy-db/pkg/types"
)

func skipIfNoIntegration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}
}

// setupTestStore opens the test control database, migrating it if
// needed, and returns a store over it.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	config.TestInit()

	ctx := log.Logger.WithContext(context.Background())
	pool, err := dbmanager.OpenControl(ctx)
	require.Nil(t, err)
	t.Cleanup(func() { pool.Close() })

	return NewStore(pool)
}

// createTestTenant inserts a tenant with a unique slug and removes it
// when the test finishes.
func createTestTenant(t *testing.T, s *Store) *models.Tenant {
	t.Helper()

	id, err := flexcommon.GetUniqueId(flexcommon.ID_TYPE_TENANT)
	require.NoError(t, err)
	tenant := &models.Tenant{
		ID:     types.TenantId(id),
		Slug:   "it-" + strings.ToLower(id),
		Name:   "integration tenant",
		Status: types.TenantStatusActive,
	}
	require.Nil(t, s.CreateTenant(context.Background(), tenant))
	t.Cleanup(func() {
		s.DeleteTenant(context.Background(), tenant.ID)
	})
	return tenant
}

// createTestUser inserts a user with a unique email and removes it when
// the test finishes.
func createTestUser(t *testing.T, s *Store) *models.User {
	t.Helper()

	user := &models.User{
		ID:          uuid.NewString(),
		Email:       "it-" + uuid.NewString() + "@example.com",
		DisplayName: "Integration User",
	}
	require.Nil(t, s.CreateUser(context.Background(), user))
	t.Cleanup(func() {
		s.DeleteUser(context.Background(), user.ID)
	})
	return user
}
