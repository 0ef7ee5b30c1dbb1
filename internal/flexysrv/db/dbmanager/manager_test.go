package dbmanager

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/pkg/types"
)

const (
	tenantAcme  = types.TenantId("TA1B2C3")
	tenantOther = types.TenantId("TX9Y8Z7")
)

func TestNewManagerRequiresDependencies(t *testing.T) {
	_, err := NewManager(Options{Provisioner: newFakeProvisioner()})
	require.NotNil(t, err)

	_, err = NewManager(Options{Store: newFakeStore()})
	require.NotNil(t, err)
}

func TestDatabaseName(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(t, Options{
		Store:       store,
		Provisioner: newFakeProvisioner(),
		Migrator:    &countingMigrator{},
	})

	assert.Equal(t, "flexy_tenant_test_ta1b2c3", m.DatabaseName(tenantAcme))
}

func TestGetTenantDBUnknownTenant(t *testing.T) {
	factory, _ := lazyFactory(t)
	m := newTestManager(t, Options{
		Store:       newFakeStore(),
		Provisioner: newFakeProvisioner(),
		Migrator:    &countingMigrator{},
		PoolFactory: factory,
	})

	_, err := m.GetTenantDB(context.Background(), tenantAcme)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, dberror.ErrNotFound)

	_, err = m.GetTenantDB(context.Background(), "")
	require.NotNil(t, err)
	assert.ErrorIs(t, err, dberror.ErrValidation)
}

func TestGetTenantDBProvisionsOnFirstAccess(t *testing.T) {
	store := newFakeStore()
	store.addTenant(tenantAcme, "acme")
	prov := newFakeProvisioner()
	mig := &countingMigrator{}
	factory, factoryCalls := lazyFactory(t)
	m := newTestManager(t, Options{
		Store:       store,
		Provisioner: prov,
		Migrator:    mig,
		PoolFactory: factory,
	})

	pool, err := m.GetTenantDB(context.Background(), tenantAcme)
	require.Nil(t, err)
	require.NotNil(t, pool)

	dbName := m.DatabaseName(tenantAcme)
	assert.Equal(t, dbName, pool.Name())
	assert.Equal(t, 1, prov.createCalls(dbName))
	assert.True(t, prov.exists(dbName))
	assert.Equal(t, int64(1), mig.calls())
	assert.Equal(t, int64(1), factoryCalls.Load())
	assert.True(t, m.HasPool(tenantAcme))

	rec, serr := store.GetTenantDatabase(context.Background(), tenantAcme)
	require.Nil(t, serr)
	assert.Equal(t, dbName, rec.DBName)

	// A second call is a pure cache hit.
	again, err := m.GetTenantDB(context.Background(), tenantAcme)
	require.Nil(t, err)
	assert.Same(t, pool, again)
	assert.Equal(t, 1, prov.createCalls(dbName))
	assert.Equal(t, int64(1), mig.calls())
	assert.Equal(t, int64(1), factoryCalls.Load())
}

func TestGetTenantDBConcurrentFirstAccess(t *testing.T) {
	store := newFakeStore()
	store.addTenant(tenantAcme, "acme")
	prov := newFakeProvisioner()
	mig := &countingMigrator{}
	factory, factoryCalls := lazyFactory(t)
	m := newTestManager(t, Options{
		Store:       store,
		Provisioner: prov,
		Migrator:    mig,
		PoolFactory: factory,
	})

	const n = 25
	pools := make([]*Pool, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			pool, err := m.GetTenantDB(context.Background(), tenantAcme)
			if err != nil {
				return err
			}
			pools[i] = pool
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i := 1; i < n; i++ {
		assert.Same(t, pools[0], pools[i])
	}
	assert.Equal(t, 1, prov.createCalls(m.DatabaseName(tenantAcme)))
	assert.Equal(t, int64(1), mig.calls())
	assert.Equal(t, int64(1), factoryCalls.Load())
}

func TestGetTenantDBTenantsAreIsolated(t *testing.T) {
	store := newFakeStore()
	store.addTenant(tenantAcme, "acme")
	store.addTenant(tenantOther, "other")
	prov := newFakeProvisioner()
	factory, _ := lazyFactory(t)
	m := newTestManager(t, Options{
		Store:       store,
		Provisioner: prov,
		Migrator:    &countingMigrator{},
		PoolFactory: factory,
	})

	var g errgroup.Group
	var poolA, poolB *Pool
	g.Go(func() error {
		p, err := m.GetTenantDB(context.Background(), tenantAcme)
		if err != nil {
			return err
		}
		poolA = p
		return nil
	})
	g.Go(func() error {
		p, err := m.GetTenantDB(context.Background(), tenantOther)
		if err != nil {
			return err
		}
		poolB = p
		return nil
	})
	require.NoError(t, g.Wait())

	assert.NotSame(t, poolA, poolB)
	assert.NotEqual(t, poolA.Name(), poolB.Name())
	assert.Equal(t, 1, prov.createCalls(m.DatabaseName(tenantAcme)))
	assert.Equal(t, 1, prov.createCalls(m.DatabaseName(tenantOther)))

	// Tearing down one tenant leaves the other untouched.
	require.Nil(t, m.DeleteTenantDatabase(context.Background(), tenantAcme))
	assert.False(t, m.HasPool(tenantAcme))
	assert.True(t, m.HasPool(tenantOther))
	assert.True(t, prov.exists(m.DatabaseName(tenantOther)))
}

func TestGetTenantDBMigrationFailureIsRetryable(t *testing.T) {
	store := newFakeStore()
	store.addTenant(tenantAcme, "acme")
	prov := newFakeProvisioner()
	mig := &scriptedMigrator{store: store, latest: 5, failAt: 1}
	factory, factoryCalls := lazyFactory(t)
	m := newTestManager(t, Options{
		Store:       store,
		Provisioner: prov,
		Migrator:    mig,
		PoolFactory: factory,
	})

	_, err := m.GetTenantDB(context.Background(), tenantAcme)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, dberror.ErrMigration)
	assert.False(t, m.HasPool(tenantAcme), "failed provisioning must not cache a pool")

	// The physical database and its record survive the failed attempt,
	// so the retry skips creation and just finishes migrating.
	pool, err := m.GetTenantDB(context.Background(), tenantAcme)
	require.Nil(t, err)
	require.NotNil(t, pool)
	assert.Equal(t, 1, prov.createCalls(m.DatabaseName(tenantAcme)))
	assert.Equal(t, int64(2), factoryCalls.Load())
	assert.True(t, m.HasPool(tenantAcme))
}

func TestGetTenantDBResumesInterruptedMigrations(t *testing.T) {
	store := newFakeStore()
	store.addTenant(tenantAcme, "acme")
	mig := &scriptedMigrator{store: store, latest: 5, failAt: 3}
	factory, _ := lazyFactory(t)
	m := newTestManager(t, Options{
		Store:       store,
		Provisioner: newFakeProvisioner(),
		Migrator:    mig,
		PoolFactory: factory,
	})

	_, err := m.GetTenantDB(context.Background(), tenantAcme)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, dberror.ErrMigration)

	highest, herr := store.HighestTenantMigration(context.Background(), tenantAcme)
	require.Nil(t, herr)
	assert.Equal(t, 2, highest, "committed steps before the failure are retained")

	pool, err := m.GetTenantDB(context.Background(), tenantAcme)
	require.Nil(t, err)
	require.NotNil(t, pool)

	versions := store.recordedVersions(tenantAcme)
	sort.Ints(versions)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, versions, "every step applied exactly once")
}

func TestEnsureTenantDatabaseIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.addTenant(tenantAcme, "acme")
	prov := newFakeProvisioner()
	m := newTestManager(t, Options{
		Store:       store,
		Provisioner: prov,
		Migrator:    &countingMigrator{},
	})

	name1, err := m.EnsureTenantDatabase(context.Background(), tenantAcme)
	require.Nil(t, err)
	name2, err := m.EnsureTenantDatabase(context.Background(), tenantAcme)
	require.Nil(t, err)

	assert.Equal(t, name1, name2)
	assert.Equal(t, 1, prov.createCalls(name1))
}

func TestEnsureTenantDatabaseLeavesStoreUntouchedOnFailure(t *testing.T) {
	store := newFakeStore()
	store.addTenant(tenantAcme, "acme")
	prov := newFakeProvisioner()
	prov.failCreate = dberror.ErrProvisioning.Msg("out of disk")
	m := newTestManager(t, Options{
		Store:       store,
		Provisioner: prov,
		Migrator:    &countingMigrator{},
	})

	_, err := m.EnsureTenantDatabase(context.Background(), tenantAcme)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, dberror.ErrProvisioning)

	_, serr := store.GetTenantDatabase(context.Background(), tenantAcme)
	assert.ErrorIs(t, serr, dberror.ErrNotFound, "no record for a database that was never created")

	// The provisioner heals and a bare retry converges.
	name, err := m.EnsureTenantDatabase(context.Background(), tenantAcme)
	require.Nil(t, err)
	rec, serr := store.GetTenantDatabase(context.Background(), tenantAcme)
	require.Nil(t, serr)
	assert.Equal(t, name, rec.DBName)
}

func TestDeleteTenantDatabase(t *testing.T) {
	store := newFakeStore()
	store.addTenant(tenantAcme, "acme")
	prov := newFakeProvisioner()
	mig := &scriptedMigrator{store: store, latest: 5}
	factory, _ := lazyFactory(t)
	m := newTestManager(t, Options{
		Store:       store,
		Provisioner: prov,
		Migrator:    mig,
		PoolFactory: factory,
	})

	_, err := m.GetTenantDB(context.Background(), tenantAcme)
	require.Nil(t, err)

	dbName := m.DatabaseName(tenantAcme)
	require.Nil(t, m.DeleteTenantDatabase(context.Background(), tenantAcme))

	assert.False(t, m.HasPool(tenantAcme))
	assert.False(t, prov.exists(dbName))
	assert.Equal(t, 1, prov.dropCalls(dbName))

	_, serr := store.GetTenantDatabase(context.Background(), tenantAcme)
	assert.ErrorIs(t, serr, dberror.ErrNotFound)
	highest, herr := store.HighestTenantMigration(context.Background(), tenantAcme)
	require.Nil(t, herr)
	assert.Equal(t, 0, highest)

	// Deleting again converges instead of erroring.
	require.Nil(t, m.DeleteTenantDatabase(context.Background(), tenantAcme))

	// Once the tenant itself is gone, access reports it missing.
	store.removeTenant(tenantAcme)
	_, err = m.GetTenantDB(context.Background(), tenantAcme)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, dberror.ErrNotFound)
}

func TestDeleteTenantDatabaseThenReaccessReprovisions(t *testing.T) {
	store := newFakeStore()
	store.addTenant(tenantAcme, "acme")
	prov := newFakeProvisioner()
	mig := &scriptedMigrator{store: store, latest: 5}
	factory, _ := lazyFactory(t)
	m := newTestManager(t, Options{
		Store:       store,
		Provisioner: prov,
		Migrator:    mig,
		PoolFactory: factory,
	})

	_, err := m.GetTenantDB(context.Background(), tenantAcme)
	require.Nil(t, err)
	require.Nil(t, m.DeleteTenantDatabase(context.Background(), tenantAcme))

	// The tenant still exists, so the next access starts the lifecycle
	// over from scratch.
	pool, err := m.GetTenantDB(context.Background(), tenantAcme)
	require.Nil(t, err)
	require.NotNil(t, pool)
	assert.Equal(t, 2, prov.createCalls(m.DatabaseName(tenantAcme)))

	versions := store.recordedVersions(tenantAcme)
	sort.Ints(versions)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, versions)
}

func TestGetTenantDBLockTimeout(t *testing.T) {
	store := newFakeStore()
	store.addTenant(tenantAcme, "acme")
	factory, _ := lazyFactory(t)
	m := newTestManager(t, Options{
		Store:       store,
		Provisioner: newFakeProvisioner(),
		Migrator:    &slowMigrator{d: 1 * time.Second},
		PoolFactory: factory,
		LockTimeout: 100 * time.Millisecond,
	})

	done := make(chan error, 1)
	go func() {
		_, err := m.GetTenantDB(context.Background(), tenantAcme)
		if err != nil {
			done <- err
			return
		}
		done <- nil
	}()

	// Give the first caller time to enter the critical section, then
	// contend on the same tenant.
	time.Sleep(200 * time.Millisecond)
	_, err := m.GetTenantDB(context.Background(), tenantAcme)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, dberror.ErrLockTimeout)

	require.NoError(t, <-done, "the lock holder itself must succeed")
	assert.True(t, m.HasPool(tenantAcme))
}
