package dbmanager

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
	"github.com/hemanthpathath/flexy-db/pkg/types"
)

// fakeStore is an in-memory control store covering the slice the
// manager consumes.
type fakeStore struct {
	mu         sync.Mutex
	tenants    map[types.TenantId]*models.Tenant
	databases  map[types.TenantId]*models.TenantDatabase
	migrations map[types.TenantId][]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tenants:    make(map[types.TenantId]*models.Tenant),
		databases:  make(map[types.TenantId]*models.TenantDatabase),
		migrations: make(map[types.TenantId][]int),
	}
}

func (s *fakeStore) addTenant(id types.TenantId, slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants[id] = &models.Tenant{
		ID:     id,
		Slug:   slug,
		Name:   slug,
		Status: types.TenantStatusActive,
	}
}

func (s *fakeStore) removeTenant(id types.TenantId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tenants, id)
}

func (s *fakeStore) GetTenant(ctx context.Context, tenantID types.TenantId) (*models.Tenant, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[tenantID]
	if !ok {
		return nil, dberror.ErrNotFound.Msg("tenant not found")
	}
	cp := *t
	return &cp, nil
}

func (s *fakeStore) GetTenantDatabase(ctx context.Context, tenantID types.TenantId) (*models.TenantDatabase, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	td, ok := s.databases[tenantID]
	if !ok {
		return nil, dberror.ErrNotFound.Msg("tenant database not found")
	}
	cp := *td
	return &cp, nil
}

func (s *fakeStore) CreateTenantDatabase(ctx context.Context, td *models.TenantDatabase) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.databases[td.TenantID]; ok {
		return dberror.ErrAlreadyExists.Msg("tenant database already recorded")
	}
	cp := *td
	cp.CreatedAt = time.Now()
	s.databases[td.TenantID] = &cp
	return nil
}

func (s *fakeStore) DeleteTenantDatabase(ctx context.Context, tenantID types.TenantId) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.databases[tenantID]; !ok {
		return dberror.ErrNotFound.Msg("tenant database not found")
	}
	delete(s.databases, tenantID)
	return nil
}

func (s *fakeStore) HighestTenantMigration(ctx context.Context, tenantID types.TenantId) (int, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	highest := 0
	for _, v := range s.migrations[tenantID] {
		if v > highest {
			highest = v
		}
	}
	return highest, nil
}

func (s *fakeStore) RecordTenantMigration(ctx context.Context, tenantID types.TenantId, version int) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.migrations[tenantID] {
		if v == version {
			return dberror.ErrAlreadyExists.Msg(fmt.Sprintf("migration %d already recorded", version))
		}
	}
	s.migrations[tenantID] = append(s.migrations[tenantID], version)
	return nil
}

func (s *fakeStore) DeleteTenantMigrations(ctx context.Context, tenantID types.TenantId) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.migrations, tenantID)
	return nil
}

func (s *fakeStore) recordedVersions(tenantID types.TenantId) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.migrations[tenantID]))
	copy(out, s.migrations[tenantID])
	return out
}

// fakeProvisioner counts database DDL without touching a server.
type fakeProvisioner struct {
	mu         sync.Mutex
	created    map[string]int
	dropped    map[string]int
	existing   map[string]bool
	failCreate apperrors.Error
}

func newFakeProvisioner() *fakeProvisioner {
	return &fakeProvisioner{
		created:  make(map[string]int),
		dropped:  make(map[string]int),
		existing: make(map[string]bool),
	}
}

func (p *fakeProvisioner) CreateDatabase(ctx context.Context, dbName string) apperrors.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created[dbName]++
	if p.failCreate != nil {
		err := p.failCreate
		p.failCreate = nil
		return err
	}
	p.existing[dbName] = true
	return nil
}

func (p *fakeProvisioner) DropDatabase(ctx context.Context, dbName string) apperrors.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropped[dbName]++
	delete(p.existing, dbName)
	return nil
}

func (p *fakeProvisioner) Close() error {
	return nil
}

func (p *fakeProvisioner) createCalls(dbName string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created[dbName]
}

func (p *fakeProvisioner) dropCalls(dbName string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped[dbName]
}

func (p *fakeProvisioner) exists(dbName string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.existing[dbName]
}

// countingMigrator records invocations and succeeds.
type countingMigrator struct {
	n atomic.Int64
}

func (m *countingMigrator) ApplyPending(ctx context.Context, tenantID types.TenantId, target *Pool) apperrors.Error {
	m.n.Add(1)
	return nil
}

func (m *countingMigrator) calls() int64 {
	return m.n.Load()
}

// scriptedMigrator walks versions 1..latest through the store the way
// the real runner does, failing once at failAt to model a migration
// that dies mid-list.
type scriptedMigrator struct {
	mu     sync.Mutex
	store  ControlStore
	latest int
	failAt int
	failed bool
	calls  int
}

func (m *scriptedMigrator) ApplyPending(ctx context.Context, tenantID types.TenantId, target *Pool) apperrors.Error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	current, err := m.store.HighestTenantMigration(ctx, tenantID)
	if err != nil {
		return err
	}
	for v := current + 1; v <= m.latest; v++ {
		if v == m.failAt && !m.failed {
			m.failed = true
			return dberror.ErrMigration.Msg(fmt.Sprintf("migration %d failed", v))
		}
		if err := m.store.RecordTenantMigration(ctx, tenantID, v); err != nil {
			return err
		}
	}
	return nil
}

// slowMigrator holds the critical section open.
type slowMigrator struct {
	d time.Duration
}

func (m *slowMigrator) ApplyPending(ctx context.Context, tenantID types.TenantId, target *Pool) apperrors.Error {
	time.Sleep(m.d)
	return nil
}

// lazyFactory opens pools that never dial; sql.Open is lazy and these
// tests never run a query through them.
func lazyFactory(t *testing.T) (PoolFactory, *atomic.Int64) {
	t.Helper()
	var n atomic.Int64
	factory := func(ctx context.Context, dbName string) (*Pool, error) {
		n.Add(1)
		pool, err := OpenPool(
			fmt.Sprintf("host=127.0.0.1 port=5432 user=flexy password=flexy dbname=%s sslmode=disable", dbName),
			dbName)
		if err != nil {
			return nil, err
		}
		return pool, nil
	}
	return factory, &n
}

func newTestManager(t *testing.T, opts Options) *Manager {
	t.Helper()
	if opts.DBPrefix == "" {
		opts.DBPrefix = "flexy_tenant_test_"
	}
	if opts.LockTimeout == 0 {
		opts.LockTimeout = 5 * time.Second
	}
	if opts.ProvisionTimeout == 0 {
		opts.ProvisionTimeout = 10 * time.Second
	}
	m, err := NewManager(opts)
	require.Nil(t, err)
	t.Cleanup(m.Close)
	return m
}
