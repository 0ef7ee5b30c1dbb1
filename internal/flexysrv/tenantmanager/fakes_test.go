package tenantmanager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
	"github.com/hemanthpathath/flexy-db/pkg/types"
)

// fakeControlStore is an in-memory control database with the same error
// contract as the real store. Memberships cascade from tenants and
// users the way the schema's foreign keys do.
type fakeControlStore struct {
	mu sync.Mutex

	tenants     map[types.TenantId]models.Tenant
	users       map[string]models.User
	members     map[string]models.TenantUser
	databases   map[types.TenantId]models.TenantDatabase
	migrations  map[types.TenantId][]int
	tenantOrder []types.TenantId
	userOrder   []string
	memberOrder []string

	// conflictCreates makes the next n CreateTenant calls fail as if the
	// generated id collided, without the slug being taken.
	conflictCreates int
	createCalls     int
}

func newFakeControlStore() *fakeControlStore {
	return &fakeControlStore{
		tenants:    make(map[types.TenantId]models.Tenant),
		users:      make(map[string]models.User),
		members:    make(map[string]models.TenantUser),
		databases:  make(map[types.TenantId]models.TenantDatabase),
		migrations: make(map[types.TenantId][]int),
	}
}

func memberKey(tenantID types.TenantId, userID string) string {
	return string(tenantID) + "/" + userID
}

func pageBounds(total, limit, offset int) (int, int) {
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return offset, end
}

func removeKey[K comparable](keys []K, key K) []K {
	out := keys[:0]
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}

func (s *fakeControlStore) CreateTenant(ctx context.Context, tenant *models.Tenant) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.conflictCreates > 0 {
		s.conflictCreates--
		return dberror.ErrAlreadyExists.Msg("tenant already exists")
	}
	if _, ok := s.tenants[tenant.ID]; ok {
		return dberror.ErrAlreadyExists.Msg("tenant already exists")
	}
	for _, existing := range s.tenants {
		if existing.Slug == tenant.Slug {
			return dberror.ErrAlreadyExists.Msg("tenant already exists")
		}
	}
	tenant.CreatedAt = time.Now()
	tenant.UpdatedAt = tenant.CreatedAt
	s.tenants[tenant.ID] = *tenant
	s.tenantOrder = append(s.tenantOrder, tenant.ID)
	return nil
}

func (s *fakeControlStore) GetTenant(ctx context.Context, tenantID types.TenantId) (*models.Tenant, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tenant, ok := s.tenants[tenantID]
	if !ok {
		return nil, dberror.ErrNotFound.Msg("tenant not found")
	}
	return &tenant, nil
}

func (s *fakeControlStore) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tenant := range s.tenants {
		if tenant.Slug == slug {
			t := tenant
			return &t, nil
		}
	}
	return nil, dberror.ErrNotFound.Msg("tenant not found")
}

func (s *fakeControlStore) UpdateTenant(ctx context.Context, tenant *models.Tenant) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[tenant.ID]; !ok {
		return dberror.ErrNotFound.Msg("tenant not found")
	}
	tenant.UpdatedAt = time.Now()
	s.tenants[tenant.ID] = *tenant
	return nil
}

func (s *fakeControlStore) DeleteTenant(ctx context.Context, tenantID types.TenantId) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[tenantID]; !ok {
		return dberror.ErrNotFound.Msg("tenant not found")
	}
	delete(s.tenants, tenantID)
	s.tenantOrder = removeKey(s.tenantOrder, tenantID)
	for key, member := range s.members {
		if member.TenantID == tenantID {
			delete(s.members, key)
			s.memberOrder = removeKey(s.memberOrder, key)
		}
	}
	delete(s.databases, tenantID)
	delete(s.migrations, tenantID)
	return nil
}

func (s *fakeControlStore) ListTenants(ctx context.Context, limit, offset int) ([]models.Tenant, int, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := len(s.tenantOrder)
	lo, hi := pageBounds(total, limit, offset)
	out := make([]models.Tenant, 0, hi-lo)
	for _, id := range s.tenantOrder[lo:hi] {
		out = append(out, s.tenants[id])
	}
	return out, total, nil
}

func (s *fakeControlStore) CreateUser(ctx context.Context, user *models.User) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return dberror.ErrAlreadyExists.Msg("user already exists")
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	s.userOrder = append(s.userOrder, user.ID)
	return nil
}

func (s *fakeControlStore) GetUser(ctx context.Context, userID string) (*models.User, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, dberror.ErrNotFound.Msg("user not found")
	}
	return &user, nil
}

func (s *fakeControlStore) GetUserByEmail(ctx context.Context, email string) (*models.User, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, dberror.ErrNotFound.Msg("user not found")
}

func (s *fakeControlStore) UpdateUser(ctx context.Context, user *models.User) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return dberror.ErrNotFound.Msg("user not found")
	}
	for id, existing := range s.users {
		if id != user.ID && existing.Email == user.Email {
			return dberror.ErrAlreadyExists.Msg("user with that email already exists")
		}
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *fakeControlStore) DeleteUser(ctx context.Context, userID string) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return dberror.ErrNotFound.Msg("user not found")
	}
	delete(s.users, userID)
	s.userOrder = removeKey(s.userOrder, userID)
	for key, member := range s.members {
		if member.UserID == userID {
			delete(s.members, key)
			s.memberOrder = removeKey(s.memberOrder, key)
		}
	}
	return nil
}

func (s *fakeControlStore) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := len(s.userOrder)
	lo, hi := pageBounds(total, limit, offset)
	out := make([]models.User, 0, hi-lo)
	for _, id := range s.userOrder[lo:hi] {
		out = append(out, s.users[id])
	}
	return out, total, nil
}

func (s *fakeControlStore) AddUserToTenant(ctx context.Context, member *models.TenantUser) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[member.TenantID]; !ok {
		return dberror.ErrNotFound.Msg("tenant or user not found")
	}
	if _, ok := s.users[member.UserID]; !ok {
		return dberror.ErrNotFound.Msg("tenant or user not found")
	}
	key := memberKey(member.TenantID, member.UserID)
	if _, ok := s.members[key]; ok {
		return dberror.ErrAlreadyExists.Msg("user is already a member of tenant")
	}
	member.CreatedAt = time.Now()
	s.members[key] = *member
	s.memberOrder = append(s.memberOrder, key)
	return nil
}

func (s *fakeControlStore) RemoveUserFromTenant(ctx context.Context, tenantID types.TenantId, userID string) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memberKey(tenantID, userID)
	if _, ok := s.members[key]; !ok {
		return dberror.ErrNotFound.Msg("user is not a member of tenant")
	}
	delete(s.members, key)
	s.memberOrder = removeKey(s.memberOrder, key)
	return nil
}

func (s *fakeControlStore) ListTenantUsers(ctx context.Context, tenantID types.TenantId, limit, offset int) ([]models.TenantUser, int, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]string, 0, len(s.memberOrder))
	for _, key := range s.memberOrder {
		if s.members[key].TenantID == tenantID {
			matched = append(matched, key)
		}
	}
	total := len(matched)
	lo, hi := pageBounds(total, limit, offset)
	out := make([]models.TenantUser, 0, hi-lo)
	for _, key := range matched[lo:hi] {
		out = append(out, s.members[key])
	}
	return out, total, nil
}

func (s *fakeControlStore) GetTenantDatabase(ctx context.Context, tenantID types.TenantId) (*models.TenantDatabase, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	td, ok := s.databases[tenantID]
	if !ok {
		return nil, dberror.ErrNotFound.Msg("tenant database not found")
	}
	return &td, nil
}

func (s *fakeControlStore) CreateTenantDatabase(ctx context.Context, td *models.TenantDatabase) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.databases[td.TenantID]; ok {
		return dberror.ErrAlreadyExists.Msg("tenant database already recorded")
	}
	td.CreatedAt = time.Now()
	s.databases[td.TenantID] = *td
	return nil
}

func (s *fakeControlStore) DeleteTenantDatabase(ctx context.Context, tenantID types.TenantId) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.databases[tenantID]; !ok {
		return dberror.ErrNotFound.Msg("tenant database not found")
	}
	delete(s.databases, tenantID)
	return nil
}

func (s *fakeControlStore) HighestTenantMigration(ctx context.Context, tenantID types.TenantId) (int, apperrors.Error) {
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

func (s *fakeControlStore) RecordTenantMigration(ctx context.Context, tenantID types.TenantId, version int) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrations[tenantID] = append(s.migrations[tenantID], version)
	return nil
}

func (s *fakeControlStore) DeleteTenantMigrations(ctx context.Context, tenantID types.TenantId) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.migrations, tenantID)
	return nil
}

func (s *fakeControlStore) ListTenantMigrations(ctx context.Context, tenantID types.TenantId) ([]models.TenantMigration, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TenantMigration, 0, len(s.migrations[tenantID]))
	for _, v := range s.migrations[tenantID] {
		out = append(out, models.TenantMigration{TenantID: tenantID, Version: v})
	}
	return out, nil
}

// fakeDBManager records teardown calls. The hook runs before the call
// is recorded so tests can observe the store at teardown time.
type fakeDBManager struct {
	mu      sync.Mutex
	deleted []types.TenantId
	err     apperrors.Error
	hook    func(tenantID types.TenantId)
}

func (m *fakeDBManager) DeleteTenantDatabase(ctx context.Context, tenantID types.TenantId) apperrors.Error {
	if m.hook != nil {
		m.hook(tenantID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, tenantID)
	return nil
}

func (m *fakeDBManager) deleteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.deleted)
}

func newTestTenantManager(t *testing.T) (*TenantManager, *fakeControlStore, *fakeDBManager) {
	t.Helper()
	store := newFakeControlStore()
	dbm := &fakeDBManager{}
	return New(store, dbm), store, dbm
}
