package service

import (
	"context"
	"sync"
	"time"

	"github.com/rl1809/asset-desk/internal/core/domain"
)

// Mock CacheRepository
type mockCache struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMockCache() *mockCache {
	return &mockCache{held: make(map[string]bool)}
}

func (m *mockCache) AcquireDecision(ctx context.Context, requestID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.held[requestID] {
		return false, nil
	}
	m.held[requestID] = true
	return true, nil
}

func (m *mockCache) ReleaseDecision(ctx context.Context, requestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, requestID)
	return nil
}

// Mock store implementing the user, asset and request repositories with the
// same commit-time conditions as the MySQL adapter, so concurrent approvals
// race exactly like they do against the database.
type mockStore struct {
	mu           sync.Mutex
	users        map[string]domain.User
	assets       map[string]domain.Asset
	requests     map[string]domain.Request
	affiliations map[string]domain.Affiliation
	decisions    []domain.DecisionRecord
}

func newMockStore() *mockStore {
	return &mockStore{
		users:        make(map[string]domain.User),
		assets:       make(map[string]domain.Asset),
		requests:     make(map[string]domain.Request),
		affiliations: make(map[string]domain.Affiliation),
	}
}

func (m *mockStore) addUser(u domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *mockStore) addAsset(a domain.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[a.ID] = a
}

func (m *mockStore) addRequest(r domain.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[r.ID] = r
}

func (m *mockStore) addAffiliation(a domain.Affiliation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.affiliations[a.EmployeeID] = a
}

func (m *mockStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	if u.HR != nil {
		hr := *u.HR
		u.HR = &hr
	}
	return &u, nil
}

func (m *mockStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			out := u
			if out.HR != nil {
				hr := *out.HR
				out.HR = &hr
			}
			return &out, nil
		}
	}
	return nil, nil
}

func (m *mockStore) UpsertUser(ctx context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *mockStore) ApplyTier(ctx context.Context, companyID string, tier domain.Tier) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[companyID]
	if !ok || u.HR == nil {
		return nil
	}
	hr := *u.HR
	hr.Subscription = tier.Name
	hr.PackageLimit = tier.EmployeeLimit
	u.HR = &hr
	m.users[companyID] = u
	return nil
}

func (m *mockStore) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.assets[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *mockStore) CreateAsset(ctx context.Context, a domain.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[a.ID] = a
	return nil
}

func (m *mockStore) UpdateAsset(ctx context.Context, a domain.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.assets[a.ID]
	if !ok || existing.CompanyID != a.CompanyID {
		return domain.ErrAssetNotFound
	}
	m.assets[a.ID] = a
	return nil
}

func (m *mockStore) ListAssetsByCompany(ctx context.Context, companyID string) ([]domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Asset
	for _, a := range m.assets {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockStore) GetRequest(ctx context.Context, id string) (*domain.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *mockStore) CreateRequest(ctx context.Context, r domain.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[r.ID] = r
	return nil
}

func (m *mockStore) ListRequestsByCompany(ctx context.Context, companyID string) ([]domain.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Request
	for _, r := range m.requests {
		if r.CompanyID == companyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) ListRequestsByEmployee(ctx context.Context, employeeID string) ([]domain.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Request
	for _, r := range m.requests {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) GetAffiliation(ctx context.Context, employeeID string) (*domain.Affiliation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.affiliations[employeeID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *mockStore) ApproveRequest(ctx context.Context, upd domain.ApprovalUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.requests[upd.RequestID]
	if !ok || req.Status != domain.RequestStatusPending {
		return domain.ErrRequestDecided
	}

	asset, ok := m.assets[upd.AssetID]
	if !ok || asset.CompanyID != upd.CompanyID || asset.Quantity <= 0 {
		return domain.ErrOutOfStock
	}

	if upd.NewAffiliation {
		if _, exists := m.affiliations[upd.EmployeeID]; exists {
			return domain.ErrAffiliationExists
		}
		company, ok := m.users[upd.CompanyID]
		if !ok || company.HR == nil {
			return domain.ErrEmployeeLimitReached
		}
		if company.HR.Employees() >= company.HR.Limit() {
			return domain.ErrEmployeeLimitReached
		}

		hr := *company.HR
		hr.CurrentEmployees++
		company.HR = &hr
		m.users[upd.CompanyID] = company
		m.affiliations[upd.EmployeeID] = domain.Affiliation{
			EmployeeID: upd.EmployeeID,
			CompanyID:  upd.CompanyID,
			JoinedAt:   upd.DecidedAt,
		}
	}

	asset.Quantity--
	asset.UpdatedAt = upd.DecidedAt
	m.assets[upd.AssetID] = asset

	decidedAt := upd.DecidedAt
	req.Status = domain.RequestStatusApproved
	req.DecidedAt = &decidedAt
	m.requests[upd.RequestID] = req

	return nil
}

func (m *mockStore) RejectRequest(ctx context.Context, id string, decidedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.requests[id]
	if !ok || req.Status != domain.RequestStatusPending {
		return domain.ErrRequestDecided
	}
	req.Status = domain.RequestStatusRejected
	req.DecidedAt = &decidedAt
	m.requests[id] = req
	return nil
}

func (m *mockStore) AppendDecision(ctx context.Context, rec domain.DecisionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, rec)
	return nil
}
