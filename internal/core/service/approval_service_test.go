package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rl1809/asset-desk/internal/core/domain"
)

func hrUser(id string, limit, current int) domain.User {
	return domain.User{
		ID:    id,
		Name:  "HR " + id,
		Email: id + "@corp.test",
		Role:  domain.RoleHR,
		HR: &domain.HRProfile{
			CompanyName:      "Corp " + id,
			CompanyLogo:      "logo.png",
			PackageLimit:     limit,
			CurrentEmployees: current,
			Subscription:     domain.DefaultSubscription,
		},
		CreatedAt: time.Now(),
	}
}

func employeeUser(id string) domain.User {
	return domain.User{
		ID:        id,
		Name:      "Emp " + id,
		Email:     id + "@corp.test",
		Role:      domain.RoleEmployee,
		CreatedAt: time.Now(),
	}
}

func testAsset(id, companyID string, quantity int) domain.Asset {
	now := time.Now()
	return domain.Asset{
		ID:        id,
		CompanyID: companyID,
		Name:      "Asset " + id,
		Type:      "general",
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func pendingRequest(id, employeeID, companyID, assetID string) domain.Request {
	return domain.NewRequest(id, employeeID, employeeID+"@corp.test", companyID, assetID)
}

func newApprovalService(store *mockStore) *ApprovalService {
	return NewApprovalService(newMockCache(), store, store, store, 100)
}

func drainDecisions(svc *ApprovalService) {
	go func() {
		for range svc.GetDecisionQueue() {
		}
	}()
}

func TestApprove_NewEmployee(t *testing.T) {
	store := newMockStore()
	store.addUser(hrUser("hr-1", 5, 4))
	store.addUser(employeeUser("emp-1"))
	store.addAsset(testAsset("asset-1", "hr-1", 1))
	store.addRequest(pendingRequest("req-1", "emp-1", "hr-1", "asset-1"))

	svc := newApprovalService(store)
	defer svc.Close()
	drainDecisions(svc)

	decision, err := svc.Approve(context.Background(), "req-1", "hr-1")
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if decision.Outcome != domain.OutcomeApprovedNew {
		t.Errorf("expected outcome %s, got %s", domain.OutcomeApprovedNew, decision.Outcome)
	}

	if store.assets["asset-1"].Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", store.assets["asset-1"].Quantity)
	}
	if store.users["hr-1"].HR.CurrentEmployees != 5 {
		t.Errorf("expected 5 current employees, got %d", store.users["hr-1"].HR.CurrentEmployees)
	}
	aff, ok := store.affiliations["emp-1"]
	if !ok {
		t.Fatal("expected affiliation to be created")
	}
	if aff.CompanyID != "hr-1" {
		t.Errorf("expected affiliation with hr-1, got %s", aff.CompanyID)
	}
	req := store.requests["req-1"]
	if req.Status != domain.RequestStatusApproved {
		t.Errorf("expected status approved, got %s", req.Status)
	}
	if req.DecidedAt == nil {
		t.Error("expected decidedAt to be set")
	}
}

func TestApprove_AtEmployeeLimit(t *testing.T) {
	store := newMockStore()
	store.addUser(hrUser("hr-1", 5, 5))
	store.addUser(employeeUser("emp-1"))
	store.addAsset(testAsset("asset-1", "hr-1", 1))
	store.addRequest(pendingRequest("req-1", "emp-1", "hr-1", "asset-1"))

	svc := newApprovalService(store)
	defer svc.Close()
	drainDecisions(svc)

	_, err := svc.Approve(context.Background(), "req-1", "hr-1")
	if !errors.Is(err, domain.ErrEmployeeLimitReached) {
		t.Fatalf("expected ErrEmployeeLimitReached, got: %v", err)
	}

	if store.assets["asset-1"].Quantity != 1 {
		t.Errorf("expected quantity unchanged at 1, got %d", store.assets["asset-1"].Quantity)
	}
	if _, ok := store.affiliations["emp-1"]; ok {
		t.Error("expected no affiliation to be created")
	}
	if store.requests["req-1"].Status != domain.RequestStatusPending {
		t.Errorf("expected request still pending, got %s", store.requests["req-1"].Status)
	}
}

func TestApprove_ExistingEmployee(t *testing.T) {
	store := newMockStore()
	store.addUser(hrUser("hr-1", 5, 3))
	store.addUser(employeeUser("emp-1"))
	store.addAsset(testAsset("asset-1", "hr-1", 3))
	store.addRequest(pendingRequest("req-1", "emp-1", "hr-1", "asset-1"))
	store.addAffiliation(domain.Affiliation{EmployeeID: "emp-1", CompanyID: "hr-1", JoinedAt: time.Now()})

	svc := newApprovalService(store)
	defer svc.Close()
	drainDecisions(svc)

	decision, err := svc.Approve(context.Background(), "req-1", "hr-1")
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if decision.Outcome != domain.OutcomeApprovedExisting {
		t.Errorf("expected outcome %s, got %s", domain.OutcomeApprovedExisting, decision.Outcome)
	}

	if store.assets["asset-1"].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", store.assets["asset-1"].Quantity)
	}
	if store.users["hr-1"].HR.CurrentEmployees != 3 {
		t.Errorf("expected current employees unchanged at 3, got %d", store.users["hr-1"].HR.CurrentEmployees)
	}
	if len(store.affiliations) != 1 {
		t.Errorf("expected a single affiliation, got %d", len(store.affiliations))
	}
}

func TestApprove_RequestNotFound(t *testing.T) {
	store := newMockStore()
	store.addUser(hrUser("hr-1", 5, 0))

	svc := newApprovalService(store)
	defer svc.Close()

	_, err := svc.Approve(context.Background(), "missing", "hr-1")
	if !errors.Is(err, domain.ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got: %v", err)
	}
}

func TestApprove_NonHRActor(t *testing.T) {
	store := newMockStore()
	store.addUser(employeeUser("emp-2"))
	store.addUser(employeeUser("emp-1"))
	store.addAsset(testAsset("asset-1", "hr-1", 1))
	store.addRequest(pendingRequest("req-1", "emp-1", "hr-1", "asset-1"))

	svc := newApprovalService(store)
	defer svc.Close()

	_, err := svc.Approve(context.Background(), "req-1", "emp-2")
	if !errors.Is(err, domain.ErrHRRequired) {
		t.Errorf("expected ErrHRRequired, got: %v", err)
	}

	_, err = svc.Approve(context.Background(), "req-1", "unknown")
	if !errors.Is(err, domain.ErrHRRequired) {
		t.Errorf("expected ErrHRRequired for unknown actor, got: %v", err)
	}
}

func TestApprove_CrossCompanyReportsNotFound(t *testing.T) {
	store := newMockStore()
	store.addUser(hrUser("hr-1", 5, 0))
	store.addUser(hrUser("hr-2", 5, 0))
	store.addUser(employeeUser("emp-1"))
	store.addAsset(testAsset("asset-1", "hr-1", 1))
	store.addRequest(pendingRequest("req-1", "emp-1", "hr-1", "asset-1"))

	svc := newApprovalService(store)
	defer svc.Close()

	_, err := svc.Approve(context.Background(), "req-1", "hr-2")
	if !errors.Is(err, domain.ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound for cross-company access, got: %v", err)
	}
	if store.requests["req-1"].Status != domain.RequestStatusPending {
		t.Errorf("expected request untouched, got %s", store.requests["req-1"].Status)
	}
}

func TestApprove_AlreadyDecided(t *testing.T) {
	store := newMockStore()
	store.addUser(hrUser("hr-1", 5, 0))
	store.addUser(employeeUser("emp-1"))
	store.addUser(employeeUser("emp-2"))
	store.addAsset(testAsset("asset-1", "hr-1", 5))

	approved := pendingRequest("req-1", "emp-1", "hr-1", "asset-1")
	approved.Status = domain.RequestStatusApproved
	store.addRequest(approved)

	rejected := pendingRequest("req-2", "emp-2", "hr-1", "asset-1")
	rejected.Status = domain.RequestStatusRejected
	store.addRequest(rejected)

	svc := newApprovalService(store)
	defer svc.Close()

	_, err := svc.Approve(context.Background(), "req-1", "hr-1")
	if !errors.Is(err, domain.ErrRequestAlreadyApproved) {
		t.Errorf("expected ErrRequestAlreadyApproved, got: %v", err)
	}

	_, err = svc.Approve(context.Background(), "req-2", "hr-1")
	if !errors.Is(err, domain.ErrRequestAlreadyRejected) {
		t.Errorf("expected ErrRequestAlreadyRejected, got: %v", err)
	}

	// No side effects from either failed approval.
	if store.assets["asset-1"].Quantity != 5 {
		t.Errorf("expected quantity unchanged at 5, got %d", store.assets["asset-1"].Quantity)
	}
	if store.users["hr-1"].HR.CurrentEmployees != 0 {
		t.Errorf("expected current employees unchanged at 0, got %d", store.users["hr-1"].HR.CurrentEmployees)
	}
}

func TestApprove_AssetMissingOrForeign(t *testing.T) {
	store := newMockStore()
	store.addUser(hrUser("hr-1", 5, 0))
	store.addUser(employeeUser("emp-1"))
	store.addAsset(testAsset("asset-2", "hr-2", 1))
	store.addRequest(pendingRequest("req-1", "emp-1", "hr-1", "asset-1"))
	store.addRequest(pendingRequest("req-2", "emp-1", "hr-1", "asset-2"))

	svc := newApprovalService(store)
	defer svc.Close()

	_, err := svc.Approve(context.Background(), "req-1", "hr-1")
	if !errors.Is(err, domain.ErrAssetNotFound) {
		t.Errorf("expected ErrAssetNotFound for missing asset, got: %v", err)
	}

	_, err = svc.Approve(context.Background(), "req-2", "hr-1")
	if !errors.Is(err, domain.ErrAssetNotFound) {
		t.Errorf("expected ErrAssetNotFound for foreign asset, got: %v", err)
	}
}

func TestApprove_OutOfStock(t *testing.T) {
	store := newMockStore()
	store.addUser(hrUser("hr-1", 5, 0))
	store.addUser(employeeUser("emp-1"))
	store.addAsset(testAsset("asset-1", "hr-1", 0))
	store.addRequest(pendingRequest("req-1", "emp-1", "hr-1", "asset-1"))

	svc := newApprovalService(store)
	defer svc.Close()

	_, err := svc.Approve(context.Background(), "req-1", "hr-1")
	if !errors.Is(err, domain.ErrOutOfStock) {
		t.Errorf("expected ErrOutOfStock, got: %v", err)
	}
}

func TestApprove_ConcurrentLastUnit(t *testing.T) {
	totalRequests := 20

	store := newMockStore()
	store.addUser(hrUser("hr-1", 100, 0))
	store.addAsset(testAsset("asset-1", "hr-1", 1))
	for i := 0; i < totalRequests; i++ {
		empID := fmt.Sprintf("emp-%d", i)
		store.addUser(employeeUser(empID))
		store.addAffiliation(domain.Affiliation{EmployeeID: empID, CompanyID: "hr-1", JoinedAt: time.Now()})
		store.addRequest(pendingRequest(fmt.Sprintf("req-%d", i), empID, "hr-1", "asset-1"))
	}

	svc := newApprovalService(store)
	defer svc.Close()
	drainDecisions(svc)

	var successCount, conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Approve(context.Background(), fmt.Sprintf("req-%d", i), "hr-1")
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrOutOfStock):
				conflictCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("expected exactly 1 success, got %d", successCount.Load())
	}
	if conflictCount.Load() != int32(totalRequests-1) {
		t.Errorf("expected %d out-of-stock conflicts, got %d", totalRequests-1, conflictCount.Load())
	}
	if store.assets["asset-1"].Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", store.assets["asset-1"].Quantity)
	}
}

func TestApprove_ConcurrentLimitRace(t *testing.T) {
	limit := 3
	totalRequests := 10

	store := newMockStore()
	store.addUser(hrUser("hr-1", limit, 0))
	store.addAsset(testAsset("asset-1", "hr-1", 15))
	for i := 0; i < totalRequests; i++ {
		empID := fmt.Sprintf("emp-%d", i)
		store.addUser(employeeUser(empID))
		store.addRequest(pendingRequest(fmt.Sprintf("req-%d", i), empID, "hr-1", "asset-1"))
	}

	svc := newApprovalService(store)
	defer svc.Close()
	drainDecisions(svc)

	var newCount, limitCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			decision, err := svc.Approve(context.Background(), fmt.Sprintf("req-%d", i), "hr-1")
			switch {
			case err == nil:
				if decision.Outcome != domain.OutcomeApprovedNew {
					t.Errorf("expected approved-new, got %s", decision.Outcome)
				}
				newCount.Add(1)
			case errors.Is(err, domain.ErrEmployeeLimitReached):
				limitCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}

	wg.Wait()

	if newCount.Load() != int32(limit) {
		t.Errorf("expected exactly %d approved-new, got %d", limit, newCount.Load())
	}
	if limitCount.Load() != int32(totalRequests-limit) {
		t.Errorf("expected %d limit conflicts, got %d", totalRequests-limit, limitCount.Load())
	}
	if store.users["hr-1"].HR.CurrentEmployees != limit {
		t.Errorf("expected current employees %d, got %d", limit, store.users["hr-1"].HR.CurrentEmployees)
	}
	if len(store.affiliations) != limit {
		t.Errorf("expected %d affiliations, got %d", limit, len(store.affiliations))
	}
}

func TestApprove_DecisionQueued(t *testing.T) {
	store := newMockStore()
	store.addUser(hrUser("hr-1", 5, 0))
	store.addUser(employeeUser("emp-1"))
	store.addAsset(testAsset("asset-1", "hr-1", 2))
	store.addRequest(pendingRequest("req-1", "emp-1", "hr-1", "asset-1"))

	svc := newApprovalService(store)

	decision, err := svc.Approve(context.Background(), "req-1", "hr-1")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	rec := <-svc.GetDecisionQueue()

	if rec.RequestID != "req-1" {
		t.Errorf("expected req-1, got %s", rec.RequestID)
	}
	if rec.ActorID != "hr-1" {
		t.Errorf("expected actor hr-1, got %s", rec.ActorID)
	}
	if rec.Outcome != decision.Outcome {
		t.Errorf("expected outcome %s, got %s", decision.Outcome, rec.Outcome)
	}
	if rec.ID == "" {
		t.Error("expected non-empty record ID")
	}

	svc.Close()
}

func TestReject_Success(t *testing.T) {
	store := newMockStore()
	store.addUser(hrUser("hr-1", 5, 0))
	store.addUser(employeeUser("emp-1"))
	store.addAsset(testAsset("asset-1", "hr-1", 3))
	store.addRequest(pendingRequest("req-1", "emp-1", "hr-1", "asset-1"))

	svc := newApprovalService(store)
	defer svc.Close()
	drainDecisions(svc)

	decision, err := svc.Reject(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if decision.Outcome != domain.OutcomeRejected {
		t.Errorf("expected outcome %s, got %s", domain.OutcomeRejected, decision.Outcome)
	}

	req := store.requests["req-1"]
	if req.Status != domain.RequestStatusRejected {
		t.Errorf("expected status rejected, got %s", req.Status)
	}
	if req.DecidedAt == nil {
		t.Error("expected decidedAt to be set")
	}

	// No inventory or affiliation side effects.
	if store.assets["asset-1"].Quantity != 3 {
		t.Errorf("expected quantity unchanged at 3, got %d", store.assets["asset-1"].Quantity)
	}
	if len(store.affiliations) != 0 {
		t.Errorf("expected no affiliations, got %d", len(store.affiliations))
	}
}

func TestReject_AlreadyDecided(t *testing.T) {
	store := newMockStore()
	store.addUser(hrUser("hr-1", 5, 0))
	store.addUser(employeeUser("emp-1"))
	store.addAsset(testAsset("asset-1", "hr-1", 3))
	store.addRequest(pendingRequest("req-1", "emp-1", "hr-1", "asset-1"))

	svc := newApprovalService(store)
	defer svc.Close()
	drainDecisions(svc)

	if _, err := svc.Reject(context.Background(), "req-1"); err != nil {
		t.Fatalf("first reject failed: %v", err)
	}

	_, err := svc.Reject(context.Background(), "req-1")
	if !errors.Is(err, domain.ErrRequestAlreadyRejected) {
		t.Errorf("expected ErrRequestAlreadyRejected, got: %v", err)
	}
}

func TestApprove_GuardBlocksConcurrentDecision(t *testing.T) {
	store := newMockStore()
	store.addUser(hrUser("hr-1", 5, 0))
	store.addUser(employeeUser("emp-1"))
	store.addAsset(testAsset("asset-1", "hr-1", 1))
	store.addRequest(pendingRequest("req-1", "emp-1", "hr-1", "asset-1"))

	cache := newMockCache()
	svc := NewApprovalService(cache, store, store, store, 100)
	defer svc.Close()
	drainDecisions(svc)

	// Simulate another in-flight decision holding the guard.
	cache.AcquireDecision(context.Background(), "req-1")

	_, err := svc.Approve(context.Background(), "req-1", "hr-1")
	if !errors.Is(err, domain.ErrDecisionInProgress) {
		t.Errorf("expected ErrDecisionInProgress, got: %v", err)
	}

	// Released guard lets the decision through.
	cache.ReleaseDecision(context.Background(), "req-1")
	if _, err := svc.Approve(context.Background(), "req-1", "hr-1"); err != nil {
		t.Errorf("expected success after guard release, got: %v", err)
	}
}
