package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/asset-desk/internal/core/domain"
	"github.com/rl1809/asset-desk/internal/port"
)

// ApprovalService is the workflow engine deciding issuance requests. It is
// the only component that mutates more than one record per operation; every
// Approve commits the status transition, the stock decrement and the optional
// affiliation as one atomic unit through the request repository.
type ApprovalService struct {
	cache         port.CacheRepository
	requests      port.RequestRepository
	assets        port.AssetRepository
	users         port.UserRepository
	decisionQueue chan domain.DecisionRecord
}

func NewApprovalService(cache port.CacheRepository, requests port.RequestRepository, assets port.AssetRepository, users port.UserRepository, queueSize int) *ApprovalService {
	return &ApprovalService{
		cache:         cache,
		requests:      requests,
		assets:        assets,
		users:         users,
		decisionQueue: make(chan domain.DecisionRecord, queueSize),
	}
}

// Approve validates and commits the approval of a pending request on behalf
// of an HR actor. Validation is fail-fast; the commit re-checks every
// condition so concurrent approvals of the last unit or the last capacity
// slot resolve to exactly one winner.
func (s *ApprovalService) Approve(ctx context.Context, requestID, actingUserID string) (domain.Decision, error) {
	ok, err := s.cache.AcquireDecision(ctx, requestID)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("decision guard: %w", err)
	}
	if !ok {
		return domain.Decision{}, domain.ErrDecisionInProgress
	}
	defer s.cache.ReleaseDecision(ctx, requestID)

	req, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("load request: %w", err)
	}
	if req == nil {
		return domain.Decision{}, domain.ErrRequestNotFound
	}

	actor, err := s.users.GetUser(ctx, actingUserID)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("load actor: %w", err)
	}
	if !actor.IsHR() {
		return domain.Decision{}, domain.ErrHRRequired
	}

	// Requests of other companies are reported as missing, not forbidden.
	if req.CompanyID != actor.CompanyID() {
		return domain.Decision{}, domain.ErrRequestNotFound
	}

	switch req.Status {
	case domain.RequestStatusApproved:
		return domain.Decision{}, domain.ErrRequestAlreadyApproved
	case domain.RequestStatusRejected:
		return domain.Decision{}, domain.ErrRequestAlreadyRejected
	}

	asset, err := s.assets.GetAsset(ctx, req.AssetID)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("load asset: %w", err)
	}
	if asset == nil || asset.CompanyID != req.CompanyID {
		return domain.Decision{}, domain.ErrAssetNotFound
	}
	if asset.Quantity <= 0 {
		return domain.Decision{}, domain.ErrOutOfStock
	}

	aff, err := s.requests.GetAffiliation(ctx, req.EmployeeID)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("load affiliation: %w", err)
	}
	newAffiliation := aff == nil
	if newAffiliation && actor.HR.Employees() >= actor.HR.Limit() {
		return domain.Decision{}, domain.ErrEmployeeLimitReached
	}

	decidedAt := time.Now()
	upd := domain.ApprovalUpdate{
		RequestID:      req.ID,
		AssetID:        req.AssetID,
		CompanyID:      req.CompanyID,
		EmployeeID:     req.EmployeeID,
		NewAffiliation: newAffiliation,
		DecidedAt:      decidedAt,
	}
	if err := s.requests.ApproveRequest(ctx, upd); err != nil {
		return domain.Decision{}, err
	}

	outcome := domain.OutcomeApprovedExisting
	if newAffiliation {
		outcome = domain.OutcomeApprovedNew
	}

	s.decisionQueue <- domain.DecisionRecord{
		ID:        uuid.New().String(),
		RequestID: req.ID,
		ActorID:   actor.ID,
		Outcome:   outcome,
		DecidedAt: decidedAt,
	}

	return domain.Decision{Outcome: outcome, RequestID: req.ID}, nil
}

// Reject transitions a pending request to rejected. It touches no inventory
// or affiliation state. Rejecting a request that has already been decided is
// a conflict, not a silent success.
func (s *ApprovalService) Reject(ctx context.Context, requestID string) (domain.Decision, error) {
	ok, err := s.cache.AcquireDecision(ctx, requestID)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("decision guard: %w", err)
	}
	if !ok {
		return domain.Decision{}, domain.ErrDecisionInProgress
	}
	defer s.cache.ReleaseDecision(ctx, requestID)

	req, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("load request: %w", err)
	}
	if req == nil {
		return domain.Decision{}, domain.ErrRequestNotFound
	}

	switch req.Status {
	case domain.RequestStatusApproved:
		return domain.Decision{}, domain.ErrRequestAlreadyApproved
	case domain.RequestStatusRejected:
		return domain.Decision{}, domain.ErrRequestAlreadyRejected
	}

	decidedAt := time.Now()
	if err := s.requests.RejectRequest(ctx, requestID, decidedAt); err != nil {
		return domain.Decision{}, err
	}

	s.decisionQueue <- domain.DecisionRecord{
		ID:        uuid.New().String(),
		RequestID: req.ID,
		Outcome:   domain.OutcomeRejected,
		DecidedAt: decidedAt,
	}

	return domain.Decision{Outcome: domain.OutcomeRejected, RequestID: req.ID}, nil
}

// GetDecisionQueue exposes committed decisions for the audit-log workers.
func (s *ApprovalService) GetDecisionQueue() <-chan domain.DecisionRecord {
	return s.decisionQueue
}

func (s *ApprovalService) Close() {
	close(s.decisionQueue)
}
