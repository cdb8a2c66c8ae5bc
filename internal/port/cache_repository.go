package port

import "context"

type CacheRepository interface {
	// AcquireDecision takes the in-flight guard for a request, returns false
	// if another decision for the same request currently holds it
	AcquireDecision(ctx context.Context, requestID string) (bool, error)

	// ReleaseDecision frees the guard once the decision has run
	ReleaseDecision(ctx context.Context, requestID string) error
}
