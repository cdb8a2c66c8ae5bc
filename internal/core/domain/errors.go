package domain

import "errors"

// Workflow error taxonomy. Storage adapters return these from conditional
// updates so the service and transport layers can dispatch with errors.Is.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrAssetNotFound   = errors.New("asset not found")

	ErrHRRequired       = errors.New("hr role required")
	ErrEmployeeRequired = errors.New("employee role required")

	ErrRequestAlreadyApproved = errors.New("request already approved")
	ErrRequestAlreadyRejected = errors.New("request already rejected")
	ErrRequestDecided         = errors.New("request already decided")
	ErrOutOfStock             = errors.New("out of stock")
	ErrEmployeeLimitReached   = errors.New("employee limit reached")
	ErrAffiliationExists      = errors.New("employee already affiliated")
	ErrDecisionInProgress     = errors.New("decision already in progress")
	ErrUnknownTier            = errors.New("unknown subscription tier")

	ErrUnknownRole         = errors.New("unknown role")
	ErrCompanyInfoRequired = errors.New("company name and logo required for hr")
)

// IsConflict reports whether err is a would-violate-an-invariant failure.
func IsConflict(err error) bool {
	return errors.Is(err, ErrRequestAlreadyApproved) ||
		errors.Is(err, ErrRequestAlreadyRejected) ||
		errors.Is(err, ErrRequestDecided) ||
		errors.Is(err, ErrOutOfStock) ||
		errors.Is(err, ErrEmployeeLimitReached) ||
		errors.Is(err, ErrAffiliationExists) ||
		errors.Is(err, ErrDecisionInProgress) ||
		errors.Is(err, ErrUnknownTier)
}
