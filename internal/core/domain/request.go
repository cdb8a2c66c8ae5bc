package domain

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// Request is an employee's petition to be issued one unit of a company asset.
// Status moves out of pending exactly once.
type Request struct {
	ID            string
	EmployeeID    string
	EmployeeEmail string
	CompanyID     string
	AssetID       string
	Status        RequestStatus
	CreatedAt     time.Time
	DecidedAt     *time.Time
}

func NewRequest(id, employeeID, employeeEmail, companyID, assetID string) Request {
	return Request{
		ID:            id,
		EmployeeID:    employeeID,
		EmployeeEmail: employeeEmail,
		CompanyID:     companyID,
		AssetID:       assetID,
		Status:        RequestStatusPending,
		CreatedAt:     time.Now(),
	}
}
