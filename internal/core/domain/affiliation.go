package domain

import "time"

// Affiliation records that an employee belongs to a company. At most one row
// exists per employee and it is never removed once created.
type Affiliation struct {
	EmployeeID string
	CompanyID  string
	JoinedAt   time.Time
}
