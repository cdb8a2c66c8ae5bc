package domain

import "time"

type Role string

const (
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

// HRProfile carries the company attributes that only exist on HR accounts.
// The HR account doubles as the company record: its user id is the company id
// referenced by assets, requests and affiliations.
type HRProfile struct {
	CompanyName      string
	CompanyLogo      string
	PackageLimit     int
	CurrentEmployees int
	Subscription     string
}

// Limit returns the affiliation capacity, falling back to the default
// when the column was never set.
func (p *HRProfile) Limit() int {
	if p == nil || p.PackageLimit <= 0 {
		return DefaultPackageLimit
	}
	return p.PackageLimit
}

func (p *HRProfile) Employees() int {
	if p == nil {
		return 0
	}
	return p.CurrentEmployees
}

type User struct {
	ID          string
	Name        string
	Email       string
	DateOfBirth string
	Role        Role
	HR          *HRProfile // nil for employees
	CreatedAt   time.Time
}

func (u *User) IsHR() bool {
	return u != nil && u.Role == RoleHR
}

// CompanyID is the company identity of an HR account.
func (u *User) CompanyID() string {
	if !u.IsHR() {
		return ""
	}
	return u.ID
}
