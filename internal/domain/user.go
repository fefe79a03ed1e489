package domain

import "time"

type ProfileRole string

const (
	ProfileRoleCustomer ProfileRole = "customer"
	ProfileRoleAdmin    ProfileRole = "admin"
)

type Profile struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	FullName     string      `json:"full_name"`
	Role         ProfileRole `json:"role"`
	CreatedOn    time.Time   `json:"created_on"`
	UpdatedOn    time.Time   `json:"updated_on"`
}

// IsAdmin reports whether the profile carries the admin role.
func (p *Profile) IsAdmin() bool {
	return p.Role == ProfileRoleAdmin
}
