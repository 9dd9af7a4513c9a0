package models

import (
	"time"
)

// Member status values
const (
	MemberStatusActive   = "active"
	MemberStatusInactive = "inactive"
)

// Member is the slice of the member profile the billing subsystem needs.
// Full profile CRUD lives outside this service.
type Member struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	JoinedAt  time.Time `json:"joined_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
