package domain

import "time"

// Profile is the account row that carries the plan entitlement.
type Profile struct {
	UserID       string
	OwnerName    string
	BusinessName string
	PlanActive   bool
	UpdatedAt    time.Time
}
