package domain

import "time"

// StatusUpdate is an immutable audit entry for one status transition.
type StatusUpdate struct {
	ID        string
	RequestID string
	Status    RequestStatus
	Comment   string
	UpdatedAt time.Time
	UpdatedBy string
}
