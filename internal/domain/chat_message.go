package domain

import "time"

// SenderRole indicates which side of the conversation authored a message.
type SenderRole string

const (
	SenderRoleStudent SenderRole = "student"
	SenderRoleStaff   SenderRole = "staff"
)

func (r SenderRole) Valid() bool {
	return r == SenderRoleStudent || r == SenderRoleStaff
}

// ChatMessage is one entry in a request's support thread.
type ChatMessage struct {
	ID          string
	RequestID   string
	SenderID    string
	SenderName  string
	SenderRole  SenderRole
	Message     string
	Timestamp   time.Time
	Attachments []string
	Read        bool
}
