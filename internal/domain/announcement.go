package domain

import "time"

// Announcement is a broadcast notice shown to every student.
type Announcement struct {
	ID        string
	Title     string
	Content   string
	Important bool
	CreatedAt time.Time
	CreatedBy string
}
