package dto

import "time"

// CreateAnnouncementRequest payload.
type CreateAnnouncementRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Important bool   `json:"important"`
	CreatedBy string `json:"created_by"`
}

// AnnouncementResponse represents a broadcast notice.
type AnnouncementResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Important bool      `json:"important"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
}
