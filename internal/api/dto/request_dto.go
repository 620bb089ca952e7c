package dto

import (
	"time"

	"github.com/campus-kit/helpdesk/internal/domain"
)

// CreateRequestRequest payload.
type CreateRequestRequest struct {
	RequesterID             string                         `json:"requester_id"`
	RequesterName           string                         `json:"requester_name"`
	Type                    domain.RequestType             `json:"type"`
	Title                   string                         `json:"title"`
	Description             string                         `json:"description"`
	Priority                domain.RequestPriority         `json:"priority"`
	Department              string                         `json:"department"`
	SupportingDocuments     []string                       `json:"supporting_documents"`
	CommunicationPreference domain.CommunicationPreference `json:"communication_preference"`
	IsUrgent                bool                           `json:"is_urgent"`
	Deadline                *time.Time                     `json:"deadline"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status    domain.RequestStatus `json:"status"`
	Comment   string               `json:"comment"`
	UpdatedBy string               `json:"updated_by"`
}

// ReopenRequest payload.
type ReopenRequest struct {
	Comment   string `json:"comment"`
	UpdatedBy string `json:"updated_by"`
}

// FeedbackRequest payload.
type FeedbackRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// AssignRequest payload.
type AssignRequest struct {
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name"`
}

// StatusUpdateResponse is one history entry.
type StatusUpdateResponse struct {
	ID        string               `json:"id"`
	RequestID string               `json:"request_id"`
	Status    domain.RequestStatus `json:"status"`
	Comment   string               `json:"comment"`
	UpdatedAt time.Time            `json:"updated_at"`
	UpdatedBy string               `json:"updated_by"`
}

// RequestResponse is the full request view.
type RequestResponse struct {
	ID                      string                         `json:"id"`
	RequesterID             string                         `json:"requester_id"`
	RequesterName           string                         `json:"requester_name"`
	Type                    domain.RequestType             `json:"type"`
	Title                   string                         `json:"title,omitempty"`
	Description             string                         `json:"description"`
	Priority                domain.RequestPriority         `json:"priority"`
	Status                  domain.RequestStatus           `json:"status"`
	CreatedAt               time.Time                      `json:"created_at"`
	UpdatedAt               time.Time                      `json:"updated_at"`
	StatusUpdates           []StatusUpdateResponse         `json:"status_updates"`
	Department              string                         `json:"department,omitempty"`
	SupportingDocuments     []string                       `json:"supporting_documents,omitempty"`
	CommunicationPreference domain.CommunicationPreference `json:"communication_preference,omitempty"`
	IsUrgent                bool                           `json:"is_urgent"`
	Deadline                *time.Time                     `json:"deadline,omitempty"`
	AssignedStaffID         string                         `json:"assigned_staff_id,omitempty"`
	AssignedStaffName       string                         `json:"assigned_staff_name,omitempty"`
	Rating                  *int                           `json:"rating,omitempty"`
	Feedback                string                         `json:"feedback,omitempty"`
	CanBeReopened           bool                           `json:"can_be_reopened"`
}

// ChartPointResponse is one labelled report value.
type ChartPointResponse struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// ReportResponse aggregates request statistics.
type ReportResponse struct {
	TotalRequests                int                  `json:"total_requests"`
	OpenRequests                 int                  `json:"open_requests"`
	ClosedRequests               int                  `json:"closed_requests"`
	AverageResolutionTimeInHours float64              `json:"average_resolution_time_in_hours"`
	RequestsByType               []ChartPointResponse `json:"requests_by_type"`
	RequestsByPriority           []ChartPointResponse `json:"requests_by_priority"`
	RequestsByMonth              []ChartPointResponse `json:"requests_by_month"`
}
