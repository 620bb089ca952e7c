package domain

import (
	"slices"
	"time"
)

// RequestStatus enumerates lifecycle states for helpdesk requests.
type RequestStatus string

const (
	RequestStatusOpen       RequestStatus = "open"
	RequestStatusInProgress RequestStatus = "in-progress"
	RequestStatusResolved   RequestStatus = "resolved"
	RequestStatusClosed     RequestStatus = "closed"
)

// RequestStatuses lists every status in lifecycle order.
var RequestStatuses = []RequestStatus{
	RequestStatusOpen,
	RequestStatusInProgress,
	RequestStatusResolved,
	RequestStatusClosed,
}

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	return slices.Contains(RequestStatuses, s)
}

// RequestPriority enumerates urgency levels.
type RequestPriority string

const (
	RequestPriorityLow    RequestPriority = "low"
	RequestPriorityMedium RequestPriority = "medium"
	RequestPriorityHigh   RequestPriority = "high"
)

var RequestPriorities = []RequestPriority{
	RequestPriorityLow,
	RequestPriorityMedium,
	RequestPriorityHigh,
}

func (p RequestPriority) Valid() bool {
	return slices.Contains(RequestPriorities, p)
}

// RequestType is the category a student files a request under.
type RequestType string

const (
	RequestTypeMaintenance RequestType = "maintenance"
	RequestTypeIT          RequestType = "it"
	RequestTypeIDCard      RequestType = "id-card"
	RequestTypeFinancial   RequestType = "financial"
	RequestTypeAcademic    RequestType = "academic"
	RequestTypeOther       RequestType = "other"
)

var RequestTypes = []RequestType{
	RequestTypeMaintenance,
	RequestTypeIT,
	RequestTypeIDCard,
	RequestTypeFinancial,
	RequestTypeAcademic,
	RequestTypeOther,
}

func (t RequestType) Valid() bool {
	return slices.Contains(RequestTypes, t)
}

// CommunicationPreference is how a requester wants to be contacted.
type CommunicationPreference string

const (
	CommunicationEmail CommunicationPreference = "email"
	CommunicationPhone CommunicationPreference = "phone"
	CommunicationInApp CommunicationPreference = "in-app"
)

// Request is the aggregate for a student support ticket.
type Request struct {
	ID                      string
	RequesterID             string
	RequesterName           string
	Type                    RequestType
	Title                   string
	Description             string
	Priority                RequestPriority
	Status                  RequestStatus
	CreatedAt               time.Time
	UpdatedAt               time.Time
	StatusUpdates           []StatusUpdate
	Department              string
	SupportingDocuments     []string
	CommunicationPreference CommunicationPreference
	IsUrgent                bool
	Deadline                *time.Time
	AssignedStaffID         string
	AssignedStaffName       string
	Rating                  *int
	Feedback                string

	// CanBeReopened is derived on read and never persisted.
	CanBeReopened bool
}

// AcceptsFeedback reports whether rating and feedback may be recorded.
func (r *Request) AcceptsFeedback() bool {
	return r.Status == RequestStatusResolved || r.Status == RequestStatusClosed
}

// Clone returns a deep copy so callers cannot reach store-owned slices.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	out := *r
	out.StatusUpdates = slices.Clone(r.StatusUpdates)
	out.SupportingDocuments = slices.Clone(r.SupportingDocuments)
	if r.Deadline != nil {
		deadline := *r.Deadline
		out.Deadline = &deadline
	}
	if r.Rating != nil {
		rating := *r.Rating
		out.Rating = &rating
	}
	return &out
}
