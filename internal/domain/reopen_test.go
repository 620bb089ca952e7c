package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func closedRequest(closings ...time.Time) *Request {
	req := &Request{ID: "req-1", Status: RequestStatusClosed}
	for _, at := range closings {
		req.StatusUpdates = append(req.StatusUpdates,
			StatusUpdate{Status: RequestStatusClosed, UpdatedAt: at},
			StatusUpdate{Status: RequestStatusOpen, UpdatedAt: at.Add(time.Minute)},
		)
	}
	// drop the trailing reopen so the last closing stands
	if len(req.StatusUpdates) > 0 {
		req.StatusUpdates = req.StatusUpdates[:len(req.StatusUpdates)-1]
	}
	return req
}

func TestReopenEligibleBoundary(t *testing.T) {
	closedAt := time.Date(2025, 4, 22, 15, 30, 0, 0, time.UTC)
	req := closedRequest(closedAt)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"immediately", closedAt, true},
		{"six days", closedAt.Add(6 * 24 * time.Hour), true},
		{"exactly seven days", closedAt.Add(168 * time.Hour), true},
		{"seven days and a second", closedAt.Add(168*time.Hour + time.Second), false},
		{"thirty days", closedAt.Add(30 * 24 * time.Hour), false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ReopenEligible(req, tt.now, DefaultReopenWindow))
		})
	}
}

func TestReopenEligibleUsesMostRecentClosing(t *testing.T) {
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(20 * 24 * time.Hour)
	req := closedRequest(first, second)

	closedAt, ok := req.LastClosedAt()
	require.True(t, ok)
	require.Equal(t, second, closedAt)
	require.True(t, ReopenEligible(req, second.Add(24*time.Hour), DefaultReopenWindow))
}

func TestReopenEligibleRejectsNonClosedAndInconsistent(t *testing.T) {
	now := time.Now()
	open := &Request{Status: RequestStatusOpen, StatusUpdates: []StatusUpdate{{Status: RequestStatusClosed, UpdatedAt: now}}}
	require.False(t, ReopenEligible(open, now, DefaultReopenWindow))

	inconsistent := &Request{Status: RequestStatusClosed, StatusUpdates: []StatusUpdate{{Status: RequestStatusOpen, UpdatedAt: now}}}
	_, ok := inconsistent.LastClosedAt()
	require.False(t, ok)
	require.False(t, ReopenEligible(inconsistent, now, DefaultReopenWindow))
	require.False(t, ReopenEligible(nil, now, DefaultReopenWindow))
}

func TestCloneIsDeep(t *testing.T) {
	rating := 4
	deadline := time.Now()
	req := &Request{
		ID:                  "req-1",
		StatusUpdates:       []StatusUpdate{{ID: "u1"}},
		SupportingDocuments: []string{"a.pdf"},
		Rating:              &rating,
		Deadline:            &deadline,
	}
	cp := req.Clone()
	cp.StatusUpdates[0].ID = "changed"
	cp.SupportingDocuments[0] = "b.pdf"
	*cp.Rating = 1
	*cp.Deadline = deadline.Add(time.Hour)

	require.Equal(t, "u1", req.StatusUpdates[0].ID)
	require.Equal(t, "a.pdf", req.SupportingDocuments[0])
	require.Equal(t, 4, *req.Rating)
	require.Equal(t, deadline, *req.Deadline)
}

func TestEnumValidity(t *testing.T) {
	require.True(t, RequestTypeIDCard.Valid())
	require.False(t, RequestType("parking").Valid())
	require.True(t, RequestStatusInProgress.Valid())
	require.False(t, RequestStatus("pending").Valid())
	require.True(t, RequestPriorityHigh.Valid())
	require.False(t, RequestPriority("urgent").Valid())
	require.False(t, SenderRole("system").Valid())
}
