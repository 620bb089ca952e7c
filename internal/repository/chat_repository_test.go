package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campus-kit/helpdesk/internal/domain"
)

func TestMemoryChatRepositoryAppendOrderAndMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryChatRepository()

	empty, err := repo.ListByRequest(ctx, "req-404")
	require.NoError(t, err)
	require.Empty(t, empty)

	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	msgs := []domain.ChatMessage{
		{ID: "m1", RequestID: "req-1", SenderRole: domain.SenderRoleStudent, Message: "hi", Timestamp: base},
		{ID: "m2", RequestID: "req-1", SenderRole: domain.SenderRoleStaff, Message: "hello", Timestamp: base.Add(time.Minute)},
		{ID: "m3", RequestID: "req-1", SenderRole: domain.SenderRoleStudent, Message: "thanks", Timestamp: base.Add(2 * time.Minute), Attachments: []string{"/a.png"}},
	}
	for i := range msgs {
		require.NoError(t, repo.Append(ctx, &msgs[i]))
	}
	msgs[2].Attachments[0] = "/tampered.png"

	thread, err := repo.ListByRequest(ctx, "req-1")
	require.NoError(t, err)
	require.Len(t, thread, 3)
	require.Equal(t, []string{"m1", "m2", "m3"}, []string{thread[0].ID, thread[1].ID, thread[2].ID})
	require.Equal(t, "/a.png", thread[2].Attachments[0])

	changed, err := repo.MarkRead(ctx, "req-1", domain.SenderRoleStudent)
	require.NoError(t, err)
	require.Equal(t, 2, changed)

	changed, err = repo.MarkRead(ctx, "req-1", domain.SenderRoleStudent)
	require.NoError(t, err)
	require.Zero(t, changed)

	thread, err = repo.ListByRequest(ctx, "req-1")
	require.NoError(t, err)
	require.True(t, thread[0].Read)
	require.False(t, thread[1].Read)
}

func TestChatRecordRoundTripKeepsFields(t *testing.T) {
	msg := &domain.ChatMessage{
		ID:          "m1",
		RequestID:   "req-1",
		SenderID:    "staff1",
		SenderName:  "Admin User",
		SenderRole:  domain.SenderRoleStaff,
		Message:     "Please attach a photo",
		Timestamp:   time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
		Attachments: []string{"/attachments/req-1/photo.png"},
	}
	require.Equal(t, "helpdesk:chat:req-1", chatKey(msg.RequestID))

	rec := toChatRecord(msg)
	require.Equal(t, msg.SenderRole, rec.SenderRole)
	require.Equal(t, msg.Attachments, rec.Attachments)
}

func TestMemoryAnnouncementRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAnnouncementRepository()
	base := time.Date(2025, 4, 20, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &domain.Announcement{ID: "ann-1", Title: "Old", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &domain.Announcement{ID: "ann-2", Title: "New", CreatedAt: base.Add(24 * time.Hour)}))
	require.ErrorIs(t, repo.Create(ctx, &domain.Announcement{ID: "ann-1"}), ErrDuplicate)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "ann-2", list[0].ID)

	require.NoError(t, repo.Delete(ctx, "ann-1"))
	require.ErrorIs(t, repo.Delete(ctx, "ann-1"), ErrNotFound)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
