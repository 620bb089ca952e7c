package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campus-kit/helpdesk/internal/domain"
	"github.com/campus-kit/helpdesk/internal/events"
	"github.com/campus-kit/helpdesk/internal/repository"
	"github.com/campus-kit/helpdesk/internal/storage"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

type chatFixture struct {
	requests *RequestService
	chat     *ChatService
	clock    *testClock
	rec      *recorder
}

func newChatFixture(t *testing.T) chatFixture {
	t.Helper()
	requests, _, clock, rec := newRequestService(t)
	files, err := storage.NewDiskStore(t.TempDir(), "/attachments", 1024)
	require.NoError(t, err)

	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventChatMessagePosted, rec.handle)
	chat := NewChatService(ChatDependencies{
		MessageRepo: repository.NewMemoryChatRepository(),
		Requests:    requests,
		Files:       files,
		Dispatcher:  dispatcher,
		Clock:       clock.Now,
	})
	return chatFixture{requests: requests, chat: chat, clock: clock, rec: rec}
}

func studentMessage(requestID, text string) PostMessageInput {
	return PostMessageInput{
		RequestID:  requestID,
		SenderID:   "student1",
		SenderName: "John Smith",
		SenderRole: domain.SenderRoleStudent,
		Message:    text,
	}
}

func TestListMessagesUnknownRequestIsEmpty(t *testing.T) {
	f := newChatFixture(t)
	msgs, err := f.chat.ListMessages(context.Background(), "req-missing")
	require.NoError(t, err)
	require.NotNil(t, msgs)
	require.Empty(t, msgs)
}

func TestPostMessageKeepsAppendOrder(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	req, err := f.requests.Create(ctx, validInput())
	require.NoError(t, err)

	for _, text := range []string{"first", "second", "third"} {
		f.clock.Advance(time.Minute)
		msg, err := f.chat.PostMessage(ctx, studentMessage(req.ID, text))
		require.NoError(t, err)
		require.Equal(t, f.clock.Now(), msg.Timestamp)
		require.False(t, msg.Read)
	}

	msgs, err := f.chat.ListMessages(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	require.Equal(t, "first", msgs[0].Message)
	require.Equal(t, "third", msgs[2].Message)
	require.Contains(t, f.rec.types(), events.EventChatMessagePosted)
}

func TestPostMessageErrors(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.chat.PostMessage(ctx, studentMessage("req-missing", "hello"))
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	req, err := f.requests.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = f.chat.PostMessage(ctx, studentMessage(req.ID, "   "))
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	bad := studentMessage(req.ID, "hello")
	bad.SenderRole = "system"
	_, err = f.chat.PostMessage(ctx, bad)
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	attachmentOnly := studentMessage(req.ID, "")
	attachmentOnly.Attachments = []string{"/attachments/x.png"}
	_, err = f.chat.PostMessage(ctx, attachmentOnly)
	require.NoError(t, err)
}

func TestChatLockedOnClosedRequest(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	req, err := f.requests.Create(ctx, validInput())
	require.NoError(t, err)
	_, err = f.chat.PostMessage(ctx, studentMessage(req.ID, "before close"))
	require.NoError(t, err)

	_, err = f.requests.UpdateStatus(ctx, req.ID, domain.RequestStatusClosed, "done", "Jane")
	require.NoError(t, err)

	_, err = f.chat.PostMessage(ctx, studentMessage(req.ID, "after close"))
	require.True(t, apperrors.HasCode(err, apperrors.CodeRequestClosed))

	_, err = f.chat.AttachFile(ctx, req.ID, "photo.png", strings.NewReader("data"))
	require.True(t, apperrors.HasCode(err, apperrors.CodeRequestClosed))

	msgs, err := f.chat.ListMessages(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}

func TestAttachFile(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	req, err := f.requests.Create(ctx, validInput())
	require.NoError(t, err)

	url, err := f.chat.AttachFile(ctx, req.ID, "notes.txt", strings.NewReader("hello there"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/attachments/"+req.ID+"/"), url)

	_, err = f.chat.AttachFile(ctx, req.ID, "empty.txt", strings.NewReader(""))
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = f.chat.AttachFile(ctx, req.ID, "big.bin", bytes.NewReader(make([]byte, 2048)))
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestMarkReadIsIdempotent(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	req, err := f.requests.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = f.chat.PostMessage(ctx, studentMessage(req.ID, "hi"))
	require.NoError(t, err)
	staffMsg := PostMessageInput{RequestID: req.ID, SenderID: "staff1", SenderName: "Jane", SenderRole: domain.SenderRoleStaff, Message: "on it"}
	_, err = f.chat.PostMessage(ctx, staffMsg)
	require.NoError(t, err)

	changed, err := f.chat.MarkRead(ctx, req.ID, domain.SenderRoleStudent)
	require.NoError(t, err)
	require.Equal(t, 1, changed)

	first, err := f.chat.ListMessages(ctx, req.ID)
	require.NoError(t, err)

	changed, err = f.chat.MarkRead(ctx, req.ID, domain.SenderRoleStudent)
	require.NoError(t, err)
	require.Zero(t, changed)

	second, err := f.chat.ListMessages(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.False(t, second[0].Read)
	require.True(t, second[1].Read)

	_, err = f.chat.MarkRead(ctx, req.ID, "robot")
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestEndToEndScenario(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	req, err := f.requests.Create(ctx, CreateRequestInput{
		RequesterID: "student1",
		Type:        domain.RequestTypeIT,
		Description: "Cannot reach campus wifi",
		Priority:    domain.RequestPriorityHigh,
	})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	_, err = f.requests.UpdateStatus(ctx, req.ID, domain.RequestStatusInProgress, "checking", "Jane")
	require.NoError(t, err)
	_, err = f.chat.PostMessage(ctx, studentMessage(req.ID, "any news?"))
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	_, err = f.requests.UpdateStatus(ctx, req.ID, domain.RequestStatusResolved, "router replaced", "Jane")
	require.NoError(t, err)
	_, err = f.requests.SubmitFeedback(ctx, req.ID, 4, "thanks")
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	_, err = f.requests.UpdateStatus(ctx, req.ID, domain.RequestStatusClosed, "closing", "Jane")
	require.NoError(t, err)
	_, err = f.chat.PostMessage(ctx, studentMessage(req.ID, "one more thing"))
	require.True(t, apperrors.HasCode(err, apperrors.CodeRequestClosed))

	f.clock.Advance(24 * time.Hour)
	reopened, err := f.requests.Reopen(ctx, req.ID, "it broke again", "student1")
	require.NoError(t, err)
	require.Equal(t, domain.RequestStatusOpen, reopened.Status)
	require.Len(t, reopened.StatusUpdates, 5)
	require.Equal(t, 4, *reopened.Rating)

	_, err = f.chat.PostMessage(ctx, studentMessage(req.ID, "one more thing"))
	require.NoError(t, err)
	msgs, err := f.chat.ListMessages(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
}
