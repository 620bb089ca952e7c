package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/campus-kit/helpdesk/internal/events"
	"github.com/campus-kit/helpdesk/internal/repository"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

// Clock returns the evaluation instant; tests pin it.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}

// keyedMutex serializes mutations per request id.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedEntry)}
}

// Lock acquires the mutex for key and returns its release func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyedEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func newID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// mapRepoError turns repository sentinels into domain errors.
func mapRepoError(err error, resource, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewDomainError("CONFLICT", resource+" already exists", 409, map[string]any{"id": id})
	default:
		return apperrors.NewInternalError(err)
	}
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, clock Clock, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = clock.now()
	}
	_ = dispatcher.Publish(ctx, event)
}

// stringPreview shortens body to at most max runes, ending with "..." when
// it was cut.
func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) <= max {
		return body
	}
	if max <= 3 {
		return truncateRunes(body, max)
	}
	return truncateRunes(body, max-3) + "..."
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
