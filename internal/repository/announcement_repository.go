package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-kit/helpdesk/internal/domain"
)

// AnnouncementRepository persists broadcast notices.
type AnnouncementRepository interface {
	List(ctx context.Context) ([]domain.Announcement, error)
	Create(ctx context.Context, announcement *domain.Announcement) error
	Delete(ctx context.Context, id string) error
}

type announcementRepository struct {
	pool *pgxpool.Pool
}

// NewAnnouncementRepository constructs the Postgres-backed repository.
func NewAnnouncementRepository(pool *pgxpool.Pool) AnnouncementRepository {
	return &announcementRepository{pool: pool}
}

func (r *announcementRepository) List(ctx context.Context) ([]domain.Announcement, error) {
	const query = `
        SELECT id, title, content, important, created_at, created_by
        FROM announcements ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Announcement
	for rows.Next() {
		var a domain.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.Important, &a.CreatedAt, &a.CreatedBy); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *announcementRepository) Create(ctx context.Context, a *domain.Announcement) error {
	const query = `
        INSERT INTO announcements (id, title, content, important, created_at, created_by)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.pool.Exec(ctx, query, a.ID, a.Title, a.Content, a.Important, a.CreatedAt, a.CreatedBy)
	return err
}

func (r *announcementRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM announcements WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type memoryAnnouncementRepository struct {
	mu    sync.RWMutex
	items []domain.Announcement
}

// NewMemoryAnnouncementRepository returns a process-local announcement store.
func NewMemoryAnnouncementRepository() AnnouncementRepository {
	return &memoryAnnouncementRepository{}
}

func (r *memoryAnnouncementRepository) List(_ context.Context) ([]domain.Announcement, error) {
	r.mu.RLock()
	result := append([]domain.Announcement(nil), r.items...)
	r.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memoryAnnouncementRepository) Create(_ context.Context, a *domain.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.ID == a.ID {
			return ErrDuplicate
		}
	}
	r.items = append(r.items, *a)
	return nil
}

func (r *memoryAnnouncementRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.items {
		if existing.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
