package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-kit/helpdesk/internal/domain"
)

// RequestFilter narrows a listing; nil fields match everything.
type RequestFilter struct {
	RequesterID *string
	Type        *domain.RequestType
	Status      *domain.RequestStatus
	Priority    *domain.RequestPriority
}

// Matches reports whether req passes the filter.
func (f RequestFilter) Matches(req *domain.Request) bool {
	if f.RequesterID != nil && req.RequesterID != *f.RequesterID {
		return false
	}
	if f.Type != nil && req.Type != *f.Type {
		return false
	}
	if f.Status != nil && req.Status != *f.Status {
		return false
	}
	if f.Priority != nil && req.Priority != *f.Priority {
		return false
	}
	return true
}

// RequestRepository is the system of record for helpdesk requests and their
// embedded status history. Implementations return copies; mutating a
// returned value never changes stored state.
type RequestRepository interface {
	List(ctx context.Context, filter RequestFilter) ([]domain.Request, error)
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	Create(ctx context.Context, req *domain.Request) error
	Update(ctx context.Context, req *domain.Request) error
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates the Postgres-backed repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

const requestColumns = `id, requester_id, requester_name, type, title, description, priority, status,
       department, supporting_documents, communication_preference, is_urgent, deadline,
       assigned_staff_id, assigned_staff_name, rating, feedback, created_at, updated_at`

func (r *requestRepository) Create(ctx context.Context, req *domain.Request) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO requests (` + requestColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`
	if _, err := tx.Exec(ctx, query, requestArgs(req)...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return err
	}
	if err := insertStatusUpdates(ctx, tx, req.ID, req.StatusUpdates); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *requestRepository) Update(ctx context.Context, req *domain.Request) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE requests SET requester_id=$2, requester_name=$3, type=$4, title=$5, description=$6,
            priority=$7, status=$8, department=$9, supporting_documents=$10, communication_preference=$11,
            is_urgent=$12, deadline=$13, assigned_staff_id=$14, assigned_staff_name=$15, rating=$16,
            feedback=$17, created_at=$18, updated_at=$19
        WHERE id=$1`
	cmd, err := tx.Exec(ctx, query, requestArgs(req)...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	// History is append-only: rows already stored keep their seq and are skipped.
	if err := insertStatusUpdates(ctx, tx, req.ID, req.StatusUpdates); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	requests, err := scanRequests(rows)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, ErrNotFound
	}
	if err := r.attachStatusUpdates(ctx, requests); err != nil {
		return nil, err
	}
	return &requests[0], nil
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]domain.Request, error) {
	where, args := buildRequestWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE %s ORDER BY created_at ASC, id ASC`, requestColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	requests, err := scanRequests(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachStatusUpdates(ctx, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func buildRequestWhere(filter RequestFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("requester_id=$%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		clauses = append(clauses, fmt.Sprintf("type=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, string(*filter.Priority))
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func (r *requestRepository) attachStatusUpdates(ctx context.Context, requests []domain.Request) error {
	if len(requests) == 0 {
		return nil
	}
	ids := make([]string, len(requests))
	index := make(map[string]int, len(requests))
	for i := range requests {
		ids[i] = requests[i].ID
		index[requests[i].ID] = i
	}

	const query = `
        SELECT id, request_id, status, comment, updated_by, updated_at
        FROM status_updates WHERE request_id = ANY($1) ORDER BY request_id, seq`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var update domain.StatusUpdate
		if err := rows.Scan(
			&update.ID,
			&update.RequestID,
			&update.Status,
			&update.Comment,
			&update.UpdatedBy,
			&update.UpdatedAt,
		); err != nil {
			return err
		}
		i := index[update.RequestID]
		requests[i].StatusUpdates = append(requests[i].StatusUpdates, update)
	}
	return rows.Err()
}

func insertStatusUpdates(ctx context.Context, tx pgx.Tx, requestID string, updates []domain.StatusUpdate) error {
	const query = `
        INSERT INTO status_updates (id, request_id, seq, status, comment, updated_by, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (request_id, seq) DO NOTHING`
	batch := &pgx.Batch{}
	for seq, update := range updates {
		batch.Queue(query, update.ID, requestID, seq, string(update.Status), update.Comment, update.UpdatedBy, update.UpdatedAt)
	}
	return tx.SendBatch(ctx, batch).Close()
}

func requestArgs(req *domain.Request) []any {
	documents := req.SupportingDocuments
	if documents == nil {
		documents = []string{}
	}
	return []any{
		req.ID,
		req.RequesterID,
		req.RequesterName,
		string(req.Type),
		req.Title,
		req.Description,
		string(req.Priority),
		string(req.Status),
		req.Department,
		documents,
		string(req.CommunicationPreference),
		req.IsUrgent,
		req.Deadline,
		req.AssignedStaffID,
		req.AssignedStaffName,
		req.Rating,
		req.Feedback,
		req.CreatedAt,
		req.UpdatedAt,
	}
}

func scanRequests(rows pgx.Rows) ([]domain.Request, error) {
	defer rows.Close()
	var result []domain.Request
	for rows.Next() {
		var req domain.Request
		if err := rows.Scan(
			&req.ID,
			&req.RequesterID,
			&req.RequesterName,
			&req.Type,
			&req.Title,
			&req.Description,
			&req.Priority,
			&req.Status,
			&req.Department,
			&req.SupportingDocuments,
			&req.CommunicationPreference,
			&req.IsUrgent,
			&req.Deadline,
			&req.AssignedStaffID,
			&req.AssignedStaffName,
			&req.Rating,
			&req.Feedback,
			&req.CreatedAt,
			&req.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}
