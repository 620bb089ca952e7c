package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-kit/helpdesk/internal/domain"
)

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed account directory.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, name, email, password_hash, role, department, student_id, contact_info, phone`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (` + accountColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Name,
		normalizeEmail(account.Email),
		account.PasswordHash,
		string(account.Role),
		account.Department,
		account.StudentID,
		account.ContactInfo,
		account.Phone,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE email=$1`
	return scanAccount(r.pool.QueryRow(ctx, query, normalizeEmail(email)))
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id=$1`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE accounts SET name=$2, email=$3, password_hash=$4, role=$5, department=$6,
            student_id=$7, contact_info=$8, phone=$9
        WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Name,
		normalizeEmail(account.Email),
		account.PasswordHash,
		string(account.Role),
		account.Department,
		account.StudentID,
		account.ContactInfo,
		account.Phone,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account domain.Account
		role    string
	)
	if err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&role,
		&account.Department,
		&account.StudentID,
		&account.ContactInfo,
		&account.Phone,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	account.Role = domain.AccountRole(role)
	return &account, nil
}
