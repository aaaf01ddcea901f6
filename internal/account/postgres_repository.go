package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/account-api/internal/database"
)

const pgUniqueViolation = "23505"

// PostgresStore handles account persistence in PostgreSQL via bun
type PostgresStore struct {
	db      *bun.DB
	timeout time.Duration
}

func NewPostgresStore(db *bun.DB, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, timeout: timeout}
}

func (r *PostgresStore) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// FindByEmail retrieves an account by email
func (r *PostgresStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := new(database.Account)
	err := r.db.NewSelect().
		Model(row).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by email: %w: %w", ErrUnavailable, err)
	}

	return mapRowToAccount(row), nil
}

// FindByID retrieves an account by ID
func (r *PostgresStore) FindByID(ctx context.Context, id string) (*Account, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := new(database.Account)
	err = r.db.NewSelect().
		Model(row).
		Where("id = ?", uid).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by id: %w: %w", ErrUnavailable, err)
	}

	return mapRowToAccount(row), nil
}

// Insert creates a new account row; id and timestamps come from the database
func (r *PostgresStore) Insert(ctx context.Context, a *Account) (*Account, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := &database.Account{
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
	}

	_, err := r.db.NewInsert().
		Model(row).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create account: %w: %w", ErrUnavailable, err)
	}

	return mapRowToAccount(row), nil
}

// UpdateFields writes the non-nil fields of u and bumps updated_at
func (r *PostgresStore) UpdateFields(ctx context.Context, id string, u Update) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}
	if u.IsEmpty() {
		return nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	q := r.db.NewUpdate().Model((*database.Account)(nil))
	if u.Name != nil {
		q = q.Set("name = ?", *u.Name)
	}
	if u.PasswordHash != nil {
		q = q.Set("password_hash = ?", *u.PasswordHash)
	}

	result, err := q.
		Set("updated_at = NOW()").
		Where("id = ?", uid).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update account: %w: %w", ErrUnavailable, err)
	}

	return expectOneRow(result)
}

// DeleteByID removes an account
func (r *PostgresStore) DeleteByID(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.db.NewDelete().
		Model((*database.Account)(nil)).
		Where("id = ?", uid).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete account: %w: %w", ErrUnavailable, err)
	}

	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}

// mapRowToAccount converts database model to domain model
func mapRowToAccount(row *database.Account) *Account {
	return &Account{
		ID:           row.ID.String(),
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

// withTimeout bounds a single store call. A zero timeout leaves ctx as is.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
