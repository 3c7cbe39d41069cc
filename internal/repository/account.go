// Package repository provides persistence implementations for the account
// service using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/vpetrov/accountsvc/internal/models"
)

// uniqueViolation is the PostgreSQL error code raised when an insert
// conflicts with a unique constraint.
const uniqueViolation = pq.ErrorCode("23505")

// PostgresAccountRepository implements account storage operations against
// a PostgreSQL database.
type PostgresAccountRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAccountRepository creates a new PostgresAccountRepository with
// the given database connection. db must be a valid *sql.DB connected to a
// PostgreSQL instance.
func NewPostgresAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{DB: db}
}

// GetByID fetches the account with the given identifier.
// A missing row is not an error: it returns (nil, nil).
func (r *PostgresAccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	var acc models.Account
	err := r.DB.QueryRowContext(ctx,
		`SELECT account_id, username, password FROM accounts WHERE account_id = $1`,
		id,
	).Scan(&acc.ID, &acc.Username, &acc.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return &acc, nil
}

// GetAll fetches every account in storage order.
func (r *PostgresAccountRepository) GetAll(ctx context.Context) ([]models.Account, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT account_id, username, password FROM accounts`,
	)
	if err != nil {
		return nil, fmt.Errorf("GetAll: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var acc models.Account
		if err := rows.Scan(&acc.ID, &acc.Username, &acc.Password); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// FindByUsername fetches the account with the given username, matching
// exactly and case-sensitively. A missing row returns (nil, nil).
func (r *PostgresAccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	var acc models.Account
	err := r.DB.QueryRowContext(ctx,
		`SELECT account_id, username, password FROM accounts WHERE username = $1`,
		username,
	).Scan(&acc.ID, &acc.Username, &acc.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByUsername: %w", err)
	}
	return &acc, nil
}

// ValidateLogin fetches the account matching both username and password
// exactly. Wrong password and unknown username both return (nil, nil).
func (r *PostgresAccountRepository) ValidateLogin(ctx context.Context, username, password string) (*models.Account, error) {
	var acc models.Account
	err := r.DB.QueryRowContext(ctx,
		`SELECT account_id, username, password FROM accounts WHERE username = $1 AND password = $2`,
		username, password,
	).Scan(&acc.ID, &acc.Username, &acc.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ValidateLogin: %w", err)
	}
	return &acc, nil
}

// Insert persists a new account and returns it with the assigned
// identifier. A unique-constraint conflict on the username is reported
// as models.ErrDuplicateUsername so callers need not inspect driver
// error codes.
func (r *PostgresAccountRepository) Insert(ctx context.Context, account models.Account) (*models.Account, error) {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO accounts (username, password) VALUES ($1, $2) RETURNING account_id`,
		account.Username, account.Password,
	).Scan(&account.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, models.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("Insert: %w", err)
	}
	return &account, nil
}

// Update replaces the stored record whose identifier matches the given
// account. It returns true if a row was updated.
func (r *PostgresAccountRepository) Update(ctx context.Context, account models.Account) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE accounts SET username = $1, password = $2 WHERE account_id = $3`,
		account.Username, account.Password, account.ID,
	)
	if err != nil {
		return false, fmt.Errorf("Update: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Update rows affected: %w", err)
	}
	return rows > 0, nil
}

// Delete removes the stored record whose identifier matches the given
// account. It returns true if a row was removed.
func (r *PostgresAccountRepository) Delete(ctx context.Context, account models.Account) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM accounts WHERE account_id = $1`,
		account.ID,
	)
	if err != nil {
		return false, fmt.Errorf("Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Delete rows affected: %w", err)
	}
	return rows > 0, nil
}

// UsernameExists checks whether an account with the specified username
// exists in the database.
func (r *PostgresAccountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE username = $1)`,
		username,
	).Scan(&exists)
	return exists, err
}
