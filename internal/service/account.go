// Package service provides account business logic,
// delegating persistence to an AccountRepository.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vpetrov/accountsvc/internal/models"
	"go.uber.org/zap"
)

// minPasswordLength is the minimum number of characters a password must
// have after trimming surrounding whitespace.
const minPasswordLength = 4

// AccountRepository defines the persistence operations
// required by the account service.
type AccountRepository interface {
	// GetByID returns the account with the given identifier, or nil if absent.
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	// GetAll returns every account in storage order.
	GetAll(ctx context.Context) ([]models.Account, error)
	// FindByUsername returns the account with the given username, or nil if absent.
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	// ValidateLogin returns the account matching both credentials exactly,
	// or nil when either is wrong.
	ValidateLogin(ctx context.Context, username, password string) (*models.Account, error)
	// Insert persists a new account and returns it with the assigned
	// identifier. A username conflict is reported as models.ErrDuplicateUsername.
	Insert(ctx context.Context, account models.Account) (*models.Account, error)
	// Update replaces the record matching the account's identifier,
	// reporting whether a row was updated.
	Update(ctx context.Context, account models.Account) (bool, error)
	// Delete removes the record matching the account's identifier,
	// reporting whether a row was removed.
	Delete(ctx context.Context, account models.Account) (bool, error)
	// UsernameExists returns true if an account with the given username exists.
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// Service implements account management operations by delegating
// to an AccountRepository. It holds no state of its own; all durable
// state lives in the repository.
type Service struct {
	// repo performs the data-layer operations.
	repo AccountRepository
	// log is the diagnostic side channel; it never affects results.
	log *zap.Logger
}

// NewAccountService constructs a new Service using the provided repository.
// A nil logger disables logging.
func NewAccountService(repo AccountRepository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log}
}

// GetAccountByID fetches an account by its identifier.
// It returns nil without error when no account matches.
func (s *Service) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	s.log.Info("retrieving account", zap.Int64("id", id))
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure("error while retrieving account", err)
	}
	s.log.Info("account retrieved", zap.Bool("found", account != nil))
	return account, nil
}

// GetAllAccounts retrieves all accounts in storage order.
func (s *Service) GetAllAccounts(ctx context.Context) ([]models.Account, error) {
	s.log.Info("retrieving all accounts")
	accounts, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, storeFailure("error while fetching all accounts", err)
	}
	s.log.Info("accounts retrieved", zap.Int("count", len(accounts)))
	return accounts, nil
}

// FindAccountByUsername searches for an account by username.
// It returns nil without error when no account matches.
func (s *Service) FindAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	s.log.Info("searching for account", zap.String("username", username))
	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, storeFailure("error while searching account by username", err)
	}
	s.log.Info("account search finished", zap.Bool("found", account != nil))
	return account, nil
}

// ValidateLogin checks the account's credentials against the store.
// It returns the persisted record when username and password match
// exactly, and nil otherwise. A wrong password and an unknown username
// are indistinguishable to the caller.
func (s *Service) ValidateLogin(ctx context.Context, account models.Account) (*models.Account, error) {
	s.log.Info("validating login", zap.String("username", account.Username))
	validated, err := s.repo.ValidateLogin(ctx, account.Username, account.Password)
	if err != nil {
		return nil, storeFailure("error during login validation", err)
	}
	s.log.Info("login validation finished", zap.Bool("success", validated != nil))
	return validated, nil
}

// CreateAccount validates and persists a new account, returning the
// record with its assigned identifier.
//
// Validation: the trimmed username must be non-empty, the trimmed
// password must be non-empty and at least minPasswordLength characters,
// and the username must not already exist. The existence probe is only
// a fast-path rejection; the store's unique constraint supplies the
// actual guarantee, and a conflicting concurrent insert surfaces as the
// same duplicate-username failure.
func (s *Service) CreateAccount(ctx context.Context, account models.Account) (*models.Account, error) {
	s.log.Info("creating new account", zap.String("username", account.Username))

	username := strings.TrimSpace(account.Username)
	password := strings.TrimSpace(account.Password)

	if username == "" {
		return nil, ruleViolation("username cannot be empty")
	}
	if password == "" {
		return nil, ruleViolation("password cannot be empty")
	}
	if len(password) < minPasswordLength {
		return nil, ruleViolation(fmt.Sprintf("password must have at least %d characters", minPasswordLength))
	}

	exists, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, storeFailure("error during account validation", err)
	}
	if exists {
		return nil, &ServiceError{Cause: models.ErrDuplicateUsername}
	}

	created, err := s.repo.Insert(ctx, account)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateUsername) {
			return nil, &ServiceError{Cause: models.ErrDuplicateUsername}
		}
		return nil, storeFailure("error while creating account", err)
	}
	s.log.Info("account created", zap.Int64("id", created.ID))
	return created, nil
}

// UpdateAccount replaces the stored record matching the account's
// identifier, reporting whether an update happened.
func (s *Service) UpdateAccount(ctx context.Context, account models.Account) (bool, error) {
	s.log.Info("updating account", zap.Int64("id", account.ID))
	updated, err := s.repo.Update(ctx, account)
	if err != nil {
		return false, storeFailure("error while updating account", err)
	}
	s.log.Info("account update finished", zap.Bool("success", updated))
	return updated, nil
}

// DeleteAccount removes the stored record matching the account's
// identifier, reporting whether a removal happened. An account with a
// zero identifier fails with ErrInvalidArgument before any store call.
func (s *Service) DeleteAccount(ctx context.Context, account models.Account) (bool, error) {
	s.log.Info("deleting account", zap.Int64("id", account.ID))
	if account.ID == 0 {
		return false, fmt.Errorf("%w: account ID must be specified", ErrInvalidArgument)
	}
	deleted, err := s.repo.Delete(ctx, account)
	if err != nil {
		return false, storeFailure("error while deleting account", err)
	}
	s.log.Info("account delete finished", zap.Bool("success", deleted))
	return deleted, nil
}

// AccountExists checks whether an account with the given identifier exists.
func (s *Service) AccountExists(ctx context.Context, id int64) (bool, error) {
	s.log.Info("checking account existence", zap.Int64("id", id))
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, storeFailure("error while checking account existence", err)
	}
	return account != nil, nil
}
