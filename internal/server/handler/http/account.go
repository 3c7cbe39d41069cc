// Package http provides HTTP handlers for account management,
// including registration, login, lookup, update, and deletion.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/vpetrov/accountsvc/internal/models"
	"github.com/vpetrov/accountsvc/internal/service"
)

// validate checks request payload shape before the service applies its
// business rules.
var validate = validator.New()

// AccountService defines the interface for account operations
// required by the HTTP handlers.
type AccountService interface {
	// GetAccountByID returns the account with the given identifier, or nil if absent.
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)
	// GetAllAccounts returns every account.
	GetAllAccounts(ctx context.Context) ([]models.Account, error)
	// FindAccountByUsername returns the account with the given username, or nil if absent.
	FindAccountByUsername(ctx context.Context, username string) (*models.Account, error)
	// ValidateLogin returns the persisted record when the credentials match exactly.
	ValidateLogin(ctx context.Context, account models.Account) (*models.Account, error)
	// CreateAccount validates and persists a new account.
	CreateAccount(ctx context.Context, account models.Account) (*models.Account, error)
	// UpdateAccount replaces the record matching the account's identifier.
	UpdateAccount(ctx context.Context, account models.Account) (bool, error)
	// DeleteAccount removes the record matching the account's identifier.
	DeleteAccount(ctx context.Context, account models.Account) (bool, error)
	// AccountExists reports whether an account with the given identifier exists.
	AccountExists(ctx context.Context, id int64) (bool, error)
}

// AccountHandler handles HTTP requests for account management.
type AccountHandler struct {
	// AccountService performs the underlying account operations.
	AccountService AccountService
}

// credentialsRequest represents the JSON payload carrying a username
// and password, used for registration and login.
type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps a service failure to an HTTP status.
// Store error details are never leaked to the client.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		http.Error(w, "invalid request", http.StatusBadRequest)
	case errors.Is(err, models.ErrDuplicateUsername):
		http.Error(w, "username already exists", http.StatusConflict)
	default:
		var svcErr *service.ServiceError
		if errors.As(err, &svcErr) && svcErr.Cause == nil {
			http.Error(w, svcErr.Msg, http.StatusBadRequest)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// parseID extracts the numeric account identifier from the URL.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// Create handles account registration requests.
// It expects a JSON body with "username" and "password" fields and
// responds with the persisted account, including its assigned identifier.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	created, err := h.AccountService.CreateAccount(r.Context(), models.Account{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List returns all accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.AccountService.GetAllAccounts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

// GetByID returns a single account by its identifier, or 404 if absent.
func (h *AccountHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid account ID", http.StatusBadRequest)
		return
	}

	account, err := h.AccountService.GetAccountByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if account == nil {
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// GetByUsername returns a single account by its username, or 404 if absent.
func (h *AccountHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	account, err := h.AccountService.FindAccountByUsername(r.Context(), username)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if account == nil {
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// Update replaces the account with the identifier from the URL,
// responding 404 when no stored record matches.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid account ID", http.StatusBadRequest)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	account := models.Account{ID: id, Username: req.Username, Password: req.Password}
	updated, err := h.AccountService.UpdateAccount(r.Context(), account)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !updated {
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// Delete removes the account with the identifier from the URL,
// responding 404 when no stored record matches.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid account ID", http.StatusBadRequest)
		return
	}

	deleted, err := h.AccountService.DeleteAccount(r.Context(), models.Account{ID: id})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Login validates the submitted credentials and responds with the
// persisted account on success. A wrong password and an unknown
// username both yield the same 401 response.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	account, err := h.AccountService.ValidateLogin(r.Context(), models.Account{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if account == nil {
		http.Error(w, "invalid username or password", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, account)
}
