package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpetrov/accountsvc/internal/models"
	"github.com/vpetrov/accountsvc/internal/service"
	"go.uber.org/zap"
)

// fakeAccountService implements AccountService for testing.
type fakeAccountService struct {
	account    *models.Account
	accounts   []models.Account
	updated    bool
	deleted    bool
	exists     bool
	err        error
	deletedArg models.Account
}

func (f *fakeAccountService) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	return f.account, f.err
}

func (f *fakeAccountService) GetAllAccounts(ctx context.Context) ([]models.Account, error) {
	return f.accounts, f.err
}

func (f *fakeAccountService) FindAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	return f.account, f.err
}

func (f *fakeAccountService) ValidateLogin(ctx context.Context, account models.Account) (*models.Account, error) {
	return f.account, f.err
}

func (f *fakeAccountService) CreateAccount(ctx context.Context, account models.Account) (*models.Account, error) {
	return f.account, f.err
}

func (f *fakeAccountService) UpdateAccount(ctx context.Context, account models.Account) (bool, error) {
	return f.updated, f.err
}

func (f *fakeAccountService) DeleteAccount(ctx context.Context, account models.Account) (bool, error) {
	f.deletedArg = account
	return f.deleted, f.err
}

func (f *fakeAccountService) AccountExists(ctx context.Context, id int64) (bool, error) {
	return f.exists, f.err
}

func newTestRouter(svc AccountService) http.Handler {
	return NewRouter(&AccountHandler{AccountService: svc}, zap.NewNop())
}

func doJSON(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body == "" {
		buf = bytes.NewBuffer(nil)
	} else {
		buf = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, buf)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAccountHandler_Create(t *testing.T) {
	created := &models.Account{ID: 1, Username: "alice", Password: "pass1"}

	tests := []struct {
		name         string
		body         string
		service      *fakeAccountService
		expectedCode int
	}{
		{
			name:         "invalid JSON",
			body:         `not a json`,
			service:      &fakeAccountService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing username",
			body:         `{"password":"pass1"}`,
			service:      &fakeAccountService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing password",
			body:         `{"username":"alice"}`,
			service:      &fakeAccountService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "rule violation",
			body:         `{"username":"alice","password":"abc"}`,
			service:      &fakeAccountService{err: &service.ServiceError{Msg: "password must have at least 4 characters"}},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "duplicate username",
			body:         `{"username":"alice","password":"pass1"}`,
			service:      &fakeAccountService{err: &service.ServiceError{Cause: models.ErrDuplicateUsername}},
			expectedCode: http.StatusConflict,
		},
		{
			name:         "store failure",
			body:         `{"username":"alice","password":"pass1"}`,
			service:      &fakeAccountService{err: &service.ServiceError{Msg: "error while creating account", Cause: errors.New("db error")}},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "created",
			body:         `{"username":"alice","password":"pass1"}`,
			service:      &fakeAccountService{account: created},
			expectedCode: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, newTestRouter(tt.service), "POST", "/api/accounts", tt.body)
			assert.Equal(t, tt.expectedCode, rec.Code)

			if tt.expectedCode == http.StatusCreated {
				var got models.Account
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, *created, got)
			}
		})
	}
}

func TestAccountHandler_Create_NeverLeaksStoreError(t *testing.T) {
	svc := &fakeAccountService{err: &service.ServiceError{
		Msg:   "error while creating account",
		Cause: errors.New("pq: connection refused on 10.0.0.5"),
	}}

	rec := doJSON(t, newTestRouter(svc), "POST", "/api/accounts", `{"username":"alice","password":"pass1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestAccountHandler_List(t *testing.T) {
	stored := []models.Account{
		{ID: 1, Username: "alice", Password: "pass1"},
		{ID: 2, Username: "bob", Password: "hunter2"},
	}
	rec := doJSON(t, newTestRouter(&fakeAccountService{accounts: stored}), "GET", "/api/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.Account
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, stored, got)
}

func TestAccountHandler_List_Empty(t *testing.T) {
	rec := doJSON(t, newTestRouter(&fakeAccountService{}), "GET", "/api/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAccountHandler_GetByID(t *testing.T) {
	stored := &models.Account{ID: 7, Username: "carol", Password: "secret"}

	tests := []struct {
		name         string
		target       string
		service      *fakeAccountService
		expectedCode int
	}{
		{"found", "/api/accounts/7", &fakeAccountService{account: stored}, http.StatusOK},
		{"not found", "/api/accounts/99", &fakeAccountService{}, http.StatusNotFound},
		{"bad ID", "/api/accounts/abc", &fakeAccountService{}, http.StatusBadRequest},
		{"store failure", "/api/accounts/7", &fakeAccountService{err: &service.ServiceError{Msg: "error while retrieving account", Cause: errors.New("db error")}}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, newTestRouter(tt.service), "GET", tt.target, "")
			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

func TestAccountHandler_GetByUsername(t *testing.T) {
	stored := &models.Account{ID: 7, Username: "carol", Password: "secret"}

	rec := doJSON(t, newTestRouter(&fakeAccountService{account: stored}), "GET", "/api/accounts/username/carol", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Account
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, *stored, got)

	rec = doJSON(t, newTestRouter(&fakeAccountService{}), "GET", "/api/accounts/username/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountHandler_Update(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		body         string
		service      *fakeAccountService
		expectedCode int
	}{
		{"updated", "/api/accounts/5", `{"username":"frank","password":"newpass"}`, &fakeAccountService{updated: true}, http.StatusOK},
		{"not found", "/api/accounts/99", `{"username":"frank","password":"newpass"}`, &fakeAccountService{}, http.StatusNotFound},
		{"bad ID", "/api/accounts/abc", `{"username":"frank","password":"newpass"}`, &fakeAccountService{}, http.StatusBadRequest},
		{"invalid JSON", "/api/accounts/5", `not a json`, &fakeAccountService{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, newTestRouter(tt.service), "PUT", tt.target, tt.body)
			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		service      *fakeAccountService
		expectedCode int
	}{
		{"deleted", "/api/accounts/6", &fakeAccountService{deleted: true}, http.StatusNoContent},
		{"not found", "/api/accounts/99", &fakeAccountService{}, http.StatusNotFound},
		{"bad ID", "/api/accounts/abc", &fakeAccountService{}, http.StatusBadRequest},
		{"zero ID", "/api/accounts/0", &fakeAccountService{err: fmt.Errorf("%w: account ID must be specified", service.ErrInvalidArgument)}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, newTestRouter(tt.service), "DELETE", tt.target, "")
			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

func TestAccountHandler_Delete_PassesID(t *testing.T) {
	svc := &fakeAccountService{deleted: true}
	rec := doJSON(t, newTestRouter(svc), "DELETE", "/api/accounts/42", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(42), svc.deletedArg.ID)
}

func TestAccountHandler_Login(t *testing.T) {
	stored := &models.Account{ID: 4, Username: "dave", Password: "pass1"}

	tests := []struct {
		name         string
		body         string
		service      *fakeAccountService
		expectedCode int
	}{
		{"invalid JSON", `not a json`, &fakeAccountService{}, http.StatusBadRequest},
		{"missing password", `{"username":"dave"}`, &fakeAccountService{}, http.StatusBadRequest},
		{"wrong credentials", `{"username":"dave","password":"wrong"}`, &fakeAccountService{}, http.StatusUnauthorized},
		{"unknown username", `{"username":"ghost","password":"pass1"}`, &fakeAccountService{}, http.StatusUnauthorized},
		{"store failure", `{"username":"dave","password":"pass1"}`, &fakeAccountService{err: &service.ServiceError{Msg: "error during login validation", Cause: errors.New("db error")}}, http.StatusInternalServerError},
		{"valid credentials", `{"username":"dave","password":"pass1"}`, &fakeAccountService{account: stored}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, newTestRouter(tt.service), "POST", "/api/login", tt.body)
			assert.Equal(t, tt.expectedCode, rec.Code)

			if tt.expectedCode == http.StatusOK {
				var got models.Account
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, *stored, got)
			}
		})
	}
}

func TestRouter_RejectsNonJSONContentType(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/login", bytes.NewBufferString("username=dave"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	newTestRouter(&fakeAccountService{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
