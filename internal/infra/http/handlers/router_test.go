package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/memory"
	"github.com/xavierca1/ligue-crm/internal/infra/secrets"
	"github.com/xavierca1/ligue-crm/internal/infra/token"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type apiFixture struct {
	t      *testing.T
	router http.Handler
	store  *memory.Store
}

func newAPIFixture(t *testing.T, opts ...func(*RouterConfig)) *apiFixture {
	t.Helper()
	log := quietLogger()

	store := memory.NewStore()
	hasher := secrets.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, memory.Seed(store, hasher.Hash))
	tokens := token.NewService("test-key", "ligue-crm", time.Hour)

	customers := usecase.NewCustomerUseCase(store, nil, log)
	leads := usecase.NewLeadUseCase(store, nil, log)
	auth := usecase.NewAuthUseCase(store, hasher, tokens, nil, log)

	cfg := RouterConfig{
		Customers:    customers,
		Leads:        leads,
		Auth:         auth,
		Users:        store,
		Tokens:       tokens,
		Health:       NewHealthHandler(store, nil, nil, "test"),
		Log:          log,
		LoginLimiter: NewRateLimiter(3, time.Minute),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &apiFixture{t: t, router: NewRouter(cfg), store: store}
}

func (f *apiFixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) login(email string) string {
	f.t.Helper()
	rec := f.do(http.MethodPost, "/auth/login", "", usecase.LoginInput{Email: email, Password: memory.DemoPassword})
	require.Equal(f.t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		User  entity.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(f.t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(f.t, res.Token)
	return res.Token
}

func TestRouterRequiresToken(t *testing.T) {
	f := newAPIFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/customers", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/leads", "bogus", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/metrics", "", nil).Code)
}

func TestRouterLoginFailures(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/auth/login", "", usecase.LoginInput{Email: "john@example.com", Password: "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"INVALID_CREDENTIALS","message":"Invalid email or password"}`, rec.Body.String())

	f.do(http.MethodPost, "/auth/login", "", usecase.LoginInput{Email: "john@example.com", Password: "wrongpass"})
	f.do(http.MethodPost, "/auth/login", "", usecase.LoginInput{Email: "john@example.com", Password: "wrongpass"})
	rec = f.do(http.MethodPost, "/auth/login", "", usecase.LoginInput{Email: "john@example.com", Password: "wrongpass"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRouterRegisterAndLogout(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/auth/register", "", usecase.RegisterInput{Name: "Sam Lee", Email: "sam@example.com", Password: "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res usecase.AuthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "3", res.User.ID)
	assert.Equal(t, entity.RoleUser, res.User.Role)
	assert.NotContains(t, rec.Body.String(), "secret1")

	rec = f.do(http.MethodPost, "/auth/register", "", usecase.RegisterInput{Name: "John", Email: "john@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/customers", res.Token, nil).Code)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPost, "/auth/logout", res.Token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/customers", res.Token, nil).Code)
}

func TestRouterCustomerLifecycleCascades(t *testing.T) {
	f := newAPIFixture(t)
	tok := f.login("john@example.com")

	rec := f.do(http.MethodGet, "/customers/1/leads", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var owned []entity.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &owned))
	assert.Len(t, owned, 2)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/customers/1", tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/customers/1", tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/customers/1", tok, nil).Code)

	rec = f.do(http.MethodGet, "/leads", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page entity.Page[entity.Lead]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 3, page.TotalCount)
	for _, l := range page.Data {
		assert.NotContains(t, []string{"1", "4"}, l.ID)
	}
}

func TestRouterLeadFilterAndCRUD(t *testing.T) {
	f := newAPIFixture(t)
	tok := f.login("jane@example.com")

	rec := f.do(http.MethodGet, "/leads?status=Converted", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page entity.Page[entity.Lead]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, 1, page.TotalCount)
	assert.Equal(t, "3", page.Data[0].ID)

	rec = f.do(http.MethodPost, "/leads", tok, entity.LeadInput{
		Title:       "Support Contract",
		Description: "Two year support and maintenance",
		Value:       18000,
		CustomerID:  "3",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created entity.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "6", created.ID)
	assert.Equal(t, entity.LeadStatusNew, created.Status)

	rec = f.do(http.MethodPut, "/leads/6", tok, map[string]any{"status": "Contacted"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated entity.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, entity.LeadStatusContacted, updated.Status)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	rec = f.do(http.MethodPut, "/leads/6", tok, map[string]any{"value": -5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/leads/6", tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/leads/6", tok, nil).Code)
}

func TestRouterValidationEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/auth/check-email", "", map[string]string{"email": "JOHN@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"DUPLICATE_EMAIL","message":"User with this email already exists"}`, rec.Body.String())

	rec = f.do(http.MethodPost, "/auth/check-email", "", map[string]string{"email": "new@example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, "/auth/check-email", "", map[string]string{"email": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	tok := f.login("jane@example.com")
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/validate/customer", "", entity.CustomerInput{}).Code)

	rec = f.do(http.MethodPost, "/validate/customer", tok, entity.CustomerInput{Name: "A", Email: "bad", Phone: "+15550101"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error  string `json:"error"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, usecase.CodeValidation, body.Error)
	assert.Len(t, body.Fields, 2)

	rec = f.do(http.MethodPost, "/validate/lead", tok, entity.LeadInput{Title: "Renewal", Description: "Annual renewal deal", Value: 10, CustomerID: "1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, f.store.Counts()["leads"], "validation never stores")
}

func TestRouterHugePageIsEmpty(t *testing.T) {
	f := newAPIFixture(t)
	tok := f.login("john@example.com")

	rec := f.do(http.MethodGet, "/customers?page=1000000000000000000", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var customers entity.Page[entity.Customer]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
	assert.NotNil(t, customers.Data)
	assert.Empty(t, customers.Data)
	assert.Equal(t, 3, customers.TotalCount)
	assert.Equal(t, 1, customers.TotalPages)

	rec = f.do(http.MethodGet, "/leads?page=9223372036854775807", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var leads entity.Page[entity.Lead]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leads))
	assert.Empty(t, leads.Data)
	assert.Equal(t, 5, leads.TotalCount)
}

func TestRouterLoginLimitIgnoresForwardedFor(t *testing.T) {
	f := newAPIFixture(t)
	wrong := usecase.LoginInput{Email: "john@example.com", Password: "wrongpass"}

	limited := 0
	for i := 0; i < 10; i++ {
		body, err := json.Marshal(wrong)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 7, limited)
}

func TestRouterTrustProxyKeysOnForwardedAddress(t *testing.T) {
	f := newAPIFixture(t, func(cfg *RouterConfig) { cfg.TrustProxy = true })
	wrong := usecase.LoginInput{Email: "john@example.com", Password: "wrongpass"}

	for i := 0; i < 5; i++ {
		body, err := json.Marshal(wrong)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}
