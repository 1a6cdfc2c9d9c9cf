package main

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/memory"
	"github.com/xavierca1/ligue-crm/internal/infra/secrets"
	"github.com/xavierca1/ligue-crm/internal/infra/token"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logrus.New()
	log.Out = io.Discard

	store := memory.NewStore()
	hasher := secrets.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, memory.Seed(store, hasher.Hash))
	tokens := token.NewService("test-key", "ligue-crm", time.Hour)

	srv := httptest.NewServer(handlers.NewRouter(handlers.RouterConfig{
		Customers:    usecase.NewCustomerUseCase(store, nil, log),
		Leads:        usecase.NewLeadUseCase(store, nil, log),
		Auth:         usecase.NewAuthUseCase(store, hasher, tokens, nil, log),
		Tokens:       tokens,
		Log:          log,
		LoginLimiter: handlers.NewRateLimiter(100, time.Minute),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"crmctl", "--url", url}, args...))
	return out.String(), err
}

func TestDashboard(t *testing.T) {
	out, err := run(t, newServer(t).URL, "dashboard")
	require.NoError(t, err)
	assert.Regexp(t, `customers\s+3 of 3`, out)
	assert.Contains(t, out, "220000.00")
}

func TestCustomerCommands(t *testing.T) {
	url := newServer(t).URL

	out, err := run(t, url, "customers", "create", "--name", "Initech", "--email", "hi@initech.com", "--phone", "5550199")
	require.NoError(t, err)
	assert.Contains(t, out, "created customer 4")

	out, err = run(t, url, "customers", "list", "--search", "initech")
	require.NoError(t, err)
	assert.Contains(t, out, "hi@initech.com")
	assert.Contains(t, out, "1 customers in total")

	out, err = run(t, url, "customers", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Website Redesign Project")
	assert.Contains(t, out, "E-commerce Platform")

	_, err = run(t, url, "customers", "delete", "1")
	require.NoError(t, err)

	out, err = run(t, url, "leads", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "3 leads in total")
}

func TestLeadCommands(t *testing.T) {
	url := newServer(t).URL

	out, err := run(t, url, "leads", "list", "--status", "Converted")
	require.NoError(t, err)
	assert.Contains(t, out, "Cloud Migration Services")
	assert.Contains(t, out, "1 leads in total")

	_, err = run(t, url, "leads", "list", "--status", "Won")
	assert.ErrorContains(t, err, "unknown status")

	out, err = run(t, url, "leads", "status", "5", "Contacted")
	require.NoError(t, err)
	assert.Contains(t, out, "lead 5 is now Contacted")

	_, err = run(t, url, "leads", "create", "--title", "ok", "--description", "short", "--customer", "1")
	assert.Error(t, err)
}

func TestLoginFailure(t *testing.T) {
	_, err := run(t, newServer(t).URL, "--password", "wrong", "dashboard")
	assert.ErrorContains(t, err, "Invalid email or password")
}
