package crmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// Client talks to the CRM REST API and attaches the session token to every request.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithHTTP is used by tests and callers that need their own transport.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	c := NewClient(baseURL)
	c.http = hc
	return c
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Login(ctx context.Context, in usecase.LoginInput) (usecase.AuthResult, error) {
	var res usecase.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &res); err != nil {
		return res, err
	}
	c.SetToken(res.Token)
	return res, nil
}

func (c *Client) Register(ctx context.Context, in usecase.RegisterInput) (usecase.AuthResult, error) {
	var res usecase.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", in, &res); err != nil {
		return res, err
	}
	c.SetToken(res.Token)
	return res, nil
}

// Logout revokes token on the server and forgets it locally even when the call fails.
func (c *Client) Logout(ctx context.Context, token string) error {
	defer c.SetToken("")
	return c.doWithToken(ctx, token, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *Client) ListCustomers(ctx context.Context, q entity.CustomerQuery) (entity.Page[entity.Customer], error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(entity.NormalizePage(q.Page)))
	if q.Search != "" {
		v.Set("search", q.Search)
	}

	var page entity.Page[entity.Customer]
	err := c.do(ctx, http.MethodGet, "/customers?"+v.Encode(), nil, &page)
	return page, err
}

func (c *Client) GetCustomer(ctx context.Context, id string) (entity.Customer, error) {
	var out entity.Customer
	err := c.do(ctx, http.MethodGet, "/customers/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) CreateCustomer(ctx context.Context, in entity.CustomerInput) (entity.Customer, error) {
	var out entity.Customer
	err := c.do(ctx, http.MethodPost, "/customers", in, &out)
	return out, err
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, patch entity.CustomerPatch) (entity.Customer, error) {
	var out entity.Customer
	err := c.do(ctx, http.MethodPut, "/customers/"+url.PathEscape(id), patch, &out)
	return out, err
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/customers/"+url.PathEscape(id), nil, nil)
}

func (c *Client) LeadsByCustomer(ctx context.Context, customerID string) ([]entity.Lead, error) {
	var out []entity.Lead
	err := c.do(ctx, http.MethodGet, "/customers/"+url.PathEscape(customerID)+"/leads", nil, &out)
	return out, err
}

func (c *Client) ListLeads(ctx context.Context, q entity.LeadQuery) (entity.Page[entity.Lead], error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(entity.NormalizePage(q.Page)))
	if q.Status != "" && q.Status != entity.LeadStatusAll {
		v.Set("status", string(q.Status))
	}
	if q.CustomerID != "" {
		v.Set("customerId", q.CustomerID)
	}

	var page entity.Page[entity.Lead]
	err := c.do(ctx, http.MethodGet, "/leads?"+v.Encode(), nil, &page)
	return page, err
}

func (c *Client) GetLead(ctx context.Context, id string) (entity.Lead, error) {
	var out entity.Lead
	err := c.do(ctx, http.MethodGet, "/leads/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) CreateLead(ctx context.Context, in entity.LeadInput) (entity.Lead, error) {
	var out entity.Lead
	err := c.do(ctx, http.MethodPost, "/leads", in, &out)
	return out, err
}

func (c *Client) UpdateLead(ctx context.Context, id string, patch entity.LeadPatch) (entity.Lead, error) {
	var out entity.Lead
	err := c.do(ctx, http.MethodPut, "/leads/"+url.PathEscape(id), patch, &out)
	return out, err
}

func (c *Client) DeleteLead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/leads/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	return c.doWithToken(ctx, c.Token(), method, path, in, out)
}

func (c *Client) doWithToken(ctx context.Context, token, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "marshal request")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	setHeaders(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		raw, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(raw, &eb)
		return newTransportError(resp.StatusCode, eb)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func setHeaders(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
