package treasury

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

const (
	userAgent         = "payout-demo/1.0"
	afterCursorHeader = "X-After-Cursor"
	defaultPageSize   = 100
	defaultTimeout    = 15 * time.Second
)

// Config holds credentials and tuning for a Client.
type Config struct {
	BaseURL        string
	OrganizationID string
	APIKey         string
	Timeout        time.Duration
	PageSize       int
}

// Client talks to the payments platform REST API using basic authentication.
type Client struct {
	http     *fasthttp.Client
	baseURL  string
	auth     string
	timeout  time.Duration
	pageSize int
}

// New builds a client. Credentials may be empty in development, in which case
// the platform answers 401 and callers see an APIError.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("treasury base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse treasury base url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                userAgent,
			MaxConnsPerHost:     32,
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxIdleConnDuration: 30 * time.Second,
		},
		baseURL:  cfg.BaseURL,
		auth:     BasicAuth(cfg.OrganizationID, cfg.APIKey),
		timeout:  cfg.Timeout,
		pageSize: cfg.PageSize,
	}, nil
}

// BasicAuth returns the Authorization header value for an organization and key.
func BasicAuth(organizationID, apiKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(organizationID+":"+apiKey))
}

// ListInternalAccounts lazily lists accounts held by the operator.
func (c *Client) ListInternalAccounts(filter AccountFilter) *AccountIter {
	return c.listAccounts("/api/internal_accounts", filter)
}

// ListExternalAccounts lazily lists counterparty accounts.
func (c *Client) ListExternalAccounts(filter AccountFilter) *AccountIter {
	return c.listAccounts("/api/external_accounts", filter)
}

func (c *Client) listAccounts(path string, filter AccountFilter) *AccountIter {
	query := url.Values{}
	query.Set("per_page", fmt.Sprint(c.pageSize))
	if filter.PaymentType != "" {
		query.Set("payment_type", filter.PaymentType)
	}
	return &AccountIter{client: c, path: path, query: query}
}

// CreatePaymentOrder submits a transfer instruction.
func (c *Client) CreatePaymentOrder(ctx context.Context, req PaymentOrderRequest) (PaymentOrder, error) {
	var order PaymentOrder
	if _, err := c.do(ctx, fasthttp.MethodPost, "/api/payment_orders", nil, req, &order); err != nil {
		return PaymentOrder{}, fmt.Errorf("create payment order: %w", err)
	}
	return order, nil
}

// CreateOnboarding submits an onboarding request.
func (c *Client) CreateOnboarding(ctx context.Context, req OnboardingRequest) (Onboarding, error) {
	var out Onboarding
	if _, err := c.do(ctx, fasthttp.MethodPost, "/api/user_onboardings", nil, req, &out); err != nil {
		return Onboarding{}, fmt.Errorf("create onboarding: %w", err)
	}
	return out, nil
}

// Ping checks that the platform is reachable and accepts the credentials.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.do(ctx, fasthttp.MethodGet, "/api/ping", nil, nil, nil); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// do performs one request and decodes a 2xx body into out. It returns the
// pagination cursor header, empty when there are no more pages.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.SetRequestURI(c.baseURL + path)
	if len(query) > 0 {
		req.URI().SetQueryString(query.Encode())
	}
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAuthorization, c.auth)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return "", fmt.Errorf("encode request: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) && ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		return "", decodeAPIError(status, resp.Body())
	}

	if out != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
	}

	return string(resp.Header.Peek(afterCursorHeader)), nil
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		apiErr.Code = env.Errors.Code
		apiErr.Message = env.Errors.Message
		apiErr.Parameter = env.Errors.Parameter
	} else if len(body) > 0 && len(body) <= 512 {
		apiErr.Message = string(body)
	}
	return apiErr
}
