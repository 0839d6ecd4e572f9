package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// APIError is returned for any non-2xx response from the backend API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("backend api: %d: %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether a failed call may succeed if repeated later.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled)
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Lead is a marketing lead as accepted by POST /leads.
type Lead struct {
	ExternalID  string         `json:"external_id"`
	Source      string         `json:"source"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone,omitempty"`
	Company     string         `json:"company,omitempty"`
	Locale      string         `json:"locale,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

type LeadReceipt struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type Client struct {
	http *resty.Client
}

// NewClient returns a client for baseURL. When token is set every request
// carries "Authorization: Bearer <token>".
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if token != "" {
			req.SetAuthToken(token)
		}
		return nil
	})

	return &Client{http: httpClient}
}

// SubmitLead creates a lead in the backend.
func (c *Client) SubmitLead(ctx context.Context, lead Lead) (*LeadReceipt, error) {
	var receipt LeadReceipt
	if err := c.do(ctx, http.MethodPost, "/leads", lead, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// Ping checks that the backend answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var envelope errorEnvelope

	req := c.http.R().SetContext(ctx).SetError(&envelope)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("backend api %s %s: %w", method, path, err)
	}

	if resp.IsError() {
		apiErr := &APIError{
			StatusCode: resp.StatusCode(),
			Code:       envelope.Error.Code,
			Message:    envelope.Error.Message,
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
		return apiErr
	}

	return nil
}
