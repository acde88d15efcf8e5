package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.paystack.co"

const maxResponseBytes = 1 << 20

var ErrTransactionNotFound = errors.New("paystack: transaction not found")

// APIError is returned when Paystack answers with a non-success envelope or an
// unexpected status code. Body holds the raw response for logging.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("paystack: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("paystack: %s (status %d)", e.Message, e.StatusCode)
}

type Client struct {
	SecretKey  string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client that never retries; callers retry by calling again.
func NewClient(secretKey string, baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		SecretKey:  secretKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type InitializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Reference   string            `json:"reference,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type Customer struct {
	Email string `json:"email"`
}

type Transaction struct {
	Status    string   `json:"status"`
	Amount    int64    `json:"amount"`
	Currency  string   `json:"currency"`
	Reference string   `json:"reference"`
	Customer  Customer `json:"customer"`
	Metadata  Metadata `json:"metadata"`

	// Raw is the full response body as received.
	Raw json.RawMessage `json:"-"`
}

// Metadata echoes the fields sent at initialization. Paystack returns it as an
// object, a JSON encoded string, or an empty value when nothing was attached.
type Metadata struct {
	PlanID string `json:"planId"`
	Phone  string `json:"phone"`
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	type plain Metadata
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	switch trimmed[0] {
	case '{':
		return json.Unmarshal(trimmed, (*plain)(m))
	case '"':
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return err
		}
		encoded = strings.TrimSpace(encoded)
		if !strings.HasPrefix(encoded, "{") {
			return nil
		}
		return json.Unmarshal([]byte(encoded), (*plain)(m))
	default:
		return nil
	}
}

func (t *Transaction) Successful() bool {
	return t != nil && t.Status == "success"
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var result InitializeResult
	if _, err := c.do(ctx, http.MethodPost, "/transaction/initialize", body, &result); err != nil {
		return nil, err
	}
	if result.AuthorizationURL == "" {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "missing authorization_url"}
	}
	return &result, nil
}

func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*Transaction, error) {
	var transaction Transaction
	raw, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &transaction)
	if err != nil {
		return nil, err
	}
	transaction.Raw = raw
	return &transaction, nil
}

func (c *Client) do(ctx context.Context, method string, path string, body []byte, target any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	request, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Authorization", "Bearer "+c.SecretKey)
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.HTTPClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("paystack: %w", err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("paystack: read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if response.StatusCode == http.StatusNotFound || (!env.Status && strings.Contains(strings.ToLower(env.Message), "not found")) {
		return raw, ErrTransactionNotFound
	}
	if decodeErr != nil {
		return raw, &APIError{StatusCode: response.StatusCode, Message: "malformed response", Body: raw}
	}
	if response.StatusCode >= 300 || !env.Status {
		return raw, &APIError{StatusCode: response.StatusCode, Message: env.Message, Body: raw}
	}
	if target != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, target); err != nil {
			return raw, &APIError{StatusCode: response.StatusCode, Message: "unexpected data shape", Body: raw}
		}
	}
	return raw, nil
}
