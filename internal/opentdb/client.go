// Package opentdb is a client for the Open Trivia Database HTTP API.
package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kchang/trivia/internal/trivia"
)

const (
	// DefaultBaseURL is the public Open Trivia Database endpoint.
	DefaultBaseURL = "https://opentdb.com"

	// MaxAmount is the largest amount the questions endpoint accepts per call.
	MaxAmount = 50

	defaultTimeout = 30 * time.Second

	// Response bodies are small; anything beyond this is not a real answer.
	maxBodyBytes = 4 << 20
)

// Endpoint names, used in errors and logs.
const (
	EndpointCount     = "api_count_global"
	EndpointToken     = "api_token"
	EndpointQuestions = "api"
)

// Source is the subset of the remote API ingestion depends on.
type Source interface {
	// TotalQuestionCount returns the number of verified questions the service holds.
	TotalQuestionCount(ctx context.Context) (int, error)

	// RequestToken asks for a session token that deduplicates questions
	// across subsequent calls.
	RequestToken(ctx context.Context) (string, error)

	// Questions fetches up to amount questions not yet served for token.
	Questions(ctx context.Context, amount int, token string) ([]RawQuestion, error)
}

// RawQuestion is one entry of the questions endpoint's results. Text fields
// are HTML-entity encoded exactly as the service delivers them.
type RawQuestion struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Record converts the raw entry into the normalization input.
func (r RawQuestion) Record() trivia.Record {
	return trivia.Record{
		Category:         r.Category,
		Type:             r.Type,
		Difficulty:       r.Difficulty,
		Question:         r.Question,
		CorrectAnswer:    r.CorrectAnswer,
		IncorrectAnswers: r.IncorrectAnswers,
	}
}

// Config holds client configuration.
type Config struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// Timeout bounds a single HTTP call. Default: 30s.
	Timeout time.Duration

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client talks to the Open Trivia Database.
type Client struct {
	baseURL string
	client  *http.Client
}

var _ Source = (*Client)(nil)

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: baseURL, client: hc}
}

// BaseURL returns the service root this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type countResponse struct {
	Overall struct {
		TotalVerified int `json:"total_num_of_verified_questions"`
	} `json:"overall"`
}

func (c *Client) TotalQuestionCount(ctx context.Context) (int, error) {
	var resp countResponse
	if err := c.get(ctx, EndpointCount, "/api_count_global.php", nil, countSchema, &resp); err != nil {
		return 0, err
	}
	return resp.Overall.TotalVerified, nil
}

type tokenResponse struct {
	ResponseCode int    `json:"response_code"`
	Token        string `json:"token"`
}

func (c *Client) RequestToken(ctx context.Context) (string, error) {
	q := url.Values{"command": {"request"}}
	var resp tokenResponse
	if err := c.get(ctx, EndpointToken, "/api_token.php", q, tokenSchema, &resp); err != nil {
		return "", err
	}
	if resp.ResponseCode != CodeSuccess {
		return "", &APIError{Endpoint: EndpointToken, Code: resp.ResponseCode}
	}
	if resp.Token == "" {
		return "", &InvalidResponseError{Endpoint: EndpointToken, Err: fmt.Errorf("empty token")}
	}
	return resp.Token, nil
}

type questionsResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []RawQuestion `json:"results"`
}

func (c *Client) Questions(ctx context.Context, amount int, token string) ([]RawQuestion, error) {
	if amount < 1 || amount > MaxAmount {
		return nil, fmt.Errorf("opentdb: amount %d out of range 1..%d", amount, MaxAmount)
	}
	q := url.Values{"amount": {strconv.Itoa(amount)}}
	if token != "" {
		q.Set("token", token)
	}
	var resp questionsResponse
	if err := c.get(ctx, EndpointQuestions, "/api.php", q, questionsSchema, &resp); err != nil {
		return nil, err
	}
	if resp.ResponseCode != CodeSuccess {
		return nil, &APIError{Endpoint: EndpointQuestions, Code: resp.ResponseCode}
	}
	return resp.Results, nil
}

// get performs one GET, validates the body against schema and decodes it into out.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, schema *Schema, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("opentdb %s: build request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("opentdb %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("opentdb %s: read body: %w", endpoint, err)
	}

	if err := validateBody(schema, body); err != nil {
		return &InvalidResponseError{Endpoint: endpoint, Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &InvalidResponseError{Endpoint: endpoint, Err: err}
	}
	return nil
}
