package groupprovider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/yigit/coursedesk/internal/pkg/logger"
	"github.com/yigit/coursedesk/internal/pkg/metrics"
)

// maxBodyBytes caps how much of a provider response is read
const maxBodyBytes = 1 << 20

const breakerName = "group-provider"

// Config holds the provider endpoint settings
type Config struct {
	BaseURL string
	Session string
	APIKey  string
	// Timeout of zero leaves requests bounded only by the caller's context
	Timeout time.Duration
}

// Response is a raw provider answer
type Response struct {
	StatusCode int
	Body       []byte
}

// Client talks to a WAHA-compatible WhatsApp HTTP API
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*Response]
}

// NewClient creates a provider client. A nil httpClient gets a default one
// using cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	breaker := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l := logger.WithField("breaker", name)
			l.Warn().Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Client{cfg: cfg, http: httpClient, breaker: breaker}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func (c *Client) endpoint(parts ...string) string {
	escaped := make([]string, 0, len(parts)+2)
	escaped = append(escaped, "api", url.PathEscape(c.cfg.Session))
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return c.cfg.BaseURL + "/" + strings.Join(escaped, "/")
}

// do performs one request through the breaker. Only transport failures count
// against the breaker; any answer, 5xx included, is returned as a Response.
func (c *Client) do(ctx context.Context, operation, method, target string, payload interface{}) (*Response, error) {
	resp, err := c.breaker.Execute(func() (*Response, error) {
		var body io.Reader
		if payload != nil {
			encoded, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("encode request: %w", err)
			}
			body = bytes.NewReader(encoded)
		}

		req, err := http.NewRequestWithContext(ctx, method, target, body)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Api-Key", c.cfg.APIKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		httpResp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer httpResp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		return &Response{StatusCode: httpResp.StatusCode, Body: data}, nil
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.ProviderRequestsTotal.WithLabelValues(operation, "open").Inc()
		return nil, fmt.Errorf("group provider unavailable: %w", err)
	case err != nil:
		metrics.ProviderRequestsTotal.WithLabelValues(operation, "error").Inc()
		logger.Warn().Err(err).Str("operation", operation).Msg("Group provider request failed")
		return nil, err
	}

	result := "ok"
	if resp.StatusCode >= http.StatusInternalServerError {
		result = "server_error"
	}
	metrics.ProviderRequestsTotal.WithLabelValues(operation, result).Inc()
	return resp, nil
}

// ListGroups returns the provider's group listing as raw JSON
func (c *Client) ListGroups(ctx context.Context) (json.RawMessage, error) {
	resp, err := c.do(ctx, "list_groups", http.MethodGet, c.endpoint("groups"), nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("groups request failed with status %d", resp.StatusCode)
	}
	if !json.Valid(resp.Body) {
		return nil, errors.New("groups response is not valid JSON")
	}
	return json.RawMessage(resp.Body), nil
}

type participant struct {
	ID string `json:"id"`
}

type addParticipantsRequest struct {
	Participants []participant `json:"participants"`
}

// AttemptDirectAdd asks the provider to add one participant to chatID. It never
// returns an error; transport problems become a failed AddResult.
func (c *Client) AttemptDirectAdd(ctx context.Context, chatID, participantID string) AddResult {
	payload := addParticipantsRequest{Participants: []participant{{ID: participantID}}}

	resp, err := c.do(ctx, "add_participant", http.MethodPost, c.endpoint("groups", chatID, "participants", "add"), payload)
	if err != nil {
		return AddResult{Reason: err.Error()}
	}
	return InterpretAddResponse(resp.Body, participantID)
}

// FetchInviteLink retrieves the group's invite code and returns the join link
func (c *Client) FetchInviteLink(ctx context.Context, chatID string) (string, error) {
	resp, err := c.do(ctx, "invite_code", http.MethodGet, c.endpoint("groups", chatID, "invite-code"), nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("invite code request failed with status %d", resp.StatusCode)
	}

	code, err := ExtractInviteCode(resp.Body)
	if err != nil {
		return "", err
	}
	return InviteLink(code), nil
}
