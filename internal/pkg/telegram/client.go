package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// DefaultAPIURL is the public Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

// ErrTokenRequired is returned by NewClient when no bot token is given.
var ErrTokenRequired = errors.New("telegram: bot token is required")

// APIError is a non-ok Bot API answer.
type APIError struct {
	Code        int
	Description string
	RetryAfter  time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: api error %d: %s", e.Code, e.Description)
}

func (e *APIError) retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

// Config configures a Client.
type Config struct {
	// Token is the bot token issued by BotFather.
	Token string
	// APIURL overrides DefaultAPIURL.
	APIURL string
	// Timeout bounds a single HTTP attempt. Defaults to 10s.
	Timeout time.Duration
	// MaxRetries is the number of extra attempts for 429, 5xx and network errors.
	MaxRetries uint64
	// Backoff is the first retry delay, doubled per attempt and capped at 5s.
	// Defaults to 200ms.
	Backoff time.Duration
	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Client calls the Telegram Bot API.
type Client struct {
	baseURL    string
	http       *http.Client
	maxRetries uint64
	backoff    time.Duration
}

// NewClient builds a Client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, ErrTokenRequired
	}

	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}

	return &Client{
		baseURL:    apiURL + "/bot" + cfg.Token,
		http:       hc,
		maxRetries: cfg.MaxRetries,
		backoff:    backoff,
	}, nil
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// SendMessage sends a plain-text message to chatID.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) (*Message, error) {
	var msg Message
	if err := c.call(ctx, "sendMessage", sendMessageRequest{ChatID: chatID, Text: text}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

type setWebhookRequest struct {
	URL            string   `json:"url"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

// SetWebhook points the bot's updates at webhookURL, message updates only.
func (c *Client) SetWebhook(ctx context.Context, webhookURL string) error {
	var ok bool
	return c.call(ctx, "setWebhook", setWebhookRequest{URL: webhookURL, AllowedUpdates: []string{"message"}}, &ok)
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
	Result      json.RawMessage `json:"result"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters,omitempty"`
}

func (c *Client) call(ctx context.Context, method string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: %s: encode: %w", method, err)
	}

	b := retry.NewExponential(c.backoff)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(c.maxRetries, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := c.do(ctx, method, body, out)

		var apiErr *APIError
		switch {
		case err == nil:
			return nil
		case errors.As(err, &apiErr) && apiErr.retryable():
			slog.WarnContext(ctx, "telegram call failed, retrying", "method", method, "code", apiErr.Code)
			if apiErr.RetryAfter > 0 {
				if werr := sleep(ctx, apiErr.RetryAfter); werr != nil {
					return werr
				}
			}
			return retry.RetryableError(err)
		case errors.As(err, &apiErr), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			slog.WarnContext(ctx, "telegram call failed, retrying", "method", method, "error", err)
			return retry.RetryableError(err)
		}
	})
}

func (c *Client) do(ctx context.Context, method string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: %s: build request: %w", method, scrub(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, scrub(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("telegram: %s: read body: %w", method, err)
	}

	var ar apiResponse
	if err := json.Unmarshal(raw, &ar); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &APIError{Code: resp.StatusCode, Description: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("telegram: %s: decode: %w", method, err)
	}

	if !ar.OK {
		apiErr := &APIError{Code: ar.ErrorCode, Description: ar.Description}
		if apiErr.Code == 0 {
			apiErr.Code = resp.StatusCode
		}
		if ar.Parameters != nil && ar.Parameters.RetryAfter > 0 {
			apiErr.RetryAfter = time.Duration(ar.Parameters.RetryAfter) * time.Second
		}
		return apiErr
	}

	if out == nil || len(ar.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(ar.Result, out); err != nil {
		return fmt.Errorf("telegram: %s: decode result: %w", method, err)
	}

	return nil
}

// scrub drops the request URL, which embeds the bot token, from transport errors.
func scrub(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
