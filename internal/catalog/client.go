package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// ErrRemote marks any transport, status or query failure from the catalog
// service. Callers match it with errors.Is.
var ErrRemote = errors.New("catalog unavailable")

// Client talks to the catalog's single GraphQL endpoint. It performs no
// retries; a caller that wants resilience re-invokes the operation.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		log:        log.With().Str("component", "catalog").Logger(),
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

// query posts one GraphQL document and decodes the data payload into out.
func (c *Client) query(ctx context.Context, doc string, vars map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: doc, Variables: vars})
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrRemote, err)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []gqlError      `json:"errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrRemote, err)
	}

	if resp.StatusCode != http.StatusOK || len(envelope.Errors) > 0 {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if len(envelope.Errors) > 0 {
			msg = envelope.Errors[0].Message
		}
		c.log.Warn().Int("status", resp.StatusCode).Str("error", msg).Msg("catalog query failed")
		return fmt.Errorf("%w: %s", ErrRemote, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", ErrRemote, err)
	}
	return nil
}
