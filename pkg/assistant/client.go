// Package assistant answers free-form movie questions through a hosted model,
// grounded on a snapshot of the catalog.
package assistant

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const (
	// ClaudeAPIEndpoint is the Anthropic Messages API endpoint.
	ClaudeAPIEndpoint = "https://api.anthropic.com/v1/messages"
	// ClaudeModel is the default model.
	ClaudeModel = "claude-sonnet-4-20250514"
	// ClaudeAPIVersion is the API version header value.
	ClaudeAPIVersion = "2023-06-01"
)

// APIError is a non-200 answer from the model API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("API request failed with status %d (%s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}

// Client is a Claude Messages API client.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a new Claude API client. Zero values select the default
// model, endpoint and a 30 second timeout.
func NewClient(apiKey, model, endpoint string, timeout time.Duration) (client *Client) {
	if model == "" {
		model = ClaudeModel
	}
	if endpoint == "" {
		endpoint = ClaudeAPIEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client = &Client{
		apiKey:   apiKey,
		model:    model,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	return client
}

// Model is the model name sent with every request.
func (c *Client) Model() string {
	return c.model
}

// Send posts one conversation and returns the text of the first content block.
func (c *Client) Send(ctx context.Context, system string, messages []Message, maxTokens int, temperature float64) (responseText string, err error) {
	claudeReq := MessagesRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		System:      system,
		Temperature: temperature,
		Messages:    messages,
	}

	var reqBody []byte
	reqBody, err = json.Marshal(claudeReq)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal request")
		return responseText, err
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return responseText, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", ClaudeAPIVersion)

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return responseText, err
	}
	defer resp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return responseText, err
	}

	if resp.StatusCode != http.StatusOK {
		err = parseAPIError(resp.StatusCode, respBody)
		return responseText, err
	}

	var claudeResp MessagesResponse
	err = json.Unmarshal(respBody, &claudeResp)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse Claude response: %s", string(respBody))
		return responseText, err
	}

	for _, block := range claudeResp.Content {
		if block.Type == "text" || block.Type == "" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		err = errors.New("no content in Claude response")
		return responseText, err
	}

	return responseText, err
}

func parseAPIError(status int, body []byte) (apiErr *APIError) {
	apiErr = &APIError{StatusCode: status, Message: string(body)}

	var envelope errorEnvelope
	if json.Unmarshal(body, &envelope) == nil && envelope.Error.Type != "" {
		apiErr.Type = envelope.Error.Type
		apiErr.Message = envelope.Error.Message
	}

	return apiErr
}
