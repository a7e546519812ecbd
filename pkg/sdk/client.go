package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client wraps calls to the ParlaVoice JSON API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// APIError is returned when the backend answers with a non-2xx status
type APIError struct {
	Code    int
	Message string
	Detail  any
}

func (e *APIError) Error() string {
	if e.Detail != nil {
		return fmt.Sprintf("[BACKEND]: %d %s: %v", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[BACKEND]: %d %s", e.Code, e.Message)
}

// doJSON is a helper to perform JSON requests to the backend
func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any) error {
	// Create request body if input is provided
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Prefer the envelope's message, fall back to the raw body
		var envelope ApiResponse[any]
		if json.Unmarshal(raw, &envelope) == nil && envelope.Message != "" {
			return &APIError{Code: resp.StatusCode, Message: envelope.Message, Detail: envelope.Error}
		}
		return &APIError{Code: resp.StatusCode, Message: string(raw)}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// StartSession submits the intake answers and returns the first prompt
func (c *Client) StartSession(ctx context.Context, intake *Intake) (*SessionState, error) {
	var out ApiResponse[SessionState]
	if err := c.doJSON(ctx, http.MethodPost, "/api/sessions", intake, &out); err != nil {
		return nil, err
	}

	if out.Data.ID == "" {
		return nil, fmt.Errorf("no id returned")
	}
	return &out.Data, nil
}

// GetSession returns the state of a running session
func (c *Client) GetSession(ctx context.Context, id string) (*SessionState, error) {
	var out ApiResponse[SessionState]
	if err := c.doJSON(ctx, http.MethodGet, "/api/sessions/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// SubmitRound records a transcription and returns the next prompt
func (c *Client) SubmitRound(ctx context.Context, id, transcription string) (*SessionState, error) {
	var out ApiResponse[SessionState]
	req := &RoundRequest{Transcription: transcription}
	if err := c.doJSON(ctx, http.MethodPost, "/api/sessions/"+id+"/rounds", req, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Finalize uploads the session and ends it
func (c *Client) Finalize(ctx context.Context, id string) (*Receipt, error) {
	var out ApiResponse[Receipt]
	if err := c.doJSON(ctx, http.MethodPost, "/api/sessions/"+id+"/finalize", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// AbandonSession discards a running session without uploading it
func (c *Client) AbandonSession(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/sessions/"+id, nil, nil)
}

// ListSubmissions returns the latest upload receipts
func (c *Client) ListSubmissions(ctx context.Context, limit int) (*ReceiptList, error) {
	var out ApiResponse[ReceiptList]
	path := fmt.Sprintf("/api/submissions?limit=%d", limit)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Health returns the service status
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out ApiResponse[HealthStatus]
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
