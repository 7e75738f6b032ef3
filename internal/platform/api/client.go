package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Error is a non-2xx backend response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Client is a thin JSON wrapper over the backend REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient returns a client for baseURL. A zero timeout means no timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, http.MethodGet, "/health", nil, nil, &out)
	return out, err
}

func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (CreateTaskResponse, error) {
	var out CreateTaskResponse
	if err := c.do(ctx, http.MethodPost, "/task/create", nil, req, &out); err != nil {
		return CreateTaskResponse{}, err
	}
	if out.TaskID == "" {
		return CreateTaskResponse{}, fmt.Errorf("create task: response has no task_id")
	}
	return out, nil
}

func (c *Client) CurrentStep(ctx context.Context, taskID string) (StepResponse, error) {
	var out StepResponse
	err := c.do(ctx, http.MethodGet, "/task/current-step", url.Values{"task_id": {taskID}}, nil, &out)
	return out, err
}

func (c *Client) MarkStepDone(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodPost, "/task/mark-done", nil, MarkDoneRequest{TaskID: taskID}, nil)
}

func (c *Client) GetProfile(ctx context.Context, userID string) (Profile, error) {
	var out Profile
	err := c.do(ctx, http.MethodGet, "/user/profile", url.Values{"user_id": {userID}}, nil, &out)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, profile Profile) error {
	return c.do(ctx, http.MethodPut, "/user/profile/update", nil, profile, nil)
}

func (c *Client) GetStats(ctx context.Context, userID string) (Stats, error) {
	var out Stats
	err := c.do(ctx, http.MethodGet, "/user/stats", url.Values{"user_id": {userID}}, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, respBody)
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeError(status int, body []byte) error {
	var payload errorPayload
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return &Error{Status: status, Message: payload.Message}
		}
		if payload.Error != "" {
			return &Error{Status: status, Message: payload.Error}
		}
	}
	return &Error{Status: status, Message: fmt.Sprintf("HTTP error %d", status)}
}
