package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/kevin1015wang/SentimentAnalyzers/pkg/config"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/logging"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/telemetry"
)

// TaskSpec describes one actor task to submit. Input is the actor-specific
// job definition supplied by the platform adapter.
type TaskSpec struct {
	ActorID string
	Name    string
	Input   map[string]interface{}
}

// Client wraps the Apify actor-task REST API. Task creation and run start are
// deliberately not retried: a submission failure aborts the platform run so
// no half-submitted job is ever polled.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a new Apify client
func New(cfg *config.ApifyConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("apify_token is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("apify_base_url is required")
	}

	logger := logging.GetLogger().With(zap.String("component", "apify-client"))

	client := &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    http.DefaultClient,
		logger:  logger,
	}

	logger.Info("Apify client initialized", zap.String("base_url", cfg.BaseURL))

	return client, nil
}

// CreateTask submits an actor task definition and returns the task id
func (c *Client) CreateTask(ctx context.Context, spec TaskSpec) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "apify.create_task")
	defer span.End()

	body := map[string]interface{}{
		"actId": spec.ActorID,
		"name":  spec.Name,
		"options": map[string]interface{}{
			"build": "latest",
		},
		"input": spec.Input,
	}

	var response struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.post(ctx, "/v2/actor-tasks", body, &response); err != nil {
		return "", fmt.Errorf("failed to create task %s: %w", spec.Name, err)
	}
	if response.Data.ID == "" {
		return "", fmt.Errorf("create task %s: empty task id in response", spec.Name)
	}

	c.logger.Debug("Created actor task",
		zap.String("name", spec.Name),
		zap.String("task_id", response.Data.ID))

	return response.Data.ID, nil
}

// StartRun starts a run of a previously created task and returns the run id
func (c *Client) StartRun(ctx context.Context, taskID string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "apify.start_run")
	defer span.End()

	var response struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.post(ctx, fmt.Sprintf("/v2/actor-tasks/%s/runs", taskID), nil, &response); err != nil {
		return "", fmt.Errorf("failed to start run for task %s: %w", taskID, err)
	}
	if response.Data.ID == "" {
		return "", fmt.Errorf("start run for task %s: empty run id in response", taskID)
	}

	c.logger.Debug("Started actor run",
		zap.String("task_id", taskID),
		zap.String("run_id", response.Data.ID))

	return response.Data.ID, nil
}

// DatasetItems fetches the current accumulated result set of a run.
// The dataset grows while the actor runs; callers poll this until the
// item count stops growing.
func (c *Client) DatasetItems(ctx context.Context, runID string) ([]map[string]interface{}, error) {
	ctx, span := telemetry.StartSpan(ctx, "apify.dataset_items")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+fmt.Sprintf("/v2/actor-runs/%s/dataset/items", runID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset for run %s: %w", runID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, httpError(resp)
	}

	var items []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dataset items: %w", err)
	}

	return items, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func httpError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
}
