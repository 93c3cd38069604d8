package healthtracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Warning types forwarded to the health tracker
const (
	WarnTypeMismatch        = "mismatch"
	WarnTypeMissingTenantID = "missing-tenantId"
)

// Warning represents a tenancy warning record sent to the health tracker.
// The tracker owns persistence; this service never stores these itself.
type Warning struct {
	Route             string `json:"route"`
	Method            string `json:"method"`
	WarnType          string `json:"warn_type"`
	ActorUserID       uint   `json:"actor_user_id,omitempty"`
	EffectiveTenantID *uint  `json:"effective_tenant_id,omitempty"`
	ResourceID        string `json:"resource_id,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// ErrorResponse represents an error response from the health tracker
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client communicates with the health-tracker service
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a new health-tracker client instance
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logger,
	}
}

// RecordWarning posts a tenancy warning to the health tracker. Callers treat
// this as best-effort: a failure only loses migration-readiness visibility.
func (c *Client) RecordWarning(ctx context.Context, warning Warning) error {
	payload, err := json.Marshal(warning)
	if err != nil {
		return fmt.Errorf("failed to encode warning: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/warnings", c.BaseURL), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Warn("Health tracker request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			c.Logger.Warn("Health tracker rejected warning",
				zap.Int("status_code", resp.StatusCode),
				zap.String("response", string(body)))
			return fmt.Errorf("health tracker returned %d", resp.StatusCode)
		}
		c.Logger.Warn("Health tracker rejected warning",
			zap.Int("status_code", resp.StatusCode),
			zap.String("error", errorResp.Error),
			zap.String("message", errorResp.Message))
		return fmt.Errorf("health tracker returned %d: %s", resp.StatusCode, errorResp.Error)
	}

	c.Logger.Debug("Tenancy warning forwarded to health tracker",
		zap.String("warn_type", warning.WarnType),
		zap.String("route", warning.Route))
	return nil
}
