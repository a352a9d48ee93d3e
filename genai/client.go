// Package genai requests point clouds for free-text prompts from a generative HTTP service
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lixenwraith/particle-core/parameter"
	"github.com/lixenwraith/particle-core/vmath"
)

var (
	ErrNotConfigured     = errors.New("generative endpoint not configured")
	ErrEmptyPrompt       = errors.New("prompt is required")
	ErrMalformedResponse = errors.New("malformed generation response")
)

const tracerName = "github.com/lixenwraith/particle-core/genai"

// Config configures a Client; zero values take package defaults
type Config struct {
	Endpoint   string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxPoints  int
	Retries    int
	HTTPClient *http.Client

	// InitialBackoff overrides the first retry delay, mostly for tests
	InitialBackoff time.Duration
}

// Client is safe for concurrent use
type Client struct {
	cfg    Config
	tracer trace.Tracer
}

func NewClient(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = parameter.AITimeout
	}
	if cfg.MaxPoints <= 0 {
		cfg.MaxPoints = parameter.AIMaxPoints
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 250 * time.Millisecond
	}
	return &Client{cfg: cfg, tracer: otel.Tracer(tracerName)}
}

// Generate returns at most maxPoints raw coordinates for the prompt
// The result is not normalized; callers pass it through shape.FromPoints
func (c *Client) Generate(ctx context.Context, prompt string, maxPoints int) ([]vmath.Vec3F, error) {
	endpoint := strings.TrimSpace(c.cfg.Endpoint)
	prompt = strings.TrimSpace(prompt)
	if endpoint == "" {
		return nil, ErrNotConfigured
	}
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if maxPoints <= 0 || maxPoints > c.cfg.MaxPoints {
		maxPoints = c.cfg.MaxPoints
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	requestID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "genai.Generate", trace.WithAttributes(
		attribute.String("genai.request_id", requestID),
		attribute.String("genai.model", c.cfg.Model),
		attribute.Int("genai.max_points", maxPoints),
	))
	defer span.End()

	body, err := json.Marshal(map[string]any{
		"model":      c.cfg.Model,
		"prompt":     prompt,
		"max_points": maxPoints,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.InitialBackoff

	attempts := 0
	points, err := backoff.Retry(ctx, func() ([]vmath.Vec3F, error) {
		attempts++
		return c.do(ctx, endpoint, requestID, body, maxPoints)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.cfg.Retries+1)),
	)
	span.SetAttributes(attribute.Int("genai.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("genai.points", len(points)))
	return points, nil
}

// do performs one attempt; permanent failures are marked so the retry loop stops
func (c *Client) do(ctx context.Context, endpoint, requestID string, body []byte, maxPoints int) ([]vmath.Vec3F, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build generate request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if key := strings.TrimSpace(c.cfg.APIKey); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, readErr := io.ReadAll(io.LimitReader(res.Body, parameter.AIErrorBodyLimit))
		if readErr != nil {
			return nil, fmt.Errorf("read generate error body: %w", readErr)
		}
		statusErr := fmt.Errorf("generate request status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
		if res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500 {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read generate response: %w", err)
	}
	points, err := ExtractPoints(raw, maxPoints)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return points, nil
}
