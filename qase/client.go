// Package qase is a minimal client for the test management service's
// REST API: run creation, case-step retrieval and result submission.
package qase

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/qase-community/qase-relay/types"
)

const (
	// DefaultBaseURL is the public API endpoint.
	DefaultBaseURL = "https://api.qase.io/v1"

	userAgent = "qase-relay"

	// Steps may be defined without an expected result; a placeholder
	// keeps them visible in verdicts without matching any assertion.
	placeholderExpectedResult = "Unnamed step"
)

// ClientConfig holds connection settings for the API client.
type ClientConfig struct {
	BaseURL string // defaults to DefaultBaseURL
	Token   string // credential, sent in the Token header
	Project string // project code identifying the target workspace
}

// Client talks to the test management API. All calls are synchronous;
// one request is in flight at a time by construction of the pipeline.
type Client struct {
	http    *resty.Client
	project string
	tracer  trace.Tracer
}

// NewClient creates a Client from config.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	r := resty.New()
	r.SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetHeader("Token", cfg.Token)

	return &Client{
		http:    r,
		project: cfg.Project,
		tracer:  otel.Tracer("qase-relay/qase"),
	}
}

type createRunRequest struct {
	Title string  `json:"title"`
	Cases []int64 `json:"cases"`
}

type createRunResponse struct {
	Result struct {
		ID int64 `json:"id"`
	} `json:"result"`
}

// CreateRun creates a remote test run scoped to the given case IDs and
// returns the run's identifier.
func (c *Client) CreateRun(ctx context.Context, title string, caseIDs []int64) (int64, error) {
	ctx, span := c.tracer.Start(ctx, "qase.CreateRun",
		trace.WithAttributes(attribute.Int("cases", len(caseIDs))))
	defer span.End()

	var out createRunResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(createRunRequest{Title: title, Cases: caseIDs}).
		SetResult(&out).
		Post(fmt.Sprintf("/run/%s", c.project))
	if _, err := wrapError(res, err); err != nil {
		return 0, err
	}
	return out.Result.ID, nil
}

type caseResponse struct {
	Result struct {
		Steps []types.CaseStep `json:"steps"`
	} `json:"result"`
}

// GetCaseSteps returns the ordered steps defined for a case. A case
// with no steps yields an empty slice, not an error.
func (c *Client) GetCaseSteps(ctx context.Context, caseID int64) ([]types.CaseStep, error) {
	ctx, span := c.tracer.Start(ctx, "qase.GetCaseSteps",
		trace.WithAttributes(attribute.Int64("case_id", caseID)))
	defer span.End()

	var out caseResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/case/%s/%d", c.project, caseID))
	if _, err := wrapError(res, err); err != nil {
		return nil, err
	}
	steps := out.Result.Steps
	if steps == nil {
		return []types.CaseStep{}, nil
	}
	for i := range steps {
		if steps[i].ExpectedResult == "" {
			steps[i].ExpectedResult = placeholderExpectedResult
		}
	}
	return steps, nil
}

// CompleteRun marks a run as finished.
func (c *Client) CompleteRun(ctx context.Context, runID int64) error {
	ctx, span := c.tracer.Start(ctx, "qase.CompleteRun",
		trace.WithAttributes(attribute.Int64("run_id", runID)))
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Post(fmt.Sprintf("/run/%s/%d/complete", c.project, runID))
	_, err = wrapError(res, err)
	return err
}
