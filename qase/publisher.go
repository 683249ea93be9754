package qase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/qase-community/qase-relay/types"
)

// APIVersion selects the result submission shape.
type APIVersion string

const (
	// APIVersionV1 submits one request per result.
	APIVersionV1 APIVersion = "v1"
	// APIVersionV2 submits the whole batch in one request.
	APIVersionV2 APIVersion = "v2"
)

// IsValid reports whether the version is a known submission shape.
func (v APIVersion) IsValid() bool {
	return v == APIVersionV1 || v == APIVersionV2
}

// Publisher submits aggregated results for a run. The two
// implementations cover the API versions in use; selection is a single
// configuration switch.
type Publisher interface {
	Submit(ctx context.Context, runID int64, results []types.RunResult) error
}

// NewPublisher returns the Publisher for the given API version.
func NewPublisher(c *Client, version APIVersion) (Publisher, error) {
	switch version {
	case APIVersionV1:
		return &perCasePublisher{client: c}, nil
	case APIVersionV2:
		return &batchPublisher{client: c}, nil
	default:
		return nil, fmt.Errorf("unknown API version %q", version)
	}
}

type resultPayloadV1 struct {
	CaseID  int64               `json:"case_id"`
	Status  types.Status        `json:"status"`
	Comment string              `json:"comment"`
	Steps   []types.StepVerdict `json:"steps"`
}

// perCasePublisher posts one result per request. A failure aborts the
// remaining submissions in the batch.
type perCasePublisher struct {
	client *Client
}

func (p *perCasePublisher) Submit(ctx context.Context, runID int64, results []types.RunResult) error {
	c := p.client
	ctx, span := c.tracer.Start(ctx, "qase.SubmitResults",
		trace.WithAttributes(attribute.Int64("run_id", runID), attribute.Int("results", len(results))))
	defer span.End()

	for _, r := range results {
		res, err := c.http.R().
			SetContext(ctx).
			SetBody(resultPayloadV1{
				CaseID:  r.CaseID,
				Status:  r.Status,
				Comment: r.Comment,
				Steps:   r.Steps,
			}).
			Post(fmt.Sprintf("/result/%s/%d", c.project, runID))
		if _, err := wrapError(res, err); err != nil {
			return err
		}
	}
	return nil
}

type resultPayloadV2 struct {
	Title     string              `json:"title"`
	TestOpsID int64               `json:"testops_id"`
	Status    types.Status        `json:"status"`
	Comment   string              `json:"comment"`
	Steps     []types.StepVerdict `json:"steps"`
}

type batchRequest struct {
	Results []resultPayloadV2 `json:"results"`
}

// batchPublisher posts the full batch in a single request.
type batchPublisher struct {
	client *Client
}

func (p *batchPublisher) Submit(ctx context.Context, runID int64, results []types.RunResult) error {
	c := p.client
	ctx, span := c.tracer.Start(ctx, "qase.SubmitResults",
		trace.WithAttributes(attribute.Int64("run_id", runID), attribute.Int("results", len(results))))
	defer span.End()

	body := batchRequest{Results: make([]resultPayloadV2, 0, len(results))}
	for _, r := range results {
		body.Results = append(body.Results, resultPayloadV2{
			Title:     r.Title,
			TestOpsID: r.CaseID,
			Status:    r.Status,
			Comment:   r.Comment,
			Steps:     r.Steps,
		})
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(fmt.Sprintf("/%s/run/%d/results", c.project, runID))
	_, err = wrapError(res, err)
	return err
}
