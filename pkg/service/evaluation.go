package service

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/memoai-dev/memocoach/pkg/gateway"
)

// Evaluation drives the text-evaluation endpoints.
type Evaluation struct {
	api *gateway.Client
}

// NewEvaluation creates the evaluation service over the shared gateway
// client.
func NewEvaluation(api *gateway.Client) *Evaluation {
	return &Evaluation{api: api}
}

type submitRequest struct {
	TextContent string `json:"text_content"`
}

// EvaluationRecord is one scored evaluation of a submitted text.
type EvaluationRecord struct {
	ID             string                     `json:"id"`
	OverallScore   float64                    `json:"overall_score"`
	Strengths      []string                   `json:"strengths"`
	Opportunities  []string                   `json:"opportunities"`
	RubricScores   map[string]json.RawMessage `json:"rubric_scores"`
	ProcessingTime float64                    `json:"processing_time"`
	CreatedAt      string                     `json:"created_at"`
}

// EvaluationPayload is the data object of the evaluation endpoints.
type EvaluationPayload struct {
	Evaluation EvaluationRecord `json:"evaluation"`
}

// Submit sends text for automated scoring. Scoring sits behind an LLM, so
// this call routinely takes seconds; the gateway timeout covers it.
func (e *Evaluation) Submit(ctx context.Context, textContent string) (gateway.Result, error) {
	return e.api.Post(ctx, "/api/v1/evaluations/submit", submitRequest{
		TextContent: textContent,
	})
}

// Get fetches a previously created evaluation by ID.
func (e *Evaluation) Get(ctx context.Context, id string) (gateway.Result, error) {
	return e.api.Get(ctx, "/api/v1/evaluations/"+url.PathEscape(id))
}
