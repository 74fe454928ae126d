// Package advisory talks to an external assistant endpoint for
// optional suggestions. Every call degrades gracefully: a missing or
// failing endpoint never blocks the tracker itself.
package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Suggestion is advice on when and how to schedule a task.
type Suggestion struct {
	TimeOfDay    string   `json:"timeOfDay"`
	RestBreaks   []string `json:"restBreaks"`
	Productivity string   `json:"productivity"`
}

// Prediction is the assistant's success outlook for a task.
type Prediction struct {
	SuccessRate     int      `json:"successRate"`
	Confidence      int      `json:"confidence"`
	Factors         []string `json:"factors"`
	Recommendations []string `json:"recommendations"`
}

// RestSuggestion is advice on break placement for the week.
type RestSuggestion struct {
	SuggestedBreaks []string `json:"suggestedBreaks"`
	RestDuration    string   `json:"restDuration"`
	Reasoning       string   `json:"reasoning"`
}

type MotivationalMessage struct {
	Message string `json:"message"`
	Theme   string `json:"theme"`
}

type Client struct {
	Endpoint   string
	HTTPClient *http.Client
	log        *slog.Logger
}

func NewClient(endpoint string, timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

type request struct {
	Prompt string `json:"prompt"`
	Data   any    `json:"data"`
}

func (c *Client) post(ctx context.Context, prompt string, data any, out any) error {
	if c.Endpoint == "" {
		return fmt.Errorf("advisory endpoint not configured")
	}

	body, err := json.Marshal(request{Prompt: prompt, Data: data})
	if err != nil {
		return fmt.Errorf("encode advisory request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build advisory request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("call advisory endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("advisory endpoint returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode advisory response: %w", err)
	}
	return nil
}

// TaskSuggestions asks for scheduling advice. Nil means the assistant
// was unavailable.
func (c *Client) TaskSuggestions(ctx context.Context, data any) *Suggestion {
	var out Suggestion
	if err := c.post(ctx, "suggest optimal scheduling for this task", data, &out); err != nil {
		c.log.Warn("task suggestions unavailable", "err", err)
		return nil
	}
	return &out
}

// TaskPrediction asks for a success outlook. Nil means the assistant
// was unavailable.
func (c *Client) TaskPrediction(ctx context.Context, data any) *Prediction {
	var out Prediction
	if err := c.post(ctx, "predict the success rate for this task", data, &out); err != nil {
		c.log.Warn("task prediction unavailable", "err", err)
		return nil
	}
	return &out
}

// RestAnalysis asks where breaks should go. Nil means the assistant
// was unavailable.
func (c *Client) RestAnalysis(ctx context.Context, data any) *RestSuggestion {
	var out RestSuggestion
	if err := c.post(ctx, "analyze rest patterns and suggest breaks", data, &out); err != nil {
		c.log.Warn("rest analysis unavailable", "err", err)
		return nil
	}
	return &out
}

// MotivationalMessage asks for an encouraging line, falling back to a
// stock one when the assistant is unavailable.
func (c *Client) MotivationalMessage(ctx context.Context, data any) *MotivationalMessage {
	var out MotivationalMessage
	if err := c.post(ctx, "write a short motivational message", data, &out); err != nil {
		c.log.Warn("motivational message unavailable", "err", err)
		return &MotivationalMessage{Message: "Stay focused and keep going!", Theme: "encouragement"}
	}
	return &out
}
