package narrate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/campusplan/studyplan/core/model"
	"github.com/campusplan/studyplan/core/narrate"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiNarrator explains a plan in prose by calling the Generative Language
// API. It is an external collaborator: any failure here is recoverable and
// must not affect the plan itself.
type GeminiNarrator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGeminiNarrator builds a narrator for the given model. The API key may be
// empty; Explain then fails with narrate.ErrNotConfigured.
func NewGeminiNarrator(apiKey, modelName string, timeout time.Duration) *GeminiNarrator {
	if modelName == "" {
		modelName = "gemini-2.5-flash-lite"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiNarrator{
		apiKey:  apiKey,
		model:   modelName,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithBaseURL overrides the API endpoint, used in tests.
func (g *GeminiNarrator) WithBaseURL(url string) *GeminiNarrator {
	g.baseURL = strings.TrimSuffix(url, "/")
	return g
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Explain asks the model why the plan was structured the way it is.
func (g *GeminiNarrator) Explain(ctx context.Context, tasks []model.Task, plan model.Plan) (string, error) {
	if g.apiKey == "" {
		return "", narrate.ErrNotConfigured
	}

	prompt, err := buildPrompt(tasks, plan)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("narration request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, b)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty narration response")
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

func buildPrompt(tasks []model.Task, plan model.Plan) (string, error) {
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("encode plan: %w", err)
	}
	return fmt.Sprintf(`Explain why this weekly study plan was structured the way it is.

Rules:
- 4-6 bullet points
- Mention urgency, difficulty, and workload balancing
- No emojis
- No generic study advice

Tasks:
%s

Plan:
%s
`, tasksJSON, planJSON), nil
}
