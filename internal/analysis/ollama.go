package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// Defaults for the Ollama backend.
const (
	DefaultBaseURL      = "http://localhost:11434"
	DefaultModel        = "llama3.1"
	DefaultTimeout      = 60 * time.Second
	DefaultPreviewChars = 3000
	DefaultTemperature  = 0.7
)

// OllamaConfig holds the settings for the model-backed analyzers.
type OllamaConfig struct {
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	Temperature    float64 `yaml:"temperature"`
	PreviewChars   int     `yaml:"preview_chars"`
}

// Timeout converts the configured seconds into a duration.
func (c OllamaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// withDefaults fills in zero values.
func (c OllamaConfig) withDefaults() OllamaConfig {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = int(DefaultTimeout / time.Second)
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.PreviewChars == 0 {
		c.PreviewChars = DefaultPreviewChars
	}
	return c
}

// chatClient is the slice of the Ollama API the analyzers use.
// Narrowed to an interface so tests can stub the model.
type chatClient interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// core is the shared machinery behind both analyzers: one chat round trip
// plus JSON verdict parsing.
type core struct {
	client     chatClient
	model      string
	thresholds Thresholds
	cfg        OllamaConfig
}

// NewOllamaAnalyzers builds the text and document analyzers over a single
// Ollama client and returns them behind a Split.
func NewOllamaAnalyzers(cfg OllamaConfig, thresholds Thresholds) (*Split, error) {
	cfg = cfg.withDefaults()

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama base URL %q: %w", cfg.BaseURL, err)
	}

	client := api.NewClient(base, &http.Client{Timeout: cfg.Timeout()})
	c := &core{client: client, model: cfg.Model, thresholds: thresholds, cfg: cfg}

	return &Split{
		Text:     &TextAnalyzer{core: c},
		Document: &DocumentAnalyzer{core: c},
	}, nil
}

// modelVerdict is the JSON shape the analyzers ask the model for.
// The status is deliberately absent: classification comes from the
// configured thresholds, not from the model.
type modelVerdict struct {
	Analysis        string   `json:"analysis"`
	MissingElements []string `json:"missing_elements"`
	Recommendations []string `json:"recommendations"`
	ComplianceScore int      `json:"compliance_score"`
}

// responseFormat is appended to every user prompt.
const responseFormat = `
Respond with a single JSON object with these fields:
- "analysis": a detailed assessment (string)
- "missing_elements": missing or incomplete elements (array of strings)
- "recommendations": specific improvements (array of strings)
- "compliance_score": how well the requirements are met, 0-100 (number)`

// complete performs one non-streaming chat call and returns the content.
func (c *core) complete(ctx context.Context, system, user string) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream:  &stream,
		Options: map[string]any{"temperature": c.cfg.Temperature},
	}

	var sb strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// verdictFrom parses the model output into a Verdict. A response with no
// JSON object or unparseable JSON is an error — the engine must never see
// a partial verdict.
func (c *core) verdictFrom(content, questionID string) (*Verdict, error) {
	raw := extractJSON(content)
	if raw == "" {
		return nil, &AnalysisError{QuestionID: questionID, Err: fmt.Errorf("model response contains no JSON object")}
	}

	var mv modelVerdict
	if err := json.Unmarshal([]byte(raw), &mv); err != nil {
		return nil, &AnalysisError{QuestionID: questionID, Err: fmt.Errorf("parsing model verdict: %w", err)}
	}

	score := clampScore(mv.ComplianceScore)
	return &Verdict{
		Score:           score,
		Status:          c.thresholds.StatusFor(score),
		Analysis:        mv.Analysis,
		MissingElements: mv.MissingElements,
		Recommendations: mv.Recommendations,
		Model:           c.model,
		AnalyzedAt:      timeNow().UTC().Format(time.RFC3339),
	}, nil
}

// preview truncates document text for the prompt.
func (c *core) preview(text string) string {
	if len(text) <= c.cfg.PreviewChars {
		return text
	}
	return text[:c.cfg.PreviewChars]
}

// TextAnalyzer reviews free-text answers with no supporting document.
type TextAnalyzer struct {
	core *core
}

const textSystemPrompt = "You are a research ethics expert providing feedback on ethics " +
	"checklist responses. Analyze the response and provide specific, helpful feedback " +
	"focused on ethical considerations, clarity, and completeness."

// Analyze reviews the answer text against the question.
func (a *TextAnalyzer) Analyze(ctx context.Context, in Input) (*Verdict, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", in.Prompt)
	if in.Guidance != "" {
		fmt.Fprintf(&b, "Guidance: %s\n", in.Guidance)
	}
	fmt.Fprintf(&b, "Response: %s\n", in.AnswerText)
	b.WriteString("\nNo document was provided. Focus on the ethical implications of the " +
		"response and what documentation might be needed.\n")
	b.WriteString(responseFormat)

	content, err := a.core.complete(ctx, textSystemPrompt, b.String())
	if err != nil {
		return nil, &AnalysisError{QuestionID: in.QuestionID, Err: err}
	}
	return a.core.verdictFrom(content, in.QuestionID)
}

// DocumentAnalyzer reviews a supporting document in the context of its
// question, alongside whatever answer text accompanies it.
type DocumentAnalyzer struct {
	core *core
}

const documentSystemPrompt = "You are a document review assistant specializing in research " +
	"ethics documentation. Analyze the provided document in the context of the related " +
	"ethics question. Identify missing elements and suggest improvements."

// Analyze reviews the attached document against the question.
func (a *DocumentAnalyzer) Analyze(ctx context.Context, in Input) (*Verdict, error) {
	if in.Document == nil {
		return nil, &AnalysisError{QuestionID: in.QuestionID, Err: fmt.Errorf("document analyzer called without a document")}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ethics Question: %s\n", in.Prompt)
	if in.Guidance != "" {
		fmt.Fprintf(&b, "Guidance: %s\n", in.Guidance)
	}
	if in.AnswerText != "" {
		fmt.Fprintf(&b, "Response: %s\n", in.AnswerText)
	}
	fmt.Fprintf(&b, "\nDocument Name: %s\nDocument Type: %s\n", in.Document.Name, in.Document.MediaType)
	fmt.Fprintf(&b, "\nDocument Content Preview:\n%s\n", a.core.preview(in.Document.Text))
	b.WriteString("\nAssess whether this document adequately addresses the ethics question.\n")
	b.WriteString(responseFormat)

	content, err := a.core.complete(ctx, documentSystemPrompt, b.String())
	if err != nil {
		return nil, &AnalysisError{QuestionID: in.QuestionID, Err: err}
	}
	return a.core.verdictFrom(content, in.QuestionID)
}
