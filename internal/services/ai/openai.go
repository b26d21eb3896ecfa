package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"

	"github.com/graham-fleming/lifehub/internal/models"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default embedding model
	DefaultEmbeddingModel = "text-embedding-3-small"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 30 * time.Second

	// MaxTitleLength caps classifier titles
	MaxTitleLength = 80
	// MinTags is the minimum number of tags a classification carries
	MinTags = 3
	// MaxTags caps the number of tags a classification carries
	MaxTags = 6

	// ErrNoChoicesInResponse is returned when the API response has no choices
	ErrNoChoicesInResponse = "no choices in response"
)

// classificationSchema is the JSON schema the classifier must conform to.
// Using schema-constrained output instead of free-form JSON keeps the
// category inside the fixed taxonomy.
var classificationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":   map[string]any{"type": "string", "maxLength": MaxTitleLength},
		"summary": map[string]any{"type": "string"},
		"category": map[string]any{
			"type": "string",
			"enum": []string{
				"person", "task", "note", "link", "idea",
				"meeting", "project", "reference", "general",
			},
		},
		"tags": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string"},
			"minItems": MinTags,
			"maxItems": MaxTags,
		},
		"metadata": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"content_type": map[string]any{"type": "string"},
				"sentiment": map[string]any{
					"type": "string",
					"enum": []string{"positive", "neutral", "negative"},
				},
				"urgency": map[string]any{
					"type": "string",
					"enum": []string{"high", "medium", "low"},
				},
				"entities": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required":             []string{"content_type", "sentiment", "urgency", "entities"},
			"additionalProperties": false,
		},
	},
	"required":             []string{"title", "summary", "category", "tags", "metadata"},
	"additionalProperties": false,
}

// OpenAIProvider implements the AIProvider interface using OpenAI's API
type OpenAIProvider struct {
	client         openai.Client
	model          string
	embeddingModel string
	dimensions     int
	logger         *zap.Logger
	debugMode      bool
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string, model string) *OpenAIProvider {
	return NewOpenAIProviderWithLogger(apiKey, DefaultOpenAIBaseURL, model, DefaultEmbeddingModel, 0, nil, false)
}

// NewOpenAIProviderWithLogger creates a new OpenAI provider with logger support
func NewOpenAIProviderWithLogger(apiKey string, baseURL string, model string, embeddingModel string, dimensions int, logger *zap.Logger, debugMode bool) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIProvider{
		client:         client,
		model:          model,
		embeddingModel: embeddingModel,
		dimensions:     dimensions,
		logger:         logger,
		debugMode:      debugMode,
	}
}

// Classify analyzes free-form text and returns a structured classification
func (p *OpenAIProvider) Classify(ctx context.Context, text string) (*Classification, error) {
	prompt := buildClassificationPrompt(text)
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage("You are an assistant that classifies saved notes into structured records. Respond with valid JSON only."),
		openai.UserMessage(prompt),
	}
	req := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(p.model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "saved_item_classification",
					Strict: openai.Bool(true),
					Schema: classificationSchema,
				},
			},
		},
	}

	requestID := ExtractRequestID(ctx)
	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_request",
			zap.String("operation", "classify"),
			zap.String("model", p.model),
			zap.Int("prompt_length", len(prompt)),
			zap.String("prompt_preview", SanitizePrompt(prompt, true)),
			zap.String("user_id", ExtractUserID(ctx)),
			zap.String("request_id", requestID),
		)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)
	if err != nil {
		if p.logger != nil && p.debugMode {
			p.logger.Debug("llm_api_error",
				zap.String("operation", "classify"),
				zap.String("model", p.model),
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return nil, fmt.Errorf("failed to classify text: %w", apiErr)
		}
		return nil, fmt.Errorf("failed to classify text: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New(ErrNoChoicesInResponse)
	}
	content := resp.Choices[0].Message.Content

	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_response",
			zap.String("operation", "classify"),
			zap.String("model", p.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", SanitizeResponse(content, true)),
			zap.String("request_id", requestID),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	return parseAndValidateClassification(content)
}

// parseAndValidateClassification decodes the model output and rejects any
// object that falls outside the schema: unknown category, title over
// MaxTitleLength runes, or a tag count outside [MinTags, MaxTags]. A
// non-conforming object is a categorization failure, not something to patch
// up locally.
func parseAndValidateClassification(content string) (*Classification, error) {
	c := &Classification{}
	raw := content
	if err := json.Unmarshal([]byte(raw), c); err != nil {
		if len(raw) > 0 && raw[0] != '{' {
			start := bytes.Index([]byte(raw), []byte("{"))
			end := bytes.LastIndex([]byte(raw), []byte("}"))
			if start != -1 && end != -1 && end > start {
				raw = raw[start : end+1]
			}
		}
		if err := json.Unmarshal([]byte(raw), c); err != nil {
			return nil, fmt.Errorf("failed to parse classification response: %w", err)
		}
	}

	if !models.ValidSaverCategory(c.Category) {
		return nil, fmt.Errorf("classification category %q is not in the taxonomy", c.Category)
	}
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		c.Title = "Untitled"
	}
	if utf8.RuneCountInString(c.Title) > MaxTitleLength {
		return nil, fmt.Errorf("classification title exceeds %d characters", MaxTitleLength)
	}
	c.Summary = strings.TrimSpace(c.Summary)
	if len(c.Tags) < MinTags || len(c.Tags) > MaxTags {
		return nil, fmt.Errorf("classification carries %d tags, want %d to %d", len(c.Tags), MinTags, MaxTags)
	}

	return c, nil
}

// Embed returns the embedding vector for the given text
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(p.embeddingModel),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	}
	if p.dimensions > 0 {
		req.Dimensions = openai.Int(int64(p.dimensions))
	}

	requestID := ExtractRequestID(ctx)
	if p.logger != nil && p.debugMode {
		p.logger.Debug("embedding_api_request",
			zap.String("model", p.embeddingModel),
			zap.Int("input_length", len(text)),
			zap.String("request_id", requestID),
		)
	}

	start := time.Now()
	resp, err := p.client.Embeddings.New(ctx, req)
	latency := time.Since(start)
	if err != nil {
		if p.logger != nil && p.debugMode {
			p.logger.Debug("embedding_api_error",
				zap.String("model", p.embeddingModel),
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return nil, fmt.Errorf("failed to embed text: %w", apiErr)
		}
		return nil, fmt.Errorf("failed to embed text: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding in response")
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}

	if p.logger != nil && p.debugMode {
		p.logger.Debug("embedding_api_response",
			zap.String("model", p.embeddingModel),
			zap.Int("dimensions", len(vec)),
			zap.String("request_id", requestID),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	return vec, nil
}

// buildClassificationPrompt builds the prompt for text classification
func buildClassificationPrompt(text string) string {
	prompt := fmt.Sprintf(`Classify the following saved text into a structured record.

Text: %q

Produce:
1. A short title (at most %d characters)
2. A one or two sentence summary
3. A category, exactly one of: person, task, note, link, idea, meeting, project, reference, general
4. Between %d and %d relevant tags
5. Metadata: content_type (free text, e.g. "url", "phone note"), sentiment (positive, neutral, negative), urgency (high, medium, low), and any named entities mentioned

Category guidance:
- "person": contact details or facts about a specific person
- "task": something the user needs to do
- "link": a URL or reference to online content
- "meeting": notes from or plans for a meeting
- "reference": factual material to look up later
- Use "general" only when nothing else fits

Return only valid JSON.`, text, MaxTitleLength, MinTags, MaxTags)

	return prompt
}

// RegisterOpenAI registers the OpenAI provider with the registry
func RegisterOpenAI(registry *ProviderRegistry) {
	registry.Register("openai", func(config map[string]string) (AIProvider, error) {
		apiKey, ok := config["api_key"]
		if !ok || apiKey == "" {
			return nil, fmt.Errorf("openai api_key is required")
		}

		return NewOpenAIProviderWithLogger(
			apiKey,
			config["base_url"],
			config["model"],
			config["embedding_model"],
			0,
			nil,
			false,
		), nil
	})
}
