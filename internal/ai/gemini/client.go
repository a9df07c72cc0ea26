package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/hiringtools/cv-screener/internal/utils"
)

const (
	defaultModel      = "gemini-2.5-flash"
	defaultMaxRetries = 2

	// diagnosticToolName is the single tool exposed to the model. It takes
	// no arguments, always answers the same text, and exists only to keep
	// the tool-invocation path exercised. It carries no send capability.
	diagnosticToolName   = "print_hello"
	diagnosticToolAnswer = "Hello world!"

	// maxToolTurns bounds how many tool-call round trips one generation
	// may take before the response is considered text-free.
	maxToolTurns = 2
)

// contentCaller is the slice of the genai model API the generator needs.
type contentCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client with bounded retries and the
// diagnostic tool declaration.
type Generator struct {
	models     contentCaller
	model      string
	maxRetries int
	logger     *zap.Logger
}

var sleep = func(ctx context.Context, d time.Duration) error {
	return utils.WaitFor(ctx, d)
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		models:     client.Models,
		model:      model,
		maxRetries: maxRetries,
		logger:     logger,
	}, nil
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// GenerateContent sends the system instructions and the user prompt to
// Gemini and returns the textual response. Transport errors are retried up
// to the configured attempt bound; tool calls are answered inline.
func (g *Generator) GenerateContent(ctx context.Context, system, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:        diagnosticToolName,
				Description: "Print hello world. A no-argument diagnostic action with no effect on the evaluation.",
			}},
		}},
	}

	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		output, err := g.converse(ctx, genai.Text(prompt), config)
		if err == nil {
			return output, nil
		}

		lastErr = err
		g.logger.Warn("gemini request failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", g.maxRetries),
			zap.Error(err),
		)

		if attempt < g.maxRetries {
			if waitErr := sleep(ctx, time.Duration(attempt)*time.Second); waitErr != nil {
				return "", waitErr
			}
		}
	}

	return "", fmt.Errorf("gemini request failed after %d attempts: %w", g.maxRetries, lastErr)
}

// converse drives one generation, answering tool calls until the model
// produces text or the tool-turn bound is hit.
func (g *Generator) converse(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	for turn := 0; ; turn++ {
		resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
		if err != nil {
			return "", fmt.Errorf("generate content: %w", err)
		}

		calls := functionCalls(resp)
		if len(calls) == 0 {
			return collectText(resp)
		}

		if turn >= maxToolTurns {
			return "", fmt.Errorf("model kept requesting tools after %d turns", maxToolTurns)
		}

		contents = append(contents, modelContent(resp))
		for _, call := range calls {
			g.logger.Debug("answering model tool call", zap.String("tool", call.Name))

			contents = append(contents, &genai.Content{
				Role: genai.RoleUser,
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						Name:     call.Name,
						Response: map[string]any{"output": diagnosticToolAnswer},
					},
				}},
			})
		}
	}
}

func functionCalls(resp *genai.GenerateContentResponse) []*genai.FunctionCall {
	var calls []*genai.FunctionCall
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.FunctionCall != nil {
				calls = append(calls, part.FunctionCall)
			}
		}
	}
	return calls
}

func modelContent(resp *genai.GenerateContentResponse) *genai.Content {
	for _, candidate := range resp.Candidates {
		if candidate != nil && candidate.Content != nil {
			return candidate.Content
		}
	}
	return &genai.Content{Role: genai.RoleModel}
}

func collectText(resp *genai.GenerateContentResponse) (string, error) {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}
