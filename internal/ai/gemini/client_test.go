package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeModels struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	calls     int
	contents  [][]*genai.Content
	config    *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, _ string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	idx := f.calls
	f.calls++
	f.contents = append(f.contents, contents)
	f.config = config

	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	return nil, errors.New("no scripted response")
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: text}},
			},
		}},
	}
}

func toolCallResponse(name string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{FunctionCall: &genai.FunctionCall{Name: name}}},
			},
		}},
	}
}

func newTestGenerator(models contentCaller, maxRetries int) *Generator {
	return &Generator{
		models:     models,
		model:      "test-model",
		maxRetries: maxRetries,
		logger:     zap.NewNop(),
	}
}

func TestGenerateContent(t *testing.T) {
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{textResponse(`{"score": 90}`)}}
	gen := newTestGenerator(fake, 2)

	out, err := gen.GenerateContent(context.Background(), "system text", "user prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != `{"score": 90}` {
		t.Fatalf("unexpected output: %q", out)
	}

	if fake.calls != 1 {
		t.Fatalf("expected a single api call, got %d", fake.calls)
	}

	if fake.config == nil || fake.config.SystemInstruction == nil {
		t.Fatalf("expected system instruction to be set")
	}

	if len(fake.config.Tools) != 1 || len(fake.config.Tools[0].FunctionDeclarations) != 1 {
		t.Fatalf("expected the diagnostic tool declaration")
	}

	if got := fake.config.Tools[0].FunctionDeclarations[0].Name; got != diagnosticToolName {
		t.Fatalf("unexpected tool name: %q", got)
	}
}

func TestGenerateContentRetries(t *testing.T) {
	originalSleep := sleep
	var waits []time.Duration
	sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	defer func() { sleep = originalSleep }()

	fake := &fakeModels{
		errs:      []error{errors.New("transient"), nil},
		responses: []*genai.GenerateContentResponse{nil, textResponse("recovered")},
	}
	gen := newTestGenerator(fake, 3)

	out, err := gen.GenerateContent(context.Background(), "", "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "recovered" {
		t.Fatalf("unexpected output: %q", out)
	}

	if fake.calls != 2 {
		t.Fatalf("expected two api calls, got %d", fake.calls)
	}

	if len(waits) != 1 || waits[0] != time.Second {
		t.Fatalf("expected one backoff of 1s, got %v", waits)
	}
}

func TestGenerateContentExhaustsRetries(t *testing.T) {
	originalSleep := sleep
	sleep = func(context.Context, time.Duration) error { return nil }
	defer func() { sleep = originalSleep }()

	fake := &fakeModels{errs: []error{errors.New("down"), errors.New("down"), errors.New("down")}}
	gen := newTestGenerator(fake, 3)

	if _, err := gen.GenerateContent(context.Background(), "", "prompt"); err == nil {
		t.Fatalf("expected error after exhausting retries")
	}

	if fake.calls != 3 {
		t.Fatalf("expected three api calls, got %d", fake.calls)
	}
}

func TestGenerateContentAnswersToolCalls(t *testing.T) {
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{
		toolCallResponse(diagnosticToolName),
		textResponse("final answer"),
	}}
	gen := newTestGenerator(fake, 1)

	out, err := gen.GenerateContent(context.Background(), "", "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "final answer" {
		t.Fatalf("unexpected output: %q", out)
	}

	if fake.calls != 2 {
		t.Fatalf("expected two api calls, got %d", fake.calls)
	}

	// Second call carries the prompt, the model turn and the tool answer.
	second := fake.contents[1]
	if len(second) != 3 {
		t.Fatalf("expected three content entries on the tool turn, got %d", len(second))
	}

	answer := second[2]
	if len(answer.Parts) != 1 || answer.Parts[0].FunctionResponse == nil {
		t.Fatalf("expected a function response part, got %+v", answer)
	}

	resp := answer.Parts[0].FunctionResponse
	if resp.Name != diagnosticToolName {
		t.Fatalf("unexpected tool response name: %q", resp.Name)
	}

	if resp.Response["output"] != diagnosticToolAnswer {
		t.Fatalf("unexpected tool answer: %v", resp.Response)
	}
}

func TestGenerateContentToolTurnBound(t *testing.T) {
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{
		toolCallResponse(diagnosticToolName),
		toolCallResponse(diagnosticToolName),
		toolCallResponse(diagnosticToolName),
		toolCallResponse(diagnosticToolName),
	}}
	gen := newTestGenerator(fake, 1)

	if _, err := gen.GenerateContent(context.Background(), "", "prompt"); err == nil {
		t.Fatalf("expected error when the model never yields text")
	}
}

func TestGenerateContentEmptyResponse(t *testing.T) {
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{{}}}
	gen := newTestGenerator(fake, 1)

	if _, err := gen.GenerateContent(context.Background(), "", "prompt"); err == nil {
		t.Fatalf("expected error for a text-free response")
	}
}

func TestGenerateContentEmptyPrompt(t *testing.T) {
	gen := newTestGenerator(&fakeModels{}, 1)

	if _, err := gen.GenerateContent(context.Background(), "system", "   "); err == nil {
		t.Fatalf("expected error for an empty prompt")
	}
}
