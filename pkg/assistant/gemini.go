package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiAssistant struct {
	client *genai.Client
	model  string
}

func NewGeminiAssistant(ctx context.Context, apiKey, model string) (*GeminiAssistant, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiAssistant{client: client, model: model}, nil
}

func (a *GeminiAssistant) Name() string { return ProviderGemini }

func (a *GeminiAssistant) Reply(ctx context.Context, req Request) (string, error) {
	m := a.client.GenerativeModel(a.model)
	m.SetTemperature(0.4)
	m.SetMaxOutputTokens(600)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt(req))}}

	cs := m.StartChat()
	for _, h := range req.History {
		role := "user"
		if h.Role == "assistant" {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(h.Content)}})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(req.Question))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: no content generated")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New("gemini: empty reply")
	}
	return text, nil
}

func (a *GeminiAssistant) Close() error {
	return a.client.Close()
}
