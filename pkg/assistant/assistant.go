// Package assistant answers visitor chat questions through a hosted LLM
// (OpenAI or Gemini) or a deterministic offline responder, and produces
// place embeddings for grounding.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
)

const (
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderOffline  = "offline"
	ProviderFallback = "fallback"
)

type Message struct {
	Role    string // user | assistant
	Content string
}

// Place is the grounding context handed to the model.
type Place struct {
	Name         string `json:"name"`
	Category     string `json:"category,omitempty"`
	Address      string `json:"address,omitempty"`
	OpeningHours string `json:"opening_hours,omitempty"`
	Description  string `json:"description,omitempty"`
}

type Request struct {
	Question string
	History  []Message
	Places   []Place
	Language string
}

type Assistant interface {
	Name() string
	Reply(ctx context.Context, req Request) (string, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) (pgvector.Vector, error)
}

type Config struct {
	Provider       string
	APIKey         string
	Model          string
	EmbeddingModel string
}

// New builds the configured assistant and embedder. Gemini has no
// 1536-dimension embedding model, so it pairs with the hash embedder.
func New(ctx context.Context, cfg Config) (Assistant, Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		a := NewOpenAIAssistant(cfg.APIKey, cfg.Model)
		return a, NewOpenAIEmbedder(a.client, cfg.EmbeddingModel), nil
	case ProviderGemini:
		a, err := NewGeminiAssistant(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, nil, err
		}
		return a, HashEmbedder{}, nil
	case ProviderOffline, "":
		return OfflineAssistant{}, HashEmbedder{}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported assistant provider %q", cfg.Provider)
	}
}
