// Package llm is a thin provider-agnostic layer over the OpenAI and Anthropic
// SDKs: one chat-completion call with optional tool definitions.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolDefinition is a tool offered to the model. Parameters is a JSON Schema
// object ("type", "properties", "required").
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is a single tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string // set when Role == RoleTool
}

// ChatProvider abstracts a chat-completion backend. systemMsg is prepended as
// a system instruction when non-empty.
type ChatProvider interface {
	CreateCompletion(ctx context.Context, model string, systemMsg string, messages []Message, tools []ToolDefinition) (*Message, error)
}

type Config struct {
	Provider        string // "openai" (default, any OpenAI-compatible endpoint) or "anthropic"
	Model           string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	AnthropicAPIKey string
}

var ErrNoAPIKey = errors.New("llm api key is not set")

// New builds the provider named by cfg.Provider.
func New(cfg Config) (ChatProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic: %w", ErrNoAPIKey)
		}
		return NewAnthropicProvider(cfg.AnthropicAPIKey), nil
	case "", "openai", "groq":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai: %w", ErrNoAPIKey)
		}
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// Complete runs a single-turn, tool-less completion and returns the text.
func Complete(ctx context.Context, p ChatProvider, model, systemMsg, input string) (string, error) {
	resp, err := p.CreateCompletion(ctx, model, systemMsg, []Message{{Role: RoleUser, Content: input}}, nil)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errors.New("llm returned no message")
	}
	return strings.TrimSpace(resp.Content), nil
}
