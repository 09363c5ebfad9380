// Package agent runs the tool-calling loop that lets a chat model book,
// find, update and cancel appointments.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/md-rashed-zaman/apptagent/libs/llm"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/tools"
)

const DefaultMaxIterations = 5

// ToolCaller is implemented by tools.Registry.
type ToolCaller interface {
	Definitions() []llm.ToolDefinition
	Call(ctx context.Context, name string, args json.RawMessage) (tools.Result, error)
}

type Config struct {
	Model         string
	MaxIterations int
	SystemPrompt  string
}

type Agent struct {
	provider llm.ChatProvider
	tools    ToolCaller
	cfg      Config
	logger   *slog.Logger
}

func New(provider llm.ChatProvider, tc ToolCaller, cfg Config, logger *slog.Logger) *Agent {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = SystemPrompt
	}
	return &Agent{provider: provider, tools: tc, cfg: cfg, logger: logger}
}

// Respond answers one user input given the prior conversation. history holds
// only user and assistant turns; tool traffic stays inside the call.
func (a *Agent) Respond(ctx context.Context, history []llm.Message, input string) (string, error) {
	msgs := make([]llm.Message, 0, len(history)+1)
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: input})
	defs := a.tools.Definitions()

	for i := 0; i < a.cfg.MaxIterations; i++ {
		resp, err := a.provider.CreateCompletion(ctx, a.cfg.Model, a.cfg.SystemPrompt, msgs, defs)
		if err != nil {
			return "", fmt.Errorf("chat completion (iteration %d): %w", i+1, err)
		}
		if len(resp.ToolCalls) == 0 {
			return resp.Content, nil
		}
		msgs = append(msgs, *resp)

		var direct []string
		for _, call := range resp.ToolCalls {
			out, isDirect := a.dispatch(ctx, call)
			if isDirect {
				direct = append(direct, out)
			}
			msgs = append(msgs, llm.Message{Role: llm.RoleTool, Content: out, ToolCallID: call.ID})
		}
		if len(direct) > 0 {
			return strings.Join(direct, "\n\n"), nil
		}
	}
	a.logger.Error("agent exceeded maximum iterations", "max", a.cfg.MaxIterations)
	return "", fmt.Errorf("tool loop exceeded maximum iterations (%d)", a.cfg.MaxIterations)
}

func (a *Agent) dispatch(ctx context.Context, call llm.ToolCall) (string, bool) {
	res, err := a.tools.Call(ctx, call.Name, json.RawMessage(call.Arguments))
	if err != nil {
		if errors.Is(err, tools.ErrUnknownTool) {
			a.logger.Warn("model called unknown tool", "tool", call.Name)
		}
		return "ERROR: " + err.Error(), false
	}
	a.logger.Debug("tool result", "tool", call.Name, "kind", res.Kind, "direct", res.Direct)
	return res.Message, res.Direct
}

// Session keeps the history of one conversation in memory.
type Session struct {
	agent   *Agent
	history []llm.Message
}

func (a *Agent) NewSession() *Session {
	return &Session{agent: a}
}

func (s *Session) Send(ctx context.Context, input string) (string, error) {
	reply, err := s.agent.Respond(ctx, s.history, input)
	if err != nil {
		return "", err
	}
	s.history = append(s.history,
		llm.Message{Role: llm.RoleUser, Content: input},
		llm.Message{Role: llm.RoleAssistant, Content: reply},
	)
	return reply, nil
}

func (s *Session) History() []llm.Message {
	return append([]llm.Message(nil), s.history...)
}
