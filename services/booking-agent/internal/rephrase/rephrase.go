// Package rephrase turns technical tool messages into short sentences meant
// for the person chatting with the agent.
package rephrase

import (
	"context"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/md-rashed-zaman/apptagent/libs/llm"
)

type Rephraser interface {
	// Error explains a validation or storage failure.
	Error(ctx context.Context, msg string) string
	// Result restates a successful result.
	Result(ctx context.Context, msg string) string
}

// Passthrough returns messages unchanged.
type Passthrough struct{}

func (Passthrough) Error(_ context.Context, msg string) string  { return msg }
func (Passthrough) Result(_ context.Context, msg string) string { return msg }

const errorPrompt = `You explain problems with an appointment request to the person who made it.
You are given an error message produced while validating or saving the request.
Write one or two short, friendly sentences that say what is wrong and what the person should provide instead.
Do not quote the raw error, mention code, databases, exceptions or stack traces.
Keep every concrete rule from the message (allowed formats, ranges, prefixes) so the person can fix the input.`

const resultPrompt = `You restate the result of an appointment operation for the person who requested it.
You are given the text a booking tool returned.
Rewrite it as a short, friendly reply. Keep every value exactly as given (ids, names, phone numbers, dates, times).
Do not add information that is not in the text.`

type LLMConfig struct {
	Model     string
	CacheSize int
}

// LLM rephrases through a chat model and caches answers by message. Any
// provider failure falls back to the raw message.
type LLM struct {
	provider llm.ChatProvider
	model    string
	cache    *lru.Cache[string, string]
	logger   *slog.Logger
}

func NewLLM(provider llm.ChatProvider, cfg LLMConfig, logger *slog.Logger) (*LLM, error) {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}
	cache, err := lru.New[string, string](cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &LLM{provider: provider, model: cfg.Model, cache: cache, logger: logger}, nil
}

func (r *LLM) Error(ctx context.Context, msg string) string {
	return r.rephrase(ctx, "error", errorPrompt, msg)
}

func (r *LLM) Result(ctx context.Context, msg string) string {
	return r.rephrase(ctx, "result", resultPrompt, msg)
}

func (r *LLM) rephrase(ctx context.Context, kind, prompt, msg string) string {
	if strings.TrimSpace(msg) == "" {
		return msg
	}
	key := kind + "\x00" + msg
	if cached, ok := r.cache.Get(key); ok {
		return cached
	}
	out, err := llm.Complete(ctx, r.provider, r.model, prompt, msg)
	if err != nil {
		r.logger.Warn("rephrase failed; using raw message", "kind", kind, "err", err)
		return msg
	}
	if out == "" {
		return msg
	}
	r.cache.Add(key, out)
	return out
}
