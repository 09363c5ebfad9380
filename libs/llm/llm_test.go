package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingTool() ToolDefinition {
	return ToolDefinition{
		Name:        "search_data",
		Description: "Look up an appointment",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"user_id": map[string]any{"type": "integer"},
			},
			"required": []any{"user_id"},
		},
	}
}

func TestNew(t *testing.T) {
	_, err := New(Config{Provider: "openai"})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	_, err = New(Config{Provider: "anthropic"})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	_, err = New(Config{Provider: "bard", OpenAIAPIKey: "k"})
	assert.Error(t, err)

	p, err := New(Config{Provider: "groq", OpenAIAPIKey: "k", OpenAIBaseURL: "https://api.groq.com/openai/v1"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIProvider{}, p)

	p, err = New(Config{Provider: "Anthropic", AnthropicAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicProvider{}, p)
}

func TestToOpenAITools(t *testing.T) {
	out := toOpenAITools([]ToolDefinition{bookingTool()})
	require.Len(t, out, 1)
	assert.Equal(t, "search_data", out[0].Function.Name)
}

func TestToOpenAIMessage(t *testing.T) {
	assert.NotNil(t, toOpenAIMessage(Message{Role: RoleUser, Content: "hi"}).OfUser)

	tool := toOpenAIMessage(Message{Role: RoleTool, Content: "done", ToolCallID: "call_1"})
	require.NotNil(t, tool.OfTool)
	assert.Equal(t, "call_1", tool.OfTool.ToolCallID)

	asst := toOpenAIMessage(Message{
		Role:      RoleAssistant,
		ToolCalls: []ToolCall{{ID: "call_1", Name: "search_data", Arguments: `{"user_id":3}`}},
	})
	require.NotNil(t, asst.OfAssistant)
	require.Len(t, asst.OfAssistant.ToolCalls, 1)
	assert.Equal(t, `{"user_id":3}`, asst.OfAssistant.ToolCalls[0].Function.Arguments)
}

func TestFromOpenAIMessage(t *testing.T) {
	msg := fromOpenAIMessage(openai.ChatCompletionMessage{
		ToolCalls: []openai.ChatCompletionMessageToolCall{{
			ID:       "call_9",
			Function: openai.ChatCompletionMessageToolCallFunction{Name: "delete_data", Arguments: `{"user_id":9}`},
		}},
	})
	assert.Equal(t, RoleAssistant, msg.Role)
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, ToolCall{ID: "call_9", Name: "delete_data", Arguments: `{"user_id":9}`}, msg.ToolCalls[0])
}

func TestOpenAIProvider_CreateCompletion(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "llama-3.1-70b-versatile",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "Your appointment is booked."}
			}]
		}`)
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", srv.URL+"/", option.WithMaxRetries(0))
	text, err := Complete(context.Background(), p, "llama-3.1-70b-versatile", "be nice", "raw result")
	require.NoError(t, err)
	assert.Equal(t, "Your appointment is booked.", text)

	msgs, ok := got["messages"].([]any)
	require.True(t, ok, "request should carry messages")
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
}

func TestToAnthropicTools(t *testing.T) {
	out := toAnthropicTools([]ToolDefinition{bookingTool()})
	require.Len(t, out, 1)
	require.NotNil(t, out[0].OfTool)
	assert.Equal(t, []string{"user_id"}, out[0].OfTool.InputSchema.Required)
	props, ok := out[0].OfTool.InputSchema.Properties.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "user_id")
}

func TestToAnthropicMessages(t *testing.T) {
	out := toAnthropicMessages([]Message{
		{Role: RoleUser, Content: "book me"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "tu_1", Name: "insert_data"}}},
		{Role: RoleTool, Content: "ok", ToolCallID: "tu_1"},
	})
	require.Len(t, out, 3)
	assert.Equal(t, anthropic.MessageParamRoleUser, out[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, out[1].Role)
	assert.Equal(t, anthropic.MessageParamRoleUser, out[2].Role)
}

type stubProvider struct {
	resp *Message
	err  error
}

func (s stubProvider) CreateCompletion(context.Context, string, string, []Message, []ToolDefinition) (*Message, error) {
	return s.resp, s.err
}

func TestComplete(t *testing.T) {
	_, err := Complete(context.Background(), stubProvider{err: errors.New("boom")}, "m", "", "x")
	assert.Error(t, err)

	_, err = Complete(context.Background(), stubProvider{}, "m", "", "x")
	assert.Error(t, err)

	text, err := Complete(context.Background(), stubProvider{resp: &Message{Content: "  hi \n"}}, "m", "", "x")
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
}
