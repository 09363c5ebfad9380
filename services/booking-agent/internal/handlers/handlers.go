package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/md-rashed-zaman/apptagent/libs/httpx"
	"github.com/md-rashed-zaman/apptagent/libs/llm"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/model"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/tools"
)

const toolsPrefix = "/api/v1/tools/"

type ToolRunner interface {
	Tools() []tools.Tool
	Call(ctx context.Context, name string, args json.RawMessage) (tools.Result, error)
}

type Responder interface {
	Respond(ctx context.Context, history []llm.Message, input string) (string, error)
}

type Lister interface {
	List(ctx context.Context, limit int) ([]model.Appointment, error)
}

type Handler struct {
	tools  ToolRunner
	agent  Responder
	lister Lister
	logger *slog.Logger
}

// NewHandler wires the API. agent may be nil when no model is configured; the
// chat endpoint then answers 503.
func NewHandler(tr ToolRunner, agent Responder, lister Lister, logger *slog.Logger) *Handler {
	return &Handler{tools: tr, agent: agent, lister: lister, logger: logger}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/tools", h.ListTools)
	mux.HandleFunc(toolsPrefix, h.CallTool)
	mux.HandleFunc("/api/v1/chat", h.Chat)
	mux.HandleFunc("/api/v1/appointments", h.ListAppointments)
}

type toolItem struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Direct      bool           `json:"direct"`
	Parameters  map[string]any `json:"parameters"`
}

func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	list := h.tools.Tools()
	items := make([]toolItem, 0, len(list))
	for _, t := range list {
		items = append(items, toolItem{Name: t.Name, Description: t.Description, Direct: t.Direct, Parameters: t.Parameters})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) CallTool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, toolsPrefix), "/")
	if name == "" {
		http.Error(w, "tool name required", http.StatusNotFound)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	res, err := h.tools.Call(r.Context(), name, json.RawMessage(body))
	if errors.Is(err, tools.ErrUnknownTool) {
		http.Error(w, "unknown tool", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("tool call failed", "tool", name, "err", err, "request_id", httpx.RequestIDFromContext(r.Context()))
		http.Error(w, "tool call failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, statusForKind(res.Kind), res)
}

func statusForKind(kind string) int {
	switch kind {
	case "invalid":
		return http.StatusUnprocessableEntity
	case "not_found":
		return http.StatusNotFound
	case "failed":
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message string        `json:"message"`
	History []chatMessage `json:"history"`
}

type chatResponse struct {
	Reply   string        `json:"reply"`
	History []chatMessage `json:"history"`
}

// Chat runs one agent turn. The client owns the conversation and sends it
// back with every request.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.agent == nil {
		http.Error(w, "chat model not configured", http.StatusServiceUnavailable)
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		http.Error(w, "message required", http.StatusBadRequest)
		return
	}

	history := make([]llm.Message, 0, len(req.History))
	for _, m := range req.History {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			http.Error(w, "history role must be user or assistant", http.StatusBadRequest)
			return
		}
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := h.agent.Respond(r.Context(), history, req.Message)
	if err != nil {
		h.logger.Error("agent turn failed", "err", err, "request_id", httpx.RequestIDFromContext(r.Context()))
		http.Error(w, "agent failed to respond", http.StatusBadGateway)
		return
	}
	out := append(req.History,
		chatMessage{Role: llm.RoleUser, Content: req.Message},
		chatMessage{Role: llm.RoleAssistant, Content: reply},
	)
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, History: out})
}

type appointmentItem struct {
	UserID             int64  `json:"user_id"`
	PhoneNumber        string `json:"phone_number"`
	PersonName         string `json:"person_name"`
	Age                *int   `json:"age,omitempty"`
	AppointmentDate    string `json:"appointment_date"`
	AppointmentTime    string `json:"appointment_time"`
	AppointmentEndTime string `json:"appointment_end_time"`
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	appts, err := h.lister.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("list appointments failed", "err", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	items := make([]appointmentItem, 0, len(appts))
	for _, a := range appts {
		items = append(items, appointmentItem{
			UserID:             a.ID,
			PhoneNumber:        a.PhoneNumber,
			PersonName:         a.PersonName,
			Age:                a.Age,
			AppointmentDate:    a.Date.Format(model.DateLayout),
			AppointmentTime:    a.StartTime.Format(model.TimeLayout),
			AppointmentEndTime: a.EndTime.Format(model.TimeLayout),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
