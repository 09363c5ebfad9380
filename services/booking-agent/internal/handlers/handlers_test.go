package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/md-rashed-zaman/apptagent/libs/db"
	"github.com/md-rashed-zaman/apptagent/libs/llm"
	"github.com/md-rashed-zaman/apptagent/libs/runtime"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/booking"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/storage"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAgent struct {
	history []llm.Message
	err     error
}

func (s *stubAgent) Respond(_ context.Context, history []llm.Message, input string) (string, error) {
	s.history = history
	if s.err != nil {
		return "", s.err
	}
	return "echo: " + input, nil
}

func newServer(t *testing.T, agent Responder) *http.ServeMux {
	t.Helper()
	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	repo := storage.NewSQLiteRepository(conn)
	require.NoError(t, repo.Migrate(ctx))

	svc := booking.NewService(repo, nil, runtime.DiscardLogger())
	reg, err := tools.NewRegistry(svc, nil, runtime.DiscardLogger())
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewHandler(reg, agent, svc, runtime.DiscardLogger()).Register(mux)
	return mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) tools.Result {
	t.Helper()
	var res tools.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestListTools(t *testing.T) {
	mux := newServer(t, nil)
	rec := do(mux, http.MethodGet, "/api/v1/tools", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []toolItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 4)
	assert.Equal(t, tools.DeleteData, items[0].Name)
	assert.True(t, items[0].Direct)

	rec = do(mux, http.MethodPost, "/api/v1/tools", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCallTool(t *testing.T) {
	mux := newServer(t, nil)

	rec := do(mux, http.MethodPost, "/api/v1/tools/insert_data",
		`{"phone_number":"01912345678","person_name":"Rahim","appointment_date":"2024-12-02","appointment_time":"10:00:00"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeResult(t, rec)
	assert.Equal(t, "insert_data", res.Tool)
	assert.Equal(t, "ok", res.Kind)
	assert.Equal(t, "Your appointment request has been posted. Your ID number is 1.", res.Message)

	rec = do(mux, http.MethodPost, "/api/v1/tools/search_data", `{"user_id":2}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeResult(t, rec).Kind)

	rec = do(mux, http.MethodPost, "/api/v1/tools/search_data", `{"user_id":-2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(mux, http.MethodPost, "/api/v1/tools/truncate", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(mux, http.MethodGet, "/api/v1/tools/search_data", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListAppointments(t *testing.T) {
	mux := newServer(t, nil)
	do(mux, http.MethodPost, "/api/v1/tools/insert_data",
		`{"phone_number":"01912345678","person_name":"Rahim","appointment_date":"2024-12-02","appointment_time":"10:00:00","age":44}`)

	rec := do(mux, http.MethodGet, "/api/v1/appointments?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []appointmentItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "10:05:00", items[0].AppointmentEndTime)
	require.NotNil(t, items[0].Age)
	assert.Equal(t, 44, *items[0].Age)
}

func TestChat(t *testing.T) {
	agent := &stubAgent{}
	mux := newServer(t, agent)

	rec := do(mux, http.MethodPost, "/api/v1/chat",
		`{"message":"book me","history":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "echo: book me", resp.Reply)
	assert.Len(t, resp.History, 4)
	assert.Len(t, agent.history, 2)
}

func TestChat_Errors(t *testing.T) {
	mux := newServer(t, nil)
	rec := do(mux, http.MethodPost, "/api/v1/chat", `{"message":"hi"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	mux = newServer(t, &stubAgent{})
	rec = do(mux, http.MethodPost, "/api/v1/chat", `{"message":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(mux, http.MethodPost, "/api/v1/chat", `{"message":"hi","history":[{"role":"system","content":"x"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mux = newServer(t, &stubAgent{err: errors.New("provider down")})
	rec = do(mux, http.MethodPost, "/api/v1/chat", `{"message":"hi"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
