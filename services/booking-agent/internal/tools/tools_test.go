package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/md-rashed-zaman/apptagent/libs/db"
	"github.com/md-rashed-zaman/apptagent/libs/runtime"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/booking"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type markingRephraser struct {
	errors  []string
	results []string
}

func (m *markingRephraser) Error(_ context.Context, msg string) string {
	m.errors = append(m.errors, msg)
	return "ERR: " + msg
}

func (m *markingRephraser) Result(_ context.Context, msg string) string {
	m.results = append(m.results, msg)
	return "RES: " + msg
}

func newRegistry(t *testing.T, rephraser *markingRephraser, opts ...Option) *Registry {
	t.Helper()
	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	repo := storage.NewSQLiteRepository(conn)
	require.NoError(t, repo.Migrate(ctx))

	svc := booking.NewService(repo, nil, runtime.DiscardLogger())
	reg, err := NewRegistry(svc, rephraser, runtime.DiscardLogger(), opts...)
	require.NoError(t, err)
	return reg
}

func call(t *testing.T, reg *Registry, name, args string) Result {
	t.Helper()
	res, err := reg.Call(context.Background(), name, json.RawMessage(args))
	require.NoError(t, err)
	return res
}

const insertJSON = `{"phone_number":"01712345678","person_name":"Jane Doe","appointment_date":"2024-12-02","appointment_time":"9:05:00","age":"30"}`

func TestDefinitions(t *testing.T) {
	reg := newRegistry(t, &markingRephraser{})
	defs := reg.Definitions()
	require.Len(t, defs, 4)

	names := []string{defs[0].Name, defs[1].Name, defs[2].Name, defs[3].Name}
	assert.Equal(t, []string{DeleteData, InsertData, SearchData, UpdateData}, names)

	insert := defs[1]
	assert.Equal(t, "object", insert.Parameters["type"])
	props, ok := insert.Parameters["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "phone_number")
	assert.Contains(t, props, "age")

	required, ok := insert.Parameters["required"].([]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"phone_number", "person_name", "appointment_date", "appointment_time"}, required)

	age, ok := props["age"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, age, "oneOf")
	assert.NotContains(t, insert.Parameters, "$schema")
}

func TestAllToolsAreDirect(t *testing.T) {
	reg := newRegistry(t, &markingRephraser{})
	for _, tool := range reg.Tools() {
		assert.True(t, tool.Direct, tool.Name)
	}
}

func TestCall_UnknownTool(t *testing.T) {
	reg := newRegistry(t, &markingRephraser{})
	_, err := reg.Call(context.Background(), "drop_table", nil)
	assert.True(t, errors.Is(err, ErrUnknownTool))
}

func TestCall_Lifecycle(t *testing.T) {
	rp := &markingRephraser{}
	reg := newRegistry(t, rp)

	res := call(t, reg, InsertData, insertJSON)
	assert.Equal(t, "ok", res.Kind)
	assert.Equal(t, "Your appointment request has been posted. Your ID number is 1.", res.Message)
	assert.True(t, res.Direct)

	res = call(t, reg, SearchData, `{"user_id":1}`)
	assert.Equal(t, "ok", res.Kind)
	assert.Contains(t, res.Message, "Appointment time     : 9:05")
	assert.Contains(t, res.Message, "Age                  : 30")

	res = call(t, reg, UpdateData, `{"user_id":"1","appointment_date":"05-12-2024","appointment_time":"11:05"}`)
	assert.Equal(t, "ok", res.Kind)
	assert.True(t, strings.HasPrefix(res.Message, "Your appointment details have been updated.\n"))
	assert.Contains(t, res.Message, "Appointment end time : 11:10")

	res = call(t, reg, UpdateData, `{"user_id":1}`)
	assert.Equal(t, "no_change", res.Kind)
	assert.Equal(t, "No new information provided to update.", res.Message)

	res = call(t, reg, DeleteData, `{"user_id":1}`)
	assert.Equal(t, "Appointment canceled for user id 1.", res.Message)

	res = call(t, reg, DeleteData, `{"user_id":1}`)
	assert.Equal(t, "not_found", res.Kind)
	assert.Equal(t, "No appointment details found with the user id 1.", res.Message)

	assert.Empty(t, rp.errors)
	assert.Empty(t, rp.results)
}

func TestCall_ErrorsAreRephrased(t *testing.T) {
	rp := &markingRephraser{}
	reg := newRegistry(t, rp)

	res := call(t, reg, SearchData, `{"user_id":"abc"}`)
	assert.Equal(t, "invalid", res.Kind)
	assert.Equal(t, "ERR: Invalid user id. It should be a positive integer number.", res.Message)

	res = call(t, reg, DeleteData, `{"user_id":0}`)
	assert.Equal(t, "invalid", res.Kind)

	res = call(t, reg, InsertData, `{"phone_number":"01712345678","person_name":"Jane","appointment_date":"2024-12-02","appointment_time":"9:05:00","age":"old"}`)
	assert.Equal(t, "ERR: Invalid age. It should be between 20-100.", res.Message)

	res = call(t, reg, InsertData, `{not json`)
	assert.Equal(t, "invalid", res.Kind)
	assert.True(t, strings.HasPrefix(res.Message, "ERR: Invalid tool arguments."))

	assert.Len(t, rp.errors, 4)
}

func TestCall_ResultRephrasingOptIn(t *testing.T) {
	rp := &markingRephraser{}
	reg := newRegistry(t, rp, WithResultRephrasing())

	res := call(t, reg, SearchData, `{"user_id":3}`)
	assert.Equal(t, "not_found", res.Kind)
	assert.Equal(t, "RES: No appointment booked with user id 3.", res.Message)
}

func TestFlexInt(t *testing.T) {
	cases := []struct {
		in    string
		set   bool
		valid bool
		value int64
	}{
		{`7`, true, true, 7},
		{`"7"`, true, true, 7},
		{`" 12 "`, true, true, 12},
		{`7.0`, true, true, 7},
		{`7.5`, true, false, 0},
		{`"seven"`, true, false, 0},
		{`null`, false, false, 0},
		{`""`, false, false, 0},
		{`true`, true, false, 0},
	}
	for _, c := range cases {
		var f FlexInt
		require.NoError(t, json.Unmarshal([]byte(c.in), &f), c.in)
		assert.Equal(t, c.set, f.Set, c.in)
		assert.Equal(t, c.valid, f.Valid, c.in)
		assert.Equal(t, c.value, f.Value, c.in)
	}
}
