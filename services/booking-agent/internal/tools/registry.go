// Package tools exposes the booking operations as named tools with JSON
// Schema arguments, the shape tool-calling models and the HTTP API consume.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/md-rashed-zaman/apptagent/libs/llm"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/booking"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/rephrase"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/validate"
)

const (
	InsertData = "insert_data"
	SearchData = "search_data"
	UpdateData = "update_data"
	DeleteData = "delete_data"
)

var ErrUnknownTool = errors.New("unknown tool")

// Booker is the subset of booking.Service the tools call.
type Booker interface {
	Insert(ctx context.Context, req booking.InsertRequest) booking.Outcome
	Search(ctx context.Context, userID int64) booking.Outcome
	Update(ctx context.Context, req booking.UpdateRequest) booking.Outcome
	Delete(ctx context.Context, userID int64) booking.Outcome
}

// Tool is one registered operation. Direct tools return their text straight
// to the user without another model round.
type Tool struct {
	Name        string
	Description string
	Direct      bool
	Parameters  map[string]any

	run func(ctx context.Context, args json.RawMessage) booking.Outcome
}

type Result struct {
	Tool    string `json:"tool"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Direct  bool   `json:"-"`
}

type Option func(*Registry)

// WithResultRephrasing also passes successful results through the
// rephraser. By default only failures are rephrased.
func WithResultRephrasing() Option {
	return func(r *Registry) { r.rephraseResults = true }
}

type Registry struct {
	tools           map[string]Tool
	rephraser       rephrase.Rephraser
	rephraseResults bool
	logger          *slog.Logger
}

func NewRegistry(svc Booker, rephraser rephrase.Rephraser, logger *slog.Logger, opts ...Option) (*Registry, error) {
	if rephraser == nil {
		rephraser = rephrase.Passthrough{}
	}
	r := &Registry{tools: map[string]Tool{}, rephraser: rephraser, logger: logger}
	for _, opt := range opts {
		opt(r)
	}

	specs := []struct {
		name string
		desc string
		args any
		run  func(ctx context.Context, args json.RawMessage) booking.Outcome
	}{
		{
			name: InsertData,
			desc: "This function inserts data into database table. Use this function only when you need to insert some data into the database.",
			args: &InsertArgs{},
			run: decode(func(ctx context.Context, a InsertArgs) booking.Outcome {
				req := booking.InsertRequest{
					PhoneNumber:     a.PhoneNumber,
					PersonName:      a.PersonName,
					AppointmentDate: a.AppointmentDate,
					AppointmentTime: a.AppointmentTime,
				}
				if a.Age.Set {
					if !a.Age.Valid {
						return invalid(validate.InvalidAge())
					}
					age := int(a.Age.Value)
					req.Age = &age
				}
				return svc.Insert(ctx, req)
			}),
		},
		{
			name: SearchData,
			desc: "This function takes a user id and searches the appointment record in the database. Use this function only when you need to search some data in the database.",
			args: &SearchArgs{},
			run: decode(func(ctx context.Context, a SearchArgs) booking.Outcome {
				if !a.UserID.Valid {
					return invalid(validate.InvalidIdentifier())
				}
				return svc.Search(ctx, a.UserID.Value)
			}),
		},
		{
			name: UpdateData,
			desc: "This function takes several data in order to update the database. Use this tool when you need to update some information in database table.",
			args: &UpdateArgs{},
			run: decode(func(ctx context.Context, a UpdateArgs) booking.Outcome {
				if !a.UserID.Valid {
					return invalid(validate.InvalidIdentifier())
				}
				req := booking.UpdateRequest{
					UserID:          a.UserID.Value,
					PhoneNumber:     a.PhoneNumber,
					PersonName:      a.PersonName,
					AppointmentDate: a.AppointmentDate,
					AppointmentTime: a.AppointmentTime,
				}
				if a.Age.Set {
					if !a.Age.Valid {
						return invalid(validate.InvalidAge())
					}
					age := int(a.Age.Value)
					req.Age = &age
				}
				return svc.Update(ctx, req)
			}),
		},
		{
			name: DeleteData,
			desc: "This function takes one argument which is the user id and deletes data with the id. Use this tool when you need to delete any data from the database table.",
			args: &DeleteArgs{},
			run: decode(func(ctx context.Context, a DeleteArgs) booking.Outcome {
				if !a.UserID.Valid {
					return invalid(validate.InvalidIdentifier())
				}
				return svc.Delete(ctx, a.UserID.Value)
			}),
		},
	}

	for _, s := range specs {
		params, err := schemaFor(s.args)
		if err != nil {
			return nil, fmt.Errorf("schema for %s: %w", s.name, err)
		}
		r.tools[s.name] = Tool{Name: s.name, Description: s.desc, Direct: true, Parameters: params, run: s.run}
	}
	return r, nil
}

// Tools returns the registered tools sorted by name.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) Definitions() []llm.ToolDefinition {
	tools := r.Tools()
	defs := make([]llm.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, llm.ToolDefinition{Name: t.Name, Description: t.Description, Parameters: t.Parameters})
	}
	return defs
}

func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Call runs the named tool with raw JSON arguments. Only an unknown tool name
// is an error; everything else is reported through Result.Kind.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (Result, error) {
	t, ok := r.tools[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	out := t.run(ctx, args)
	r.logger.Info("tool called", "tool", name, "kind", out.Kind.String())

	msg := out.Message
	switch {
	case out.Kind.IsError():
		msg = r.rephraser.Error(ctx, msg)
	case r.rephraseResults:
		msg = r.rephraser.Result(ctx, msg)
	}
	return Result{Tool: name, Kind: out.Kind.String(), Message: msg, Direct: t.Direct}, nil
}

// decode unmarshals args into A; malformed JSON becomes an invalid outcome.
func decode[A any](fn func(ctx context.Context, a A) booking.Outcome) func(context.Context, json.RawMessage) booking.Outcome {
	return func(ctx context.Context, raw json.RawMessage) booking.Outcome {
		var a A
		if len(strings.TrimSpace(string(raw))) > 0 {
			if err := json.Unmarshal(raw, &a); err != nil {
				return invalid(&validate.FieldError{Summary: "Invalid tool arguments.", Problems: []string{err.Error()}})
			}
		}
		return fn(ctx, a)
	}
}

func invalid(err error) booking.Outcome {
	return booking.Outcome{Kind: booking.KindInvalid, Message: err.Error(), Err: err}
}

func schemaFor(v any) (map[string]any, error) {
	reflector := &jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}
	schema := reflector.Reflect(v)
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	delete(out, "$schema")
	delete(out, "$id")
	return out, nil
}
