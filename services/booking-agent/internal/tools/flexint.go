package tools

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
)

// FlexInt accepts an integer sent either as a JSON number or as a numeric
// string; models do both. Values that are present but not integers are kept
// as Set && !Valid so the caller can report a field error instead of a decode
// failure.
type FlexInt struct {
	Value int64
	Set   bool
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexInt{}
		return nil
	}
	f.Set = true
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = FlexInt{}
			return nil
		}
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		f.Value, f.Valid = v, true
		return nil
	}
	// 5.0 is an integer; 5.5 is not.
	if v, err := strconv.ParseFloat(raw, 64); err == nil && v == float64(int64(v)) {
		f.Value, f.Valid = int64(v), true
		return nil
	}
	f.Valid = false
	return nil
}

func (FlexInt) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "integer"},
			{Type: "string", Pattern: `^-?\d+$`},
		},
	}
}
