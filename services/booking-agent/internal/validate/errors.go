package validate

import "strings"

// Errors collects field failures so a request with several bad fields gets a
// single message.
type Errors []*FieldError

// Add records err when it is a *FieldError and reports whether it was one.
// A nil err is ignored.
func (es *Errors) Add(err error) bool {
	if err == nil {
		return false
	}
	fe, ok := AsFieldError(err)
	if !ok {
		fe = &FieldError{Summary: err.Error()}
	}
	*es = append(*es, fe)
	return true
}

func (es Errors) Err() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

func (es Errors) Error() string {
	msgs := make([]string, 0, len(es))
	for _, e := range es {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, " ")
}

func (es Errors) Fields() []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Field)
	}
	return out
}
