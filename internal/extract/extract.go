// Package extract pulls named values out of log messages with JMESPath.
package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/jmespath/go-jmespath"
)

// Spec names a JMESPath expression evaluated against each message.
type Spec struct {
	Name string
	Path string
}

// Field is the result of one Spec. Err is set when the expression failed to
// evaluate; Value is empty when nothing matched.
type Field struct {
	Name  string
	Value string
	Err   error
}

// Extractor holds compiled expressions.
type Extractor struct {
	specs []Spec
	exprs []*jmespath.JMESPath
}

// New compiles specs. An invalid expression fails the whole set.
func New(specs []Spec) (*Extractor, error) {
	e := &Extractor{}
	for _, s := range specs {
		name, path := strings.TrimSpace(s.Name), strings.TrimSpace(s.Path)
		if name == "" || path == "" {
			return nil, fmt.Errorf("extract %q: empty name or path", s.Name)
		}
		expr, err := jmespath.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("compile extract %q: %w", name, err)
		}
		e.specs = append(e.specs, Spec{Name: name, Path: path})
		e.exprs = append(e.exprs, expr)
	}
	return e, nil
}

// Len returns the number of specs.
func (e *Extractor) Len() int {
	if e == nil {
		return 0
	}
	return len(e.specs)
}

// Fields evaluates every Spec against message, decoded as JSON when possible
// and wrapped as {"message": raw} otherwise.
func (e *Extractor) Fields(message string) []Field {
	if e.Len() == 0 {
		return nil
	}
	input := decode(message)
	fields := make([]Field, len(e.specs))
	for i, expr := range e.exprs {
		fields[i].Name = e.specs[i].Name
		res, err := expr.Search(input)
		if err != nil {
			fields[i].Err = fmt.Errorf("jmespath search failed: %w", err)
			continue
		}
		fields[i].Value, fields[i].Err = format(res)
	}
	return fields
}

// Pretty indents message when it is a JSON object or array.
func Pretty(message string) (string, bool) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return message, false
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(trimmed), "", "  "); err != nil {
		return message, false
	}
	return buf.String(), true
}

func decode(raw string) any {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		if _, ok := decoded.(map[string]any); ok {
			return decoded
		}
		if _, ok := decoded.([]any); ok {
			return decoded
		}
	}
	return map[string]any{"message": raw}
}

// format renders a search result. Arrays contribute their first element.
func format(res any) (string, error) {
	if isEmpty(res) {
		return "", nil
	}
	rv := reflect.ValueOf(res)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		res = rv.Index(0).Interface()
		if isEmpty(res) {
			return "", nil
		}
	}
	if s, ok := res.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("marshal result failed: %w", err)
	}
	return string(b), nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	}
	return false
}
