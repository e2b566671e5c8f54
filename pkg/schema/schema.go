package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	ferrors "github.com/vango-dev/formkit/internal/errors"
)

const orderExtensionKey = "x-order"

// Field is a form field described by a schema property.
type Field struct {
	Name     string
	Label    string
	Type     string
	Initial  any
	Required bool
	Enum     []any

	// Rules is the rule-hint tag for the field; empty when unconstrained.
	Rules string

	order int
}

// Load parses an OpenAPI document (JSON or YAML) and returns the fields of
// the named component schema.
func Load(ctx context.Context, data []byte, component string) ([]Field, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, ferrors.New("F020").Wrap(err)
	}
	if doc.Components == nil {
		return nil, ferrors.New("F021").WithDetail(component)
	}
	ref, ok := doc.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, ferrors.New("F021").WithDetail(component)
	}
	return Fields(ref.Value), nil
}

// Fields converts the top-level properties of s into fields.
func Fields(s *openapi3.Schema) []Field {
	fields := make([]Field, 0, len(s.Properties))
	for name, prop := range s.Properties {
		if prop == nil || prop.Value == nil {
			continue
		}
		fields = append(fields, convert(name, prop.Value, slices.Contains(s.Required, name)))
	}
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].order != fields[j].order {
			return fields[i].order < fields[j].order
		}
		return fields[i].Name < fields[j].Name
	})
	return fields
}

// Rules maps each constrained field to its rule-hint tag.
func Rules(fields []Field) map[string]string {
	rules := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.Rules != "" {
			rules[f.Name] = f.Rules
		}
	}
	return rules
}

func convert(name string, p *openapi3.Schema, required bool) Field {
	f := Field{
		Name:     name,
		Label:    p.Title,
		Type:     firstSchemaType(p.Type),
		Initial:  p.Default,
		Required: required,
		order:    orderOf(p.Extensions),
	}
	if f.Label == "" {
		f.Label = name
	}
	if len(p.Enum) > 0 {
		f.Enum = append([]any(nil), p.Enum...)
	}

	var tags []string
	if required {
		tags = append(tags, "required")
	}
	switch p.Format {
	case "email":
		tags = append(tags, "email")
	case "uri", "url":
		tags = append(tags, "url")
	}
	if p.MinLength > 0 {
		tags = append(tags, "minlen="+strconv.FormatUint(p.MinLength, 10))
	}
	if p.MaxLength != nil {
		tags = append(tags, "maxlen="+strconv.FormatUint(*p.MaxLength, 10))
	}
	if p.Min != nil {
		tags = append(tags, "min="+strconv.FormatFloat(*p.Min, 'g', -1, 64))
	}
	if p.Max != nil {
		tags = append(tags, "max="+strconv.FormatFloat(*p.Max, 'g', -1, 64))
	}
	// Tags are comma separated; such patterns cannot be expressed.
	if p.Pattern != "" && !strings.Contains(p.Pattern, ",") {
		tags = append(tags, "pattern="+p.Pattern)
	}
	f.Rules = strings.Join(tags, ",")
	return f
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}

// orderOf reads the x-order extension. Properties without one sort last.
func orderOf(ext map[string]any) int {
	const last = int(^uint(0) >> 1)
	raw, ok := ext[orderExtensionKey]
	if !ok {
		return last
	}
	switch v := raw.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	default:
		if n, err := strconv.Atoi(fmt.Sprint(v)); err == nil {
			return n
		}
	}
	return last
}
