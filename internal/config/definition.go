package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/vango-dev/formkit/internal/errors"
	"github.com/vango-dev/formkit/pkg/field"
	"github.com/vango-dev/formkit/pkg/form"
	"github.com/vango-dev/formkit/pkg/formctx"
	"github.com/vango-dev/formkit/pkg/schema"
	"github.com/vango-dev/formkit/pkg/upload"
)

// Field types a definition may declare.
const (
	TypeString   = "string"
	TypePassword = "password"
	TypeInteger  = "integer"
	TypeNumber   = "number"
	TypeBoolean  = "boolean"
	TypeUpload   = "upload"
)

// Definition describes one form: its fields, their starting values and the
// form options.
type Definition struct {
	Name    string          `json:"name,omitempty" yaml:"name,omitempty"`
	Fields  []FieldDef      `json:"fields" yaml:"fields"`
	Values  map[string]any  `json:"values,omitempty" yaml:"values,omitempty"`
	Options formctx.Options `json:"options" yaml:"options"`
}

// FieldDef describes one field of a definition.
type FieldDef struct {
	Name    string `json:"name" yaml:"name"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
	Help    string `json:"help,omitempty" yaml:"help,omitempty"`
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Initial any    `json:"initial,omitempty" yaml:"initial,omitempty"`

	// Rules is a rule-hint tag such as "required,maxlen=64".
	Rules string `json:"rules,omitempty" yaml:"rules,omitempty"`

	// Options restricts the value to one of the listed choices.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`

	// Upload fields hold an S3 object key checked against Bucket.
	Bucket       string   `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix       string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	MaxSize      int64    `json:"maxSize,omitempty" yaml:"maxSize,omitempty"`
	ContentTypes []string `json:"contentTypes,omitempty" yaml:"contentTypes,omitempty"`
}

// LoadDefinition reads and validates a definition file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("F012").WithDetail(path).Wrap(err)
	}

	def := &Definition{}
	if err := decode(path, data, def); err != nil {
		return nil, errors.New("F012").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// FromSchema builds a definition from schema fields.
func FromSchema(name string, fields []schema.Field) *Definition {
	def := &Definition{Name: name, Fields: make([]FieldDef, 0, len(fields))}
	for _, f := range fields {
		fd := FieldDef{
			Name:    f.Name,
			Label:   f.Label,
			Type:    f.Type,
			Initial: f.Initial,
			Rules:   f.Rules,
		}
		switch fd.Type {
		case TypeString, TypeInteger, TypeNumber, TypeBoolean:
		default:
			fd.Type = TypeString
		}
		for _, v := range f.Enum {
			if s, ok := v.(string); ok {
				fd.Options = append(fd.Options, s)
			}
		}
		def.Fields = append(def.Fields, fd)
	}
	return def
}

// Validate checks the definition: at least one field, unique non-empty
// names, known types, parseable rules, valid options, and values only for
// declared fields.
func (d *Definition) Validate() error {
	if len(d.Fields) == 0 {
		return errors.New("F013").WithDetail("definition has no fields")
	}

	seen := make(map[string]bool, len(d.Fields))
	for i, f := range d.Fields {
		if f.Name == "" {
			return errors.New("F013").WithDetail("field " + itoa(i) + " has no name")
		}
		if seen[f.Name] {
			return errors.New("F013").WithDetail("field " + `"` + f.Name + `"` + " declared twice")
		}
		seen[f.Name] = true

		switch f.Type {
		case "", TypeString, TypePassword, TypeInteger, TypeNumber, TypeBoolean:
		case TypeUpload:
			if f.Bucket == "" {
				return errors.New("F013").WithDetail("upload field " + `"` + f.Name + `"` + " has no bucket")
			}
		default:
			return errors.New("F013").WithDetail("field " + `"` + f.Name + `"` + " has unknown type " + `"` + f.Type + `"`)
		}
		if _, err := field.ParseRules(f.Rules); err != nil {
			return errors.New("F013").WithDetail("field " + `"` + f.Name + `"`).Wrap(err)
		}
	}

	for name := range d.Values {
		if !seen[name] {
			return errors.New("F013").WithDetail("value for undeclared field " + `"` + name + `"`)
		}
	}

	if err := d.Options.Validate(); err != nil {
		return errors.New("F013").WithDetail("options").Wrap(err)
	}
	return nil
}

// FormOptions returns the definition's options with each field's rules
// merged into the rule hints. Rules already present in Options.Rules win.
func (d *Definition) FormOptions() formctx.Options {
	opts := d.Options
	rules := make(map[string]string, len(d.Fields))
	for _, f := range d.Fields {
		if f.Rules != "" {
			rules[f.Name] = f.Rules
		}
	}
	for name, tag := range d.Options.Rules {
		rules[name] = tag
	}
	if len(rules) > 0 {
		opts.Rules = rules
	} else {
		opts.Rules = nil
	}
	return opts
}

// HasUploads reports whether any field is an upload.
func (d *Definition) HasUploads() bool {
	for _, f := range d.Fields {
		if f.Type == TypeUpload {
			return true
		}
	}
	return false
}

// Build creates a form holding one controller per declared field, in
// declaration order. Upload fields need BuildWithS3.
func (d *Definition) Build(opts ...form.Option) (*form.Form, []*field.Item, error) {
	return d.BuildWithS3(nil, opts...)
}

// BuildWithS3 is Build with the client upload fields check objects with.
//
// Plain fields are field.Items starting at Values[name] when present and at
// their Initial otherwise; they validate against the form's rule hints.
// The returned items exclude upload fields.
func (d *Definition) BuildWithS3(client upload.HeadObjectAPI, opts ...form.Option) (*form.Form, []*field.Item, error) {
	if client == nil && d.HasUploads() {
		return nil, nil, errors.New("F013").WithDetail("upload fields need an S3 client")
	}

	f := form.New(opts...)

	var items []*field.Item
	ctrls := make([]any, len(d.Fields))
	for i, fd := range d.Fields {
		initial := fd.Initial
		if v, ok := d.Values[fd.Name]; ok {
			initial = v
		}

		if fd.Type == TypeUpload {
			ctrls[i] = newUpload(fd, client, initial)
			continue
		}

		var itemOpts []field.ItemOption
		itemOpts = append(itemOpts, field.WithScope(f.Scope()))
		if len(fd.Options) > 0 {
			itemOpts = append(itemOpts, field.WithRules(choiceRules(fd)...))
		}
		item := field.NewItem(fd.Name, initial, itemOpts...)
		items = append(items, item)
		ctrls[i] = item
	}

	if err := f.Mount(d.FormOptions(), ctrls...); err != nil {
		return nil, nil, err
	}
	return f, items, nil
}

func newUpload(fd FieldDef, client upload.HeadObjectAPI, initial any) *upload.Field {
	var opts []upload.Option
	if fd.Prefix != "" {
		opts = append(opts, upload.WithPrefix(fd.Prefix))
	}
	if fd.MaxSize > 0 {
		opts = append(opts, upload.WithMaxSize(fd.MaxSize))
	}
	if len(fd.ContentTypes) > 0 {
		opts = append(opts, upload.WithContentTypes(fd.ContentTypes...))
	}
	if strings.Contains(fd.Rules, "required") {
		opts = append(opts, upload.Required("An upload is required"))
	}

	u := upload.NewField(fd.Name, client, fd.Bucket, opts...)
	if initial != nil {
		u.SetValue(initial)
	}
	return u
}

// choiceRules returns the field's own rules followed by a check against
// its options. An Item with rules ignores the form's hint, so the hint
// rules are folded in here.
func choiceRules(fd FieldDef) []field.Rule {
	rules, _ := field.ParseRules(fd.Rules)
	return append(rules, field.Custom("options", func(value any) string {
		s, ok := value.(string)
		if !ok || s == "" || slices.Contains(fd.Options, s) {
			return ""
		}
		return "must be one of: " + strings.Join(fd.Options, ", ")
	}))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
