package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/formkit/internal/config"
	"github.com/vango-dev/formkit/pkg/tui"
)

const signupDef = `name: signup
fields:
  - name: name
    label: Name
    rules: required
  - name: age
    label: Age
    type: integer
    rules: min=18
  - name: newsletter
    type: boolean
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunValidate(t *testing.T) {
	def := writeTemp(t, "signup.yaml", signupDef)

	tests := []struct {
		name    string
		values  string
		wantErr error
		want    []string
	}{
		{
			name:   "valid",
			values: `{"name": "Ada", "age": 36}`,
			want:   []string{"✓\x1b[0m name", "✓\x1b[0m age", "✓\x1b[0m newsletter"},
		},
		{
			name:    "invalid",
			values:  "age: 12\n",
			wantErr: errInvalid,
			want:    []string{"name: This field is required", "age: Must be at least 18"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := writeTemp(t, "values.yaml", tt.values)
			var out bytes.Buffer
			err := runValidate(context.Background(), &out, &source{definition: def}, values, false)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("runValidate() error = %v, want %v", err, tt.wantErr)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
		})
	}
}

func TestRunValidateJSON(t *testing.T) {
	def := writeTemp(t, "signup.yaml", signupDef)
	values := writeTemp(t, "values.json", `{"name": "Ada", "age": 12}`)

	var out bytes.Buffer
	err := runValidate(context.Background(), &out, &source{definition: def}, values, true)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("runValidate() error = %v, want errInvalid", err)
	}

	var got struct {
		Valid  bool                         `json:"valid"`
		Result map[string][]json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if got.Valid || len(got.Result["age"]) != 1 || len(got.Result) != 1 {
		t.Errorf("output = %s, want only age failing", out.String())
	}
}

func TestRunValidateNoDefinition(t *testing.T) {
	err := runValidate(context.Background(), &bytes.Buffer{}, &source{}, "", false)
	if err == nil || !strings.Contains(err.Error(), "F012") {
		t.Errorf("runValidate() error = %v, want F012", err)
	}
}

func TestRunValidateOpenAPI(t *testing.T) {
	doc := writeTemp(t, "api.yaml", `openapi: 3.0.3
info: {title: t, version: "1"}
paths: {}
components:
  schemas:
    Login:
      type: object
      required: [user]
      properties:
        user: {type: string, minLength: 3}
`)
	values := writeTemp(t, "values.yaml", "user: ab\n")

	var out bytes.Buffer
	src := &source{openapi: doc, schema: "Login"}
	if err := runValidate(context.Background(), &out, src, values, false); !errors.Is(err, errInvalid) {
		t.Fatalf("runValidate() error = %v, want errInvalid", err)
	}
	if !strings.Contains(out.String(), "user: Must be at least 3 characters") {
		t.Errorf("output = %q", out.String())
	}

	src.schema = ""
	if err := runValidate(context.Background(), &out, src, values, false); err == nil {
		t.Error("runValidate() without --schema = nil, want error")
	}
}

type scripted struct {
	inputs  []string
	confirm bool
}

func (s *scripted) Input(context.Context, tui.InputConfig) (string, error) {
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	v := s.inputs[0]
	s.inputs = s.inputs[1:]
	return v, nil
}

func (s *scripted) Password(ctx context.Context, cfg tui.InputConfig) (string, error) {
	return s.Input(ctx, cfg)
}

func (s *scripted) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return s.confirm, nil
}

func (s *scripted) Select(context.Context, tui.SelectConfig) (int, error) {
	return 0, nil
}

func (s *scripted) Info(context.Context, string) error {
	return nil
}

func TestRunFill(t *testing.T) {
	def := writeTemp(t, "signup.yaml", signupDef)
	driver := &scripted{inputs: []string{"Ada", "36"}, confirm: true}

	var out bytes.Buffer
	if err := runFill(context.Background(), &out, &source{definition: def}, driver, 3); err != nil {
		t.Fatalf("runFill() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	want := map[string]any{"name": "Ada", "age": float64(36), "newsletter": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestRunFillAborted(t *testing.T) {
	def := writeTemp(t, "signup.yaml", signupDef)
	driver := &abortDriver{}

	if err := runFill(context.Background(), &bytes.Buffer{}, &source{definition: def}, driver, 3); err != nil {
		t.Errorf("runFill() after abort = %v, want nil", err)
	}
}

type abortDriver struct{ scripted }

func (abortDriver) Input(context.Context, tui.InputConfig) (string, error) {
	return "", tui.ErrAborted
}

func TestPrompts(t *testing.T) {
	def := &config.Definition{Fields: []config.FieldDef{
		{Name: "name", Label: "Name"},
		{Name: "pin", Type: config.TypePassword},
		{Name: "age", Type: config.TypeInteger},
		{Name: "ratio", Type: config.TypeNumber},
		{Name: "ok", Type: config.TypeBoolean},
		{Name: "plan", Options: []string{"free", "pro"}},
		{Name: "avatar", Type: config.TypeUpload, Bucket: "media", Prefix: "a/"},
	}}

	got := prompts(def)
	want := []tui.Prompt{
		{Name: "name", Label: "Name"},
		{Name: "pin", Type: tui.TypePassword},
		{Name: "age", Type: tui.TypeInteger},
		{Name: "ratio", Type: tui.TypeNumber},
		{Name: "ok", Type: tui.TypeBoolean},
		{Name: "plan", Options: []string{"free", "pro"}},
		{Name: "avatar", Help: "Object key in s3://media/a/"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckOrigin(t *testing.T) {
	cfg := config.New()
	if checkOrigin(cfg) != nil {
		t.Error("checkOrigin without allowed origins should use the default")
	}

	cfg.Server.AllowedOrigins = []string{"https://app.example.com"}
	check := checkOrigin(cfg)

	tests := []struct {
		origin string
		want   bool
	}{
		{"https://app.example.com", true},
		{"https://evil.example.com", false},
		{"", true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := check(r); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestRootCommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd().Commands() {
		names = append(names, c.Name())
	}
	// cobra sorts commands by name.
	want := []string{"fill", "serve", "validate", "version"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteVersion(t *testing.T) {
	b := buildInfo{
		Version:    "1.2.0",
		Commit:     "abc123",
		Built:      "2026-01-02",
		Protocol:   1,
		FieldTypes: []string{"string", "upload"},
		Go:         "go1.23.4",
		Platform:   "linux/amd64",
	}

	tests := []struct {
		name    string
		short   bool
		jsonOut bool
		want    []string
	}{
		{"short", true, false, []string{"1.2.0\n"}},
		{"text", false, false, []string{"Version:     1.2.0", "Protocol:    v1", "Field types: string, upload"}},
		{"json", false, true, []string{`"protocol": 1`, `"fieldTypes": [`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := writeVersion(&out, b, tt.short, tt.jsonOut); err != nil {
				t.Fatalf("writeVersion() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
		})
	}

	if got := currentBuild().FieldTypes; len(got) != 6 {
		t.Errorf("FieldTypes = %v, want all six definition types", got)
	}
}
