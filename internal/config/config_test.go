package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/formkit/internal/errors"
	"github.com/vango-dev/formkit/pkg/formctx"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.Form.ClassPrefix != "t" {
		t.Errorf("Form.ClassPrefix = %q, want %q", cfg.Form.ClassPrefix, "t")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for missing config")
	}
	if !stderrors.Is(err, errors.New("F010")) {
		t.Errorf("err = %v, want F010", err)
	}

	configJSON := `{
  "server": {"addr": ":9090", "readTimeout": "5s"},
  "form": {
    "classPrefix": "ui",
    "strictNames": true,
    "options": {"labelAlign": "top", "scrollToFirstError": "smooth"}
  },
  "metrics": {"enabled": false},
  "definition": "forms/signup.yaml"
}
`
	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.ReadTimeout() != 5*time.Second {
		t.Errorf("ReadTimeout() = %v, want 5s", cfg.ReadTimeout())
	}
	// Missing keys get defaults
	if cfg.WriteTimeout() != 10*time.Second {
		t.Errorf("WriteTimeout() = %v, want 10s", cfg.WriteTimeout())
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
	if cfg.Form.Options.LabelAlign != formctx.LabelTop {
		t.Errorf("LabelAlign = %q, want top", cfg.Form.Options.LabelAlign)
	}
	if got := len(cfg.FormOptions()); got != 2 {
		t.Errorf("len(FormOptions()) = %d, want 2", got)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
	if want := filepath.Join(tmpDir, "forms", "signup.yaml"); cfg.DefinitionPath() != want {
		t.Errorf("DefinitionPath() = %q, want %q", cfg.DefinitionPath(), want)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configYAML := `server:
  addr: "127.0.0.1:7000"
form:
  options:
    resetType: initial
    rules:
      email: required,email
tracing:
  enabled: true
`
	if err := os.WriteFile(filepath.Join(tmpDir, YAMLConfigFileName), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:7000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Form.Options.ResetType != formctx.ResetInitial {
		t.Errorf("ResetType = %q, want initial", cfg.Form.Options.ResetType)
	}
	if got := cfg.Form.Options.Rules["email"]; got != "required,email" {
		t.Errorf("Rules[email] = %q", got)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.TracerName != DefaultTracerName {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("Expected parse error")
	}
	var fe *errors.Error
	if !stderrors.As(err, &fe) || fe.Code != "F010" {
		t.Errorf("err = %v, want F010", err)
	}
	if !strings.Contains(err.Error(), ConfigFileName) {
		t.Errorf("err = %q, want file name in detail", err.Error())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		detail string
	}{
		{"bad duration", func(c *Config) { c.Server.ReadTimeout = "soon" }, "server.readTimeout"},
		{"negative duration", func(c *Config) { c.Server.WriteTimeout = "-1s" }, "server.writeTimeout"},
		{"bad option", func(c *Config) { c.Form.Options.Layout = "grid" }, "form.options"},
		{"bad prefix", func(c *Config) { c.Form.ClassPrefix = ".t" }, "classPrefix"},
		{"bad metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !stderrors.Is(err, errors.New("F011")) {
				t.Errorf("err = %v, want F011", err)
			}
			if !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("err = %q, want mention of %q", err.Error(), tt.detail)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			cfg := New()
			cfg.Server.Addr = ":1234"
			cfg.Form.Options.RequiredMark = formctx.Bool(false)

			path := filepath.Join(tmpDir, name)
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo failed: %v", err)
			}
			if cfg.Path() != path {
				t.Errorf("Path() = %q, want %q", cfg.Path(), path)
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile failed: %v", err)
			}
			if loaded.Server.Addr != ":1234" {
				t.Errorf("Server.Addr = %q, want :1234", loaded.Server.Addr)
			}
			if rm := loaded.Form.Options.RequiredMark; rm == nil || *rm {
				t.Errorf("RequiredMark = %v, want explicit false", rm)
			}
		})
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New().Save(); err == nil {
		t.Error("Save() without path = nil, want error")
	}
}
