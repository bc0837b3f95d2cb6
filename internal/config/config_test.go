package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadValidConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "vncpasswd.yaml")

	content := `display: ":1"
log_level: debug
audit_log: /home/alice/.vnc/audit.log
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Display != ":1" {
		t.Errorf("Display = %q, want %q", cfg.Display, ":1")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.AuditLog != "/home/alice/.vnc/audit.log" {
		t.Errorf("AuditLog = %q, want %q", cfg.AuditLog, "/home/alice/.vnc/audit.log")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	cfg, err := Load("/nonexistent/path/vncpasswd.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Display != "" {
		t.Errorf("Display = %q, want empty", cfg.Display)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	t.Parallel()
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *cfg != (Config{}) {
		t.Errorf("Load(\"\") = %+v, want empty", *cfg)
	}
}

func TestLoadCommentsOnly(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "vncpasswd.yaml")

	content := `# display: ":1"
# log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *cfg != (Config{}) {
		t.Errorf("Load = %+v, want empty", *cfg)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "vncpasswd.yaml")

	if err := os.WriteFile(path, []byte("display: [unclosed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"override", map[string]string{EnvConfigPath: "/etc/vncpasswd.yaml", "HOME": "/home/alice"}, "/etc/vncpasswd.yaml"},
		{"home", map[string]string{"HOME": "/home/alice"}, "/home/alice/.vnc/vncpasswd.yaml"},
		{"no home", nil, ""},
		{"home too long", map[string]string{"HOME": "/" + strings.Repeat("h", MaxHomeLength)}, ""},
	}

	for _, tc := range tests {
		if got := DefaultPath(env(tc.env)); got != tc.want {
			t.Errorf("%s: DefaultPath() = %q, want %q", tc.name, got, tc.want)
		}
	}
}
