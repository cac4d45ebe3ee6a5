package system

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/oarkflow/log"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX commands")
	}
}

func TestExec(t *testing.T) {
	skipOnWindows(t)

	tests := []struct {
		name     string
		shell    bool
		cmd      string
		expected string
	}{
		{"plain command", false, "echo hello", "hello\n"},
		{"extra spaces", false, "  echo   a   b ", "a b\n"},
		{"pipe is literal without shell", false, "echo a | wc", "a | wc\n"},
		{"pipe with shell", true, "echo abc | tr a-c x-z", "xyz\n"},
		{"non-zero exit keeps stdout", true, "echo out; exit 3", "out\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExecutor(WithShellFallback(tt.shell))
			out, err := e.Exec(tt.cmd)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, out)
			}
		})
	}
}

func TestExecErrors(t *testing.T) {
	e := NewExecutor(WithShellFallback(false))

	for _, cmd := range []string{"", "   \t"} {
		if _, err := e.Exec(cmd); !errors.Is(err, ErrEmptyCommand) {
			t.Errorf("Exec(%q) = %v, want ErrEmptyCommand", cmd, err)
		}
	}

	if _, err := e.Exec("iqra-no-such-program-xyz"); err == nil {
		t.Error("expected error for missing program")
	}
}

func TestExecWithIO(t *testing.T) {
	skipOnWindows(t)

	e := NewExecutor()
	out, err := e.ExecWithIO("cat", "سلام\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "سلام\n" {
		t.Errorf("got %q", out)
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	e := NewExecutor()

	path := filepath.Join(dir, "b.txt")
	ok, err := e.WriteFile(path, "مرحبا")
	if err != nil || !ok {
		t.Fatalf("WriteFile = %v, %v", ok, err)
	}
	content, err := e.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if content != "مرحبا" {
		t.Errorf("content = %q", content)
	}

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "c"), 0o755); err != nil {
		t.Fatal(err)
	}
	names, err := e.ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if strings.Join(names, ",") != "a.txt,b.txt,c" {
		t.Errorf("names = %v", names)
	}

	if _, err := e.ReadFile(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected read error")
	}
	if _, err := e.ListFiles(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected list error")
	}
	if ok, err := e.WriteFile(filepath.Join(dir, "missing", "x"), "y"); err == nil || ok {
		t.Errorf("WriteFile into missing dir = %v, %v", ok, err)
	}
}

func TestEnvVar(t *testing.T) {
	t.Setenv("IQRA_TEST_VAR", "قيمة")
	e := NewExecutor()

	if v, ok := e.EnvVar("IQRA_TEST_VAR"); !ok || v != "قيمة" {
		t.Errorf("EnvVar = %q, %v", v, ok)
	}
	if _, ok := e.EnvVar("IQRA_TEST_VAR_UNSET_XYZ"); ok {
		t.Error("unset variable reported as set")
	}
}

func TestShellFallbackFromEnvironment(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"1", true},
		{"true", true},
		{" TRUE ", true},
		{"0", false},
		{"no", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(ShellFallbackEnv, tt.value)
			if got := NewExecutor().AllowsShell(); got != tt.expected {
				t.Errorf("AllowsShell = %v, want %v", got, tt.expected)
			}
		})
	}

	t.Setenv(ShellFallbackEnv, "1")
	if NewExecutor(WithShellFallback(false)).AllowsShell() {
		t.Error("option should override the environment")
	}
}

func TestSystemInfo(t *testing.T) {
	info, err := NewExecutor().SystemInfo()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info["os"] == "" {
		t.Error("missing os")
	}
	if info["arch"] != runtime.GOARCH {
		t.Errorf("arch = %q, want %q", info["arch"], runtime.GOARCH)
	}
}

func TestDiagnosticsLogged(t *testing.T) {
	skipOnWindows(t)

	var buf bytes.Buffer
	logger := &log.Logger{Level: log.DebugLevel, Writer: &log.IOWriter{Writer: &buf}}
	e := NewExecutor(WithLogger(logger))

	if _, err := e.Exec("echo logged"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "echo logged") {
		t.Errorf("command not logged: %s", buf.String())
	}
}
