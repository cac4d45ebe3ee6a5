package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iqra-lang/iqra/pkg/iqra/iqra"
)

// isolate runs the test in an empty directory with no config in reach.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", filepath.Join(dir, "home"))
	for _, key := range []string{"IQRA_CONFIG", "IQRA_ALLOW_SHELL_FALLBACK"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"iqra"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeScript(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCodeCommand(t *testing.T) {
	isolate(t)

	tests := []struct {
		name   string
		args   []string
		code   int
		stdout string
		stderr string
	}{
		{"result printed", []string{"code", "-c", "1 + 2"}, 0, "3\n", ""},
		{"nil result not printed", []string{"code", "-c", `اطبع("مرحبا")`}, 0, "مرحبا\n", ""},
		{"list result", []string{"code", "--code", "قائمة(1, 2)"}, 0, "[1, 2]\n", ""},
		{"runtime error", []string{"code", "-c", "x"}, 1, "", "Undefined Variable"},
		{"syntax error", []string{"code", "-c", "x = ("}, 1, "", "Line: 1"},
		{"missing flag", []string{"code"}, 2, "", ""},
		{"max depth flag", []string{"--max-depth", "5", "code", "-c", "دالة f(n) { ارجع f(n + 1) }\nf(0)"}, 1, "", "Recursion Limit"},
		{"bad log level", []string{"--log-level", "loud", "code", "-c", "1"}, 2, "", "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			if code != tt.code {
				t.Fatalf("exit code = %d, want %d (stderr: %s)", code, tt.code, stderr)
			}
			if tt.stdout != "" && stdout != tt.stdout {
				t.Errorf("stdout = %q, want %q", stdout, tt.stdout)
			}
			if tt.stderr != "" && !strings.Contains(stderr, tt.stderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.stderr)
			}
		})
	}
}

func TestRunCommand(t *testing.T) {
	dir := isolate(t)
	good := writeScript(t, dir, "good.iq", "س = 20\nص = 22\nس + ص\n")
	bad := writeScript(t, dir, "bad.iq", "x = 1\ny = x / 0\n")

	code, stdout, _ := runCLI(t, "run", good)
	if code != 0 || stdout != "42\n" {
		t.Errorf("run good = %d, %q", code, stdout)
	}

	code, stdout, _ = runCLI(t, good)
	if code != 0 || stdout != "42\n" {
		t.Errorf("bare file argument = %d, %q", code, stdout)
	}

	code, _, stderr := runCLI(t, "run", bad)
	if code != 1 {
		t.Errorf("run bad exit = %d", code)
	}
	for _, want := range []string{"Division by Zero", "Line: 2", "bad.iq"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr %q missing %q", stderr, want)
		}
	}

	if code, _, _ := runCLI(t, "run", filepath.Join(dir, "missing.iq")); code != 1 {
		t.Errorf("missing file exit = %d", code)
	}
	if code, _, _ := runCLI(t, "run"); code != 2 {
		t.Errorf("no file exit = %d", code)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := isolate(t)
	good := writeScript(t, dir, "good.iq", "إذا صحيح { اطبع(1) }\n")
	bad := writeScript(t, dir, "bad.iq", "دالة (a) { }\n")

	code, stdout, _ := runCLI(t, "check", good)
	if code != 0 || !strings.Contains(stdout, "good.iq: OK") {
		t.Errorf("check good = %d, %q", code, stdout)
	}

	code, _, stderr := runCLI(t, "check", good, bad)
	if code != 1 || !strings.Contains(stderr, "Function Name Error") {
		t.Errorf("check bad = %d, %q", code, stderr)
	}

	code, stdout, _ = runCLI(t, "check", "--json", good, bad)
	if code != 1 {
		t.Errorf("check --json exit = %d", code)
	}
	for _, want := range []string{`"ok": true`, `"ok": false`, `"kind": "Function Name Error"`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("json output missing %s:\n%s", want, stdout)
		}
	}

	if code, _, _ := runCLI(t, "check"); code != 2 {
		t.Errorf("check without files exit = %d", code)
	}
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	code, stdout, _ := runCLI(t, "version")
	if code != 0 || stdout != "iqra "+iqra.Version+"\n" {
		t.Errorf("version = %d, %q", code, stdout)
	}
}

func TestConfigFile(t *testing.T) {
	dir := isolate(t)
	writeScript(t, dir, "iqra.yaml", "runtime:\n  max_call_depth: 3\n")

	code, _, stderr := runCLI(t, "code", "-c", "دالة f(n) { ارجع f(n + 1) }\nf(0)")
	if code != 1 || !strings.Contains(stderr, "Recursion Limit") {
		t.Errorf("config depth not applied: %d, %q", code, stderr)
	}

	bad := writeScript(t, dir, "broken.yaml", "runtime: [")
	if code, _, _ := runCLI(t, "--config", bad, "code", "-c", "1"); code != 1 {
		t.Errorf("broken config exit = %d", code)
	}
}

func TestScriptWatcher(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "watched.iq", "1")

	var calls atomic.Int32
	w, err := newScriptWatcher(path, func() { calls.Add(1) }, iqra.DiagnosticsLogger("error", io.Discard))
	if err != nil {
		t.Fatalf("newScriptWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	writeScript(t, dir, "other.iq", "2")
	writeScript(t, dir, "watched.iq", "3")

	deadline := time.Now().Add(3 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Fatal("change to watched file did not trigger a run")
	}
	if w.Runs() != int(calls.Load()) {
		t.Errorf("Runs = %d, calls = %d", w.Runs(), calls.Load())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Watch did not stop after cancel")
	}
}
