// Package system provides the default SystemExecutor, which talks to the
// real operating system: processes, files, the environment, and host
// information.
package system

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/iqra-lang/iqra/pkg/iqra/evaluator"
	"github.com/oarkflow/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// ShellFallbackEnv enables shell execution when set to a true value
const ShellFallbackEnv = "IQRA_ALLOW_SHELL_FALLBACK"

// ErrEmptyCommand is returned for a blank command line
var ErrEmptyCommand = errors.New("empty command")

// shellChars mark a command line that only a shell can interpret
const shellChars = "|&;<>()$`\\\"'*?[]#~=%"

var _ evaluator.SystemExecutor = (*Executor)(nil)

// Executor is the OS-backed SystemExecutor
type Executor struct {
	allowShell bool
	logger     *log.Logger
}

// Option configures an Executor
type Option func(*Executor)

// WithShellFallback lets commands that use shell syntax, or name a program
// not found on PATH, run through the platform shell.
func WithShellFallback(allow bool) Option {
	return func(e *Executor) {
		e.allowShell = allow
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(logger *log.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExecutor creates an Executor. Shell fallback defaults to the value of
// IQRA_ALLOW_SHELL_FALLBACK; options override it.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		allowShell: envBool(ShellFallbackEnv),
		logger:     &log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AllowsShell reports whether shell fallback is enabled
func (e *Executor) AllowsShell() bool {
	return e.allowShell
}

func envBool(name string) bool {
	v, ok := os.LookupEnv(name)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

// command builds the process for a command line. Without shell fallback the
// line is split on whitespace and shell syntax is passed through literally.
func (e *Executor) command(line string) (*exec.Cmd, error) {
	argv := strings.Fields(line)
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	if e.allowShell && e.needsShell(line, argv[0]) {
		if runtime.GOOS == "windows" {
			return exec.Command("cmd", "/C", line), nil
		}
		return exec.Command("sh", "-c", line), nil
	}
	return exec.Command(argv[0], argv[1:]...), nil
}

func (e *Executor) needsShell(line, program string) bool {
	if strings.ContainsAny(line, shellChars) {
		return true
	}
	_, err := exec.LookPath(program)
	return err != nil
}

// Exec runs a command and returns its stdout. A non-zero exit status is not
// an error; failing to start the process is.
func (e *Executor) Exec(cmd string) (string, error) {
	return e.run(cmd, nil)
}

// ExecWithIO runs a command with stdin attached
func (e *Executor) ExecWithIO(cmd, stdin string) (string, error) {
	return e.run(cmd, strings.NewReader(stdin))
}

func (e *Executor) run(line string, stdin *strings.Reader) (string, error) {
	cmd, err := e.command(line)
	if err != nil {
		return "", err
	}
	if stdin != nil {
		cmd.Stdin = stdin
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	elapsed := time.Since(start)

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		e.logger.Debug().Str("command", line).Dur("elapsed", elapsed).Msg("exec")
	case errors.As(err, &exitErr):
		e.logger.Debug().Str("command", line).Int("exit_code", exitErr.ExitCode()).
			Str("stderr", strings.TrimSpace(stderr.String())).Dur("elapsed", elapsed).Msg("exec")
	default:
		e.logger.Debug().Str("command", line).Err(err).Msg("exec failed")
		return "", fmt.Errorf("%s: %w", cmd.Args[0], err)
	}
	return stdout.String(), nil
}

func (e *Executor) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		e.logger.Debug().Str("path", path).Err(err).Msg("read file failed")
		return "", err
	}
	e.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("read file")
	return string(data), nil
}

func (e *Executor) WriteFile(path, content string) (bool, error) {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.logger.Debug().Str("path", path).Err(err).Msg("write file failed")
		return false, err
	}
	e.logger.Debug().Str("path", path).Int("bytes", len(content)).Msg("write file")
	return true, nil
}

// ListFiles returns the entry names of dir; os.ReadDir sorts them by name.
func (e *Executor) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		e.logger.Debug().Str("dir", dir).Err(err).Msg("list files failed")
		return nil, err
	}
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name()
	}
	e.logger.Debug().Str("dir", dir).Int("entries", len(names)).Msg("list files")
	return names, nil
}

func (e *Executor) EnvVar(name string) (string, bool) {
	return os.LookupEnv(name)
}

// SystemInfo reports host details. Probes that fail are skipped, so the
// result always holds at least os and arch.
func (e *Executor) SystemInfo() (map[string]string, error) {
	info := map[string]string{
		"os":   runtime.GOOS,
		"arch": runtime.GOARCH,
	}

	if h, err := host.Info(); err == nil {
		if h.OS != "" {
			info["os"] = h.OS
		}
		info["os_version"] = strings.TrimSpace(h.Platform + " " + h.PlatformVersion)
		info["hostname"] = h.Hostname
	} else {
		e.logger.Debug().Err(err).Msg("host probe failed")
	}

	if n, err := cpu.Counts(true); err == nil {
		info["cpu_cores"] = strconv.Itoa(n)
	} else {
		e.logger.Debug().Err(err).Msg("cpu count probe failed")
	}

	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		info["cpu_speed_mhz"] = strconv.FormatFloat(cpus[0].Mhz, 'f', 0, 64)
	} else if err != nil {
		e.logger.Debug().Err(err).Msg("cpu info probe failed")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		info["total_memory_kb"] = strconv.FormatUint(vm.Total/1024, 10)
		info["free_memory_kb"] = strconv.FormatUint(vm.Available/1024, 10)
	} else {
		e.logger.Debug().Err(err).Msg("memory probe failed")
	}

	return info, nil
}
