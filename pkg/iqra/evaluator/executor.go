package evaluator

import "errors"

// SystemExecutor is the capability through which scripts reach the host.
// The default implementation lives in package system; tests inject fakes.
type SystemExecutor interface {
	Exec(cmd string) (string, error)
	ExecWithIO(cmd, stdin string) (string, error)
	ReadFile(path string) (string, error)
	WriteFile(path, content string) (bool, error)
	// ListFiles returns entry names sorted ascending
	ListFiles(dir string) ([]string, error)
	EnvVar(name string) (string, bool)
	SystemInfo() (map[string]string, error)
}

// noExecutor refuses every host operation. It backs runtimes created
// without WithExecutor so that the evaluator never touches the OS on its own.
// env_var checks for it explicitly since EnvVar cannot report an error.
type noExecutor struct{}

var errNoExecutor = errors.New("no system executor configured")

func (noExecutor) Exec(string) (string, error)               { return "", errNoExecutor }
func (noExecutor) ExecWithIO(string, string) (string, error) { return "", errNoExecutor }
func (noExecutor) ReadFile(string) (string, error)           { return "", errNoExecutor }
func (noExecutor) WriteFile(string, string) (bool, error)    { return false, errNoExecutor }
func (noExecutor) ListFiles(string) ([]string, error)        { return nil, errNoExecutor }
func (noExecutor) EnvVar(string) (string, bool)              { return "", false }
func (noExecutor) SystemInfo() (map[string]string, error)    { return nil, errNoExecutor }
