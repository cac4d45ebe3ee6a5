package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/iqra-lang/iqra/config"
	ierrors "github.com/iqra-lang/iqra/pkg/iqra/errors"
	"github.com/iqra-lang/iqra/pkg/iqra/evaluator"
	"github.com/iqra-lang/iqra/pkg/iqra/iqra"
	"github.com/iqra-lang/iqra/pkg/iqra/parser"
	"github.com/iqra-lang/iqra/pkg/iqra/repl"
	"github.com/iqra-lang/iqra/pkg/iqra/system"
	"github.com/oarkflow/json"
	"github.com/oarkflow/log"
	"github.com/urfave/cli/v2"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	err := app.Run(args)
	if err == nil {
		return exitOK
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return exitErr.ExitCode()
	}
	fmt.Fprintln(stderr, err)
	return exitUsage
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:        "iqra",
		Usage:       "مفسر لغة اقرأ | The Iqra language interpreter",
		Version:     iqra.Version,
		HideVersion: true,
		Writer:      stdout,
		ErrWriter:   stderr,
		// Exit codes are handled by run, not by urfave's os.Exit.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to iqra.yaml",
				EnvVars: []string{config.EnvConfig},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Diagnostics level: debug, info, warn, error",
			},
			&cli.BoolFlag{
				Name:    "allow-shell",
				Usage:   "Run commands using shell syntax through the system shell",
				EnvVars: []string{system.ShellFallbackEnv},
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Usage: "Maximum function call depth",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				return runFileAction(c)
			}
			return replAction(c)
		},
		Commands: []*cli.Command{
			{
				Name:   "repl",
				Usage:  "Start the interactive shell (default)",
				Action: replAction,
			},
			{
				Name:      "run",
				Usage:     "Run a script file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "watch",
						Aliases: []string{"w"},
						Usage:   "Re-run the script whenever it changes",
					},
				},
				Action: runFileAction,
			},
			{
				Name:  "code",
				Usage: "Run code given on the command line",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "code",
						Aliases:  []string{"c"},
						Usage:    "Source code to run",
						Required: true,
					},
				},
				Action: codeAction,
			},
			{
				Name:      "check",
				Usage:     "Check syntax without running",
				ArgsUsage: "<files...>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print results as JSON",
					},
				},
				Action: checkAction,
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "iqra %s\n", iqra.Version)
					return nil
				},
			},
		},
	}
}

// environment is the configuration shared by every command
type environment struct {
	cfg    *config.Config
	diag   *log.Logger
	stdout io.Writer
	stderr io.Writer
}

// newEnvironment loads the config file and applies global flag overrides.
func newEnvironment(c *cli.Context) (*environment, error) {
	cfg, err := config.Load(c.String("config"), os.Getenv)
	if err != nil {
		return nil, cli.Exit(err.Error(), exitError)
	}

	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if c.IsSet("allow-shell") {
		cfg.Executor.AllowShellFallback = c.Bool("allow-shell")
	}
	if c.IsSet("max-depth") {
		cfg.Runtime.MaxCallDepth = c.Int("max-depth")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, cli.Exit(err.Error(), exitUsage)
	}

	env := &environment{
		cfg:    cfg,
		diag:   iqra.DiagnosticsLogger(cfg.Logging.Level, c.App.ErrWriter),
		stdout: c.App.Writer,
		stderr: c.App.ErrWriter,
	}
	if cfg.Path != "" {
		env.diag.Debug().Str("path", cfg.Path).Msg("config loaded")
	} else {
		env.diag.Debug().Msg("no config file, using defaults")
	}
	return env, nil
}

// newRuntime builds a Runtime wired to the OS and to the CLI's writers
func (e *environment) newRuntime() *evaluator.Runtime {
	sysOpts := []system.Option{
		system.WithShellFallback(e.cfg.Executor.AllowShellFallback),
		system.WithLogger(e.diag),
	}
	opts := []iqra.Option{
		iqra.WithLogger(iqra.WriterLogger(e.stdout)),
		iqra.WithDiagnostics(e.diag),
	}
	if e.cfg.Runtime.MaxCallDepth > 0 {
		opts = append(opts, iqra.WithMaxDepth(e.cfg.Runtime.MaxCallDepth))
	}
	return iqra.NewWithSystem(sysOpts, opts...)
}

// execute runs src in a fresh Runtime and prints a non-nil result.
func (e *environment) execute(src, file string) error {
	result, err := e.newRuntime().Execute(src)
	if err != nil {
		return scriptError(err, file)
	}
	if result != nil && result != evaluator.NIL {
		fmt.Fprintln(e.stdout, result.Inspect())
	}
	return nil
}

// scriptError turns an interpreter error into exit status 1
func scriptError(err error, file string) error {
	if ie, ok := ierrors.As(err); ok && file != "" {
		err = ie.WithFile(file)
	}
	return cli.Exit(err.Error(), exitError)
}

func replAction(c *cli.Context) error {
	env, err := newEnvironment(c)
	if err != nil {
		return err
	}
	repl.Start(env.stdout, env.newRuntime(), repl.Options{
		Prompt:      env.cfg.REPL.Prompt,
		HistoryFile: env.cfg.REPL.HistoryFile,
		Version:     iqra.Version,
	})
	return nil
}

func runFileAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: iqra run [--watch] <file>", exitUsage)
	}
	path := c.Args().First()

	env, err := newEnvironment(c)
	if err != nil {
		return err
	}

	if !c.Bool("watch") {
		return env.runFile(path)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rerun := func() {
		if err := env.runFile(path); err != nil {
			fmt.Fprintln(env.stderr, err.Error())
		}
	}
	rerun()

	w, err := newScriptWatcher(path, rerun, env.diag)
	if err != nil {
		return cli.Exit(fmt.Sprintf("watch %s: %v", path, err), exitError)
	}
	defer w.Close()
	return w.Watch(ctx)
}

func (e *environment) runFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("خطأ في قراءة الملف | Error reading file '%s': %v", path, err), exitError)
	}
	return e.execute(string(content), path)
}

func codeAction(c *cli.Context) error {
	env, err := newEnvironment(c)
	if err != nil {
		return err
	}
	return env.execute(c.String("code"), "")
}

// checkResult is one file's entry in 'check --json' output
type checkResult struct {
	File  string             `json:"file"`
	OK    bool               `json:"ok"`
	Error *ierrors.IqraError `json:"error,omitempty"`
	Read  string             `json:"read_error,omitempty"`
}

func checkAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("usage: iqra check [--json] <files...>", exitUsage)
	}
	stdout, stderr := c.App.Writer, c.App.ErrWriter

	results := make([]checkResult, 0, c.NArg())
	failed := false
	for _, path := range c.Args().Slice() {
		res := checkFile(path)
		if !res.OK {
			failed = true
		}
		results = append(results, res)
	}

	if c.Bool("json") {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return cli.Exit(err.Error(), exitError)
		}
		fmt.Fprintln(stdout, string(data))
	} else {
		for _, res := range results {
			switch {
			case res.OK:
				fmt.Fprintf(stdout, "%s: OK\n", res.File)
			case res.Error != nil:
				fmt.Fprintln(stderr, res.Error.Error())
			default:
				fmt.Fprintf(stderr, "%s: %s\n", res.File, res.Read)
			}
		}
	}

	if failed {
		return cli.Exit("", exitError)
	}
	return nil
}

func checkFile(path string) checkResult {
	content, err := os.ReadFile(path)
	if err != nil {
		return checkResult{File: path, Read: err.Error()}
	}
	if _, err := parser.Parse(string(content)); err != nil {
		if ie, ok := ierrors.As(err); ok {
			return checkResult{File: path, Error: ie.WithFile(path)}
		}
		return checkResult{File: path, Read: err.Error()}
	}
	return checkResult{File: path, OK: true}
}
