package config

// Config represents the complete Iqra configuration
type Config struct {
	Path     string         `yaml:"-"` // File the config was loaded from, empty for defaults
	Executor ExecutorConfig `yaml:"executor"`
	Runtime  RuntimeConfig  `yaml:"runtime"`
	REPL     REPLConfig     `yaml:"repl"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ExecutorConfig controls how host builtins reach the operating system
type ExecutorConfig struct {
	AllowShellFallback bool `yaml:"allow_shell_fallback"` // Run shell syntax through sh -c / cmd /C
}

// RuntimeConfig holds interpreter limits
type RuntimeConfig struct {
	MaxCallDepth int `yaml:"max_call_depth"` // 0 keeps the interpreter default
}

// REPLConfig holds interactive shell settings
type REPLConfig struct {
	HistoryFile string `yaml:"history_file"` // default ~/.iqra_history
	Prompt      string `yaml:"prompt"`
}

// LoggingConfig holds diagnostics settings
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Defaults returns a Config with default values
func Defaults() *Config {
	return &Config{
		REPL: REPLConfig{
			Prompt: "اقرأ> ",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}
