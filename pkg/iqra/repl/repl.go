package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iqra-lang/iqra/pkg/iqra/ast"
	"github.com/iqra-lang/iqra/pkg/iqra/evaluator"
	"github.com/iqra-lang/iqra/pkg/iqra/lexer"
	"github.com/iqra-lang/iqra/pkg/iqra/parser"
	"github.com/peterh/liner"
)

const (
	DefaultPrompt      = "اقرأ> "
	ContinuationPrompt = "..... "
	historyFileName    = ".iqra_history"
)

const banner = "═══ اقرأ | Iqra ═══"

// exitWords end the session when typed on their own
var exitWords = map[string]bool{
	"خروج": true,
	"exit": true,
	"quit": true,
}

// Options configures an interactive session
type Options struct {
	Prompt      string
	HistoryFile string // defaults to ~/.iqra_history
	Version     string
}

// session holds the state shared by evaluation and the ':' commands
type session struct {
	rt   *evaluator.Runtime
	out  io.Writer
	step bool
}

// Start runs the REPL on the terminal until an exit word or Ctrl-D.
func Start(out io.Writer, rt *evaluator.Runtime, opts Options) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	words := completionWords()
	line.SetCompleter(func(input string) []string {
		return filterCompletions(input, words)
	})

	historyFile := opts.HistoryFile
	if historyFile == "" {
		historyFile = defaultHistoryFile()
	}
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	prompt := opts.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	s := &session{rt: rt, out: out}
	s.printBanner(opts.Version)

	var buffer strings.Builder
	for {
		current := prompt
		if buffer.Len() > 0 {
			current = ContinuationPrompt
		}
		input, err := line.Prompt(current)
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(out, "^C")
				buffer.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nمع السلامة! | Goodbye!")
				return
			}
			fmt.Fprintf(out, "خطأ في القراءة | Error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if buffer.Len() == 0 {
			if exitWords[trimmed] {
				fmt.Fprintln(out, "مع السلامة! | Goodbye!")
				return
			}
			if strings.HasPrefix(trimmed, ":") {
				s.command(trimmed)
				continue
			}
			if trimmed == "" {
				continue
			}
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(input)

		src := buffer.String()
		if needsMoreInput(src) {
			continue
		}
		line.AppendHistory(src)
		s.eval(src)
		buffer.Reset()
	}
}

func defaultHistoryFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, historyFileName)
	}
	return filepath.Join(os.TempDir(), historyFileName)
}

func (s *session) printBanner(version string) {
	fmt.Fprintln(s.out, banner)
	if version != "" {
		fmt.Fprintln(s.out, "v"+version)
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "اكتب خروج أو Ctrl-D للخروج | Type exit or Ctrl-D to quit")
	fmt.Fprintln(s.out, "اكتب :help للأوامر | Type :help for commands")
	fmt.Fprintln(s.out)
}

// eval parses and runs one complete input, printing the result or error.
func (s *session) eval(src string) {
	program, err := parser.Parse(src)
	if err != nil {
		fmt.Fprintln(s.out, err.Error())
		return
	}

	var step evaluator.StepFunc
	if s.step {
		n := 0
		step = func(stmt ast.Statement, result evaluator.Value) {
			n++
			fmt.Fprintf(s.out, "[%d] %s => %s\n", n, stmt.String(), result.Inspect())
			s.printVariables()
		}
	}

	result, err := s.rt.RunStep(program, step)
	if err != nil {
		fmt.Fprintln(s.out, err.Error())
		return
	}
	if result != nil && result != evaluator.NIL && !s.step {
		fmt.Fprintln(s.out, result.Inspect())
	}
}

// command handles ':' commands
func (s *session) command(cmd string) {
	switch cmd {
	case ":help", ":h", ":?", ":مساعدة":
		fmt.Fprintln(s.out, "الأوامر | Commands:")
		fmt.Fprintln(s.out, "  :help    هذه المساعدة | Show this help")
		fmt.Fprintln(s.out, "  :vars    المتغيرات | Show variables")
		fmt.Fprintln(s.out, "  :funcs   الدوال | Show user functions")
		fmt.Fprintln(s.out, "  :step    وضع الخطوات | Toggle step mode")
		fmt.Fprintln(s.out, "  :reset   مسح الحالة | Clear variables and functions")
		fmt.Fprintln(s.out, "  خروج, exit, quit")

	case ":vars":
		s.printVariables()

	case ":funcs":
		s.printFunctions()

	case ":step":
		s.step = !s.step
		if s.step {
			fmt.Fprintln(s.out, "وضع الخطوات مفعل | Step mode ON")
		} else {
			fmt.Fprintln(s.out, "وضع الخطوات معطل | Step mode OFF")
		}

	case ":reset":
		s.rt.Reset()
		fmt.Fprintln(s.out, "تم المسح | State cleared")

	default:
		fmt.Fprintf(s.out, "أمر غير معروف | Unknown command: %s (:help)\n", cmd)
	}
}

func (s *session) printVariables() {
	vars := s.rt.Variables()
	if len(vars) == 0 {
		fmt.Fprintln(s.out, "  (لا متغيرات | no variables)")
		return
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := vars[name]
		value := v.Inspect()
		if len([]rune(value)) > 60 {
			value = string([]rune(value)[:57]) + "..."
		}
		fmt.Fprintf(s.out, "  %s: %s = %s\n", name, evaluator.TypeName(v), value)
	}
}

func (s *session) printFunctions() {
	fns := s.rt.Functions()
	if len(fns) == 0 {
		fmt.Fprintln(s.out, "  (لا دوال | no functions)")
		return
	}
	for _, fn := range fns {
		fmt.Fprintf(s.out, "  %s(%s)\n", fn.Name, strings.Join(fn.Parameters, ", "))
	}
}

// completionWords lists every keyword and builtin spelling, sorted and unique.
func completionWords() []string {
	seen := map[string]bool{}
	var words []string
	add := func(w string) {
		if !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	for _, kw := range lexer.Keywords() {
		add(kw)
	}
	for _, b := range evaluator.Builtins() {
		add(b.Name)
		add(b.Arabic)
	}
	sort.Strings(words)
	return words
}

// filterCompletions completes the last word of line, keeping the text before it.
func filterCompletions(line string, words []string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	if strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
		return nil
	}

	start := strings.LastIndexAny(line, " \t(,[{") + 1
	prefix, last := line[:start], line[start:]
	if last == "" {
		return nil
	}

	var matches []string
	for _, w := range words {
		if strings.HasPrefix(w, last) {
			matches = append(matches, prefix+w)
		}
	}
	return matches
}

// needsMoreInput reports unclosed braces, brackets or parentheses outside
// strings and comments.
func needsMoreInput(input string) bool {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '/':
			if i+1 < len(input) && input[i+1] == '/' {
				for i < len(input) && input[i] != '\n' {
					i++
				}
			}
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		}
	}
	return depth > 0 || inString
}
