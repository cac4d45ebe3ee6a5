// Package errors provides the bilingual structured error type for the Iqra language.
//
// Every lexical, syntactic and runtime failure is an IqraError carrying a kind
// tag, a parallel Arabic/English message pair and an optional suggestion.
// Errors are built from a catalog of codes so the wording stays consistent
// across the lexer, parser and evaluator.
package errors

import (
	"bytes"
	goerrors "errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/oarkflow/json"
)

// ErrorClass groups error kinds for filtering.
type ErrorClass string

const (
	ClassLexical    ErrorClass = "lexical"    // Scanner failures
	ClassParse      ErrorClass = "parse"      // Grammar failures
	ClassUndefined  ErrorClass = "undefined"  // Unknown variable or function
	ClassArity      ErrorClass = "arity"      // Wrong argument count
	ClassType       ErrorClass = "type"       // Operand or argument type mismatch
	ClassArithmetic ErrorClass = "arithmetic" // Division or modulo by zero
	ClassIndex      ErrorClass = "index"      // Bounds, keys, bad indexing
	ClassConversion ErrorClass = "conversion" // Failed coercions
	ClassIO         ErrorClass = "io"         // SystemExecutor failures
	ClassState      ErrorClass = "state"      // Interpreter limits
)

// Kind tags. These are the stable identifiers callers and tests match on.
const (
	KindUnknownCharacter  = "Unknown Character"
	KindNumber            = "Number Error"
	KindString            = "String Error"
	KindParse             = "Parse Error"
	KindUnexpectedToken   = "Unexpected Token"
	KindBlock             = "Block Error"
	KindFunctionName      = "Function Name Error"
	KindParameterName     = "Parameter Name Error"
	KindTryCatch          = "Try Catch Error"
	KindCatchHeader       = "Catch Header Error"
	KindUndefinedVariable = "Undefined Variable"
	KindUndefinedFunction = "Undefined Function"
	KindArgumentCount     = "Argument Count Mismatch"
	KindInvalidOperand    = "Invalid Operand Type"
	KindDivisionByZero    = "Division by Zero"
	KindModuloByZero      = "Modulo by Zero"
	KindIndexOutOfBounds  = "Index Out of Bounds"
	KindKeyNotFound       = "Key Not Found"
	KindInvalidIndexing   = "Invalid Indexing Operation"
	KindConversion        = "Conversion Error"
	KindInvalidArgument   = "Invalid Argument Type"
	KindEmptyList         = "Empty List"
	KindInvalidMapKey     = "Invalid Map Key"
	KindSystemCommand     = "System Command Failed"
	KindFileRead          = "File Read Failed"
	KindFileWrite         = "File Write Failed"
	KindListFiles         = "List Files Failed"
	KindSystemInfo        = "System Info Failed"
	KindEnvVar            = "Environment Read Failed"
	KindRecursionLimit    = "Recursion Limit"
)

// IqraError represents any error from scanning, parsing or evaluation.
type IqraError struct {
	Class        ErrorClass     `json:"class"`
	Code         string         `json:"code"`
	Kind         string         `json:"kind"`
	KindAR       string         `json:"kind_ar"`
	MessageAR    string         `json:"message_ar"`
	MessageEN    string         `json:"message_en"`
	SuggestionAR string         `json:"suggestion_ar,omitempty"`
	SuggestionEN string         `json:"suggestion_en,omitempty"`
	Line         int            `json:"line,omitempty"` // 1-based, 0 if unknown
	File         string         `json:"file,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *IqraError) Error() string {
	return e.String()
}

// String renders the bilingual display form:
//
//	[kind_ar | kind] message_ar | message_en
//	اقتراح: ... | Suggestion: ...
//	السطر: n | Line: n
func (e *IqraError) String() string {
	var sb strings.Builder

	sb.WriteString("[")
	if e.KindAR != "" {
		sb.WriteString(e.KindAR)
		sb.WriteString(" | ")
	}
	sb.WriteString(e.Kind)
	sb.WriteString("] ")
	sb.WriteString(e.MessageAR)
	sb.WriteString(" | ")
	sb.WriteString(e.MessageEN)

	if e.HasSuggestion() {
		ar, en := e.SuggestionAR, e.SuggestionEN
		if ar == "" {
			ar = en
		}
		if en == "" {
			en = ar
		}
		fmt.Fprintf(&sb, "\nاقتراح: %s | Suggestion: %s", ar, en)
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, "\nالسطر: %d | Line: %d", e.Line, e.Line)
	}
	if e.File != "" {
		fmt.Fprintf(&sb, "\nالملف: %s | File: %s", e.File, e.File)
	}

	return sb.String()
}

// HasSuggestion reports whether either suggestion text is set.
func (e *IqraError) HasSuggestion() bool {
	return e.SuggestionAR != "" || e.SuggestionEN != ""
}

// ToJSON returns the error as JSON bytes.
func (e *IqraError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ToJSONIndent returns the error as indented JSON bytes.
func (e *IqraError) ToJSONIndent() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// WithLine returns a copy of the error with the line set.
func (e *IqraError) WithLine(line int) *IqraError {
	copy := *e
	copy.Line = line
	return &copy
}

// WithFile returns a copy of the error with the file path set.
func (e *IqraError) WithFile(file string) *IqraError {
	copy := *e
	copy.File = file
	return &copy
}

// IsSyntaxError reports whether the error came from the lexer or parser.
func (e *IqraError) IsSyntaxError() bool {
	return e.Class == ClassLexical || e.Class == ClassParse
}

// IsRuntimeError reports whether the error was raised during evaluation.
func (e *IqraError) IsRuntimeError() bool {
	return !e.IsSyntaxError()
}

// As extracts an *IqraError from err, if there is one in its chain.
func As(err error) (*IqraError, bool) {
	var ie *IqraError
	if goerrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// ErrorDef defines an error in the catalog. Message and suggestion fields are
// text/template strings rendered against the data passed to New.
type ErrorDef struct {
	Class        ErrorClass
	Kind         string
	KindAR       string
	MessageAR    string
	MessageEN    string
	SuggestionAR string
	SuggestionEN string
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// ========================================
	// Lexical errors (LEX-0xxx)
	// ========================================
	"LEX-0001": {
		Class:        ClassLexical,
		Kind:         KindUnknownCharacter,
		KindAR:       "حرف غير معروف",
		MessageAR:    "حرف غير معروف '{{.Char}}'",
		MessageEN:    "unknown character '{{.Char}}'",
		SuggestionAR: "احذف هذا الحرف أو ضعه داخل نص",
		SuggestionEN: "remove the character or put it inside a string",
	},
	"LEX-0002": {
		Class:        ClassLexical,
		Kind:         KindNumber,
		KindAR:       "خطأ في الرقم",
		MessageAR:    "رقم غير صالح '{{.Literal}}'",
		MessageEN:    "invalid number '{{.Literal}}'",
		SuggestionAR: "استخدم فاصلة عشرية واحدة على الأكثر",
		SuggestionEN: "use at most one decimal point",
	},
	"LEX-0003": {
		Class:        ClassLexical,
		Kind:         KindString,
		KindAR:       "خطأ في النص",
		MessageAR:    "نص غير مغلق",
		MessageEN:    "unterminated string",
		SuggestionAR: `أغلق النص بعلامة "`,
		SuggestionEN: `close the string with "`,
	},

	// ========================================
	// Parse errors (PARSE-0xxx)
	// ========================================
	"PARSE-0001": {
		Class:     ClassParse,
		Kind:      KindParse,
		KindAR:    "خطأ في التحليل",
		MessageAR: "متوقع {{.Expected}}، وجد '{{.Got}}'",
		MessageEN: "expected {{.Expected}}, got '{{.Got}}'",
	},
	"PARSE-0002": {
		Class:        ClassParse,
		Kind:         KindUnexpectedToken,
		KindAR:       "رمز غير متوقع",
		MessageAR:    "رمز غير متوقع '{{.Token}}'",
		MessageEN:    "unexpected token '{{.Token}}'",
		SuggestionAR: "تأكد من صحة كتابة التعبير",
		SuggestionEN: "check the expression syntax",
	},
	"PARSE-0003": {
		Class:        ClassParse,
		Kind:         KindBlock,
		KindAR:       "خطأ في الكتلة",
		MessageAR:    "متوقع '{' لبدء الكتلة، وجد '{{.Got}}'",
		MessageEN:    "expected '{' to open a block, got '{{.Got}}'",
		SuggestionAR: "ضع جسم الكتلة بين { و }",
		SuggestionEN: "wrap the block body in { and }",
	},
	"PARSE-0004": {
		Class:        ClassParse,
		Kind:         KindFunctionName,
		KindAR:       "خطأ في اسم الدالة",
		MessageAR:    "متوقع اسم الدالة، وجد '{{.Got}}'",
		MessageEN:    "expected function name, got '{{.Got}}'",
		SuggestionAR: "دالة الاسم(أ، ب) { ... }",
		SuggestionEN: "function name(a, b) { ... }",
	},
	"PARSE-0005": {
		Class:        ClassParse,
		Kind:         KindParameterName,
		KindAR:       "خطأ في اسم المعامل",
		MessageAR:    "متوقع اسم معامل، وجد '{{.Got}}'",
		MessageEN:    "expected parameter name, got '{{.Got}}'",
		SuggestionAR: "المعاملات أسماء مفصولة بفواصل دون فاصلة أخيرة",
		SuggestionEN: "parameters are comma-separated names with no trailing comma",
	},
	"PARSE-0006": {
		Class:        ClassParse,
		Kind:         KindTryCatch,
		KindAR:       "خطأ في حاول/التقط",
		MessageAR:    "متوقع 'catch' بعد كتلة 'try'، وجد '{{.Got}}'",
		MessageEN:    "expected 'catch' after 'try' block, got '{{.Got}}'",
		SuggestionAR: "حاول { ... } التقط(خ) { ... }",
		SuggestionEN: "try { ... } catch(e) { ... }",
	},
	"PARSE-0007": {
		Class:        ClassParse,
		Kind:         KindCatchHeader,
		KindAR:       "خطأ في رأس التقط",
		MessageAR:    "اسم متغير الخطأ غير صالح '{{.Got}}'",
		MessageEN:    "invalid error variable '{{.Got}}'",
		SuggestionAR: "استخدم اسم متغير مثل catch(e)",
		SuggestionEN: "use a plain identifier such as catch(e)",
	},

	// ========================================
	// Undefined errors (UNDEF-0xxx)
	// ========================================
	"UNDEF-0001": {
		Class:        ClassUndefined,
		Kind:         KindUndefinedVariable,
		KindAR:       "متغير غير معرف",
		MessageAR:    "المتغير '{{.Name}}' غير معرف",
		MessageEN:    "undefined variable '{{.Name}}'",
		SuggestionAR: "تأكد من تعريف المتغير قبل استخدامه",
		SuggestionEN: "assign the variable before using it",
	},
	"UNDEF-0002": {
		Class:        ClassUndefined,
		Kind:         KindUndefinedFunction,
		KindAR:       "دالة غير معرفة",
		MessageAR:    "الدالة '{{.Name}}' غير معرفة",
		MessageEN:    "undefined function '{{.Name}}'",
		SuggestionAR: "تأكد من كتابة اسم الدالة بشكل صحيح",
		SuggestionEN: "check the spelling of the function name",
	},

	// ========================================
	// Arity errors (ARITY-0xxx)
	// ========================================
	"ARITY-0001": {
		Class:        ClassArity,
		Kind:         KindArgumentCount,
		KindAR:       "عدد وسائط غير صحيح",
		MessageAR:    "الدالة '{{.Name}}' تتوقع {{.Expected}} وسيط، وصل {{.Got}}",
		MessageEN:    "function '{{.Name}}' expects {{.Expected}} argument(s), got {{.Got}}",
		SuggestionAR: "تأكد من عدد الوسائط المدخلة",
		SuggestionEN: "check the number of arguments",
	},
	"ARITY-0002": {
		Class:        ClassArity,
		Kind:         KindArgumentCount,
		KindAR:       "عدد وسائط غير صحيح",
		MessageAR:    "الدالة '{{.Name}}' تحتاج أزواج مفتاح/قيمة، وصل {{.Got}} وسيط",
		MessageEN:    "function '{{.Name}}' expects key/value pairs, got {{.Got}} argument(s)",
		SuggestionAR: "استخدم أزواج مفتاح/قيمة",
		SuggestionEN: "pass an even number of arguments",
	},

	// ========================================
	// Type errors (TYPE-0xxx)
	// ========================================
	"TYPE-0001": {
		Class:        ClassType,
		Kind:         KindInvalidOperand,
		KindAR:       "نوع معامل غير صالح",
		MessageAR:    "لا يمكن تطبيق '{{.Op}}' على {{.LeftAR}} و{{.RightAR}}",
		MessageEN:    "cannot apply '{{.Op}}' to {{.Left}} and {{.Right}}",
		SuggestionAR: "تأكد أن الطرفين أرقام أو نصوص",
		SuggestionEN: "both operands must be numbers, or both strings",
	},
	"TYPE-0002": {
		Class:        ClassType,
		Kind:         KindInvalidOperand,
		KindAR:       "نوع معامل غير صالح",
		MessageAR:    "لا يمكن تطبيق '{{.Op}}' على {{.LeftAR}} و{{.RightAR}}",
		MessageEN:    "cannot apply '{{.Op}}' to {{.Left}} and {{.Right}}",
		SuggestionAR: "استخدم أرقاماً فقط",
		SuggestionEN: "use numbers only",
	},
	"TYPE-0003": {
		Class:        ClassType,
		Kind:         KindInvalidOperand,
		KindAR:       "نوع معامل غير صالح",
		MessageAR:    "لا يمكن تطبيق '{{.Op}}' على {{.TypeAR}}",
		MessageEN:    "cannot apply '{{.Op}}' to {{.Type}}",
		SuggestionAR: "استخدم رقماً فقط",
		SuggestionEN: "use a number",
	},
	"TYPE-0004": {
		Class:        ClassType,
		Kind:         KindInvalidArgument,
		KindAR:       "نوع وسيط غير صالح",
		MessageAR:    "الدالة '{{.Name}}' تتوقع {{.ExpectedAR}} في الوسيط {{.Position}}، وصل {{.GotAR}}",
		MessageEN:    "function '{{.Name}}' expects {{.Expected}} for argument {{.Position}}, got {{.Got}}",
		SuggestionAR: "تأكد من نوع الوسيط",
		SuggestionEN: "check the argument type",
	},
	"TYPE-0005": {
		Class:        ClassType,
		Kind:         KindInvalidArgument,
		KindAR:       "نوع وسيط غير صالح",
		MessageAR:    "الدالة '{{.Name}}' تتوقع قائمة أرقام، وجد {{.GotAR}}",
		MessageEN:    "function '{{.Name}}' expects a list of numbers, found {{.Got}}",
		SuggestionAR: "تأكد أن جميع عناصر القائمة أرقام",
		SuggestionEN: "make sure every list element is a number",
	},
	"TYPE-0006": {
		Class:        ClassType,
		Kind:         KindInvalidMapKey,
		KindAR:       "مفتاح قاموس غير صالح",
		MessageAR:    "مفاتيح القاموس يجب أن تكون نصوصاً، وصل {{.GotAR}}",
		MessageEN:    "map keys must be strings, got {{.Got}}",
		SuggestionAR: "تأكد أن جميع المفاتيح نصوص",
		SuggestionEN: "use string keys",
	},

	// ========================================
	// Arithmetic errors (ARITH-0xxx)
	// ========================================
	"ARITH-0001": {
		Class:        ClassArithmetic,
		Kind:         KindDivisionByZero,
		KindAR:       "قسمة على صفر",
		MessageAR:    "لا يمكن القسمة على صفر",
		MessageEN:    "division by zero",
		SuggestionAR: "تأكد أن المقسوم عليه ليس صفراً",
		SuggestionEN: "make sure the divisor is not zero",
	},
	"ARITH-0002": {
		Class:        ClassArithmetic,
		Kind:         KindModuloByZero,
		KindAR:       "باقي قسمة على صفر",
		MessageAR:    "لا يمكن حساب باقي القسمة على صفر",
		MessageEN:    "modulo by zero",
		SuggestionAR: "تأكد أن المقسوم عليه ليس صفراً",
		SuggestionEN: "make sure the divisor is not zero",
	},

	// ========================================
	// Index errors (INDEX-0xxx)
	// ========================================
	"INDEX-0001": {
		Class:        ClassIndex,
		Kind:         KindIndexOutOfBounds,
		KindAR:       "فهرسة خارج النطاق",
		MessageAR:    "الفهرس {{.Index}} خارج حدود القائمة (الطول {{.Length}})",
		MessageEN:    "index {{.Index}} out of bounds for list of length {{.Length}}",
		SuggestionAR: "تأكد من أن الفهرس ضمن حدود القائمة",
		SuggestionEN: "use an index between 0 and length - 1",
	},
	"INDEX-0002": {
		Class:        ClassIndex,
		Kind:         KindKeyNotFound,
		KindAR:       "مفتاح غير موجود",
		MessageAR:    "المفتاح '{{.Key}}' غير موجود في القاموس",
		MessageEN:    "key '{{.Key}}' not found in map",
		SuggestionAR: "تأكد من وجود المفتاح في القاموس",
		SuggestionEN: "check that the key exists in the map",
	},
	"INDEX-0003": {
		Class:        ClassIndex,
		Kind:         KindInvalidIndexing,
		KindAR:       "عملية فهرسة غير صالحة",
		MessageAR:    "لا يمكن فهرسة {{.ObjectAR}} باستخدام {{.IndexAR}}",
		MessageEN:    "cannot index {{.Object}} with {{.Index}}",
		SuggestionAR: "استخدم قائمة مع رقم أو قاموس مع نص",
		SuggestionEN: "index a list with a number or a map with a string",
	},
	"INDEX-0004": {
		Class:        ClassIndex,
		Kind:         KindEmptyList,
		KindAR:       "قائمة فارغة",
		MessageAR:    "لا يمكن حساب '{{.Name}}' لقائمة فارغة",
		MessageEN:    "cannot compute '{{.Name}}' of an empty list",
		SuggestionAR: "تأكد أن القائمة تحتوي على عنصر واحد على الأقل",
		SuggestionEN: "make sure the list has at least one element",
	},

	// ========================================
	// Conversion errors (CONV-0xxx)
	// ========================================
	"CONV-0001": {
		Class:        ClassConversion,
		Kind:         KindConversion,
		KindAR:       "خطأ في التحويل",
		MessageAR:    "لا يمكن تحويل {{.FromAR}} إلى {{.ToAR}}",
		MessageEN:    "cannot convert {{.From}} to {{.To}}",
		SuggestionAR: "استخدم قيمة من النوع المناسب",
		SuggestionEN: "use a value of a convertible type",
	},
	"CONV-0002": {
		Class:        ClassConversion,
		Kind:         KindConversion,
		KindAR:       "خطأ في التحويل",
		MessageAR:    "النص '{{.Value}}' لا يمثل رقماً",
		MessageEN:    "string '{{.Value}}' is not a valid number",
		SuggestionAR: "تأكد أن النص يمثل رقماً صحيحاً",
		SuggestionEN: "make sure the text is a valid number",
	},

	// ========================================
	// I/O errors (IO-0xxx)
	// ========================================
	"IO-0001": {
		Class:        ClassIO,
		Kind:         KindSystemCommand,
		KindAR:       "فشل تنفيذ الأمر",
		MessageAR:    "فشل تنفيذ الأمر '{{.Command}}': {{.Err}}",
		MessageEN:    "failed to run command '{{.Command}}': {{.Err}}",
		SuggestionAR: "تأكد من وجود الأمر وصحة كتابته",
		SuggestionEN: "check that the command exists and is spelled correctly",
	},
	"IO-0002": {
		Class:        ClassIO,
		Kind:         KindFileRead,
		KindAR:       "فشل قراءة الملف",
		MessageAR:    "فشل قراءة الملف '{{.Path}}': {{.Err}}",
		MessageEN:    "failed to read file '{{.Path}}': {{.Err}}",
		SuggestionAR: "تأكد من وجود الملف وصلاحية قراءته",
		SuggestionEN: "check that the file exists and is readable",
	},
	"IO-0003": {
		Class:        ClassIO,
		Kind:         KindFileWrite,
		KindAR:       "فشل كتابة الملف",
		MessageAR:    "فشل كتابة الملف '{{.Path}}': {{.Err}}",
		MessageEN:    "failed to write file '{{.Path}}': {{.Err}}",
		SuggestionAR: "تأكد من صلاحية الكتابة في المجلد",
		SuggestionEN: "check that the directory is writable",
	},
	"IO-0004": {
		Class:        ClassIO,
		Kind:         KindListFiles,
		KindAR:       "فشل عرض الملفات",
		MessageAR:    "فشل عرض ملفات '{{.Path}}': {{.Err}}",
		MessageEN:    "failed to list files in '{{.Path}}': {{.Err}}",
		SuggestionAR: "تأكد من وجود المجلد",
		SuggestionEN: "check that the directory exists",
	},
	"IO-0005": {
		Class:     ClassIO,
		Kind:      KindSystemInfo,
		KindAR:    "فشل جلب معلومات النظام",
		MessageAR: "فشل جلب معلومات النظام: {{.Err}}",
		MessageEN: "failed to read system information: {{.Err}}",
	},
	"IO-0006": {
		Class:     ClassIO,
		Kind:      KindEnvVar,
		KindAR:    "فشل قراءة متغير البيئة",
		MessageAR: "فشل قراءة متغير البيئة '{{.Name}}': {{.Err}}",
		MessageEN: "failed to read environment variable '{{.Name}}': {{.Err}}",
	},

	// ========================================
	// State errors (STATE-0xxx)
	// ========================================
	"STATE-0001": {
		Class:        ClassState,
		Kind:         KindRecursionLimit,
		KindAR:       "تجاوز حد الاستدعاء",
		MessageAR:    "تجاوز عمق الاستدعاء الحد المسموح {{.Limit}}",
		MessageEN:    "call depth exceeded the limit of {{.Limit}}",
		SuggestionAR: "تأكد من وجود شرط توقف للدالة العودية",
		SuggestionEN: "make sure recursive functions have a base case",
	},
}

// New creates an IqraError from the catalog.
// If the code is not found, creates a generic parse-free error with the code as message.
func New(code string, data map[string]any) *IqraError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if m, ok := data["message"].(string); ok {
			msg = m
		}
		return &IqraError{
			Class:     ClassState,
			Code:      code,
			Kind:      code,
			MessageAR: msg,
			MessageEN: msg,
			Data:      data,
		}
	}

	return &IqraError{
		Class:        def.Class,
		Code:         code,
		Kind:         def.Kind,
		KindAR:       def.KindAR,
		MessageAR:    renderTemplate(def.MessageAR, data),
		MessageEN:    renderTemplate(def.MessageEN, data),
		SuggestionAR: renderTemplate(def.SuggestionAR, data),
		SuggestionEN: renderTemplate(def.SuggestionEN, data),
		Data:         data,
	}
}

// NewWithLine creates an IqraError with line information.
func NewWithLine(code string, line int, data map[string]any) *IqraError {
	err := New(code, data)
	err.Line = line
	return err
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil || !strings.Contains(tmplStr, "{{") {
		return tmplStr
	}

	tmpl, err := template.New("").Option("missingkey=zero").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// ============================================================================
// Fuzzy Matching - "Did you mean?" suggestions
// ============================================================================

// levenshteinDistance computes the edit distance between a and b over runes,
// so Arabic names are compared letter by letter rather than byte by byte.
func levenshteinDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// FindClosestMatch finds the closest candidate to input.
// Returns "" when nothing is within the length-scaled threshold.
// Ties go to the earliest candidate, so callers should pass a sorted slice.
func FindClosestMatch(input string, candidates []string) string {
	if input == "" || len(candidates) == 0 {
		return ""
	}

	in := []rune(strings.ToLower(input))

	var bestMatch string
	bestDistance := -1

	for _, candidate := range candidates {
		dist := levenshteinDistance(in, []rune(strings.ToLower(candidate)))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	// Short words (1-3): max 1 edit
	// Medium words (4-6): max 2 edits
	// Longer words (7+): max 3 edits
	threshold := 1
	if len(in) >= 4 && len(in) <= 6 {
		threshold = 2
	} else if len(in) >= 7 {
		threshold = 3
	}

	if bestDistance <= 0 || bestDistance > threshold {
		return ""
	}

	return bestMatch
}

// NewUndefinedVariable creates an undefined variable error with an optional
// "did you mean" suggestion drawn from the names currently in scope.
func NewUndefinedVariable(name string, line int, available []string) *IqraError {
	err := NewWithLine("UNDEF-0001", line, map[string]any{"Name": name})
	addDidYouMean(err, name, available)
	return err
}

// NewUndefinedFunction creates an undefined function error with an optional
// "did you mean" suggestion drawn from user functions and builtins.
func NewUndefinedFunction(name string, line int, available []string) *IqraError {
	err := NewWithLine("UNDEF-0002", line, map[string]any{"Name": name})
	addDidYouMean(err, name, available)
	return err
}

func addDidYouMean(err *IqraError, name string, available []string) {
	if suggestion := FindClosestMatch(name, available); suggestion != "" {
		err.SuggestionAR = "هل تقصد `" + suggestion + "`؟"
		err.SuggestionEN = "Did you mean `" + suggestion + "`?"
	}
}
