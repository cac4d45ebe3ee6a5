package evaluator

import "sort"

// BuiltinFunction receives the name the script used, which may be the
// Arabic or the English spelling, so errors can echo it back.
type BuiltinFunction func(r *Runtime, name string, args []Value) (Value, error)

// Builtin is a host-provided function callable by either spelling
type Builtin struct {
	Name   string // canonical English name
	Arabic string
	Fn     BuiltinFunction
}

// builtins is keyed by canonical English name
var builtins map[string]*Builtin

// arabicAliases maps each Arabic spelling to its canonical name
var arabicAliases map[string]string

func init() {
	table := []*Builtin{
		// output
		{Name: "print", Arabic: "اطبع", Fn: builtinPrint},

		// lists
		{Name: "list", Arabic: "قائمة", Fn: builtinList},
		{Name: "list_len", Arabic: "طول_القائمة", Fn: builtinListLen},
		{Name: "get", Arabic: "عنصر", Fn: builtinGet},
		{Name: "append", Arabic: "أضف", Fn: builtinAppend},
		{Name: "remove", Arabic: "احذف", Fn: builtinRemove},
		{Name: "contains", Arabic: "يحتوي", Fn: builtinContains},

		// maps
		{Name: "map", Arabic: "قاموس", Fn: builtinMap},
		{Name: "map_get", Arabic: "جلب_عنصر", Fn: builtinMapGet},
		{Name: "map_set", Arabic: "تعيين_عنصر", Fn: builtinMapSet},
		{Name: "map_remove", Arabic: "حذف_عنصر", Fn: builtinMapRemove},

		// types and conversions
		{Name: "type", Arabic: "نوع", Fn: builtinType},
		{Name: "to_number", Arabic: "إلى_رقم", Fn: builtinToNumber},
		{Name: "to_string", Arabic: "إلى_نص", Fn: builtinToString},
		{Name: "is_number", Arabic: "رقم؟", Fn: builtinIsNumber},
		{Name: "is_string", Arabic: "نص؟", Fn: builtinIsString},

		// strings
		{Name: "len", Arabic: "طول", Fn: builtinLen},
		{Name: "word_count", Arabic: "عدد_الكلمات", Fn: builtinWordCount},
		{Name: "reverse", Arabic: "عكس", Fn: builtinReverse},

		// numeric aggregation
		{Name: "sum", Arabic: "جمع", Fn: builtinSum},
		{Name: "average", Arabic: "متوسط", Fn: builtinAverage},
		{Name: "max", Arabic: "أكبر", Fn: builtinMax},
		{Name: "min", Arabic: "أصغر", Fn: builtinMin},

		// host
		{Name: "today", Arabic: "تاريخ_اليوم", Fn: builtinToday},
		{Name: "system", Arabic: "نفذ_أمر", Fn: builtinSystem},
		{Name: "system_with_io", Arabic: "نفذ_أمر_بمدخل", Fn: builtinSystemWithIO},
		{Name: "read_file", Arabic: "اقرأ_ملف", Fn: builtinReadFile},
		{Name: "write_file", Arabic: "اكتب_ملف", Fn: builtinWriteFile},
		{Name: "list_files", Arabic: "قائمة_ملفات", Fn: builtinListFiles},
		{Name: "env_var", Arabic: "متغير_بيئة", Fn: builtinEnvVar},
		{Name: "system_info", Arabic: "معلومات_النظام", Fn: builtinSystemInfo},
	}

	builtins = make(map[string]*Builtin, len(table))
	arabicAliases = make(map[string]string, len(table))
	for _, b := range table {
		builtins[b.Name] = b
		arabicAliases[b.Arabic] = b.Name
	}
}

func lookupBuiltin(name string) (*Builtin, bool) {
	if b, ok := builtins[name]; ok {
		return b, true
	}
	if canonical, ok := arabicAliases[name]; ok {
		return builtins[canonical], true
	}
	return nil, false
}

// IsBuiltin reports whether name is a builtin in either spelling
func IsBuiltin(name string) bool {
	_, ok := lookupBuiltin(name)
	return ok
}

// Builtins returns the builtin table sorted by English name
func Builtins() []*Builtin {
	out := make([]*Builtin, 0, len(builtins))
	for _, b := range builtins {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// builtinNames lists every spelling, English and Arabic
func builtinNames() []string {
	names := make([]string, 0, 2*len(builtins))
	for _, b := range builtins {
		names = append(names, b.Name, b.Arabic)
	}
	return names
}
