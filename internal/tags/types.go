// Package tags reads symbol definition entries from ctags-format tag files.
package tags

// Kind is the kind of a tagged definition.
type Kind string

const (
	KindClass           Kind = "class"
	KindModule          Kind = "module"
	KindMethod          Kind = "method"
	KindSingletonMethod Kind = "singletonMethod"
	KindFunction        Kind = "function"
	KindConstant        Kind = "constant"
	KindVariable        Kind = "variable"
	KindField           Kind = "field"
	KindProperty        Kind = "property"
	KindAlias           Kind = "alias"
	KindAccessor        Kind = "accessor"
	KindInterface       Kind = "interface"
	KindStruct          Kind = "struct"
	KindType            Kind = "type"
	KindPackage         Kind = "package"
	KindMacro           Kind = "macro"
	KindUndefined       Kind = "undefined"
)

// knownKinds maps long kind names (--fields=+K) to kinds.
var knownKinds = map[string]Kind{
	"class":           KindClass,
	"module":          KindModule,
	"namespace":       KindModule,
	"method":          KindMethod,
	"singletonMethod": KindSingletonMethod,
	"function":        KindFunction,
	"func":            KindFunction,
	"constant":        KindConstant,
	"const":           KindConstant,
	"variable":        KindVariable,
	"var":             KindVariable,
	"field":           KindField,
	"member":          KindField,
	"property":        KindProperty,
	"alias":           KindAlias,
	"accessor":        KindAccessor,
	"interface":       KindInterface,
	"struct":          KindStruct,
	"type":            KindType,
	"typedef":         KindType,
	"package":         KindPackage,
	"macro":           KindMacro,
}

// rubyKindLetters are the single-letter kinds emitted by the Ruby parser,
// which disagree with the letters most other parsers use.
var rubyKindLetters = map[string]Kind{
	"c": KindClass,
	"f": KindMethod,
	"m": KindModule,
	"S": KindSingletonMethod,
	"C": KindConstant,
	"A": KindAccessor,
	"a": KindAlias,
}

var genericKindLetters = map[string]Kind{
	"c": KindClass,
	"f": KindFunction,
	"m": KindMethod,
	"n": KindModule,
	"v": KindVariable,
	"C": KindConstant,
	"t": KindType,
	"i": KindInterface,
	"s": KindStruct,
	"p": KindPackage,
	"d": KindMacro,
	"F": KindField,
}

// ParseKind resolves a ctags kind field. Unknown kinds map to KindUndefined.
func ParseKind(raw string, lang Language) Kind {
	if k, ok := knownKinds[raw]; ok {
		return k
	}
	if len(raw) == 1 {
		letters := genericKindLetters
		if lang == Ruby {
			letters = rubyKindLetters
		}
		if k, ok := letters[raw]; ok {
			return k
		}
	}
	return KindUndefined
}

// IsClassOrModule reports whether the kind names a class-like container.
func (k Kind) IsClassOrModule() bool {
	return k == KindClass || k == KindModule
}

// Entry is one definition site read from a tag file.
type Entry struct {
	Name      string            `json:"name"`
	FilePath  string            `json:"file_path"`
	Language  Language          `json:"language,omitempty"`
	Kind      Kind              `json:"kind"`
	Tags      map[string]string `json:"tags"`
	Address   string            `json:"address,omitempty"`   // Unescaped search pattern or line number
	Truncated bool              `json:"truncated,omitempty"` // Pattern lacked its $ anchor and matches a line prefix
}

// Line returns the defining line when the tag file recorded one, either as
// a line:N field or as a numeric address.
func (e Entry) Line() (int, bool) {
	if v, ok := e.Tags["line"]; ok {
		if n, ok := parseLineNumber(v); ok {
			return n, true
		}
	}
	return parseLineNumber(e.Address)
}

// Pattern returns the literal source line the address pattern matches, if the
// address was a full-line search pattern.
func (e Entry) Pattern() (string, bool) {
	if e.Address == "" {
		return "", false
	}
	if _, numeric := parseLineNumber(e.Address); numeric {
		return "", false
	}
	return e.Address, true
}

func parseLineNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, n > 0
}
