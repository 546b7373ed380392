package diagnostics

// ErrorCode identifies a class of diagnostic.
type ErrorCode string

// Binder errors (S prefix)
const (
	ErrS001 ErrorCode = "S001" // function conflicts with another member of the same name
	ErrS002 ErrorCode = "S002" // Final declaration without a value
	ErrS003 ErrorCode = "S003" // Final or ClassVar outside a declaration annotation
)

// Loader errors (L prefix)
const (
	ErrL001 ErrorCode = "L001" // stub file unreadable or malformed
	ErrL002 ErrorCode = "L002" // expression or statement does not parse
	ErrL003 ErrorCode = "L003" // invalid declaration shape
)

// Configuration errors (C prefix)
const (
	ErrC001 ErrorCode = "C001"
)

var codeTitles = map[ErrorCode]string{
	ErrS001: "binding conflict",
	ErrS002: "missing Final initializer",
	ErrS003: "misplaced qualifier",
	ErrL001: "invalid stub file",
	ErrL002: "syntax error",
	ErrL003: "invalid declaration",
	ErrC001: "invalid configuration",
}

// Title returns a short human-readable name for the code.
func (c ErrorCode) Title() string {
	if t, ok := codeTitles[c]; ok {
		return t
	}
	return "error"
}
