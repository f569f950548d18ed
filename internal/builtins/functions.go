package builtins

// Function describes a runtime function that is callable without declaration.
// A nil Params accepts exactly one argument of any printable type.
type Function struct {
	Name   string
	Params []BuiltinType
	Return BuiltinType
}

// Print writes its single Int, Float, Bool or String argument followed by a newline
var Print = &Function{
	Name:   "print",
	Return: Void,
}

// Functions lists every builtin function by name
var Functions = map[string]*Function{
	Print.Name: Print,
}

// LookupFunction finds a builtin function by name
func LookupFunction(name string) (*Function, bool) {
	fn, ok := Functions[name]
	return fn, ok
}

// IsPrintable reports whether print accepts a value of the given type
func IsPrintable(t BuiltinType) bool {
	switch t {
	case Int, Float, Bool, String:
		return true
	default:
		return false
	}
}
