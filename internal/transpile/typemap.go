package transpile

// Target type tokens that the resolver produces on its own.
const (
	TokenAny       = "any"
	TokenUndefined = "undefined"
)

// MapTypeToken maps a Python scalar type name onto its TypeScript token.
// Dates cross the bridge serialized, so they map to string. "None" maps to
// undefined. Any other name, including user defined record names, is
// returned unchanged.
func MapTypeToken(name string) string {
	switch name {
	case "str":
		return "string"
	case "int", "float":
		return "number"
	case "bool":
		return "boolean"
	case "datetime", "date":
		return "string"
	case "None":
		return TokenUndefined
	}
	return name
}
