package gen

import (
	"fmt"
	"strings"
)

// TypeRef is a resolved type reference: the Go type to emit for a schema
// type descriptor at one path. A TypeRef may additionally point at an Enum
// or NestedClass synthesized for that path.
type TypeRef struct {
	GoType   string       // emitted Go type ("" for void)
	Enum     *Enum        // set when the descriptor was a closed string union
	Class    *NestedClass // set when the descriptor was an anonymous object
	Pointer  bool         // optional occurrences become pointers
	Nullable bool         // the schema allows null; rendered as a pointer everywhere
}

// IsVoid reports whether the reference carries no value.
func (r TypeRef) IsVoid() bool { return r.GoType == "" }

// optional renders the type for an optional position (struct field,
// options setter): scalars become pointers so absence is representable.
func (r TypeRef) optional() string {
	if r.Pointer || r.Nullable {
		return "*" + r.GoType
	}
	return r.GoType
}

// Enum is a closed string union emitted as a typed string with a const set.
type Enum struct {
	Name   string   // Go type name (e.g. "MouseButton")
	Values []string // literal values in schema order (e.g. "left", "right")
	Path   string   // schema path that produced the enum
}

// constName returns the Go const identifier for one enum value.
func (e *Enum) constName(value string) string {
	return e.Name + exportName(value)
}

// equal reports whether two enums carry the same value set.
func (e *Enum) equal(other *Enum) bool {
	if len(e.Values) != len(other.Values) {
		return false
	}
	for i := range e.Values {
		if e.Values[i] != other.Values[i] {
			return false
		}
	}
	return true
}

// Field is one field of a generated options or result struct.
type Field struct {
	Name     string // Go field name
	JSONName string // wire name
	Type     TypeRef
	Optional bool
	Spec     string
}

// NestedClass is an anonymous object shape from the schema, emitted as a
// named struct. Option classes (trailing optional parameters) and result
// shapes both take this form.
type NestedClass struct {
	Name   string // Go type name (e.g. "PageClickOptions")
	Fields []*Field
	Path   string // schema path that produced the struct
}

// equal reports whether two classes carry the same field layout.
func (c *NestedClass) equal(other *NestedClass) bool {
	if len(c.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range c.Fields {
		o := other.Fields[i]
		if f.Name != o.Name || f.JSONName != o.JSONName || f.Type.GoType != o.Type.GoType || f.Optional != o.Optional {
			return false
		}
	}
	return true
}

// Param is one required method parameter.
type Param struct {
	Name string // Go parameter name
	Type TypeRef
}

// Method is one interface member in its emitted form. Properties become
// getters; events become On-handler registrations.
type Method struct {
	Name       string // Go method name
	JSONName   string // wire member name
	Kind       string // api.KindMethod, KindProperty, or KindEvent
	Params     []*Param
	Options    *NestedClass // trailing optional parameters, if any
	Returns    TypeRef
	Deprecated bool
	Spec       string
}

// InterfaceDef is a top-level interface in its emitted form, together with
// the enums and structs its signatures synthesized.
type InterfaceDef struct {
	Name    string
	Spec    string
	Methods []*Method
	Enums   []*Enum
	Classes []*NestedClass
}

// signature renders the method's Go signature (without the leading name).
func (m *Method) signature() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", p.Name, p.Type.GoType)
	}
	if m.Options != nil {
		if len(m.Params) > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "options ...%s", m.Options.Name)
	}
	b.WriteByte(')')

	switch {
	case m.Kind == "event":
		// events have no returns; the handler signature carries the payload
	case m.Returns.IsVoid():
		b.WriteString(" error")
	case m.Returns.Nullable:
		fmt.Fprintf(&b, " (*%s, error)", m.Returns.GoType)
	default:
		fmt.Fprintf(&b, " (%s, error)", m.Returns.GoType)
	}
	return b.String()
}

// exportName converts a schema identifier to an exported Go identifier:
// "clickCount" -> "ClickCount", "left" -> "Left", "no-wait" -> "NoWait".
func exportName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '.' || r == '/'
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	if b.Len() == 0 {
		return "X"
	}
	return b.String()
}

// paramName converts a schema arg name to an unexported Go parameter name,
// steering clear of Go keywords.
func paramName(name string) string {
	n := name
	if n == "" {
		return "arg"
	}
	n = strings.ToLower(n[:1]) + n[1:]
	if goKeywords[n] {
		n += "Arg"
	}
	return n
}

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}
