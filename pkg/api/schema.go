package api

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

// Member kinds as they appear in the API JSON.
const (
	KindMethod   = "method"
	KindProperty = "property"
	KindEvent    = "event"
)

// validKinds is the set of member kinds the generator understands.
var validKinds = map[string]bool{
	KindMethod:   true,
	KindProperty: true,
	KindEvent:    true,
}

// Type is a recursive type descriptor from the API JSON.
//
// Exactly one shape applies per descriptor:
//   - scalar: Name set, everything else empty ("string", "boolean", "int")
//   - generic: Name plus Templates ("Array", "Promise", "Map")
//   - union: Union set; Name may carry a suggested alias for the union
//   - object: Name "Object" with Properties describing an anonymous shape
type Type struct {
	Name       string    `json:"name"`
	Union      []*Type   `json:"union,omitempty"`
	Templates  []*Type   `json:"templates,omitempty"`
	Properties []*Member `json:"properties,omitempty"`
	Expression string    `json:"expression,omitempty"`
}

// IsUnion reports whether the descriptor is a union of alternatives.
func (t *Type) IsUnion() bool { return len(t.Union) > 0 }

// IsObject reports whether the descriptor is an anonymous object shape.
func (t *Type) IsObject() bool { return t.Name == "Object" && len(t.Properties) > 0 }

// IsStringLiteral reports whether the descriptor is a quoted string literal
// alternative inside a union (e.g. "left" in "left"|"right").
func (t *Type) IsStringLiteral() bool {
	return len(t.Name) >= 2 && strings.HasPrefix(t.Name, `"`) && strings.HasSuffix(t.Name, `"`)
}

// Literal returns the unquoted value of a string literal alternative.
func (t *Type) Literal() string { return strings.Trim(t.Name, `"`) }

// IsClosedStringSet reports whether the union consists only of string
// literals (optionally plus "null"), i.e. it can become an enum.
func (t *Type) IsClosedStringSet() bool {
	if !t.IsUnion() {
		return false
	}
	for _, alt := range t.Union {
		if alt.Name == "null" {
			continue
		}
		if !alt.IsStringLiteral() {
			return false
		}
	}
	return true
}

// String renders the descriptor in the compact form used in error messages
// and override config keys (e.g. `Object|function|string`).
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.IsUnion() {
		parts := make([]string, 0, len(t.Union))
		for _, alt := range t.Union {
			parts = append(parts, alt.String())
		}
		return strings.Join(parts, "|")
	}
	if len(t.Templates) > 0 {
		parts := make([]string, 0, len(t.Templates))
		for _, tpl := range t.Templates {
			parts = append(parts, tpl.String())
		}
		return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ", "))
	}
	return t.Name
}

// Member is one entry of an interface: a method, property, or event.
// Args is populated for methods; Properties of object types reuse Member
// for field descriptors (with Kind "property").
type Member struct {
	Kind       string    `json:"kind"`
	Name       string    `json:"name"`
	Type       *Type     `json:"type"`
	Args       []*Member `json:"args,omitempty"`
	Required   bool      `json:"required"`
	Deprecated bool      `json:"deprecated,omitempty"`
	Async      bool      `json:"async,omitempty"`
	Spec       string    `json:"spec,omitempty"`
}

// Interface is one top-level interface descriptor.
type Interface struct {
	Name    string    `json:"name"`
	Spec    string    `json:"spec,omitempty"`
	Extends string    `json:"extends,omitempty"`
	Members []*Member `json:"members"`
}

// Schema is the parsed API description: the ordered list of interfaces as
// reported by the driver. Order is preserved so regeneration is stable.
type Schema struct {
	Interfaces []*Interface
}

// Load parses and validates an API description from r.
// Malformed JSON or an invalid shape is a hard error; the generator never
// guesses at input it does not understand.
func Load(r io.Reader) (*Schema, error) {
	var interfaces []*Interface
	dec := json.NewDecoder(r)
	if err := dec.Decode(&interfaces); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSchema, err, "decode api description")
	}
	s := &Schema{Interfaces: interfaces}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Parse is a convenience wrapper around [Load] for in-memory data.
func Parse(data []byte) (*Schema, error) {
	return Load(strings.NewReader(string(data)))
}

// Validate checks structural invariants of the description.
func (s *Schema) Validate() error {
	if len(s.Interfaces) == 0 {
		return errors.New(errors.ErrCodeInvalidSchema, "api description has no interfaces")
	}
	seen := make(map[string]bool, len(s.Interfaces))
	for _, iface := range s.Interfaces {
		if iface == nil {
			return errors.New(errors.ErrCodeInvalidSchema, "null interface descriptor")
		}
		if err := errors.ValidateInterfaceName(iface.Name); err != nil {
			return err
		}
		if seen[iface.Name] {
			return errors.New(errors.ErrCodeInvalidSchema, "duplicate interface %q", iface.Name)
		}
		seen[iface.Name] = true
		for _, m := range iface.Members {
			if err := validateMember(iface.Name, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateMember(path string, m *Member) error {
	if m == nil {
		return errors.New(errors.ErrCodeInvalidSchema, "%s: null member", path)
	}
	if m.Name == "" {
		return errors.New(errors.ErrCodeInvalidSchema, "%s: member with empty name", path)
	}
	memberPath := path + "." + m.Name
	if m.Kind != "" && !validKinds[m.Kind] {
		return errors.New(errors.ErrCodeInvalidSchema, "%s: unknown member kind %q", memberPath, m.Kind)
	}
	if m.Type == nil {
		return errors.New(errors.ErrCodeInvalidSchema, "%s: member has no type", memberPath)
	}
	if err := validateType(memberPath, m.Type); err != nil {
		return err
	}
	for _, arg := range m.Args {
		if err := validateMember(memberPath, arg); err != nil {
			return err
		}
	}
	return nil
}

func validateType(path string, t *Type) error {
	if t.Name == "" && !t.IsUnion() {
		return errors.New(errors.ErrCodeInvalidSchema, "%s: type with empty name", path)
	}
	for _, alt := range t.Union {
		if err := validateType(path, alt); err != nil {
			return err
		}
	}
	for _, tpl := range t.Templates {
		if err := validateType(path, tpl); err != nil {
			return err
		}
	}
	for _, prop := range t.Properties {
		if err := validateMember(path, prop); err != nil {
			return err
		}
	}
	return nil
}

// Interface looks up a top-level interface by name.
func (s *Schema) Interface(name string) (*Interface, bool) {
	for _, iface := range s.Interfaces {
		if iface.Name == name {
			return iface, true
		}
	}
	return nil, false
}

// Names returns the sorted interface names.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.Interfaces))
	for _, iface := range s.Interfaces {
		names = append(names, iface.Name)
	}
	sort.Strings(names)
	return names
}

// Marshal serializes the schema back to canonical JSON. Used for content
// hashing in pipeline cache keys.
func (s *Schema) Marshal() ([]byte, error) {
	return json.Marshal(s.Interfaces)
}

// References returns the names of other schema interfaces referenced by
// iface's member signatures. Used by the graph command.
func (s *Schema) References(iface *Interface) []string {
	known := make(map[string]bool, len(s.Interfaces))
	for _, i := range s.Interfaces {
		known[i.Name] = true
	}
	refs := make(map[string]bool)
	for _, m := range iface.Members {
		collectRefs(m.Type, known, refs)
		for _, arg := range m.Args {
			collectRefs(arg.Type, known, refs)
		}
	}
	delete(refs, iface.Name)
	out := make([]string, 0, len(refs))
	for name := range refs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectRefs(t *Type, known, refs map[string]bool) {
	if t == nil {
		return
	}
	if known[t.Name] {
		refs[t.Name] = true
	}
	for _, alt := range t.Union {
		collectRefs(alt, known, refs)
	}
	for _, tpl := range t.Templates {
		collectRefs(tpl, known, refs)
	}
	for _, prop := range t.Properties {
		collectRefs(prop.Type, known, refs)
	}
}
