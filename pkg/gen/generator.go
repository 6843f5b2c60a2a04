package gen

import (
	"strings"

	"github.com/microsoft/playwright-go-sub009/pkg/api"
	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

// Generator builds the output object graph from a parsed API description.
// It holds no state beyond one Build run; create a fresh Generator per
// schema. All resolution goes through a single path-keyed table so that a
// type appearing at the same schema path always resolves identically.
type Generator struct {
	cfg    Config
	schema *api.Schema
	known  map[string]bool // schema interface names

	resolved map[string]string // path -> Go type, invariant guard
	enums    map[string]*Enum
	classes  map[string]*NestedClass
}

// New creates a Generator for the given schema and config.
func New(schema *api.Schema, cfg Config) *Generator {
	known := make(map[string]bool, len(schema.Interfaces))
	for _, iface := range schema.Interfaces {
		known[iface.Name] = true
	}
	return &Generator{
		cfg:      cfg,
		schema:   schema,
		known:    known,
		resolved: make(map[string]string),
		enums:    make(map[string]*Enum),
		classes:  make(map[string]*NestedClass),
	}
}

// Build walks the schema once and returns the interface definitions in
// schema order, minus skipped interfaces.
func (g *Generator) Build() ([]*InterfaceDef, error) {
	var defs []*InterfaceDef
	for _, iface := range g.schema.Interfaces {
		if g.cfg.skips(iface.Name) {
			continue
		}
		def, err := g.buildInterface(iface)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (g *Generator) buildInterface(iface *api.Interface) (*InterfaceDef, error) {
	def := &InterfaceDef{Name: iface.Name, Spec: iface.Spec}
	for _, m := range iface.Members {
		method, err := g.buildMember(def, iface.Name, m)
		if err != nil {
			return nil, err
		}
		def.Methods = append(def.Methods, method)
	}
	return def, nil
}

func (g *Generator) buildMember(def *InterfaceDef, ifaceName string, m *api.Member) (*Method, error) {
	path := ifaceName + "." + m.Name

	switch m.Kind {
	case api.KindEvent:
		payload, err := g.resolve(def, path, m.Type)
		if err != nil {
			return nil, err
		}
		return &Method{
			Name:       "On" + exportName(m.Name),
			JSONName:   m.Name,
			Kind:       api.KindEvent,
			Returns:    payload,
			Deprecated: m.Deprecated,
			Spec:       m.Spec,
		}, nil

	case api.KindProperty:
		ret, err := g.resolve(def, path, m.Type)
		if err != nil {
			return nil, err
		}
		return &Method{
			Name:       exportName(m.Name),
			JSONName:   m.Name,
			Kind:       api.KindProperty,
			Returns:    ret,
			Deprecated: m.Deprecated,
			Spec:       m.Spec,
		}, nil
	}

	// Method: required args become params, trailing optional args fold
	// into a synthesized options struct (the Go rendition of default-
	// argument overloads).
	method := &Method{
		Name:       exportName(m.Name),
		JSONName:   m.Name,
		Kind:       api.KindMethod,
		Deprecated: m.Deprecated,
		Spec:       m.Spec,
	}

	var optional []*api.Member
	for _, arg := range m.Args {
		argPath := path + "." + arg.Name
		if !arg.Required {
			optional = append(optional, arg)
			continue
		}
		ref, err := g.resolve(def, argPath, arg.Type)
		if err != nil {
			return nil, err
		}
		method.Params = append(method.Params, &Param{Name: paramName(arg.Name), Type: ref})
	}

	if len(optional) > 0 {
		opts, err := g.buildOptions(def, path, optional)
		if err != nil {
			return nil, err
		}
		method.Options = opts
	}

	ret, err := g.resolve(def, path, m.Type)
	if err != nil {
		return nil, err
	}
	method.Returns = ret
	return method, nil
}

// buildOptions synthesizes the options struct for a method's optional args.
// A single optional object arg contributes its properties directly; other
// optional args become fields themselves.
func (g *Generator) buildOptions(def *InterfaceDef, path string, optional []*api.Member) (*NestedClass, error) {
	class := &NestedClass{
		Name: pathToName(path) + "Options",
		Path: path,
	}
	for _, arg := range optional {
		argPath := path + "." + arg.Name
		if arg.Type.IsObject() && len(optional) == 1 {
			for _, prop := range arg.Type.Properties {
				field, err := g.buildField(def, argPath, prop)
				if err != nil {
					return nil, err
				}
				class.Fields = append(class.Fields, field)
			}
			continue
		}
		field, err := g.buildField(def, path, arg)
		if err != nil {
			return nil, err
		}
		class.Fields = append(class.Fields, field)
	}
	return g.registerClass(def, class)
}

func (g *Generator) buildField(def *InterfaceDef, parentPath string, m *api.Member) (*Field, error) {
	path := parentPath + "." + m.Name
	ref, err := g.resolve(def, path, m.Type)
	if err != nil {
		return nil, err
	}
	return &Field{
		Name:     exportName(m.Name),
		JSONName: m.Name,
		Type:     ref,
		Optional: !m.Required,
		Spec:     m.Spec,
	}, nil
}

// resolve maps a schema type descriptor at the given path to a TypeRef,
// synthesizing enums and structs as needed. The same path must always
// resolve to the same Go type; a conflict is a hard error.
func (g *Generator) resolve(def *InterfaceDef, path string, t *api.Type) (TypeRef, error) {
	ref, err := g.resolveType(def, path, t)
	if err != nil {
		return TypeRef{}, err
	}
	if prev, ok := g.resolved[path]; ok && prev != ref.GoType {
		return TypeRef{}, errors.New(errors.ErrCodeTypeConflict,
			"%s resolved to %q, previously %q", path, ref.GoType, prev)
	}
	g.resolved[path] = ref.GoType
	return ref, nil
}

func (g *Generator) resolveType(def *InterfaceDef, path string, t *api.Type) (TypeRef, error) {
	// Per-path overrides win over every structural rule.
	if goType, ok := g.cfg.overrideFor(path); ok {
		return TypeRef{GoType: goType, Pointer: pointerScalar(goType)}, nil
	}

	if t.IsUnion() {
		return g.resolveUnion(def, path, t)
	}

	if t.IsObject() {
		class := &NestedClass{Name: pathToName(path), Path: path}
		for _, prop := range t.Properties {
			field, err := g.buildField(def, path, prop)
			if err != nil {
				return TypeRef{}, err
			}
			class.Fields = append(class.Fields, field)
		}
		registered, err := g.registerClass(def, class)
		if err != nil {
			return TypeRef{}, err
		}
		return TypeRef{GoType: registered.Name, Class: registered, Pointer: true}, nil
	}

	switch t.Name {
	case "Object", "Map":
		if len(t.Templates) == 2 {
			key, err := g.resolveType(def, path, t.Templates[0])
			if err != nil {
				return TypeRef{}, err
			}
			val, err := g.resolveType(def, path, t.Templates[1])
			if err != nil {
				return TypeRef{}, err
			}
			return TypeRef{GoType: "map[" + key.GoType + "]" + val.GoType}, nil
		}
		return TypeRef{GoType: "map[string]any"}, nil

	case "Array":
		if len(t.Templates) != 1 {
			return TypeRef{}, errors.New(errors.ErrCodeUnsupportedType,
				"%s: Array must have exactly one template, got %s", path, t)
		}
		elem, err := g.resolveType(def, path, t.Templates[0])
		if err != nil {
			return TypeRef{}, err
		}
		return TypeRef{GoType: "[]" + elem.GoType}, nil

	case "Promise":
		if len(t.Templates) != 1 {
			return TypeRef{}, errors.New(errors.ErrCodeUnsupportedType,
				"%s: Promise must have exactly one template, got %s", path, t)
		}
		return g.resolveType(def, path, t.Templates[0])
	}

	if st, ok := scalarTypes[t.Name]; ok {
		return TypeRef{GoType: st.goType, Pointer: st.pointer}, nil
	}

	// A reference to another generated interface.
	if g.known[t.Name] {
		return TypeRef{GoType: t.Name}, nil
	}

	return TypeRef{}, errors.New(errors.ErrCodeUnsupportedType,
		"%s: unrecognized type %s (add an override to the generator config)", path, t)
}

func (g *Generator) resolveUnion(def *InterfaceDef, path string, t *api.Type) (TypeRef, error) {
	if t.IsClosedStringSet() {
		enum := &Enum{Path: path}
		if t.Name != "" && t.Name != "Object" {
			enum.Name = t.Name
		} else {
			enum.Name = pathToName(path)
		}
		nullable := false
		for _, alt := range t.Union {
			if alt.Name == "null" {
				nullable = true
				continue
			}
			enum.Values = append(enum.Values, alt.Literal())
		}
		registered, err := g.registerEnum(def, enum)
		if err != nil {
			return TypeRef{}, err
		}
		return TypeRef{GoType: registered.Name, Enum: registered, Nullable: nullable}, nil
	}

	// X|null collapses to a pointer to X.
	var nonNull []*api.Type
	for _, alt := range t.Union {
		if alt.Name != "null" {
			nonNull = append(nonNull, alt)
		}
	}
	if len(nonNull) == 1 && len(nonNull) < len(t.Union) {
		ref, err := g.resolveType(def, path, nonNull[0])
		if err != nil {
			return TypeRef{}, err
		}
		ref.Nullable = true
		return ref, nil
	}

	// Heterogeneous unions must be resolved by the override table; guessing
	// here would silently change signatures between driver releases.
	return TypeRef{}, errors.New(errors.ErrCodeUnsupportedType,
		"%s: unsupported union %s (add an override to the generator config)", path, t)
}

// registerEnum deduplicates enums by name across the whole run. A name
// reappearing with different values means the schema changed shape in a
// way the mapping table does not expect.
func (g *Generator) registerEnum(def *InterfaceDef, enum *Enum) (*Enum, error) {
	if existing, ok := g.enums[enum.Name]; ok {
		if !existing.equal(enum) {
			return nil, errors.New(errors.ErrCodeTypeConflict,
				"enum %s at %s conflicts with definition at %s", enum.Name, enum.Path, existing.Path)
		}
		return existing, nil
	}
	g.enums[enum.Name] = enum
	def.Enums = append(def.Enums, enum)
	return enum, nil
}

// registerClass deduplicates generated structs by name across the run.
func (g *Generator) registerClass(def *InterfaceDef, class *NestedClass) (*NestedClass, error) {
	if existing, ok := g.classes[class.Name]; ok {
		if !existing.equal(class) {
			return nil, errors.New(errors.ErrCodeTypeConflict,
				"struct %s at %s conflicts with definition at %s", class.Name, class.Path, existing.Path)
		}
		return existing, nil
	}
	g.classes[class.Name] = class
	def.Classes = append(def.Classes, class)
	return class, nil
}

// pathToName converts a schema path to an exported Go type name:
// "Page.click.options" -> "PageClickOptions".
func pathToName(path string) string {
	parts := strings.Split(path, ".")
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(exportName(p))
	}
	return b.String()
}

// pointerScalar reports whether an override type should become a pointer
// in optional positions.
func pointerScalar(goType string) bool {
	switch goType {
	case "string", "bool", "int", "int64", "float64":
		return true
	}
	return false
}
