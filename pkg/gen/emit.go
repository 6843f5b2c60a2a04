package gen

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"go/format"
	"sort"
	"strings"

	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

const generatedHeader = "// Code generated by playwright-go. DO NOT EDIT.\n\n"

// Emit serializes the built interface definitions to gofmt-formatted
// source, one file per interface, keyed by file name.
func Emit(defs []*InterfaceDef, cfg Config) (map[string][]byte, error) {
	files := make(map[string][]byte, len(defs))
	for _, def := range defs {
		src, err := emitInterface(def, cfg.Package)
		if err != nil {
			return nil, err
		}
		files[strings.ToLower(def.Name)+".go"] = src
	}
	return files, nil
}

func emitInterface(def *InterfaceDef, pkg string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(generatedHeader)
	fmt.Fprintf(&buf, "package %s\n\n", pkg)

	if imports := collectImports(def); len(imports) > 0 {
		buf.WriteString("import (\n")
		for _, imp := range imports {
			fmt.Fprintf(&buf, "\t%q\n", imp)
		}
		buf.WriteString(")\n\n")
	}

	emitDoc(&buf, def.Name, def.Spec, false)
	fmt.Fprintf(&buf, "type %s interface {\n", def.Name)
	for i, m := range def.Methods {
		if i > 0 {
			buf.WriteByte('\n')
		}
		emitMethod(&buf, def, m)
	}
	buf.WriteString("}\n")

	for _, enum := range def.Enums {
		buf.WriteByte('\n')
		emitEnum(&buf, enum)
	}
	for _, class := range def.Classes {
		buf.WriteByte('\n')
		emitClass(&buf, class)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "format generated source for %s", def.Name)
	}
	return src, nil
}

func emitMethod(buf *bytes.Buffer, def *InterfaceDef, m *Method) {
	indentDoc(buf, m.Name, m.Spec, m.Deprecated)
	if m.Kind == "event" {
		payload := m.Returns.GoType
		if payload == "" {
			fmt.Fprintf(buf, "\t%s(handler func())\n", m.Name)
		} else {
			fmt.Fprintf(buf, "\t%s(handler func(%s))\n", m.Name, payload)
		}
		return
	}
	fmt.Fprintf(buf, "\t%s%s\n", m.Name, m.signature())
}

func emitEnum(buf *bytes.Buffer, e *Enum) {
	fmt.Fprintf(buf, "// %s is the set of accepted values for %s.\n", e.Name, e.Path)
	fmt.Fprintf(buf, "type %s string\n\n", e.Name)
	buf.WriteString("const (\n")
	for _, v := range e.Values {
		fmt.Fprintf(buf, "\t%s %s = %q\n", e.constName(v), e.Name, v)
	}
	buf.WriteString(")\n\n")
	fmt.Fprintf(buf, "// IsValid reports whether the value is one of the declared constants.\n")
	fmt.Fprintf(buf, "func (v %s) IsValid() bool {\n\tswitch v {\n\tcase ", e.Name)
	for i, val := range e.Values {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(e.constName(val))
	}
	buf.WriteString(":\n\t\treturn true\n\t}\n\treturn false\n}\n")
}

func emitClass(buf *bytes.Buffer, c *NestedClass) {
	fmt.Fprintf(buf, "// %s holds the values for %s.\n", c.Name, c.Path)
	fmt.Fprintf(buf, "type %s struct {\n", c.Name)
	for _, f := range c.Fields {
		if f.Spec != "" {
			indentDoc(buf, f.Name, f.Spec, false)
		}
		goType := f.Type.GoType
		tag := f.JSONName
		if f.Optional {
			goType = f.Type.optional()
			tag += ",omitempty"
		}
		fmt.Fprintf(buf, "\t%s %s `json:%q`\n", f.Name, goType, tag)
	}
	buf.WriteString("}\n")
}

// emitDoc writes a top-level doc comment. Multi-line specs keep their line
// breaks; the first line is prefixed with the identifier when the spec does
// not already start with it.
func emitDoc(buf *bytes.Buffer, name, spec string, deprecated bool) {
	writeDoc(buf, "", name, spec, deprecated)
}

func indentDoc(buf *bytes.Buffer, name, spec string, deprecated bool) {
	writeDoc(buf, "\t", name, spec, deprecated)
}

func writeDoc(buf *bytes.Buffer, indent, name, spec string, deprecated bool) {
	if spec != "" {
		lines := strings.Split(strings.TrimSpace(spec), "\n")
		if !strings.HasPrefix(lines[0], name) {
			lines[0] = name + " " + lowerFirst(lines[0])
		}
		for _, line := range lines {
			fmt.Fprintf(buf, "%s// %s\n", indent, strings.TrimRight(line, " "))
		}
	}
	if deprecated {
		if spec != "" {
			fmt.Fprintf(buf, "%s//\n", indent)
		}
		fmt.Fprintf(buf, "%s// Deprecated: this member is deprecated upstream.\n", indent)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// collectImports scans every emitted type for packages the file must
// import. Generated files only ever reach for regexp and time.
func collectImports(def *InterfaceDef) []string {
	set := make(map[string]bool)
	note := func(r TypeRef) {
		if strings.Contains(r.GoType, "regexp.") {
			set["regexp"] = true
		}
		if strings.Contains(r.GoType, "time.") {
			set["time"] = true
		}
	}
	for _, m := range def.Methods {
		note(m.Returns)
		for _, p := range m.Params {
			note(p.Type)
		}
	}
	for _, c := range def.Classes {
		for _, f := range c.Fields {
			note(f.Type)
		}
	}
	imports := make([]string, 0, len(set))
	for imp := range set {
		imports = append(imports, imp)
	}
	sort.Strings(imports)
	return imports
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
