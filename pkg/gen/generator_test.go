package gen

import (
	"os"
	"testing"

	"github.com/microsoft/playwright-go-sub009/pkg/api"
	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

func loadTestSchema(t *testing.T) *api.Schema {
	t.Helper()
	data, err := os.ReadFile("../api/testdata/api.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	schema, err := api.Parse(data)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return schema
}

func findDef(t *testing.T, defs []*InterfaceDef, name string) *InterfaceDef {
	t.Helper()
	for _, d := range defs {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("interface %s not built", name)
	return nil
}

func findMethod(t *testing.T, def *InterfaceDef, name string) *Method {
	t.Helper()
	for _, m := range def.Methods {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("%s: method %s not built", def.Name, name)
	return nil
}

func TestBuild(t *testing.T) {
	schema := loadTestSchema(t)
	defs, err := New(schema, DefaultConfig()).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(defs) != 3 {
		t.Fatalf("Build() returned %d interfaces, want 3", len(defs))
	}

	page := findDef(t, defs, "Page")

	click := findMethod(t, page, "Click")
	if got, want := click.signature(), "(selector string, options ...PageClickOptions) error"; got != want {
		t.Errorf("Click signature = %q, want %q", got, want)
	}
	if click.Options == nil {
		t.Fatal("Click has no options struct")
	}
	if got := len(click.Options.Fields); got != 3 {
		t.Errorf("PageClickOptions has %d fields, want 3", got)
	}
	button := click.Options.Fields[0]
	if button.Name != "Button" || button.Type.GoType != "MouseButton" {
		t.Errorf("first option field = %s %s, want Button MouseButton", button.Name, button.Type.GoType)
	}
	if got, want := button.Type.optional(), "*MouseButton"; got != want {
		t.Errorf("optional button type = %q, want %q", got, want)
	}

	sigs := map[string]string{
		"Title":      "() (string, error)",
		"Url":        "() (string, error)",
		"Locator":    "(selector string) (Locator, error)",
		"Screenshot": "(options ...PageScreenshotOptions) ([]byte, error)",
	}
	for name, want := range sigs {
		if got := findMethod(t, page, name).signature(); got != want {
			t.Errorf("%s signature = %q, want %q", name, got, want)
		}
	}

	onClose := findMethod(t, page, "OnClose")
	if onClose.Kind != api.KindEvent || onClose.Returns.GoType != "Page" {
		t.Errorf("OnClose = kind %q payload %q, want event Page", onClose.Kind, onClose.Returns.GoType)
	}

	viewport := findMethod(t, page, "ViewportSize")
	if viewport.Returns.Class == nil || viewport.Returns.GoType != "PageViewportSize" {
		t.Errorf("ViewportSize returns %q, want synthesized PageViewportSize", viewport.Returns.GoType)
	}

	locator := findDef(t, defs, "Locator")
	if got, want := findMethod(t, locator, "TextContent").signature(), "() (*string, error)"; got != want {
		t.Errorf("TextContent signature = %q, want %q", got, want)
	}
	if got, want := findMethod(t, locator, "AllTextContents").signature(), "() ([]string, error)"; got != want {
		t.Errorf("AllTextContents signature = %q, want %q", got, want)
	}

	browser := findDef(t, defs, "Browser")
	if got, want := findMethod(t, browser, "Close").signature(), "() error"; got != want {
		t.Errorf("Close signature = %q, want %q", got, want)
	}
	if got, want := findMethod(t, browser, "NewPage").signature(), "() (Page, error)"; got != want {
		t.Errorf("NewPage signature = %q, want %q", got, want)
	}
}

func TestBuild_Enums(t *testing.T) {
	schema := loadTestSchema(t)
	defs, err := New(schema, DefaultConfig()).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	page := findDef(t, defs, "Page")
	if len(page.Enums) != 2 {
		t.Fatalf("Page produced %d enums, want 2", len(page.Enums))
	}
	mouse := page.Enums[0]
	if mouse.Name != "MouseButton" {
		t.Fatalf("first enum = %q, want MouseButton", mouse.Name)
	}
	want := []string{"left", "middle", "right"}
	if len(mouse.Values) != len(want) {
		t.Fatalf("MouseButton has %d values, want %d", len(mouse.Values), len(want))
	}
	for i, v := range want {
		if mouse.Values[i] != v {
			t.Errorf("MouseButton value %d = %q, want %q", i, mouse.Values[i], v)
		}
	}
	if got := mouse.constName("left"); got != "MouseButtonLeft" {
		t.Errorf("constName(left) = %q, want MouseButtonLeft", got)
	}
}

func TestBuild_Skip(t *testing.T) {
	schema := loadTestSchema(t)
	cfg := DefaultConfig()
	cfg.Skip = []string{"Locator"}
	defs, err := New(schema, cfg).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("Build() returned %d interfaces, want 2", len(defs))
	}
	// Page still references Locator; skipping generation must not break
	// signatures that mention it.
	page := findDef(t, defs, "Page")
	if got := findMethod(t, page, "Locator").Returns.GoType; got != "Locator" {
		t.Errorf("Locator returns %q after skip, want Locator", got)
	}
}

func TestBuild_UnsupportedUnion(t *testing.T) {
	data := []byte(`[{"name": "Frame", "members": [
		{"kind": "method", "name": "evaluate", "required": true,
		 "type": {"name": "any"},
		 "args": [{"kind": "property", "name": "expr", "required": true,
		           "type": {"union": [{"name": "Object"}, {"name": "function"}, {"name": "string"}]}}]}
	]}]`)
	schema, err := api.Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = New(schema, DefaultConfig()).Build()
	if errors.GetCode(err) != errors.ErrCodeUnsupportedType {
		t.Fatalf("Build() error = %v, want ErrCodeUnsupportedType", err)
	}

	cfg := DefaultConfig()
	cfg.Overrides = map[string]string{"Frame.evaluate.expr": "string"}
	defs, err := New(schema, cfg).Build()
	if err != nil {
		t.Fatalf("Build() with override error: %v", err)
	}
	m := findMethod(t, findDef(t, defs, "Frame"), "Evaluate")
	if got, want := m.signature(), "(expr string) (any, error)"; got != want {
		t.Errorf("Evaluate signature = %q, want %q", got, want)
	}
}

func TestBuild_EnumConflict(t *testing.T) {
	data := []byte(`[
		{"name": "A", "members": [{"kind": "method", "name": "m", "required": true,
			"type": {"name": "Mode", "union": [{"name": "\"on\""}, {"name": "\"off\""}]}, "args": []}]},
		{"name": "B", "members": [{"kind": "method", "name": "m", "required": true,
			"type": {"name": "Mode", "union": [{"name": "\"yes\""}, {"name": "\"no\""}]}, "args": []}]}
	]`)
	schema, err := api.Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = New(schema, DefaultConfig()).Build()
	if errors.GetCode(err) != errors.ErrCodeTypeConflict {
		t.Fatalf("Build() error = %v, want ErrCodeTypeConflict", err)
	}
}

func TestBuild_SharedEnum(t *testing.T) {
	data := []byte(`[
		{"name": "A", "members": [{"kind": "method", "name": "m", "required": true,
			"type": {"name": "Mode", "union": [{"name": "\"on\""}, {"name": "\"off\""}]}, "args": []}]},
		{"name": "B", "members": [{"kind": "method", "name": "m", "required": true,
			"type": {"name": "Mode", "union": [{"name": "\"on\""}, {"name": "\"off\""}]}, "args": []}]}
	]`)
	schema, err := api.Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	defs, err := New(schema, DefaultConfig()).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	// Identical value sets share one definition, emitted with the first user.
	if len(findDef(t, defs, "A").Enums) != 1 {
		t.Error("enum Mode not attached to first interface")
	}
	if len(findDef(t, defs, "B").Enums) != 0 {
		t.Error("enum Mode duplicated on second interface")
	}
}

func TestExportName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"clickCount", "ClickCount"},
		{"left", "Left"},
		{"no-wait", "NoWait"},
		{"viewport_size", "ViewportSize"},
		{"url", "Url"},
	}
	for _, tt := range tests {
		if got := exportName(tt.in); got != tt.want {
			t.Errorf("exportName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParamName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"selector", "selector"},
		{"Selector", "selector"},
		{"type", "typeArg"},
		{"func", "funcArg"},
		{"", "arg"},
	}
	for _, tt := range tests {
		if got := paramName(tt.in); got != tt.want {
			t.Errorf("paramName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
