package api

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

func loadTestSchema(t *testing.T) *Schema {
	t.Helper()
	f, err := os.Open("testdata/api.json")
	if err != nil {
		t.Fatalf("open testdata: %v", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return s
}

func TestLoad(t *testing.T) {
	s := loadTestSchema(t)

	if got := len(s.Interfaces); got != 3 {
		t.Fatalf("len(Interfaces) = %d, want 3", got)
	}

	want := []string{"Browser", "Locator", "Page"}
	if got := s.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	page, ok := s.Interface("Page")
	if !ok {
		t.Fatal("Interface(Page) not found")
	}
	if len(page.Members) != 7 {
		t.Errorf("Page has %d members, want 7", len(page.Members))
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed json", `[{`},
		{"empty array", `[]`},
		{"empty interface name", `[{"name": "", "members": []}]`},
		{"duplicate interface", `[{"name": "Page", "members": []}, {"name": "Page", "members": []}]`},
		{"member without type", `[{"name": "Page", "members": [{"kind": "method", "name": "click"}]}]`},
		{"member without name", `[{"name": "Page", "members": [{"kind": "method", "type": {"name": "void"}}]}]`},
		{"unknown member kind", `[{"name": "Page", "members": [{"kind": "signal", "name": "x", "type": {"name": "void"}}]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if tt.name != "malformed json" && !errors.Is(err, errors.ErrCodeInvalidSchema) {
				t.Errorf("error code = %v, want INVALID_SCHEMA", errors.GetCode(err))
			}
		})
	}
}

func TestType_IsClosedStringSet(t *testing.T) {
	tests := []struct {
		name string
		typ  *Type
		want bool
	}{
		{
			"string literals",
			&Type{Union: []*Type{{Name: `"left"`}, {Name: `"right"`}}},
			true,
		},
		{
			"literals plus null",
			&Type{Union: []*Type{{Name: `"png"`}, {Name: "null"}}},
			true,
		},
		{
			"heterogeneous union",
			&Type{Union: []*Type{{Name: "string"}, {Name: "null"}}},
			false,
		},
		{
			"not a union",
			&Type{Name: "string"},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.IsClosedStringSet(); got != tt.want {
				t.Errorf("IsClosedStringSet() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestType_String(t *testing.T) {
	tests := []struct {
		typ  *Type
		want string
	}{
		{&Type{Name: "string"}, "string"},
		{&Type{Name: "Array", Templates: []*Type{{Name: "string"}}}, "Array<string>"},
		{&Type{Union: []*Type{{Name: "Object"}, {Name: "function"}, {Name: "string"}}}, "Object|function|string"},
		{nil, "<nil>"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSchema_References(t *testing.T) {
	s := loadTestSchema(t)

	browser, _ := s.Interface("Browser")
	refs := s.References(browser)
	if !reflect.DeepEqual(refs, []string{"Page"}) {
		t.Errorf("References(Browser) = %v, want [Page]", refs)
	}

	page, _ := s.Interface("Page")
	refs = s.References(page)
	if !reflect.DeepEqual(refs, []string{"Locator"}) {
		t.Errorf("References(Page) = %v, want [Locator]", refs)
	}

	locator, _ := s.Interface("Locator")
	if refs := s.References(locator); len(refs) != 0 {
		t.Errorf("References(Locator) = %v, want empty", refs)
	}
}

func TestSchema_Marshal_Deterministic(t *testing.T) {
	s := loadTestSchema(t)

	a, err := s.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	b, err := s.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(a) != string(b) {
		t.Error("Marshal() is not deterministic")
	}
}
