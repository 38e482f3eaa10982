package style

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/archscape/pkg/errors"
)

func TestResolveLastTagWins(t *testing.T) {
	x := Attributes{Color: "#111111", Shape: ShapeBox}
	y := Attributes{Color: "#222222"}

	orders := map[string][]string{
		"x then y": {"X", "Y"},
		"y then x": {"Y", "X"},
	}
	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			idx := NewIndex()
			for _, tag := range order {
				rule := x
				if tag == "Y" {
					rule = y
				}
				if err := idx.DefineElementStyle(tag, rule); err != nil {
					t.Fatalf("DefineElementStyle(%s): %v", tag, err)
				}
			}

			got := idx.ResolveElement([]string{"X", "Y"})
			if got.Color != "#222222" {
				t.Errorf("Color = %q, want %q", got.Color, "#222222")
			}
			if got.Shape != ShapeBox {
				t.Errorf("Shape = %q, want %q (kept from X)", got.Shape, ShapeBox)
			}

			got = idx.ResolveElement([]string{"Y", "X"})
			if got.Color != "#111111" {
				t.Errorf("reversed Color = %q, want %q", got.Color, "#111111")
			}
		})
	}
}

func TestDefineReplacesWholeRule(t *testing.T) {
	idx := NewIndex()
	idx.DefineElementStyle("Database", Attributes{Shape: ShapeCylinder, Background: "#ffffff"})
	idx.DefineElementStyle("Database", Attributes{Color: "#000000"})

	got := idx.ResolveElement([]string{"Database"})
	want := Attributes{Color: "#000000"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveElement() mismatch (-want +got):\n%s", diff)
	}
	if n := len(idx.ElementStyles()); n != 1 {
		t.Errorf("ElementStyles() = %d rules, want 1", n)
	}
}

func TestResolveWithoutRules(t *testing.T) {
	idx := NewIndex()
	if got := idx.ResolveElement([]string{"Element", "Unknown"}); !got.IsZero() {
		t.Errorf("ResolveElement() = %+v, want zero", got)
	}
	if got := idx.ResolveRelationship(nil); !got.IsZero() {
		t.Errorf("ResolveRelationship(nil) = %+v, want zero", got)
	}
}

func TestElementAndRelationshipRulesAreSeparate(t *testing.T) {
	idx := NewIndex()
	idx.DefineElementStyle("Async", Attributes{Shape: ShapePipe})
	idx.DefineRelationshipStyle("Async", Attributes{Dashed: Bool(true), Thickness: 3})

	if got := idx.ResolveElement([]string{"Async"}); got.IsDashed() {
		t.Error("element resolution picked up relationship rule")
	}
	rel := idx.ResolveRelationship([]string{"Relationship", "Async"})
	if !rel.IsDashed() || rel.Thickness != 3 || rel.Shape != "" {
		t.Errorf("ResolveRelationship() = %+v, want dashed thickness 3 without shape", rel)
	}
}

func TestDashedOverlayCanDisable(t *testing.T) {
	idx := NewIndex()
	idx.DefineRelationshipStyle("Relationship", Attributes{Dashed: Bool(true)})
	idx.DefineRelationshipStyle("Sync", Attributes{Dashed: Bool(false)})

	if idx.ResolveRelationship([]string{"Relationship", "Sync"}).IsDashed() {
		t.Error("explicit Dashed=false on a later tag should win")
	}
}

func TestOpacityOverlayCanClear(t *testing.T) {
	idx := NewIndex()
	idx.DefineElementStyle("Element", Attributes{Background: "#ffffff", Opacity: Int(80)})
	idx.DefineElementStyle("Hidden", Attributes{Opacity: Int(0)})

	got := idx.ResolveElement([]string{"Element", "Hidden"})
	if got.Opacity == nil || *got.Opacity != 0 {
		t.Errorf("Opacity = %v, want 0 from the later tag", got.Opacity)
	}
	if got := idx.ResolveElement([]string{"Element"}); got.Opacity == nil || *got.Opacity != 80 {
		t.Errorf("Opacity = %v, want 80", got.Opacity)
	}
}

func TestDefineRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		attr Attributes
		code errors.Code
	}{
		{"blank tag", " ", Attributes{}, errors.ErrCodeInvalidInput},
		{"comma tag", "a,b", Attributes{}, errors.ErrCodeInvalidInput},
		{"bad shape", "Database", Attributes{Shape: "Blob"}, errors.ErrCodeInvalidFormat},
		{"bad border", "Database", Attributes{Border: "Wavy"}, errors.ErrCodeInvalidFormat},
		{"bad opacity", "Database", Attributes{Opacity: Int(101)}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewIndex().DefineElementStyle(tt.tag, tt.attr)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestUnresolved(t *testing.T) {
	idx := NewIndex()
	idx.DefineElementStyle("Database", Attributes{Shape: ShapeCylinder})
	idx.DefineRelationshipStyle("Async", Attributes{Dashed: Bool(true)})

	got := idx.Unresolved([]string{"Element", "Database", "Async", "Spring"})
	if diff := cmp.Diff([]string{"Element", "Spring"}, got); diff != "" {
		t.Errorf("Unresolved() mismatch (-want +got):\n%s", diff)
	}
}

func TestThemeLayer(t *testing.T) {
	idx := NewIndex()
	idx.DefineElementStyle("AKS", Attributes{Background: "#326ce5"})

	azure := Theme{
		Name: "Azure",
		URL:  "https://themes.example.com/azure.json",
		Elements: map[string]Attributes{
			"AKS":   {Icon: "https://themes.example.com/aks.png", Background: "#0078d4"},
			"Redis": {Icon: "https://themes.example.com/redis.png"},
		},
	}
	if err := idx.ApplyTheme(azure); err != nil {
		t.Fatalf("ApplyTheme: %v", err)
	}

	got := idx.ResolveElement([]string{"AKS"})
	want := Attributes{Icon: "https://themes.example.com/aks.png", Background: "#326ce5"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("explicit rule should override theme (-want +got):\n%s", diff)
	}

	// Later tags beat earlier tags even when the later tag only has a theme rule.
	got = idx.ResolveElement([]string{"AKS", "Redis"})
	if got.Icon != "https://themes.example.com/redis.png" {
		t.Errorf("Icon = %q, want redis icon", got.Icon)
	}

	if err := idx.ApplyTheme(azure); err != nil {
		t.Fatalf("ApplyTheme (again): %v", err)
	}
	if diff := cmp.Diff([]string{azure.URL}, idx.Themes()); diff != "" {
		t.Errorf("Themes() mismatch (-want +got):\n%s", diff)
	}
	if n := len(idx.ElementStyles()); n != 1 {
		t.Errorf("ElementStyles() = %d, want only explicit rules", n)
	}
}

func TestLaterThemeWins(t *testing.T) {
	idx := NewIndex()
	idx.ApplyTheme(Theme{URL: "a", Elements: map[string]Attributes{"X": {Icon: "a.png", Color: "#aaaaaa"}}})
	idx.ApplyTheme(Theme{URL: "b", Elements: map[string]Attributes{"X": {Icon: "b.png"}}})

	got := idx.ResolveElement([]string{"X"})
	want := Attributes{Icon: "b.png", Color: "#aaaaaa"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveElement() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, idx.Themes()); diff != "" {
		t.Errorf("Themes() mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyThemeRequiresURL(t *testing.T) {
	err := NewIndex().ApplyTheme(Theme{Name: "anonymous"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestReadTheme(t *testing.T) {
	src := `
name = "DevIcons"
url = "https://themes.example.com/devicons.json"

[elements.Spring]
icon = "https://cdn.example.com/spring.svg"
background = "#6DB33F"

[relationships.JDBC]
dashed = true
`
	th, err := ReadTheme(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadTheme: %v", err)
	}
	if th.Name != "DevIcons" {
		t.Errorf("Name = %q, want DevIcons", th.Name)
	}
	if got := th.Elements["Spring"].Background; got != "#6DB33F" {
		t.Errorf("Spring background = %q, want #6DB33F", got)
	}
	if !th.Relationships["JDBC"].IsDashed() {
		t.Error("JDBC relationship should be dashed")
	}
}

func TestReadThemeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `name = `},
		{"missing url", `name = "x"`},
		{"unknown key", "url = \"u\"\n[elements.X]\ncolour = \"#fff\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTheme(strings.NewReader(tt.src))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}
