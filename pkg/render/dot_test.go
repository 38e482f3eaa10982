package render

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/archscape/pkg/errors"
	"github.com/matzehuels/archscape/pkg/model"
	"github.com/matzehuels/archscape/pkg/style"
	"github.com/matzehuels/archscape/pkg/view"
)

type fixture struct {
	m      *model.Model
	styles *style.Index
	set    *view.Set

	platform     model.SystemRef
	api, db      model.ContainerRef
	mail         model.SystemRef
	cloud, k8s   model.DeploymentNodeRef
	backup       model.DeploymentNodeRef
	apiIn, dbIn  model.InstanceRef
	reads, sends model.RelationshipRef
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{m: model.New(), styles: style.NewIndex()}
	m := f.m
	var err error
	must := func(e error) {
		t.Helper()
		if e != nil {
			t.Fatal(e)
		}
	}

	user, err := m.AddPerson("User", "", model.LocationExternal)
	must(err)
	f.platform, err = m.AddSoftwareSystem("Platform", "")
	must(err)
	f.mail, err = m.AddSoftwareSystem("Mail", "", model.WithLocation(model.LocationExternal))
	must(err)
	f.api, err = m.AddContainer(f.platform, "API", "serves the contest data to every client", "Spring Boot",
		model.WithURL("https://api.example.com"))
	must(err)
	f.db, err = m.AddContainer(f.platform, "DB", "", "MariaDB", model.WithTags("Database"))
	must(err)
	_, err = m.Connect(user, f.api, "uses", "HTTPS")
	must(err)
	f.reads, err = m.Connect(f.api, f.db, "reads", "JDBC")
	must(err)
	must(m.Tag(f.reads, "Async"))
	f.sends, err = m.Connect(f.api, f.mail, "sends mail", "SMTP")
	must(err)
	_, err = m.Connect(f.mail, f.platform, "bounces", "")
	must(err)

	f.cloud, err = m.AddDeploymentNode(model.DeploymentNodeRef{}, "Cloud", "", "")
	must(err)
	f.k8s, err = m.AddDeploymentNode(f.cloud, "K8s", "", "Kubernetes", model.WithInstances(3))
	must(err)
	f.backup, err = m.AddDeploymentNode(f.cloud, "Backup", "", "")
	must(err)
	f.apiIn, err = m.Place(f.k8s, f.api)
	must(err)
	f.dbIn, err = m.Place(f.cloud, f.db)
	must(err)

	must(f.styles.DefineElementStyle("Database", style.Attributes{Shape: style.ShapeCylinder, Background: "#438DD5", Opacity: style.Int(50)}))
	must(f.styles.DefineRelationshipStyle("Async", style.Attributes{Dashed: style.Bool(true), Color: "#707070"}))

	f.set = view.NewSet(m)
	return f
}

func (f *fixture) containerView(t *testing.T) *view.View {
	t.Helper()
	b, err := f.set.Container(f.platform, "containers", "Platform containers")
	if err != nil {
		t.Fatal(err)
	}
	if err := b.IncludeAll(); err != nil {
		t.Fatal(err)
	}
	if err := b.AutoLayout(view.LeftRight); err != nil {
		t.Fatal(err)
	}
	v, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func (f *fixture) deploymentView(t *testing.T) *view.View {
	t.Helper()
	b, err := f.set.Deployment(f.platform, "", "deploy", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := b.IncludeAll(); err != nil {
		t.Fatal(err)
	}
	if err := b.Include(f.backup); err != nil {
		t.Fatal(err)
	}
	v, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestToDOTContainerView(t *testing.T) {
	f := newFixture(t)
	dot := ToDOT(f.m, f.containerView(t), f.styles, Options{})

	want := []string{
		`digraph "containers" {`,
		`rankdir=LR;`,
		`label="Platform containers";`,
		fmt.Sprintf(`subgraph "cluster_%s" {`, f.platform.ID()),
		`label="Platform\n[Software System]";`,
		fmt.Sprintf(`    %q [label="API\n[Container: Spring Boot]"`, f.api.ID()),
		`URL="https://api.example.com"`,
		`shape=cylinder`,
		`fillcolor="#438DD57f"`,
		fmt.Sprintf(`%q -> %q [label="reads\n[JDBC]", style="dashed", color="#707070", fontcolor="#707070"];`, f.api.ID(), f.db.ID()),
		fmt.Sprintf(`%q -> %q [label="sends mail\n[SMTP]"];`, f.api.ID(), f.mail.ID()),
	}
	for _, s := range want {
		if !strings.Contains(dot, s) {
			t.Errorf("ToDOT() missing %s\n%s", s, dot)
		}
	}
	if strings.Contains(dot, fmt.Sprintf("  %q [", f.platform.ID())) {
		t.Error("scope should be drawn as a cluster, not a node")
	}
	if strings.Contains(dot, "serves the contest") {
		t.Error("descriptions should only appear in detailed mode")
	}
}

func TestToDOTDetailed(t *testing.T) {
	f := newFixture(t)
	dot := ToDOT(f.m, f.containerView(t), f.styles, Options{Detailed: true, FontName: "Inter"})

	if !strings.Contains(dot, `API\n[Container: Spring Boot]\n\nserves the contest data to every\nclient`) {
		t.Errorf("detailed label not wrapped as expected:\n%s", dot)
	}
	if !strings.Contains(dot, `fontname="Inter"`) {
		t.Error("FontName not applied")
	}
}

func TestToDOTLandscape(t *testing.T) {
	f := newFixture(t)
	b, err := f.set.SystemLandscape("landscape", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := b.IncludeAll(); err != nil {
		t.Fatal(err)
	}
	v, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(f.m, v, f.styles, Options{})
	if !strings.Contains(dot, "rankdir=TB;") {
		t.Error("default rankdir should be TB")
	}
	if strings.Contains(dot, "subgraph") {
		t.Error("landscape views have no clusters")
	}
	// the model only connects people and systems through containers
	want := []string{
		fmt.Sprintf(`-> %q [label="uses\n[HTTPS]"];`, f.platform.ID()),
		fmt.Sprintf(`%q -> %q [label="sends mail\n[SMTP]"];`, f.platform.ID(), f.mail.ID()),
	}
	for _, s := range want {
		if !strings.Contains(dot, s) {
			t.Errorf("ToDOT() missing implied edge %s\n%s", s, dot)
		}
	}
}

func TestToDOTContainerViewSkipsScopeEdges(t *testing.T) {
	f := newFixture(t)
	dot := ToDOT(f.m, f.containerView(t), f.styles, Options{})

	if strings.Contains(dot, "bounces") {
		t.Errorf("edge to the scope cluster drawn:\n%s", dot)
	}
	if strings.Contains(dot, fmt.Sprintf("-> %q", f.platform.ID())) {
		t.Errorf("scope referenced as an edge endpoint:\n%s", dot)
	}
	if !strings.Contains(dot, fmt.Sprintf("%q -> %q", f.api.ID(), f.mail.ID())) {
		t.Error("container edges should still be drawn")
	}
}

func TestToDOTDeploymentView(t *testing.T) {
	f := newFixture(t)
	dot := ToDOT(f.m, f.deploymentView(t), f.styles, Options{})

	want := []string{
		fmt.Sprintf(`  subgraph "cluster_%s" {`, f.cloud.ID()),
		fmt.Sprintf(`    subgraph "cluster_%s" {`, f.k8s.ID()),
		`label="K8s\n[Deployment Node: Kubernetes] x3";`,
		fmt.Sprintf(`      %q [label="API\n[Container: Spring Boot]"`, f.apiIn.ID()),
		fmt.Sprintf(`    %q [label="DB\n[Container: MariaDB]"`, f.dbIn.ID()),
		fmt.Sprintf(`    %q [label="Backup\n[Deployment Node]"`, f.backup.ID()),
		"shape=box3d",
		fmt.Sprintf(`%q -> %q [`, f.apiIn.ID(), f.dbIn.ID()),
	}
	for _, s := range want {
		if !strings.Contains(dot, s) {
			t.Errorf("ToDOT() missing %s\n%s", s, dot)
		}
	}
	if strings.Contains(dot, fmt.Sprintf("%q -> %q", f.api.ID(), f.db.ID())) {
		t.Error("deployment edges should connect instances, not containers")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"", 10, ""},
		{"short", 10, "short"},
		{"one two three", 7, "one two\nthree"},
		{"  spaced   out  ", 20, "spaced out"},
		{"unbreakableword", 4, "unbreakableword"},
	}
	for _, tt := range tests {
		if got := wrap(tt.in, tt.width); got != tt.want {
			t.Errorf("wrap(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestWithOpacity(t *testing.T) {
	tests := []struct {
		color   string
		opacity *int
		want    string
	}{
		{"#ffffff", nil, "#ffffff"},
		{"#ffffff", style.Int(100), "#ffffff"},
		{"#ffffff", style.Int(50), "#ffffff7f"},
		{"#ffffff", style.Int(0), "#ffffff00"},
		{"white", style.Int(50), "white"},
	}
	for _, tt := range tests {
		if got := withOpacity(tt.color, tt.opacity); got != tt.want {
			t.Errorf("withOpacity(%q, %v) = %q, want %q", tt.color, tt.opacity, got, tt.want)
		}
	}
}

func TestNodeAttrsShapes(t *testing.T) {
	tests := []struct {
		shape style.Shape
		want  string
	}{
		{"", `shape=box, style="filled,rounded"`},
		{style.ShapeBox, `shape=box, style="filled"`},
		{style.ShapePerson, `shape=egg, style="filled"`},
		{style.ShapeFolder, `shape=folder, style="filled"`},
		{style.ShapeComponent, `shape=component, style="filled"`},
	}
	for _, tt := range tests {
		got := strings.Join(nodeAttrs("x", style.Attributes{Shape: tt.shape}, ""), ", ")
		if !strings.Contains(got, tt.want) {
			t.Errorf("nodeAttrs(%q) = %s, want %s", tt.shape, got, tt.want)
		}
	}

	dashed := strings.Join(nodeAttrs("x", style.Attributes{Border: style.BorderDashed, FontSize: 20, Width: 144}, ""), ", ")
	for _, s := range []string{`style="filled,rounded,dashed"`, "fontsize=20", "width=2.00"} {
		if !strings.Contains(dashed, s) {
			t.Errorf("nodeAttrs() = %s, missing %s", dashed, s)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{" PNG ", FormatPNG, false},
		{"Pdf", FormatPDF, false},
		{"dot", FormatDOT, false},
		{"jpeg", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderDOT(t *testing.T) {
	ctx := context.Background()
	dot := `digraph G { a -> b; }`

	src, err := RenderDOT(ctx, dot, FormatDOT)
	if err != nil || string(src) != dot {
		t.Errorf("RenderDOT(dot) = %q, %v", src, err)
	}

	svg, err := RenderDOT(ctx, dot, FormatSVG)
	if err != nil {
		t.Fatalf("RenderDOT(svg) error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderDOT(svg) output missing <svg> tag")
	}

	if _, err := RenderDOT(ctx, dot, Format("gif")); err == nil {
		t.Error("RenderDOT should reject unknown formats")
	}
}

func TestRenderDOTInvalid(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}

func TestRenderView(t *testing.T) {
	f := newFixture(t)
	svg, err := RenderView(context.Background(), f.m, f.containerView(t), f.styles, FormatSVG, Options{})
	if err != nil {
		t.Fatalf("RenderView: %v", err)
	}
	if !strings.Contains(string(svg), "Spring Boot") {
		t.Error("rendered SVG lacks the container label")
	}
}

func TestToPDFWithoutLibrsvg(t *testing.T) {
	old := rsvgConvert
	rsvgConvert = "archscape-no-such-rsvg-convert"
	t.Cleanup(func() { rsvgConvert = old })

	_, err := ToPDF(context.Background(), []byte("<svg/>"))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("error = %v, want UNSUPPORTED", err)
	}
}
