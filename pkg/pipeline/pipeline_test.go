package pipeline

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/archscape/pkg/cache"
	"github.com/matzehuels/archscape/pkg/errors"
	"github.com/matzehuels/archscape/pkg/model"
	"github.com/matzehuels/archscape/pkg/publish"
	"github.com/matzehuels/archscape/pkg/render"
	"github.com/matzehuels/archscape/pkg/view"
	"github.com/matzehuels/archscape/pkg/workspace"
)

type judge struct {
	system model.SystemRef
}

func (j *judge) Name() string { return "judge" }

func (j *judge) Populate(m *model.Model) error {
	user, err := m.AddPerson("Contestant", "", model.LocationExternal)
	if err != nil {
		return err
	}
	if j.system, err = m.AddSoftwareSystem("Judge", ""); err != nil {
		return err
	}
	api, err := m.AddContainer(j.system, "API", "", "Go")
	if err != nil {
		return err
	}
	_, err = m.Connect(user, api, "submits", "HTTPS")
	return err
}

func (j *judge) CreateViews(set *view.Set) error {
	b, err := set.SystemLandscape("landscape", "")
	if err != nil {
		return err
	}
	if err := b.IncludeAll(); err != nil {
		return err
	}
	if _, err := b.Build(); err != nil {
		return err
	}
	c, err := set.Container(j.system, "containers", "")
	if err != nil {
		return err
	}
	if err := c.IncludeAll(); err != nil {
		return err
	}
	_, err = c.Build()
	return err
}

func testWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.Build(context.Background(), workspace.Options{Name: "Judge"}, &judge{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return ws
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.ErrorLevel})
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		formats []render.Format
		want    []render.Format
		wantErr bool
	}{
		{"defaults", nil, DefaultFormats, false},
		{"several", []render.Format{render.FormatSVG, render.FormatDOT}, []render.Format{render.FormatSVG, render.FormatDOT}, false},
		{"unknown", []render.Format{"gif"}, nil, true},
		{"duplicate", []render.Format{render.FormatDOT, render.FormatDOT}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Formats: tt.formats}
			err := opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if diff := cmp.Diff(tt.want, opts.Formats); diff != "" {
					t.Errorf("Formats mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestArtifactName(t *testing.T) {
	if got := ArtifactName("ccp", render.FormatSVG); got != "ccp.svg" {
		t.Errorf("ArtifactName = %q, want ccp.svg", got)
	}
}

func TestRenderCachesByDOT(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, quietLogger())
	defer r.Close()
	ws := testWorkspace(t)
	opts := Options{Formats: []render.Format{render.FormatDOT}}

	first, info, err := r.RenderWithCacheInfo(context.Background(), ws, opts)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	if info.Hits != 0 || info.Misses != 2 {
		t.Errorf("first render cache = %+v, want 0 hits, 2 misses", info)
	}
	names := slices.Sorted(maps.Keys(first))
	if diff := cmp.Diff([]string{"containers.dot", "landscape.dot"}, names); diff != "" {
		t.Errorf("artifacts mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(string(first["landscape.dot"]), "digraph") {
		t.Errorf("landscape.dot = %q", first["landscape.dot"])
	}

	second, info, err := r.RenderWithCacheInfo(context.Background(), ws, opts)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !info.RenderHit() || info.Hits != 2 {
		t.Errorf("second render cache = %+v, want all hits", info)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached artifacts differ (-first +second):\n%s", diff)
	}

	opts.Refresh = true
	if _, info, err = r.RenderWithCacheInfo(context.Background(), ws, opts); err != nil {
		t.Fatal(err)
	}
	if info.Hits != 0 {
		t.Errorf("refresh render hits = %d, want 0", info.Hits)
	}
}

func TestRenderSVG(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	artifacts, err := r.Render(context.Background(), testWorkspace(t), Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	svg := string(artifacts["landscape.svg"])
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "Contestant") {
		t.Errorf("landscape.svg does not look like the rendered view:\n%.200s", svg)
	}
}

type countingPublisher struct {
	calls    int
	lastJSON []byte
}

func (p *countingPublisher) Name() string { return "counting" }

func (p *countingPublisher) Publish(_ context.Context, payload publish.Payload) error {
	p.calls++
	p.lastJSON = payload.JSON
	return nil
}

func TestExecute(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, quietLogger())
	ws := testWorkspace(t)
	out := filepath.Join(t.TempDir(), "out")
	pub := &countingPublisher{}
	opts := Options{
		Formats:    []render.Format{render.FormatDOT},
		HCL:        true,
		OutputDir:  out,
		Publishers: []publish.Publisher{pub},
	}

	result, err := r.Execute(context.Background(), ws, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Document.Name != "Judge" || len(result.JSON) == 0 || len(result.HCL) == 0 {
		t.Errorf("result document = %q, json %d bytes, hcl %d bytes", result.Document.Name, len(result.JSON), len(result.HCL))
	}
	if result.DocumentHash != cache.Hash(result.JSON) {
		t.Error("DocumentHash does not match JSON")
	}
	for _, name := range []string{"workspace.json", "workspace.hcl", "landscape.dot", "containers.dot"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("output %s: %v", name, err)
		}
	}
	if pub.calls != 1 || string(pub.lastJSON) != string(result.JSON) {
		t.Errorf("publisher calls = %d", pub.calls)
	}

	// Unchanged document: publisher is skipped.
	result, err = r.Execute(context.Background(), ws, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if pub.calls != 1 {
		t.Errorf("publisher calls = %d after unchanged run, want 1", pub.calls)
	}
	if diff := cmp.Diff([]string{"counting"}, result.CacheInfo.Skipped); diff != "" {
		t.Errorf("Skipped mismatch (-want +got):\n%s", diff)
	}

	opts.Force = true
	if _, err := r.Execute(context.Background(), ws, opts); err != nil {
		t.Fatalf("forced Execute: %v", err)
	}
	if pub.calls != 2 {
		t.Errorf("publisher calls = %d after forced run, want 2", pub.calls)
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	if _, err := r.Execute(context.Background(), testWorkspace(t), Options{Formats: []render.Format{"bmp"}}); err == nil {
		t.Error("Execute with an unknown format should fail")
	}
}

func TestRenderView(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ws := testWorkspace(t)

	data, err := r.RenderView(context.Background(), ws, "containers", render.FormatDOT, Options{})
	if err != nil {
		t.Fatalf("RenderView: %v", err)
	}
	if !strings.Contains(string(data), "cluster_") {
		t.Errorf("container view DOT lacks the scope cluster:\n%s", data)
	}

	_, err = r.RenderView(context.Background(), ws, "missing", render.FormatDOT, Options{})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("RenderView(missing) = %v, want NOT_FOUND", err)
	}
}
