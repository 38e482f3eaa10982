// Package pipeline turns a built workspace into deliverables.
//
// The pipeline has three stages:
//
//  1. Render: every view in every requested format, concurrently
//  2. Export: the workspace document as JSON and optionally HCL
//  3. Publish: the output directory, then each configured publisher
//
// Rendered artifacts are cached by the hash of their DOT source, so an
// unchanged view is never rendered twice. Publishers remember the document
// hash they last delivered and are skipped while it is unchanged.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, ws, pipeline.Options{
//	    Formats:    []render.Format{render.FormatSVG},
//	    OutputDir:  "out",
//	    Publishers: []publish.Publisher{&publish.WorkspaceAPI{...}},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["ccp.svg"]
//
// Render only:
//
//	artifacts, err := runner.Render(ctx, ws, opts)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archscape/pkg/errors"
	"github.com/matzehuels/archscape/pkg/io"
	"github.com/matzehuels/archscape/pkg/publish"
	"github.com/matzehuels/archscape/pkg/render"
	"github.com/matzehuels/archscape/pkg/workspace"
)

// DefaultFormats are rendered when Options.Formats is empty.
var DefaultFormats = []render.Format{render.FormatSVG}

// Options configures a pipeline run.
type Options struct {
	// Formats to render each view in. Defaults to [DefaultFormats].
	Formats []render.Format
	// Render controls DOT generation.
	Render render.Options
	// Refresh bypasses the artifact cache for reads; results are still stored.
	Refresh bool

	// HCL also produces workspace.hcl.
	HCL bool
	// OutputDir receives the document and artifacts. Empty skips it.
	OutputDir string
	// Publishers run in order after the output directory is written.
	Publishers []publish.Publisher
	// Force publishes even when the target already has this document.
	Force bool

	Logger *log.Logger
}

// Validate checks the options and applies defaults.
func (o *Options) Validate() error {
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	seen := make(map[render.Format]bool, len(o.Formats))
	for _, f := range o.Formats {
		if _, err := render.ParseFormat(string(f)); err != nil {
			return err
		}
		if seen[f] {
			return errors.New(errors.ErrCodeInvalidInput, "format %q requested twice", f)
		}
		seen[f] = true
	}
	return nil
}

// ArtifactName is the file name of view key rendered in format f.
func ArtifactName(key string, f render.Format) string {
	return key + "." + string(f)
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Workspace *workspace.Workspace

	// Document is the exported workspace; JSON and HCL are its encodings.
	Document io.Document
	JSON     []byte
	HCL      []byte
	// DocumentHash is the content hash of JSON.
	DocumentHash string

	// Artifacts maps [ArtifactName] to rendered bytes.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Views       int
	Artifacts   int
	RenderTime  time.Duration
	ExportTime  time.Duration
	PublishTime time.Duration
}

// CacheInfo tracks cache use for a run.
type CacheInfo struct {
	Hits   int // artifacts served from cache
	Misses int // artifacts rendered

	Published []string // publishers that ran
	Skipped   []string // publishers skipped because the document was unchanged
}

// RenderHit reports whether every artifact came from the cache.
func (c CacheInfo) RenderHit() bool { return c.Misses == 0 }
