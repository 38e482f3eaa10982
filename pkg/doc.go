// Package pkg provides the libraries behind archscape, an architecture model
// of the Coding Contest Platform rendered as C4-style views.
//
// # Overview
//
// The pkg directory is organized by stage:
//
//  1. [model] - elements, relationships, deployment instances and tags
//  2. [style] - tag-based style rules and themes
//  3. [view] - system landscape, container and deployment views
//  4. [workspace] - builds model, styles and views from providers
//  5. [io] and [render] - the exported document and Graphviz renderings
//  6. [pipeline], [cache] and [publish] - rendering, caching and delivery
//
// # Architecture
//
// The typical data flow:
//
//	providers (internal/codingcontest)
//	         ↓
//	    [workspace] package (model → styles → sealed model → views)
//	         ↓
//	    [render] package (DOT → SVG/PNG/PDF)  +  [io] package (JSON/HCL)
//	         ↓
//	    [publish] package (output dir, workspace API, MongoDB)
//
// # Quick Start
//
//	ws, err := workspace.Build(ctx, workspace.Options{Name: "Shop"}, providers...)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, ws, pipeline.Options{OutputDir: "out"})
//
// [model]: github.com/matzehuels/archscape/pkg/model
// [style]: github.com/matzehuels/archscape/pkg/style
// [view]: github.com/matzehuels/archscape/pkg/view
// [workspace]: github.com/matzehuels/archscape/pkg/workspace
// [io]: github.com/matzehuels/archscape/pkg/io
// [render]: github.com/matzehuels/archscape/pkg/render
// [pipeline]: github.com/matzehuels/archscape/pkg/pipeline
// [cache]: github.com/matzehuels/archscape/pkg/cache
// [publish]: github.com/matzehuels/archscape/pkg/publish
package pkg
