// Package render draws views as diagrams.
//
// # Overview
//
// [ToDOT] turns a [view.View] into Graphviz DOT source. Every element is
// drawn with the style resolved from its tags: shape, fill, font and
// stroke colors, border and size. Relationships become edges labelled with
// their description and technology, dashed when their style says so.
//
// Container views group the containers of their software system in a
// dashed cluster. Deployment views draw each deployment node as a cluster
// holding the container instances it hosts, nested like the node tree.
//
// # Rendering
//
// [RenderDOT] renders the source with the embedded Graphviz of
// goccy/go-graphviz:
//
//	dot := render.ToDOT(ws.Model, v, ws.Styles, render.Options{})
//	svg, err := render.RenderDOT(ctx, dot, render.FormatSVG)
//
// PDF output converts the SVG with the external rsvg-convert tool, see
// [ToPDF]. [RenderView] combines both steps.
//
// [view.View]: github.com/matzehuels/archscape/pkg/view.View
package render
