package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/archscape/pkg/errors"
	"github.com/matzehuels/archscape/pkg/model"
	"github.com/matzehuels/archscape/pkg/style"
	"github.com/matzehuels/archscape/pkg/view"
)

// RenderView converts v to DOT and renders it in the given format.
func RenderView(ctx context.Context, m *model.Model, v *view.View, styles *style.Index, format Format, opts Options) ([]byte, error) {
	return RenderDOT(ctx, ToDOT(m, v, styles, opts), format)
}

// RenderDOT renders DOT source. SVG and PNG are produced by Graphviz, PDF
// by converting the SVG with [ToPDF]; [FormatDOT] returns the source as is.
func RenderDOT(ctx context.Context, dot string, format Format) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		svg, err := graphvizRender(ctx, dot, graphviz.SVG)
		if err != nil {
			return nil, err
		}
		return normalizeViewBox(svg), nil
	case FormatPNG:
		return graphvizRender(ctx, dot, graphviz.PNG)
	case FormatPDF:
		svg, err := RenderDOT(ctx, dot, FormatSVG)
		if err != nil {
			return nil, err
		}
		return ToPDF(ctx, svg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported format %q", format)
	}
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return RenderDOT(ctx, dot, FormatSVG)
}

func graphvizRender(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing starts at the
// origin and scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
