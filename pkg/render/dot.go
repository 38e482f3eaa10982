package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/archscape/pkg/model"
	"github.com/matzehuels/archscape/pkg/style"
	"github.com/matzehuels/archscape/pkg/view"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds element and relationship descriptions to labels.
	Detailed bool
	// FontName is the Graphviz font family. Empty means Helvetica.
	FontName string
}

const defaultFont = "Helvetica"

// ToDOT converts a view into Graphviz DOT source. Elements and
// relationships are drawn with the styles resolved from their tags; the
// scope of a container view and every deployment node become clusters.
func ToDOT(m *model.Model, v *view.View, styles *style.Index, opts Options) string {
	font := opts.FontName
	if font == "" {
		font = defaultFont
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", v.Key())
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir(v))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	fmt.Fprintf(&buf, "  fontname=%q;\n", font)
	if v.Description() != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", v.Description())
		buf.WriteString("  labelloc=t;\n")
	}
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=%q, fontsize=14, margin=\"0.2,0.1\"];\n", font)
	fmt.Fprintf(&buf, "  edge [fontname=%q, fontsize=11];\n", font)
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.5;\n")
	buf.WriteString("\n")

	w := &dotWriter{buf: &buf, m: m, v: v, styles: styles, opts: opts}
	if v.Kind() == view.KindDeployment {
		w.deployment()
	} else {
		w.static()
	}

	buf.WriteString("\n")
	w.edges()
	buf.WriteString("}\n")
	return buf.String()
}

func rankdir(v *view.View) string {
	dir, _ := v.AutoLayout()
	switch dir {
	case view.BottomTop:
		return "BT"
	case view.LeftRight:
		return "LR"
	case view.RightLeft:
		return "RL"
	default:
		return "TB"
	}
}

type dotWriter struct {
	buf    *bytes.Buffer
	m      *model.Model
	v      *view.View
	styles *style.Index
	opts   Options

	// instances of each container in a deployment view, keyed by container ID
	placed map[string][]*model.Instance
}

// static writes landscape and container views. Children of the container
// view's scope are grouped in a cluster labelled with the scope.
func (w *dotWriter) static() {
	scope := w.v.Scope()
	var inside []model.Element
	for _, e := range w.v.Elements() {
		switch {
		case scope != nil && e.ID() == scope.ID():
		case scope != nil && e.ParentID() == scope.ID():
			inside = append(inside, e)
		default:
			w.node(1, e.ID(), elementLabel(e, w.opts.Detailed), w.styles.ResolveElement(e.Tags()), e.URL())
		}
	}
	if scope == nil || w.v.Kind() != view.KindContainer {
		return
	}

	fmt.Fprintf(w.buf, "\n  subgraph %q {\n", "cluster_"+scope.ID())
	fmt.Fprintf(w.buf, "    label=%q;\n", scope.Name()+"\n["+scope.Kind().String()+"]")
	w.buf.WriteString("    style=\"dashed,rounded\";\n")
	w.buf.WriteString("    color=\"#444444\";\n")
	w.buf.WriteString("    fontcolor=\"#444444\";\n")
	for _, e := range inside {
		w.node(2, e.ID(), elementLabel(e, w.opts.Detailed), w.styles.ResolveElement(e.Tags()), e.URL())
	}
	w.buf.WriteString("  }\n")
}

// deployment writes nested clusters for deployment nodes with the
// container instances they host as nodes inside.
func (w *dotWriter) deployment() {
	children := make(map[string][]model.Element)
	var roots []model.Element
	for _, e := range w.v.Elements() {
		if e.ParentID() != "" && w.v.Contains(e.ParentID()) {
			children[e.ParentID()] = append(children[e.ParentID()], e)
			continue
		}
		roots = append(roots, e)
	}

	hosted := make(map[string][]*model.Instance)
	w.placed = make(map[string][]*model.Instance)
	for _, in := range w.v.Instances() {
		hosted[in.NodeID()] = append(hosted[in.NodeID()], in)
		w.placed[in.ContainerID()] = append(w.placed[in.ContainerID()], in)
	}

	var walk func(n model.Element, depth int)
	walk = func(n model.Element, depth int) {
		attrs := w.styles.ResolveElement(n.Tags())
		label := nodeLabel(n)
		if len(children[n.ID()]) == 0 && len(hosted[n.ID()]) == 0 {
			attrs.Shape = ""
			w.node(depth, n.ID(), label, attrs, n.URL(), "shape=box3d")
			return
		}

		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(w.buf, "%ssubgraph %q {\n", indent, "cluster_"+n.ID())
		fmt.Fprintf(w.buf, "%s  label=%q;\n", indent, label)
		fmt.Fprintf(w.buf, "%s  style=%q;\n", indent, strings.Join(clusterStyle(attrs), ","))
		if attrs.Stroke != "" {
			fmt.Fprintf(w.buf, "%s  color=%q;\n", indent, withOpacity(attrs.Stroke, attrs.Opacity))
		}
		if attrs.Background != "" {
			fmt.Fprintf(w.buf, "%s  fillcolor=%q;\n", indent, withOpacity(attrs.Background, attrs.Opacity))
		}
		if attrs.Color != "" {
			fmt.Fprintf(w.buf, "%s  fontcolor=%q;\n", indent, attrs.Color)
		}
		for _, in := range hosted[n.ID()] {
			c, ok := w.m.ElementByID(in.ContainerID())
			if !ok {
				continue
			}
			tags := append(c.Tags(), in.Tags()...)
			w.node(depth+1, in.ID(), elementLabel(c, w.opts.Detailed), w.styles.ResolveElement(tags), c.URL())
		}
		for _, child := range children[n.ID()] {
			walk(child, depth+1)
		}
		fmt.Fprintf(w.buf, "%s}\n", indent)
	}
	for _, r := range roots {
		walk(r, 1)
	}
}

// edges writes explicit relationships, then implied ones. The scope of a
// container view is only a cluster, so edges touching it are left out.
func (w *dotWriter) edges() {
	boundary := ""
	if w.v.Kind() == view.KindContainer && w.v.Scope() != nil {
		boundary = w.v.Scope().ID()
	}
	for _, r := range w.v.Relationships() {
		attrs := edgeAttrs(relationshipLabel(r, w.opts.Detailed), w.styles.ResolveRelationship(r.Tags()))
		if w.v.Kind() != view.KindDeployment {
			if r.SourceID() != boundary && r.DestinationID() != boundary {
				w.edge(r.SourceID(), r.DestinationID(), attrs)
			}
			continue
		}
		for _, src := range w.placed[r.SourceID()] {
			for _, dst := range w.placed[r.DestinationID()] {
				w.edge(src.ID(), dst.ID(), attrs)
			}
		}
	}
	for _, r := range w.v.ImpliedRelationships() {
		w.edge(r.SourceID, r.DestinationID, edgeAttrs(relationshipLabel(r.Via[0], w.opts.Detailed), w.styles.ResolveRelationship(r.Via[0].Tags())))
	}
}

func (w *dotWriter) edge(src, dst string, attrs []string) {
	fmt.Fprintf(w.buf, "  %q -> %q [%s];\n", src, dst, strings.Join(attrs, ", "))
}

func (w *dotWriter) node(depth int, id, label string, a style.Attributes, url string, extra ...string) {
	attrs := append(nodeAttrs(label, a, url), extra...)
	fmt.Fprintf(w.buf, "%s%q [%s];\n", strings.Repeat("  ", depth), id, strings.Join(attrs, ", "))
}

// elementLabel is "Name\n[Kind: Technology]", followed by the wrapped
// description in detailed mode.
func elementLabel(e model.Element, detailed bool) string {
	kind := e.Kind().String()
	if tech := model.Technology(e); tech != "" {
		kind += ": " + tech
	}
	label := e.Name() + "\n[" + kind + "]"
	if detailed && e.Description() != "" {
		label += "\n\n" + wrap(e.Description(), 32)
	}
	return label
}

func nodeLabel(n model.Element) string {
	label := elementLabel(n, false)
	if d, ok := n.(*model.DeploymentNode); ok && d.Instances() > 1 {
		label += fmt.Sprintf(" x%d", d.Instances())
	}
	return label
}

func relationshipLabel(r *model.Relationship, detailed bool) string {
	var parts []string
	if r.Description() != "" {
		parts = append(parts, wrap(r.Description(), 24))
	}
	if r.Technology() != "" {
		parts = append(parts, "["+r.Technology()+"]")
	}
	if detailed && len(parts) == 0 {
		parts = append(parts, "uses")
	}
	return strings.Join(parts, "\n")
}

// graphvizShapes maps element shapes onto the closest Graphviz node shape.
var graphvizShapes = map[style.Shape]string{
	style.ShapeBox:          "box",
	style.ShapeRoundedBox:   "box",
	style.ShapeCircle:       "circle",
	style.ShapeEllipse:      "ellipse",
	style.ShapeHexagon:      "hexagon",
	style.ShapeCylinder:     "cylinder",
	style.ShapePipe:         "cylinder",
	style.ShapePerson:       "egg",
	style.ShapeRobot:        "octagon",
	style.ShapeFolder:       "folder",
	style.ShapeWebBrowser:   "tab",
	style.ShapeMobileDevice: "box",
	style.ShapeComponent:    "component",
}

func nodeAttrs(label string, a style.Attributes, url string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}

	shape, ok := graphvizShapes[a.Shape]
	if !ok {
		shape = "box"
	}
	styles := []string{"filled"}
	switch a.Shape {
	case "", style.ShapeRoundedBox, style.ShapeMobileDevice:
		styles = append(styles, "rounded")
	}
	styles = append(styles, borderStyle(a.Border)...)
	attrs = append(attrs, "shape="+shape, fmt.Sprintf("style=%q", strings.Join(styles, ",")))

	if a.Background != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", withOpacity(a.Background, a.Opacity)))
	}
	if a.Color != "" {
		attrs = append(attrs, fmt.Sprintf("fontcolor=%q", a.Color))
	}
	if a.Stroke != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", withOpacity(a.Stroke, a.Opacity)))
	}
	if a.FontSize > 0 {
		attrs = append(attrs, fmt.Sprintf("fontsize=%d", a.FontSize))
	}
	if a.Width > 0 {
		// style widths are pixels, Graphviz wants inches
		attrs = append(attrs, fmt.Sprintf("width=%.2f", float64(a.Width)/72))
	}
	if a.Thickness > 0 {
		attrs = append(attrs, fmt.Sprintf("penwidth=%d", a.Thickness))
	}
	if url != "" {
		attrs = append(attrs, fmt.Sprintf("URL=%q", url), `target="_blank"`)
	}
	return attrs
}

func edgeAttrs(label string, a style.Attributes) []string {
	var attrs []string
	if label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", label))
	}
	if a.IsDashed() {
		attrs = append(attrs, `style="dashed"`)
	}
	if a.Color != "" {
		c := withOpacity(a.Color, a.Opacity)
		attrs = append(attrs, fmt.Sprintf("color=%q", c), fmt.Sprintf("fontcolor=%q", c))
	}
	if a.FontSize > 0 {
		attrs = append(attrs, fmt.Sprintf("fontsize=%d", a.FontSize))
	}
	if a.Thickness > 0 {
		attrs = append(attrs, fmt.Sprintf("penwidth=%d", a.Thickness))
	}
	if len(attrs) == 0 {
		attrs = append(attrs, `label=""`)
	}
	return attrs
}

func clusterStyle(a style.Attributes) []string {
	styles := []string{"rounded"}
	if a.Background != "" {
		styles = append(styles, "filled")
	}
	return append(styles, borderStyle(a.Border)...)
}

func borderStyle(b style.Border) []string {
	switch b {
	case style.BorderDashed:
		return []string{"dashed"}
	case style.BorderDotted:
		return []string{"dotted"}
	}
	return nil
}

// withOpacity appends an alpha channel to #RRGGBB colors when opacity is
// set below 100 percent.
func withOpacity(color string, opacity *int) string {
	if opacity == nil || *opacity < 0 || *opacity >= 100 || len(color) != 7 || color[0] != '#' {
		return color
	}
	return fmt.Sprintf("%s%02x", color, *opacity*255/100)
}

// wrap breaks s into lines of at most width runes at word boundaries.
func wrap(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len([]rune(line))+1+len([]rune(word)) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return strings.Join(append(lines, line), "\n")
}
