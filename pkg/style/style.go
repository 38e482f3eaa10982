package style

import (
	"slices"

	"github.com/matzehuels/archscape/pkg/errors"
)

// Shape is the outline an element is drawn with.
type Shape string

const (
	ShapeBox          Shape = "Box"
	ShapeRoundedBox   Shape = "RoundedBox"
	ShapeCircle       Shape = "Circle"
	ShapeEllipse      Shape = "Ellipse"
	ShapeHexagon      Shape = "Hexagon"
	ShapeCylinder     Shape = "Cylinder"
	ShapePipe         Shape = "Pipe"
	ShapePerson       Shape = "Person"
	ShapeRobot        Shape = "Robot"
	ShapeFolder       Shape = "Folder"
	ShapeWebBrowser   Shape = "WebBrowser"
	ShapeMobileDevice Shape = "MobileDevice"
	ShapeComponent    Shape = "Component"
)

var shapes = []Shape{
	ShapeBox, ShapeRoundedBox, ShapeCircle, ShapeEllipse, ShapeHexagon,
	ShapeCylinder, ShapePipe, ShapePerson, ShapeRobot, ShapeFolder,
	ShapeWebBrowser, ShapeMobileDevice, ShapeComponent,
}

// Valid reports whether s is empty or one of the known shapes.
func (s Shape) Valid() bool {
	return s == "" || slices.Contains(shapes, s)
}

// Border is the outline style of an element.
type Border string

const (
	BorderSolid  Border = "Solid"
	BorderDashed Border = "Dashed"
	BorderDotted Border = "Dotted"
)

// Attributes are the presentation attributes a style rule sets. A zero field
// means "not set by this rule"; resolution overlays only set fields. Opacity
// and Dashed are pointers because 0 and false are meaningful settings.
//
// Icon is an opaque reference (usually a URL supplied by a theme) and is
// never interpreted.
type Attributes struct {
	Shape      Shape  `toml:"shape" json:"shape,omitempty" bson:"shape,omitempty"`
	Background string `toml:"background" json:"background,omitempty" bson:"background,omitempty"`
	Color      string `toml:"color" json:"color,omitempty" bson:"color,omitempty"`
	Stroke     string `toml:"stroke" json:"stroke,omitempty" bson:"stroke,omitempty"`
	Icon       string `toml:"icon" json:"icon,omitempty" bson:"icon,omitempty"`
	Border     Border `toml:"border" json:"border,omitempty" bson:"border,omitempty"`
	FontSize   int    `toml:"font_size" json:"fontSize,omitempty" bson:"fontSize,omitempty"`
	Width      int    `toml:"width" json:"width,omitempty" bson:"width,omitempty"`
	Opacity    *int   `toml:"opacity" json:"opacity,omitempty" bson:"opacity,omitempty"`
	Thickness  int    `toml:"thickness" json:"thickness,omitempty" bson:"thickness,omitempty"`
	Dashed     *bool  `toml:"dashed" json:"dashed,omitempty" bson:"dashed,omitempty"`
}

// Overlay returns a copy of a with every attribute set in top replacing the
// corresponding attribute of a.
func (a Attributes) Overlay(top Attributes) Attributes {
	if top.Shape != "" {
		a.Shape = top.Shape
	}
	if top.Background != "" {
		a.Background = top.Background
	}
	if top.Color != "" {
		a.Color = top.Color
	}
	if top.Stroke != "" {
		a.Stroke = top.Stroke
	}
	if top.Icon != "" {
		a.Icon = top.Icon
	}
	if top.Border != "" {
		a.Border = top.Border
	}
	if top.FontSize != 0 {
		a.FontSize = top.FontSize
	}
	if top.Width != 0 {
		a.Width = top.Width
	}
	if top.Opacity != nil {
		o := *top.Opacity
		a.Opacity = &o
	}
	if top.Thickness != 0 {
		a.Thickness = top.Thickness
	}
	if top.Dashed != nil {
		d := *top.Dashed
		a.Dashed = &d
	}
	return a
}

// IsZero reports whether no attribute is set.
func (a Attributes) IsZero() bool {
	return a == Attributes{}
}

// IsDashed reports whether the dashed flag is set and true.
func (a Attributes) IsDashed() bool {
	return a.Dashed != nil && *a.Dashed
}

// Bool returns a pointer to b, for [Attributes.Dashed].
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n, for [Attributes.Opacity].
func Int(n int) *int { return &n }

func (a Attributes) validate() error {
	if !a.Shape.Valid() {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown shape %q", a.Shape)
	}
	switch a.Border {
	case "", BorderSolid, BorderDashed, BorderDotted:
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown border %q", a.Border)
	}
	if a.Opacity != nil && (*a.Opacity < 0 || *a.Opacity > 100) {
		return errors.New(errors.ErrCodeInvalidFormat, "opacity %d out of range 0-100", *a.Opacity)
	}
	return nil
}

// Rule is a style rule as registered, for export.
type Rule struct {
	Tag        string
	Attributes Attributes
}
