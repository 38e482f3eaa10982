package render

import (
	"slices"
	"strings"

	"github.com/matzehuels/archscape/pkg/errors"
)

// Format is an output format for a rendered view.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
	// FormatDOT is the Graphviz source itself.
	FormatDOT Format = "dot"
)

// Formats lists the supported formats in preference order.
var Formats = []Format{FormatSVG, FormatPNG, FormatPDF, FormatDOT}

// ParseFormat converts a case-insensitive format name such as "SVG".
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidInput, "unsupported format %q (want svg, png, pdf or dot)", s)
	}
	return f, nil
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}
