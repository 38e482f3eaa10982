package render

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/matzehuels/archscape/pkg/errors"
)

// rsvgConvert is the librsvg command line tool used for PDF output.
var rsvgConvert = "rsvg-convert"

// ToPDF converts an SVG document to PDF with rsvg-convert. Missing librsvg
// is reported as UNSUPPORTED with install hints.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	bin, err := exec.LookPath(rsvgConvert)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"pdf output needs %s (brew install librsvg, apt install librsvg2-bin)", rsvgConvert)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "--format", "pdf")
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s: %s", rsvgConvert, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
