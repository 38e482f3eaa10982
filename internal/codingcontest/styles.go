package codingcontest

import (
	"embed"
	"errors"
	"fmt"

	"github.com/matzehuels/archscape/pkg/model"
	"github.com/matzehuels/archscape/pkg/style"
	"github.com/matzehuels/archscape/pkg/view"
)

//go:embed themes/*.toml
var themeFS embed.FS

// Themes returns the embedded icon themes, Azure first.
func Themes() ([]style.Theme, error) {
	var out []style.Theme
	for _, name := range []string{"themes/azure.toml", "themes/devicons.toml"} {
		f, err := themeFS.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		t, err := style.ReadTheme(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// Landscape sets the workspace-wide element styles and the system
// landscape view.
type Landscape struct{}

func (Landscape) Name() string { return "landscape" }

func (Landscape) ConfigureStyles(s *style.Index) error {
	return errors.Join(
		s.DefineElementStyle(Database, style.Attributes{Shape: style.ShapeCylinder}),
		s.DefineElementStyle(FileSystem, style.Attributes{Shape: style.ShapeFolder}),
		s.DefineElementStyle(model.TagPerson, style.Attributes{Shape: style.ShapePerson}),
		s.DefineElementStyle(IconSpring, style.Attributes{Background: "#6DB33F", Color: "#000000"}),
	)
}

func (Landscape) CreateViews(views *view.Set) error {
	b, err := views.SystemLandscape("codingcontest", "")
	if err != nil {
		return err
	}
	return build(b, includeAll)
}
