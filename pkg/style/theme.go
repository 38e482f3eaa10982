package style

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/archscape/pkg/errors"
)

// Theme is a named bundle of tag rules, typically icon associations for a
// vendor's product names. Themes are identified by URL, which is recorded
// in the exported workspace and otherwise not interpreted.
//
// On disk a theme is TOML:
//
//	name = "Microsoft Azure"
//	url  = "https://static.example.com/themes/azure/theme.json"
//
//	[elements."Azure Kubernetes Service"]
//	icon = "https://static.example.com/themes/azure/aks.png"
type Theme struct {
	Name          string                `toml:"name"`
	URL           string                `toml:"url"`
	Elements      map[string]Attributes `toml:"elements"`
	Relationships map[string]Attributes `toml:"relationships"`
}

func (t Theme) elementRules() []Rule      { return sortedRules(t.Elements) }
func (t Theme) relationshipRules() []Rule { return sortedRules(t.Relationships) }

func sortedRules(m map[string]Attributes) []Rule {
	out := make([]Rule, 0, len(m))
	for _, tag := range slices.Sorted(maps.Keys(m)) {
		out = append(out, Rule{Tag: tag, Attributes: m[tag]})
	}
	return out
}

// ReadTheme decodes a TOML theme. Unknown keys are rejected so that a typo
// in an attribute name does not silently drop a rule.
func ReadTheme(r io.Reader) (Theme, error) {
	var t Theme
	md, err := toml.NewDecoder(r).Decode(&t)
	if err != nil {
		return Theme{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode theme")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return Theme{}, errors.New(errors.ErrCodeInvalidFormat, "theme %q: unknown keys %s", t.Name, strings.Join(names, ", "))
	}
	if t.URL == "" {
		return Theme{}, errors.New(errors.ErrCodeInvalidFormat, "theme %q: missing url", t.Name)
	}
	return t, nil
}

// LoadTheme reads a TOML theme from a file.
func LoadTheme(path string) (Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return Theme{}, fmt.Errorf("open theme: %w", err)
	}
	defer f.Close()

	t, err := ReadTheme(f)
	if err != nil {
		return Theme{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
