package style

import (
	"fmt"

	"github.com/matzehuels/archscape/pkg/errors"
)

// Index holds the style rules of a workspace and resolves tag lists to
// effective attributes.
//
// Rules are stored per tag. Defining a rule for a tag that already has one
// replaces the whole rule. Resolution walks the record's tags in order and
// overlays each tag's rule, so the last tag wins on conflicting attributes
// regardless of the order in which the rules were defined.
//
// Theme rules form a lower layer: for each tag the theme rule is applied
// first and the explicit rule on top of it.
//
// An Index is not safe for concurrent mutation. Once configuration is done it
// may be read concurrently.
type Index struct {
	elements      ruleSet
	relationships ruleSet
	themeElements ruleSet
	themeRels     ruleSet
	themes        []Theme
}

type ruleSet struct {
	rules map[string]Attributes
	order []string
}

func (s *ruleSet) set(tag string, a Attributes) {
	if s.rules == nil {
		s.rules = make(map[string]Attributes)
	}
	if _, ok := s.rules[tag]; !ok {
		s.order = append(s.order, tag)
	}
	s.rules[tag] = a
}

func (s *ruleSet) overlay(tag string, a Attributes) {
	s.set(tag, s.rules[tag].Overlay(a))
}

func (s *ruleSet) list() []Rule {
	out := make([]Rule, len(s.order))
	for i, tag := range s.order {
		out[i] = Rule{Tag: tag, Attributes: s.rules[tag]}
	}
	return out
}

// NewIndex returns an empty style index.
func NewIndex() *Index {
	return &Index{}
}

// DefineElementStyle registers the element rule for tag, replacing any
// previous rule for the same tag.
func (x *Index) DefineElementStyle(tag string, a Attributes) error {
	if err := check(tag, a); err != nil {
		return fmt.Errorf("element style %q: %w", tag, err)
	}
	x.elements.set(tag, a)
	return nil
}

// DefineRelationshipStyle registers the relationship rule for tag,
// replacing any previous rule for the same tag.
func (x *Index) DefineRelationshipStyle(tag string, a Attributes) error {
	if err := check(tag, a); err != nil {
		return fmt.Errorf("relationship style %q: %w", tag, err)
	}
	x.relationships.set(tag, a)
	return nil
}

func check(tag string, a Attributes) error {
	if err := errors.ValidateTag(tag); err != nil {
		return err
	}
	return a.validate()
}

// ResolveElement returns the effective element attributes for a tag list.
// Tags without a rule contribute nothing; an empty result is the default
// style, not an error.
func (x *Index) ResolveElement(tags []string) Attributes {
	return resolve(tags, &x.themeElements, &x.elements)
}

// ResolveRelationship returns the effective relationship attributes for a
// tag list.
func (x *Index) ResolveRelationship(tags []string) Attributes {
	return resolve(tags, &x.themeRels, &x.relationships)
}

func resolve(tags []string, layers ...*ruleSet) Attributes {
	var acc Attributes
	for _, tag := range tags {
		for _, l := range layers {
			if a, ok := l.rules[tag]; ok {
				acc = acc.Overlay(a)
			}
		}
	}
	return acc
}

// Unresolved returns the tags in tags that no rule of any layer matches,
// in input order. A missing rule is informational only.
func (x *Index) Unresolved(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if !x.has(tag) {
			out = append(out, tag)
		}
	}
	return out
}

func (x *Index) has(tag string) bool {
	for _, s := range []*ruleSet{&x.elements, &x.relationships, &x.themeElements, &x.themeRels} {
		if _, ok := s.rules[tag]; ok {
			return true
		}
	}
	return false
}

// ElementStyles returns the explicit element rules in first-definition order.
func (x *Index) ElementStyles() []Rule { return x.elements.list() }

// RelationshipStyles returns the explicit relationship rules in
// first-definition order.
func (x *Index) RelationshipStyles() []Rule { return x.relationships.list() }

// ApplyTheme registers t's rules as the theme layer. When several themes
// define the same tag, the later theme wins per attribute. Applying a theme
// with a URL that is already registered is a no-op.
func (x *Index) ApplyTheme(t Theme) error {
	if t.URL == "" {
		return errors.New(errors.ErrCodeInvalidInput, "theme %q has no URL", t.Name)
	}
	for _, have := range x.themes {
		if have.URL == t.URL {
			return nil
		}
	}
	for _, r := range t.elementRules() {
		if err := check(r.Tag, r.Attributes); err != nil {
			return fmt.Errorf("theme %q element %q: %w", t.Name, r.Tag, err)
		}
	}
	for _, r := range t.relationshipRules() {
		if err := check(r.Tag, r.Attributes); err != nil {
			return fmt.Errorf("theme %q relationship %q: %w", t.Name, r.Tag, err)
		}
	}
	for _, r := range t.elementRules() {
		x.themeElements.overlay(r.Tag, r.Attributes)
	}
	for _, r := range t.relationshipRules() {
		x.themeRels.overlay(r.Tag, r.Attributes)
	}
	x.themes = append(x.themes, t)
	return nil
}

// Themes returns the URLs of the applied themes in registration order. The
// URLs are opaque to the index.
func (x *Index) Themes() []string {
	out := make([]string, len(x.themes))
	for i, t := range x.themes {
		out[i] = t.URL
	}
	return out
}
