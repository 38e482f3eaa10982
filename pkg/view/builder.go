package view

import (
	"fmt"

	"github.com/matzehuels/archscape/pkg/errors"
	"github.com/matzehuels/archscape/pkg/model"
)

// Builder collects the contents of one view. It starts open: include,
// exclude and layout calls are accepted in any order and any number of
// times. [Builder.Build] freezes it; every later call fails with
// VIEW_ALREADY_BUILT.
//
// Inclusions act on the current snapshot immediately. Exclusions are only
// recorded and applied once at Build, after all inclusions, so their order
// relative to inclusions does not matter and removing an element never
// pulls in new neighbours.
type Builder struct {
	set         *Set
	kind        Kind
	key         string
	description string
	scope       model.Element
	environment string
	layout      RankDirection

	elements  map[string]struct{}
	instances map[string]struct{}
	excluded  []string
	built     bool
}

func (b *Builder) open() error {
	if b.built {
		return errors.New(errors.ErrCodeViewAlreadyBuilt, "view %q is already built", b.key)
	}
	return nil
}

func (b *Builder) model() *model.Model { return b.set.model }

// admissible reports whether e may appear in this kind of view.
func (b *Builder) admissible(e model.Element) bool {
	switch b.kind {
	case KindSystemLandscape:
		return e.Kind() == model.KindPerson || e.Kind() == model.KindSoftwareSystem
	case KindContainer:
		return e.Kind() != model.KindDeploymentNode
	case KindDeployment:
		return e.Kind() == model.KindDeploymentNode
	}
	return false
}

func (b *Builder) add(e model.Element) {
	if b.admissible(e) {
		b.elements[e.ID()] = struct{}{}
	}
}

func (b *Builder) has(id string) bool {
	_, ok := b.elements[id]
	return ok
}

// IncludeAll adds everything reachable from the scope over structural
// containment and relationships, transitively, keeping the elements the
// view kind admits. A view without scope takes every admissible element.
// On a deployment view it is [Builder.IncludeDeploymentNodes].
func (b *Builder) IncludeAll() error {
	if err := b.open(); err != nil {
		return err
	}
	if b.kind == KindDeployment {
		return b.IncludeDeploymentNodes()
	}
	m := b.model()
	if b.scope == nil {
		for _, e := range m.AllElements() {
			b.add(e)
		}
		return nil
	}

	seen := map[string]bool{b.scope.ID(): true}
	queue := []model.Element{b.scope}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		b.add(e)

		next := m.ChildrenOf(e.ID())
		for _, r := range m.RelationshipsOf(e.ID()) {
			other := r.DestinationID()
			if other == e.ID() {
				other = r.SourceID()
			}
			if o, ok := m.ElementByID(other); ok {
				next = append(next, o)
			}
		}
		for _, n := range next {
			if !seen[n.ID()] {
				seen[n.ID()] = true
				queue = append(queue, n)
			}
		}
	}
	return nil
}

// IncludeContainersAndInfluencers adds the scope, every container of the
// scope and every element with a direct relationship to or from one of those
// containers. It is one hop only. Container views only.
func (b *Builder) IncludeContainersAndInfluencers() error {
	if err := b.open(); err != nil {
		return err
	}
	if b.kind != KindContainer {
		return errors.New(errors.ErrCodeUnsupported, "view %q: containers and influencers require a container view", b.key)
	}
	m := b.model()
	b.add(b.scope)
	for _, c := range m.ChildrenOf(b.scope.ID()) {
		b.add(c)
		for _, r := range m.RelationshipsOf(c.ID()) {
			for _, id := range []string{r.SourceID(), r.DestinationID()} {
				if e, ok := m.ElementByID(id); ok {
					b.add(e)
				}
			}
		}
	}
	return nil
}

// IncludePeople adds every person with a relationship to or from an element
// already in the view. It inspects the snapshot once and does not chase
// relationships between people.
func (b *Builder) IncludePeople() error {
	if err := b.open(); err != nil {
		return err
	}
	if b.kind == KindDeployment {
		return errors.New(errors.ErrCodeUnsupported, "view %q: deployment views do not show people", b.key)
	}
	m := b.model()
	var found []model.Element
	for _, p := range m.People() {
		for _, r := range m.RelationshipsOf(p.ID()) {
			if b.has(r.SourceID()) || b.has(r.DestinationID()) {
				found = append(found, p)
				break
			}
		}
	}
	for _, p := range found {
		b.add(p)
	}
	return nil
}

// IncludeDeploymentNodes adds the container instances of the scope (of every
// system without scope) placed in the view's environment, together with
// their host nodes and all ancestors of those nodes. Deployment views only.
func (b *Builder) IncludeDeploymentNodes() error {
	if err := b.open(); err != nil {
		return err
	}
	if b.kind != KindDeployment {
		return errors.New(errors.ErrCodeUnsupported, "view %q: deployment nodes require a deployment view", b.key)
	}
	m := b.model()
	for _, in := range m.Instances() {
		if b.scope != nil && !m.IsDescendant(in.ContainerID(), b.scope.ID()) {
			continue
		}
		host, ok := m.ElementByID(in.NodeID())
		if !ok || host.(*model.DeploymentNode).Environment() != b.environment {
			continue
		}
		b.instances[in.ID()] = struct{}{}
		for e, ok := host, true; ok; e, ok = m.ElementByID(e.ParentID()) {
			b.add(e)
		}
	}
	return nil
}

// Include adds specific elements. Each must belong to the model and be
// admissible for the view kind.
func (b *Builder) Include(refs ...model.Endpoint) error {
	if err := b.open(); err != nil {
		return err
	}
	m := b.model()
	for _, ref := range refs {
		e, ok := m.Element(ref)
		if !ok {
			return errors.New(errors.ErrCodeUnknownElement, "view %q: included element is not part of this model", b.key)
		}
		if !b.admissible(e) {
			return errors.New(errors.ErrCodeInvalidInput, "view %q: a %s cannot appear in a %s view", b.key, e.Kind(), b.kind)
		}
		b.add(e)
	}
	return nil
}

// ExcludeByTag removes, at Build, every element, instance and relationship
// carrying tag, then everything left dangling by that removal.
func (b *Builder) ExcludeByTag(tag string) error {
	if err := b.open(); err != nil {
		return err
	}
	if err := errors.ValidateTag(tag); err != nil {
		return fmt.Errorf("view %q: %w", b.key, err)
	}
	b.excluded = append(b.excluded, tag)
	return nil
}

// AutoLayout sets the layout direction hint.
func (b *Builder) AutoLayout(dir RankDirection) error {
	if err := b.open(); err != nil {
		return err
	}
	if !dir.valid() {
		return errors.New(errors.ErrCodeInvalidInput, "view %q: unknown rank direction %q", b.key, dir)
	}
	b.layout = dir
	return nil
}

// Build freezes the builder and registers the resulting view with its set.
// A second call fails with VIEW_ALREADY_BUILT and leaves the first view
// untouched.
func (b *Builder) Build() (*View, error) {
	if err := b.open(); err != nil {
		return nil, err
	}
	b.built = true

	m := b.model()
	v := &View{
		key:         b.key,
		kind:        b.kind,
		description: b.description,
		scope:       b.scope,
		environment: b.environment,
		layout:      b.layout,
		index:       make(map[string]struct{}),
	}

	// Creation order puts parents before children, so one pass is enough to
	// drop nested nodes whose parent was removed.
	for _, e := range m.AllElements() {
		if !b.has(e.ID()) || b.excludes(e.HasTag) {
			continue
		}
		if e.Kind() == model.KindDeploymentNode && e.ParentID() != "" && !v.Contains(e.ParentID()) {
			continue
		}
		v.elements = append(v.elements, e)
		v.index[e.ID()] = struct{}{}
	}

	placed := make(map[string]struct{})
	for _, in := range m.Instances() {
		if _, ok := b.instances[in.ID()]; !ok || b.excludes(in.HasTag) || !v.Contains(in.NodeID()) {
			continue
		}
		v.instances = append(v.instances, in)
		placed[in.ContainerID()] = struct{}{}
	}

	present := func(id string) bool {
		if b.kind == KindDeployment {
			_, ok := placed[id]
			return ok
		}
		return v.Contains(id)
	}
	for _, r := range m.AllRelationships() {
		if present(r.SourceID()) && present(r.DestinationID()) && !b.excludes(r.HasTag) {
			v.relationships = append(v.relationships, r)
		}
	}
	if b.kind != KindDeployment {
		v.implied = b.implied(v)
	}

	b.set.add(v)
	return v, nil
}

// implied lifts both endpoints of every relationship not excluded by tag to
// their nearest ancestor-or-self in v. Pairs already connected in v,
// self-loops and parent-child pairs are dropped. The scope of a container
// view is a boundary and never an endpoint.
func (b *Builder) implied(v *View) []ImpliedRelationship {
	m := b.model()
	lift := func(id string) (string, bool) {
		for e, ok := m.ElementByID(id); ok; e, ok = m.ElementByID(e.ParentID()) {
			if b.kind == KindContainer && b.scope != nil && e.ID() == b.scope.ID() {
				return "", false
			}
			if v.Contains(e.ID()) {
				return e.ID(), true
			}
		}
		return "", false
	}

	type pair struct{ src, dst string }
	// index into out, or -1 for pairs with an explicit relationship
	seen := make(map[pair]int)
	for _, r := range v.relationships {
		seen[pair{r.SourceID(), r.DestinationID()}] = -1
	}
	var out []ImpliedRelationship
	for _, r := range m.AllRelationships() {
		if b.excludes(r.HasTag) {
			continue
		}
		src, ok := lift(r.SourceID())
		if !ok {
			continue
		}
		dst, ok := lift(r.DestinationID())
		if !ok || src == dst || m.IsDescendant(src, dst) || m.IsDescendant(dst, src) {
			continue
		}
		p := pair{src, dst}
		switch i, ok := seen[p]; {
		case !ok:
			seen[p] = len(out)
			out = append(out, ImpliedRelationship{SourceID: src, DestinationID: dst, Via: []*model.Relationship{r}})
		case i >= 0:
			out[i].Via = append(out[i].Via, r)
		}
	}
	return out
}

func (b *Builder) excludes(hasTag func(string) bool) bool {
	for _, tag := range b.excluded {
		if hasTag(tag) {
			return true
		}
	}
	return false
}
