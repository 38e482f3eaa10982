package model

import (
	"fmt"
	"iter"

	"github.com/matzehuels/archscape/pkg/errors"
)

// Relationship is a directed, labeled edge between two elements.
// Multiple relationships between the same pair are kept distinct.
type Relationship struct {
	id          string
	source      string
	destination string
	description string
	technology  string
	tags        Tags
}

func (r *Relationship) ID() string             { return r.id }
func (r *Relationship) SourceID() string       { return r.source }
func (r *Relationship) DestinationID() string  { return r.destination }
func (r *Relationship) Description() string    { return r.description }
func (r *Relationship) Technology() string     { return r.technology }
func (r *Relationship) Tags() []string         { return r.tags.List() }
func (r *Relationship) HasTag(tag string) bool { return r.tags.Has(tag) }

// Connect appends a directed relationship from src to dst. It never
// deduplicates and does not reject self loops.
//
// Returns UNKNOWN_ELEMENT if either endpoint is unset, unknown, or was
// produced by a different model.
func (m *Model) Connect(src, dst Endpoint, description, technology string, opts ...Option) (RelationshipRef, error) {
	if err := m.mutable(); err != nil {
		return RelationshipRef{}, err
	}
	from, err := m.resolve(src.endpoint(), 0)
	if err != nil {
		return RelationshipRef{}, fmt.Errorf("connect source %q: %w", description, err)
	}
	to, err := m.resolve(dst.endpoint(), 0)
	if err != nil {
		return RelationshipRef{}, fmt.Errorf("connect %q -> destination %q: %w", from.Name(), description, err)
	}
	o := collect(opts)
	for _, tag := range o.tags {
		if err := errors.ValidateTag(tag); err != nil {
			return RelationshipRef{}, fmt.Errorf("connect %q -> %q: %w", from.Name(), to.Name(), err)
		}
	}

	r := &Relationship{
		id:          m.nextID(),
		source:      from.ID(),
		destination: to.ID(),
		description: description,
		technology:  technology,
	}
	r.tags.Add(TagRelationship)
	r.tags.Add(o.tags...)

	m.relationships[r.id] = r
	m.relOrder = append(m.relOrder, r.id)
	m.outgoing[r.source] = append(m.outgoing[r.source], r.id)
	m.incoming[r.destination] = append(m.incoming[r.destination], r.id)
	return RelationshipRef{m.handle(r.id)}, nil
}

// Outgoing returns the relationships whose source is ref, in insertion
// order. The sequence is lazy and can be ranged over any number of times.
// An unknown ref yields nothing.
func (m *Model) Outgoing(ref Endpoint) iter.Seq[*Relationship] {
	return m.edges(ref, m.outgoing)
}

// Incoming returns the relationships whose destination is ref, in
// insertion order.
func (m *Model) Incoming(ref Endpoint) iter.Seq[*Relationship] {
	return m.edges(ref, m.incoming)
}

func (m *Model) edges(ref Endpoint, index map[string][]string) iter.Seq[*Relationship] {
	h := ref.endpoint()
	return func(yield func(*Relationship) bool) {
		if h.owner != m.id {
			return
		}
		for _, id := range index[h.id] {
			if !yield(m.relationships[id]) {
				return
			}
		}
	}
}

// Relationship returns the relationship behind ref.
func (m *Model) Relationship(ref RelationshipRef) (*Relationship, bool) {
	if ref.h.owner != m.id {
		return nil, false
	}
	r, ok := m.relationships[ref.h.id]
	return r, ok
}

// RelationshipsOf returns every relationship touching the element with the
// given ID (outgoing first, then incoming), for callers holding elements
// rather than handles.
func (m *Model) RelationshipsOf(id string) []*Relationship {
	out := make([]*Relationship, 0, len(m.outgoing[id])+len(m.incoming[id]))
	for _, rid := range m.outgoing[id] {
		out = append(out, m.relationships[rid])
	}
	for _, rid := range m.incoming[id] {
		if r := m.relationships[rid]; r.source != r.destination {
			out = append(out, r)
		}
	}
	return out
}

// AllRelationships returns every relationship in creation order.
func (m *Model) AllRelationships() []*Relationship {
	out := make([]*Relationship, len(m.relOrder))
	for i, id := range m.relOrder {
		out[i] = m.relationships[id]
	}
	return out
}

// Tag adds tags to an element, relationship or container instance. Adding a
// tag that is already present is a no-op; first-addition order is kept.
func (m *Model) Tag(target Taggable, tags ...string) error {
	if err := m.mutable(); err != nil {
		return err
	}
	for _, tag := range tags {
		if err := errors.ValidateTag(tag); err != nil {
			return err
		}
	}
	set, err := m.tagsOf(target.target())
	if err != nil {
		return fmt.Errorf("tag: %w", err)
	}
	set.Add(tags...)
	return nil
}

func (m *Model) tagsOf(h handle) (*Tags, error) {
	if h.isZero() {
		return nil, errors.New(errors.ErrCodeUnknownElement, "reference is not set")
	}
	if h.owner != m.id {
		return nil, errors.New(errors.ErrCodeUnknownElement, "record %s belongs to another model", h.id)
	}
	if e, ok := m.elements[h.id]; ok {
		return &e.base().tags, nil
	}
	if r, ok := m.relationships[h.id]; ok {
		return &r.tags, nil
	}
	if in, ok := m.instances[h.id]; ok {
		return &in.tags, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownElement, "no record with ID %s", h.id)
}
