package model

import "github.com/google/uuid"

// handle identifies a record within one specific model. The owner UUID lets
// a model reject references minted by another model instance.
type handle struct {
	owner uuid.UUID
	id    string
}

func (h handle) isZero() bool { return h.id == "" }

// ElementRef is an opaque handle to an element. The typed refs below embed
// it, so any of them can be passed where an [Endpoint] is expected.
// The zero value refers to nothing.
type ElementRef struct{ h handle }

// ID returns the element ID the handle points at.
func (r ElementRef) ID() string { return r.h.id }

// IsZero reports whether the handle is unset.
func (r ElementRef) IsZero() bool { return r.h.isZero() }

func (r ElementRef) endpoint() handle { return r.h }
func (r ElementRef) target() handle   { return r.h }

// PersonRef refers to a [Person].
type PersonRef struct{ ElementRef }

// SystemRef refers to a [SoftwareSystem].
type SystemRef struct{ ElementRef }

// ContainerRef refers to a [Container].
type ContainerRef struct{ ElementRef }

// DeploymentNodeRef refers to a [DeploymentNode]. The zero value means
// "no parent" when passed to [Model.AddDeploymentNode].
type DeploymentNodeRef struct{ ElementRef }

// RelationshipRef refers to a [Relationship].
type RelationshipRef struct{ h handle }

// ID returns the relationship ID.
func (r RelationshipRef) ID() string { return r.h.id }

func (r RelationshipRef) target() handle { return r.h }

// InstanceRef refers to a container [Instance] placed on a deployment node.
type InstanceRef struct{ h handle }

// ID returns the instance ID.
func (r InstanceRef) ID() string { return r.h.id }

func (r InstanceRef) target() handle { return r.h }

// Endpoint is anything that can be the source or destination of a
// relationship: every element ref.
type Endpoint interface {
	endpoint() handle
}

// Taggable is anything [Model.Tag] accepts: element, relationship and
// instance refs.
type Taggable interface {
	target() handle
}

// Ref returns an element handle for e if e belongs to m. It is the bridge
// from elements obtained through queries back to handles.
func (m *Model) Ref(e Element) (ElementRef, bool) {
	if e == nil {
		return ElementRef{}, false
	}
	got, ok := m.elements[e.ID()]
	if !ok || got != e {
		return ElementRef{}, false
	}
	return ElementRef{h: m.handle(e.ID())}, true
}

func (m *Model) handle(id string) handle {
	return handle{owner: m.id, id: id}
}
