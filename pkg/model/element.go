package model

import "slices"

// Kind distinguishes the element variants of the architecture model.
type Kind int

const (
	// KindPerson is a human user of the modeled systems.
	KindPerson Kind = iota + 1
	// KindSoftwareSystem is the top-level unit of delivered software.
	KindSoftwareSystem
	// KindContainer is a deployable/runnable part of a software system.
	KindContainer
	// KindDeploymentNode is infrastructure that hosts container instances.
	KindDeploymentNode
)

// String returns the human-readable kind name used in documents and labels.
func (k Kind) String() string {
	switch k {
	case KindPerson:
		return "Person"
	case KindSoftwareSystem:
		return "Software System"
	case KindContainer:
		return "Container"
	case KindDeploymentNode:
		return "Deployment Node"
	default:
		return "Unknown"
	}
}

// Location classifies people and software systems relative to the
// organisation that owns the model.
type Location int

const (
	LocationUnspecified Location = iota
	LocationInternal
	LocationExternal
)

// String returns "Internal", "External" or "Unspecified".
func (l Location) String() string {
	switch l {
	case LocationInternal:
		return "Internal"
	case LocationExternal:
		return "External"
	default:
		return "Unspecified"
	}
}

// Default tags attached on creation. They come first in every tag list so
// that user-defined tags take precedence during style resolution.
const (
	TagElement           = "Element"
	TagPerson            = "Person"
	TagSoftwareSystem    = "Software System"
	TagContainer         = "Container"
	TagDeploymentNode    = "Deployment Node"
	TagRelationship      = "Relationship"
	TagContainerInstance = "Container Instance"
)

// defaultTags lists the tags every record of a kind starts with.
var defaultTags = map[Kind][]string{
	KindPerson:         {TagElement, TagPerson},
	KindSoftwareSystem: {TagElement, TagSoftwareSystem},
	KindContainer:      {TagElement, TagContainer},
	KindDeploymentNode: {TagElement, TagDeploymentNode},
}

// IsDefaultTag reports whether tag is one of the tags the model assigns
// automatically.
func IsDefaultTag(tag string) bool {
	switch tag {
	case TagElement, TagPerson, TagSoftwareSystem, TagContainer,
		TagDeploymentNode, TagRelationship, TagContainerInstance:
		return true
	}
	return false
}

// Element is a node of the architecture model. The concrete type is one of
// *Person, *SoftwareSystem, *Container or *DeploymentNode; use a type switch
// to reach the per-kind fields.
//
// Elements are owned by their [Model] and are read-only for callers: all
// mutation goes through Model methods, which reject changes once the model
// is sealed.
type Element interface {
	ID() string
	Name() string
	Description() string
	URL() string
	Kind() Kind
	Tags() []string
	HasTag(tag string) bool
	// ParentID returns the structural parent's ID, or "" for top-level elements.
	ParentID() string

	base() *header
}

// header is the record shared by all element variants.
type header struct {
	id          string
	name        string
	description string
	url         string
	parent      string
	kind        Kind
	tags        Tags
}

func (h *header) ID() string             { return h.id }
func (h *header) Name() string           { return h.name }
func (h *header) Description() string    { return h.description }
func (h *header) URL() string            { return h.url }
func (h *header) Kind() Kind             { return h.kind }
func (h *header) ParentID() string       { return h.parent }
func (h *header) Tags() []string         { return h.tags.List() }
func (h *header) HasTag(tag string) bool { return h.tags.Has(tag) }
func (h *header) base() *header          { return h }

// Person is a human actor.
type Person struct {
	header
	location Location
}

// Location returns whether the person is internal or external.
func (p *Person) Location() Location { return p.location }

// SoftwareSystem is a top-level system that owns containers.
type SoftwareSystem struct {
	header
	location Location
}

// Location returns whether the system is internal or external.
func (s *SoftwareSystem) Location() Location { return s.location }

// Container is an application or data store inside a software system.
type Container struct {
	header
	technology string
}

// Technology returns the implementation technology, e.g. "MariaDB".
func (c *Container) Technology() string { return c.technology }

// DeploymentNode is a piece of infrastructure. Nodes nest to form the
// deployment tree and host container instances.
type DeploymentNode struct {
	header
	technology  string
	environment string
	instances   int
}

// Technology returns the infrastructure technology, e.g. "AKS".
func (d *DeploymentNode) Technology() string { return d.technology }

// Environment returns the deployment environment the node belongs to.
func (d *DeploymentNode) Environment() string { return d.environment }

// Instances returns the replica count of the node (at least 1).
func (d *DeploymentNode) Instances() int { return d.instances }

// Technology returns the technology of e, or "" for kinds without one.
func Technology(e Element) string {
	switch v := e.(type) {
	case *Container:
		return v.technology
	case *DeploymentNode:
		return v.technology
	}
	return ""
}

// Tags is an insertion-ordered set of tag labels. Adding an existing tag is
// a no-op, so the position of a tag is the position of its first addition.
// The zero value is an empty set ready to use.
type Tags struct {
	order []string
	set   map[string]struct{}
}

// Add appends tags not yet present and returns how many were new.
func (t *Tags) Add(tags ...string) int {
	if t.set == nil {
		t.set = make(map[string]struct{}, len(tags))
	}
	added := 0
	for _, tag := range tags {
		if _, ok := t.set[tag]; ok {
			continue
		}
		t.set[tag] = struct{}{}
		t.order = append(t.order, tag)
		added++
	}
	return added
}

// Has reports whether tag is in the set.
func (t *Tags) Has(tag string) bool {
	_, ok := t.set[tag]
	return ok
}

// Len returns the number of tags.
func (t *Tags) Len() int { return len(t.order) }

// List returns a copy of the tags in first-addition order.
func (t *Tags) List() []string { return slices.Clone(t.order) }
