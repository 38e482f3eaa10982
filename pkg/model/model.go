package model

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/matzehuels/archscape/pkg/errors"
)

// DefaultEnvironment is the deployment environment used when none is given.
const DefaultEnvironment = "Default"

// Model is the architecture graph: the element registry, the structural
// containment forest, the deployment placements and the relationship edges.
//
// A model is populated once during startup and then sealed; after [Model.Seal]
// every mutator fails with MODEL_SEALED and the model may be read from any
// number of goroutines without locking. Before sealing it is not safe for
// concurrent use.
//
// The zero value is not usable - use New.
type Model struct {
	id     uuid.UUID
	seq    int
	sealed bool

	elements map[string]Element
	order    []string
	children map[string][]string          // parent ID ("" = top level) -> child IDs
	names    map[string]map[string]string // sibling scope -> name -> ID

	relationships map[string]*Relationship
	relOrder      []string
	outgoing      map[string][]string // element ID -> relationship IDs
	incoming      map[string][]string // element ID -> relationship IDs

	instances  map[string]*Instance
	instOrder  []string
	hosted     map[string][]string // deployment node ID -> instance IDs
	placements map[string][]string // container ID -> instance IDs
}

// New creates an empty model with a fresh identity.
func New() *Model {
	return &Model{
		id:            uuid.New(),
		elements:      make(map[string]Element),
		children:      make(map[string][]string),
		names:         make(map[string]map[string]string),
		relationships: make(map[string]*Relationship),
		outgoing:      make(map[string][]string),
		incoming:      make(map[string][]string),
		instances:     make(map[string]*Instance),
		hosted:        make(map[string][]string),
		placements:    make(map[string][]string),
	}
}

// ID returns the model's identity. Handles minted by this model carry it.
func (m *Model) ID() uuid.UUID { return m.id }

// Seal freezes the model. It is idempotent.
func (m *Model) Seal() { m.sealed = true }

// Sealed reports whether the model has been frozen.
func (m *Model) Sealed() bool { return m.sealed }

// Option customises a record at creation time. Options that do not apply to
// the kind being created are ignored.
type Option func(*options)

type options struct {
	url         string
	tags        []string
	location    Location
	environment string
	instances   int
	inheritTags bool
}

// WithURL sets the element's URL.
func WithURL(url string) Option { return func(o *options) { o.url = url } }

// WithTags adds tags after the default tags.
func WithTags(tags ...string) Option {
	return func(o *options) { o.tags = append(o.tags, tags...) }
}

// WithLocation sets the location of a software system.
func WithLocation(l Location) Option { return func(o *options) { o.location = l } }

// WithEnvironment sets the environment of a top-level deployment node.
// Nested nodes always inherit the environment of their parent.
func WithEnvironment(env string) Option { return func(o *options) { o.environment = env } }

// WithInstances sets the replica count of a deployment node.
func WithInstances(n int) Option { return func(o *options) { o.instances = n } }

// InheritTags makes [Model.Place] copy the container's custom (non-default)
// tags onto the new instance.
func InheritTags() Option { return func(o *options) { o.inheritTags = true } }

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// AddPerson registers a person at the top level.
// Returns DUPLICATE_IDENTITY if a person or software system with the same
// name already exists.
func (m *Model) AddPerson(name, description string, loc Location, opts ...Option) (PersonRef, error) {
	o := collect(opts)
	p := &Person{location: loc}
	p.kind = KindPerson
	if err := m.register(p, "", topLevelScope, name, description, o); err != nil {
		return PersonRef{}, fmt.Errorf("add person %q: %w", name, err)
	}
	return PersonRef{ElementRef{m.handle(p.id)}}, nil
}

// AddSoftwareSystem registers a software system at the top level.
// People and software systems share one namespace.
func (m *Model) AddSoftwareSystem(name, description string, opts ...Option) (SystemRef, error) {
	o := collect(opts)
	s := &SoftwareSystem{location: o.location}
	s.kind = KindSoftwareSystem
	if err := m.register(s, "", topLevelScope, name, description, o); err != nil {
		return SystemRef{}, fmt.Errorf("add software system %q: %w", name, err)
	}
	return SystemRef{ElementRef{m.handle(s.id)}}, nil
}

// AddContainer registers a container owned by parent. Container names are
// unique per software system only.
func (m *Model) AddContainer(parent SystemRef, name, description, technology string, opts ...Option) (ContainerRef, error) {
	sys, err := m.resolve(parent.h, KindSoftwareSystem)
	if err != nil {
		return ContainerRef{}, fmt.Errorf("add container %q: %w", name, err)
	}
	o := collect(opts)
	c := &Container{technology: technology}
	c.kind = KindContainer
	if err := m.register(c, sys.ID(), "system:"+sys.ID(), name, description, o); err != nil {
		return ContainerRef{}, fmt.Errorf("add container %q to %q: %w", name, sys.Name(), err)
	}
	return ContainerRef{ElementRef{m.handle(c.id)}}, nil
}

// AddDeploymentNode registers a deployment node. A zero parent creates a
// top-level node in the environment given by [WithEnvironment] (default
// [DefaultEnvironment]); otherwise the node nests under parent and inherits
// its environment.
func (m *Model) AddDeploymentNode(parent DeploymentNodeRef, name, description, technology string, opts ...Option) (DeploymentNodeRef, error) {
	o := collect(opts)
	d := &DeploymentNode{technology: technology, instances: max(o.instances, 1)}
	d.kind = KindDeploymentNode

	parentID, scope := "", ""
	if parent.IsZero() {
		d.environment = o.environment
		if d.environment == "" {
			d.environment = DefaultEnvironment
		}
		scope = "deployment:" + d.environment
	} else {
		e, err := m.resolve(parent.h, KindDeploymentNode)
		if err != nil {
			return DeploymentNodeRef{}, fmt.Errorf("add deployment node %q: %w", name, err)
		}
		d.environment = e.(*DeploymentNode).environment
		parentID, scope = e.ID(), "node:"+e.ID()
	}

	if err := m.register(d, parentID, scope, name, description, o); err != nil {
		return DeploymentNodeRef{}, fmt.Errorf("add deployment node %q: %w", name, err)
	}
	return DeploymentNodeRef{ElementRef{m.handle(d.id)}}, nil
}

// SetURL sets or replaces an element's URL.
func (m *Model) SetURL(ref Endpoint, url string) error {
	if err := m.mutable(); err != nil {
		return err
	}
	e, err := m.resolve(ref.endpoint(), 0)
	if err != nil {
		return err
	}
	e.base().url = url
	return nil
}

const topLevelScope = "model"

// register validates, assigns an ID and indexes a new element. The kind
// must already be set on the element's header.
func (m *Model) register(e Element, parent, scope, name, description string, o options) error {
	if err := m.mutable(); err != nil {
		return err
	}
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	for _, tag := range o.tags {
		if err := errors.ValidateTag(tag); err != nil {
			return err
		}
	}
	if existing, ok := m.names[scope][name]; ok {
		return errors.New(errors.ErrCodeDuplicateIdentity,
			"%q already exists in this scope (element %s)", name, existing)
	}

	h := e.base()
	h.id = m.nextID()
	h.name = name
	h.description = description
	h.url = o.url
	h.parent = parent
	h.tags.Add(defaultTags[h.kind]...)
	h.tags.Add(o.tags...)

	if m.names[scope] == nil {
		m.names[scope] = make(map[string]string)
	}
	m.names[scope][name] = h.id
	m.elements[h.id] = e
	m.order = append(m.order, h.id)
	m.children[parent] = append(m.children[parent], h.id)
	return nil
}

func (m *Model) nextID() string {
	m.seq++
	return strconv.Itoa(m.seq)
}

// mutable fails once the model is sealed.
func (m *Model) mutable() error {
	if m.sealed {
		return errors.New(errors.ErrCodeModelSealed, "model is sealed; views have already been derived from it")
	}
	return nil
}

// resolve turns a handle into an element of this model. A zero want accepts
// any kind.
func (m *Model) resolve(h handle, want Kind) (Element, error) {
	if h.isZero() {
		return nil, errors.New(errors.ErrCodeUnknownElement, "element reference is not set")
	}
	if h.owner != m.id {
		return nil, errors.New(errors.ErrCodeUnknownElement, "element %s belongs to another model", h.id)
	}
	e, ok := m.elements[h.id]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownElement, "no element with ID %s", h.id)
	}
	if want != 0 && e.Kind() != want {
		return nil, errors.New(errors.ErrCodeUnknownElement, "element %s (%q) is a %s, not a %s", h.id, e.Name(), e.Kind(), want)
	}
	return e, nil
}
