package model

import (
	"fmt"

	"github.com/matzehuels/archscape/pkg/errors"
)

// Instance is a container placed on a deployment node. Placement is a
// second containment relation, independent of the structural tree: the
// container still belongs to its software system.
type Instance struct {
	id        string
	container string
	node      string
	tags      Tags
}

func (i *Instance) ID() string             { return i.id }
func (i *Instance) ContainerID() string    { return i.container }
func (i *Instance) NodeID() string         { return i.node }
func (i *Instance) Tags() []string         { return i.tags.List() }
func (i *Instance) HasTag(tag string) bool { return i.tags.Has(tag) }

// Place records that container c is deployed on node. Placing the same
// container twice on one node fails with DUPLICATE_IDENTITY; the same
// container may be placed on several nodes.
//
// With [InheritTags] the container's custom tags are copied to the instance
// after the default "Container Instance" tag, followed by any [WithTags].
func (m *Model) Place(node DeploymentNodeRef, c ContainerRef, opts ...Option) (InstanceRef, error) {
	if err := m.mutable(); err != nil {
		return InstanceRef{}, err
	}
	n, err := m.resolve(node.h, KindDeploymentNode)
	if err != nil {
		return InstanceRef{}, fmt.Errorf("place container: %w", err)
	}
	ct, err := m.resolve(c.h, KindContainer)
	if err != nil {
		return InstanceRef{}, fmt.Errorf("place container on %q: %w", n.Name(), err)
	}
	for _, id := range m.hosted[n.ID()] {
		if m.instances[id].container == ct.ID() {
			return InstanceRef{}, errors.New(errors.ErrCodeDuplicateIdentity,
				"container %q is already placed on %q", ct.Name(), n.Name())
		}
	}
	o := collect(opts)
	for _, tag := range o.tags {
		if err := errors.ValidateTag(tag); err != nil {
			return InstanceRef{}, fmt.Errorf("place %q on %q: %w", ct.Name(), n.Name(), err)
		}
	}

	in := &Instance{id: m.nextID(), container: ct.ID(), node: n.ID()}
	in.tags.Add(TagContainerInstance)
	if o.inheritTags {
		for _, tag := range ct.Tags() {
			if !IsDefaultTag(tag) {
				in.tags.Add(tag)
			}
		}
	}
	in.tags.Add(o.tags...)

	m.instances[in.id] = in
	m.instOrder = append(m.instOrder, in.id)
	m.hosted[n.ID()] = append(m.hosted[n.ID()], in.id)
	m.placements[ct.ID()] = append(m.placements[ct.ID()], in.id)
	return InstanceRef{m.handle(in.id)}, nil
}

// Instances returns every container instance in creation order.
func (m *Model) Instances() []*Instance {
	out := make([]*Instance, len(m.instOrder))
	for i, id := range m.instOrder {
		out[i] = m.instances[id]
	}
	return out
}

// InstanceByID looks up an instance.
func (m *Model) InstanceByID(id string) (*Instance, bool) {
	in, ok := m.instances[id]
	return in, ok
}

// InstancesOn returns the instances hosted directly on the node with the
// given ID, in placement order.
func (m *Model) InstancesOn(nodeID string) []*Instance {
	ids := m.hosted[nodeID]
	out := make([]*Instance, len(ids))
	for i, id := range ids {
		out[i] = m.instances[id]
	}
	return out
}

// PlacementsOf returns every instance of the container with the given ID.
func (m *Model) PlacementsOf(containerID string) []*Instance {
	ids := m.placements[containerID]
	out := make([]*Instance, len(ids))
	for i, id := range ids {
		out[i] = m.instances[id]
	}
	return out
}
