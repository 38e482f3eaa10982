package model

// Element returns the element behind ref, or false if ref is unset,
// foreign or unknown.
func (m *Model) Element(ref Endpoint) (Element, bool) {
	e, err := m.resolve(ref.endpoint(), 0)
	return e, err == nil
}

// ElementByID looks up an element by ID.
func (m *Model) ElementByID(id string) (Element, bool) {
	e, ok := m.elements[id]
	return e, ok
}

// Parent returns the structural parent of ref. Top-level elements have none.
func (m *Model) Parent(ref Endpoint) (Element, bool) {
	e, ok := m.Element(ref)
	if !ok || e.ParentID() == "" {
		return nil, false
	}
	return m.ElementByID(e.ParentID())
}

// Children returns the structural children of ref in creation order:
// containers of a software system, nested nodes of a deployment node.
// Container instances are not children; see [Model.InstancesOn].
func (m *Model) Children(ref Endpoint) []Element {
	e, ok := m.Element(ref)
	if !ok {
		return nil
	}
	return m.ChildrenOf(e.ID())
}

// ChildrenOf returns the children of the element with the given ID. The
// empty ID returns the top-level elements.
func (m *Model) ChildrenOf(id string) []Element {
	ids := m.children[id]
	out := make([]Element, len(ids))
	for i, cid := range ids {
		out[i] = m.elements[cid]
	}
	return out
}

// IsDescendant reports whether the element with the given ID sits below
// ancestorID in the structural tree. An element is not its own descendant.
func (m *Model) IsDescendant(id, ancestorID string) bool {
	e, ok := m.elements[id]
	for ok && e.ParentID() != "" {
		if e.ParentID() == ancestorID {
			return true
		}
		e, ok = m.elements[e.ParentID()]
	}
	return false
}

// AllElements returns every element in creation order.
func (m *Model) AllElements() []Element {
	out := make([]Element, len(m.order))
	for i, id := range m.order {
		out[i] = m.elements[id]
	}
	return out
}

// People returns every person in creation order.
func (m *Model) People() []*Person { return ofKind[*Person](m) }

// SoftwareSystems returns every software system in creation order.
func (m *Model) SoftwareSystems() []*SoftwareSystem { return ofKind[*SoftwareSystem](m) }

// Containers returns every container in creation order.
func (m *Model) Containers() []*Container { return ofKind[*Container](m) }

// DeploymentNodes returns the top-level deployment nodes in creation order.
// Nested nodes are reachable through [Model.ChildrenOf].
func (m *Model) DeploymentNodes() []*DeploymentNode {
	var out []*DeploymentNode
	for _, id := range m.children[""] {
		if d, ok := m.elements[id].(*DeploymentNode); ok {
			out = append(out, d)
		}
	}
	return out
}

// ElementCount returns the number of elements.
func (m *Model) ElementCount() int { return len(m.order) }

// RelationshipCount returns the number of relationships.
func (m *Model) RelationshipCount() int { return len(m.relOrder) }

func ofKind[T Element](m *Model) []T {
	var out []T
	for _, id := range m.order {
		if e, ok := m.elements[id].(T); ok {
			out = append(out, e)
		}
	}
	return out
}
