package view

import (
	"slices"

	"github.com/matzehuels/archscape/pkg/model"
)

// Kind is the type of diagram a view describes.
type Kind int

const (
	// KindSystemLandscape shows people and software systems.
	KindSystemLandscape Kind = iota + 1
	// KindContainer shows the containers of one software system and their
	// neighbours.
	KindContainer
	// KindDeployment shows deployment nodes and the container instances
	// placed on them for one environment.
	KindDeployment
)

func (k Kind) String() string {
	switch k {
	case KindSystemLandscape:
		return "SystemLandscape"
	case KindContainer:
		return "Container"
	case KindDeployment:
		return "Deployment"
	default:
		return "Unknown"
	}
}

// RankDirection is the automatic layout hint passed to the renderer.
type RankDirection string

const (
	TopBottom RankDirection = "TopBottom"
	BottomTop RankDirection = "BottomTop"
	LeftRight RankDirection = "LeftRight"
	RightLeft RankDirection = "RightLeft"
)

func (d RankDirection) valid() bool {
	switch d {
	case TopBottom, BottomTop, LeftRight, RightLeft:
		return true
	}
	return false
}

// View is a frozen subset of the model prepared for one diagram. It has no
// mutators and may be shared between goroutines.
type View struct {
	key         string
	kind        Kind
	description string
	scope       model.Element
	environment string
	layout      RankDirection

	elements      []model.Element
	index         map[string]struct{}
	relationships []*model.Relationship
	implied       []ImpliedRelationship
	instances     []*model.Instance
}

// ImpliedRelationship connects two elements of a view on behalf of model
// relationships between their descendants. Via holds those relationships in
// creation order; the first one supplies label and style.
type ImpliedRelationship struct {
	SourceID      string
	DestinationID string
	Via           []*model.Relationship
}

func (r ImpliedRelationship) Description() string { return r.Via[0].Description() }
func (r ImpliedRelationship) Technology() string  { return r.Via[0].Technology() }

func (v *View) Key() string         { return v.key }
func (v *View) Kind() Kind          { return v.kind }
func (v *View) Description() string { return v.description }

// Scope returns the software system the view is relative to, or nil.
func (v *View) Scope() model.Element { return v.scope }

// Environment returns the deployment environment; empty for non-deployment views.
func (v *View) Environment() string { return v.environment }

// Elements returns the view's elements in model creation order.
func (v *View) Elements() []model.Element { return slices.Clone(v.elements) }

// Relationships returns the view's relationships in model creation order.
// Both endpoints of every relationship are part of the view (for
// deployment views: both containers have an instance in the view).
func (v *View) Relationships() []*model.Relationship { return slices.Clone(v.relationships) }

// ImpliedRelationships returns the edges lifted from relationships between
// elements the view does not show. Landscape views connect people to
// systems this way when the model only relates them to containers.
// Deployment views have none.
func (v *View) ImpliedRelationships() []ImpliedRelationship { return slices.Clone(v.implied) }

// Instances returns the container instances of a deployment view.
func (v *View) Instances() []*model.Instance { return slices.Clone(v.instances) }

// Contains reports whether the element with the given ID is in the view.
func (v *View) Contains(id string) bool {
	_, ok := v.index[id]
	return ok
}

// AutoLayout returns the layout direction, if one was requested.
func (v *View) AutoLayout() (RankDirection, bool) {
	return v.layout, v.layout != ""
}
