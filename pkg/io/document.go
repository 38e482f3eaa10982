package io

import (
	"strings"

	"github.com/matzehuels/archscape/pkg/model"
	"github.com/matzehuels/archscape/pkg/style"
	"github.com/matzehuels/archscape/pkg/view"
	"github.com/matzehuels/archscape/pkg/workspace"
)

// Document is the wire form of a workspace. It is what the CLI writes to
// workspace.json, what the HTTP server returns and what publishers upload.
type Document struct {
	ID            string        `json:"id" bson:"_id"`
	Name          string        `json:"name" bson:"name"`
	Description   string        `json:"description,omitempty" bson:"description,omitempty"`
	Model         ModelDoc      `json:"model" bson:"model"`
	Views         ViewsDoc      `json:"views" bson:"views"`
	Configuration Configuration `json:"configuration" bson:"configuration"`
}

// ModelDoc lists the top-level elements. Containers, nested deployment nodes
// and container instances appear under their parents.
type ModelDoc struct {
	People          []Person         `json:"people,omitempty" bson:"people,omitempty"`
	SoftwareSystems []SoftwareSystem `json:"softwareSystems,omitempty" bson:"softwareSystems,omitempty"`
	DeploymentNodes []DeploymentNode `json:"deploymentNodes,omitempty" bson:"deploymentNodes,omitempty"`
}

// Element holds the fields shared by every element. Tags are joined with ",".
type Element struct {
	ID            string         `json:"id" bson:"id"`
	Name          string         `json:"name" bson:"name"`
	Description   string         `json:"description,omitempty" bson:"description,omitempty"`
	Tags          string         `json:"tags,omitempty" bson:"tags,omitempty"`
	URL           string         `json:"url,omitempty" bson:"url,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty" bson:"relationships,omitempty"`
}

type Person struct {
	Element  `bson:",inline"`
	Location string `json:"location,omitempty" bson:"location,omitempty"`
}

type SoftwareSystem struct {
	Element    `bson:",inline"`
	Location   string      `json:"location,omitempty" bson:"location,omitempty"`
	Containers []Container `json:"containers,omitempty" bson:"containers,omitempty"`
}

type Container struct {
	Element    `bson:",inline"`
	Technology string `json:"technology,omitempty" bson:"technology,omitempty"`
}

type DeploymentNode struct {
	Element            `bson:",inline"`
	Technology         string              `json:"technology,omitempty" bson:"technology,omitempty"`
	Environment        string              `json:"environment" bson:"environment"`
	Instances          int                 `json:"instances" bson:"instances"`
	Children           []DeploymentNode    `json:"children,omitempty" bson:"children,omitempty"`
	ContainerInstances []ContainerInstance `json:"containerInstances,omitempty" bson:"containerInstances,omitempty"`
}

type ContainerInstance struct {
	ID          string `json:"id" bson:"id"`
	ContainerID string `json:"containerId" bson:"containerId"`
	Environment string `json:"environment" bson:"environment"`
	Tags        string `json:"tags,omitempty" bson:"tags,omitempty"`
}

type Relationship struct {
	ID            string `json:"id" bson:"id"`
	SourceID      string `json:"sourceId" bson:"sourceId"`
	DestinationID string `json:"destinationId" bson:"destinationId"`
	Description   string `json:"description,omitempty" bson:"description,omitempty"`
	Technology    string `json:"technology,omitempty" bson:"technology,omitempty"`
	Tags          string `json:"tags,omitempty" bson:"tags,omitempty"`
}

// ViewsDoc groups the built views by kind, each list in build order.
type ViewsDoc struct {
	SystemLandscapeViews []ViewDoc `json:"systemLandscapeViews,omitempty" bson:"systemLandscapeViews,omitempty"`
	ContainerViews       []ViewDoc `json:"containerViews,omitempty" bson:"containerViews,omitempty"`
	DeploymentViews      []ViewDoc `json:"deploymentViews,omitempty" bson:"deploymentViews,omitempty"`
}

type ViewDoc struct {
	Key              string      `json:"key" bson:"key"`
	Description      string      `json:"description,omitempty" bson:"description,omitempty"`
	SoftwareSystemID string      `json:"softwareSystemId,omitempty" bson:"softwareSystemId,omitempty"`
	Environment      string      `json:"environment,omitempty" bson:"environment,omitempty"`
	Elements         []Ref       `json:"elements" bson:"elements"`
	Relationships    []Ref       `json:"relationships" bson:"relationships"`
	Implied          []Implied   `json:"impliedRelationships,omitempty" bson:"impliedRelationships,omitempty"`
	AutomaticLayout  *AutoLayout `json:"automaticLayout,omitempty" bson:"automaticLayout,omitempty"`
}

// Implied is an edge a view derives from relationships between hidden
// descendants of its elements. LinkedRelationshipIDs name those relationships.
type Implied struct {
	SourceID              string   `json:"sourceId" bson:"sourceId"`
	DestinationID         string   `json:"destinationId" bson:"destinationId"`
	Description           string   `json:"description,omitempty" bson:"description,omitempty"`
	LinkedRelationshipIDs []string `json:"linkedRelationshipIds" bson:"linkedRelationshipIds"`
}

// Ref points at an element, container instance or relationship by ID.
type Ref struct {
	ID string `json:"id" bson:"id"`
}

type AutoLayout struct {
	RankDirection string `json:"rankDirection" bson:"rankDirection"`
}

// Configuration carries the explicit style rules and the applied themes.
// Theme rules are not expanded; consumers fetch them from the theme URLs.
type Configuration struct {
	Styles Styles   `json:"styles" bson:"styles"`
	Themes []string `json:"themes,omitempty" bson:"themes,omitempty"`
}

type Styles struct {
	Elements      []Style `json:"elements,omitempty" bson:"elements,omitempty"`
	Relationships []Style `json:"relationships,omitempty" bson:"relationships,omitempty"`
}

type Style struct {
	Tag              string `json:"tag" bson:"tag"`
	style.Attributes `bson:",inline"`
}

// FromWorkspace converts a built workspace into its wire document. The
// document is a snapshot: later changes to ws are not reflected.
func FromWorkspace(ws *workspace.Workspace) Document {
	m := ws.Model
	doc := Document{
		ID:          ws.ID.String(),
		Name:        ws.Name,
		Description: ws.Description,
	}

	for _, p := range m.People() {
		doc.Model.People = append(doc.Model.People, Person{
			Element:  element(m, p),
			Location: p.Location().String(),
		})
	}
	for _, s := range m.SoftwareSystems() {
		sd := SoftwareSystem{Element: element(m, s), Location: s.Location().String()}
		for _, child := range m.ChildrenOf(s.ID()) {
			c, ok := child.(*model.Container)
			if !ok {
				continue
			}
			sd.Containers = append(sd.Containers, Container{
				Element:    element(m, c),
				Technology: c.Technology(),
			})
		}
		doc.Model.SoftwareSystems = append(doc.Model.SoftwareSystems, sd)
	}
	for _, n := range m.DeploymentNodes() {
		doc.Model.DeploymentNodes = append(doc.Model.DeploymentNodes, deploymentNode(m, n))
	}

	for _, v := range ws.Views.All() {
		vd := viewDoc(v)
		switch v.Kind() {
		case view.KindSystemLandscape:
			doc.Views.SystemLandscapeViews = append(doc.Views.SystemLandscapeViews, vd)
		case view.KindContainer:
			doc.Views.ContainerViews = append(doc.Views.ContainerViews, vd)
		case view.KindDeployment:
			doc.Views.DeploymentViews = append(doc.Views.DeploymentViews, vd)
		}
	}

	doc.Configuration.Styles.Elements = styles(ws.Styles.ElementStyles())
	doc.Configuration.Styles.Relationships = styles(ws.Styles.RelationshipStyles())
	doc.Configuration.Themes = ws.Styles.Themes()
	return doc
}

func element(m *model.Model, e model.Element) Element {
	out := Element{
		ID:          e.ID(),
		Name:        e.Name(),
		Description: e.Description(),
		Tags:        joinTags(e.Tags()),
		URL:         e.URL(),
	}
	ref, ok := m.Ref(e)
	if !ok {
		return out
	}
	for r := range m.Outgoing(ref) {
		out.Relationships = append(out.Relationships, relationship(r))
	}
	return out
}

func deploymentNode(m *model.Model, n *model.DeploymentNode) DeploymentNode {
	out := DeploymentNode{
		Element:     element(m, n),
		Technology:  n.Technology(),
		Environment: n.Environment(),
		Instances:   n.Instances(),
	}
	for _, child := range m.ChildrenOf(n.ID()) {
		if c, ok := child.(*model.DeploymentNode); ok {
			out.Children = append(out.Children, deploymentNode(m, c))
		}
	}
	for _, in := range m.InstancesOn(n.ID()) {
		out.ContainerInstances = append(out.ContainerInstances, ContainerInstance{
			ID:          in.ID(),
			ContainerID: in.ContainerID(),
			Environment: n.Environment(),
			Tags:        joinTags(in.Tags()),
		})
	}
	return out
}

func relationship(r *model.Relationship) Relationship {
	return Relationship{
		ID:            r.ID(),
		SourceID:      r.SourceID(),
		DestinationID: r.DestinationID(),
		Description:   r.Description(),
		Technology:    r.Technology(),
		Tags:          joinTags(r.Tags()),
	}
}

func viewDoc(v *view.View) ViewDoc {
	out := ViewDoc{
		Key:           v.Key(),
		Description:   v.Description(),
		Elements:      []Ref{},
		Relationships: []Ref{},
	}
	if s := v.Scope(); s != nil {
		out.SoftwareSystemID = s.ID()
	}
	if v.Kind() == view.KindDeployment {
		out.Environment = v.Environment()
	}
	for _, e := range v.Elements() {
		out.Elements = append(out.Elements, Ref{ID: e.ID()})
	}
	for _, in := range v.Instances() {
		out.Elements = append(out.Elements, Ref{ID: in.ID()})
	}
	for _, r := range v.Relationships() {
		out.Relationships = append(out.Relationships, Ref{ID: r.ID()})
	}
	for _, r := range v.ImpliedRelationships() {
		im := Implied{SourceID: r.SourceID, DestinationID: r.DestinationID, Description: r.Description()}
		for _, via := range r.Via {
			im.LinkedRelationshipIDs = append(im.LinkedRelationshipIDs, via.ID())
		}
		out.Implied = append(out.Implied, im)
	}
	if dir, ok := v.AutoLayout(); ok {
		out.AutomaticLayout = &AutoLayout{RankDirection: string(dir)}
	}
	return out
}

func styles(rules []style.Rule) []Style {
	out := make([]Style, 0, len(rules))
	for _, r := range rules {
		out = append(out, Style{Tag: r.Tag, Attributes: r.Attributes})
	}
	return out
}

func joinTags(tags []string) string { return strings.Join(tags, ",") }

func splitTags(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}
