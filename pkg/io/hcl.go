package io

import (
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/matzehuels/archscape/pkg/workspace"
)

// WriteHCL writes the workspace document as HCL. Every element becomes a
// labelled block keyed by its ID, nested the same way as in the JSON
// document; relationships and views reference elements by ID.
//
//	workspace "Coding Contest" {
//	  person "1" {
//	    name     = "Contest Participant"
//	    location = "External"
//	    tags     = ["Element", "Person"]
//	  }
//	  ...
//	}
func WriteHCL(ws *workspace.Workspace, w io.Writer) error {
	if _, err := w.Write(MarshalHCL(ws)); err != nil {
		return fmt.Errorf("write hcl: %w", err)
	}
	return nil
}

// MarshalHCL returns the HCL rendition of ws.
func MarshalHCL(ws *workspace.Workspace) []byte {
	doc := FromWorkspace(ws)

	f := hclwrite.NewEmptyFile()
	root := f.Body().AppendNewBlock("workspace", []string{doc.Name})
	body := root.Body()
	setString(body, "id", doc.ID)
	setString(body, "description", doc.Description)

	for _, p := range doc.Model.People {
		b := elementBlock(body, "person", p.Element)
		setString(b, "location", p.Location)
	}
	for _, s := range doc.Model.SoftwareSystems {
		b := elementBlock(body, "software_system", s.Element)
		setString(b, "location", s.Location)
		for _, c := range s.Containers {
			cb := elementBlock(b, "container", c.Element)
			setString(cb, "technology", c.Technology)
		}
	}
	for _, n := range doc.Model.DeploymentNodes {
		deploymentBlock(body, n)
	}

	for _, group := range []struct {
		kind  string
		views []ViewDoc
	}{
		{"system_landscape_view", doc.Views.SystemLandscapeViews},
		{"container_view", doc.Views.ContainerViews},
		{"deployment_view", doc.Views.DeploymentViews},
	} {
		for _, v := range group.views {
			viewBlock(body, group.kind, v)
		}
	}

	for _, s := range doc.Configuration.Styles.Elements {
		styleBlock(body, "element_style", s)
	}
	for _, s := range doc.Configuration.Styles.Relationships {
		styleBlock(body, "relationship_style", s)
	}
	if len(doc.Configuration.Themes) > 0 {
		body.SetAttributeValue("themes", stringList(doc.Configuration.Themes))
	}
	return f.Bytes()
}

func elementBlock(parent *hclwrite.Body, kind string, e Element) *hclwrite.Body {
	b := parent.AppendNewBlock(kind, []string{e.ID}).Body()
	setString(b, "name", e.Name)
	setString(b, "description", e.Description)
	setString(b, "url", e.URL)
	setTags(b, e.Tags)
	for _, r := range e.Relationships {
		rb := b.AppendNewBlock("relationship", []string{r.ID}).Body()
		setString(rb, "destination", r.DestinationID)
		setString(rb, "description", r.Description)
		setString(rb, "technology", r.Technology)
		setTags(rb, r.Tags)
	}
	return b
}

func deploymentBlock(parent *hclwrite.Body, n DeploymentNode) {
	b := elementBlock(parent, "deployment_node", n.Element)
	setString(b, "technology", n.Technology)
	setString(b, "environment", n.Environment)
	b.SetAttributeValue("instances", cty.NumberIntVal(int64(n.Instances)))
	for _, in := range n.ContainerInstances {
		ib := b.AppendNewBlock("container_instance", []string{in.ID}).Body()
		setString(ib, "container", in.ContainerID)
		setTags(ib, in.Tags)
	}
	for _, c := range n.Children {
		deploymentBlock(b, c)
	}
}

func viewBlock(parent *hclwrite.Body, kind string, v ViewDoc) {
	b := parent.AppendNewBlock(kind, []string{v.Key}).Body()
	setString(b, "description", v.Description)
	setString(b, "software_system", v.SoftwareSystemID)
	setString(b, "environment", v.Environment)
	b.SetAttributeValue("elements", refList(v.Elements))
	b.SetAttributeValue("relationships", refList(v.Relationships))
	for _, im := range v.Implied {
		ib := b.AppendNewBlock("implied_relationship", []string{im.SourceID, im.DestinationID}).Body()
		setString(ib, "description", im.Description)
		ib.SetAttributeValue("via", stringList(im.LinkedRelationshipIDs))
	}
	if v.AutomaticLayout != nil {
		setString(b, "rank_direction", v.AutomaticLayout.RankDirection)
	}
}

func styleBlock(parent *hclwrite.Body, kind string, s Style) {
	b := parent.AppendNewBlock(kind, []string{s.Tag}).Body()
	a := s.Attributes
	setString(b, "shape", string(a.Shape))
	setString(b, "background", a.Background)
	setString(b, "color", a.Color)
	setString(b, "stroke", a.Stroke)
	setString(b, "icon", a.Icon)
	setString(b, "border", string(a.Border))
	setInt(b, "font_size", a.FontSize)
	setInt(b, "width", a.Width)
	if a.Opacity != nil {
		b.SetAttributeValue("opacity", cty.NumberIntVal(int64(*a.Opacity)))
	}
	setInt(b, "thickness", a.Thickness)
	if a.Dashed != nil {
		b.SetAttributeValue("dashed", cty.BoolVal(*a.Dashed))
	}
}

func setString(body *hclwrite.Body, name, value string) {
	if value != "" {
		body.SetAttributeValue(name, cty.StringVal(value))
	}
}

func setInt(body *hclwrite.Body, name string, value int) {
	if value != 0 {
		body.SetAttributeValue(name, cty.NumberIntVal(int64(value)))
	}
}

func setTags(body *hclwrite.Body, joined string) {
	if joined == "" {
		return
	}
	body.SetAttributeValue("tags", stringList(splitTags(joined)))
}

func stringList(values []string) cty.Value {
	if len(values) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	out := make([]cty.Value, len(values))
	for i, v := range values {
		out[i] = cty.StringVal(v)
	}
	return cty.ListVal(out)
}

func refList(refs []Ref) cty.Value {
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	return stringList(ids)
}
