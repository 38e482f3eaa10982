// Package model provides the architecture graph: people, software systems,
// containers and deployment nodes connected by directed relationships.
//
// # Overview
//
// A [Model] is populated once at startup through explicit calls on the
// model value; there is no package-level registry. Every Add method returns
// an opaque, typed handle ([PersonRef], [SystemRef], [ContainerRef],
// [DeploymentNodeRef]) that later calls use to refer to the element:
//
//	m := model.New()
//	admin, _ := m.AddPerson("Administrator", "", model.LocationInternal)
//	platform, _ := m.AddSoftwareSystem("Coding Contest Platform", "")
//	api, _ := m.AddContainer(platform, "API", "serves contests", "Spring Boot")
//	_, _ = m.Connect(admin, api, "manages", "HTTPS")
//
// Handles carry the identity of the model that issued them. Passing a handle
// from one model to another fails with UNKNOWN_ELEMENT instead of silently
// wiring unrelated graphs together.
//
// # Containment
//
// Two containment relations are tracked independently:
//
//   - the structural tree: software systems own containers, deployment
//     nodes own nested deployment nodes ([Model.Parent], [Model.Children])
//   - deployment placement: [Model.Place] puts a container instance on a
//     deployment node without changing the container's structural parent
//
// Names are unique among siblings only. People and software systems share
// the top-level namespace; containers are unique per software system;
// deployment nodes are unique per parent node or, at the top level, per
// environment. A collision fails with DUPLICATE_IDENTITY.
//
// # Tags
//
// Elements, relationships and instances carry an insertion-ordered tag set.
// Each record starts with its default tags ("Element", "Container", ...),
// so user tags added later win during style resolution. [Model.Tag] is
// idempotent.
//
// # Lifecycle
//
// The model is write-once: there is no update or delete. [Model.Seal]
// freezes it before views are derived; afterwards all mutators fail with
// MODEL_SEALED and the model can be shared across goroutines for reading.
package model
