// Package io exports a built workspace for external collaborators.
//
// # Overview
//
// [FromWorkspace] converts a workspace into a [Document], a plain value with
// json and bson tags. The document is what the CLI writes to disk, what the
// HTTP server returns and what publishers upload:
//
//	{
//	  "id": "5f0c...",
//	  "name": "Coding Contest",
//	  "model": {
//	    "people": [{"id": "1", "name": "Contest Participant", "tags": "Element,Person", ...}],
//	    "softwareSystems": [{"id": "3", "containers": [...], ...}],
//	    "deploymentNodes": [{"id": "30", "children": [...], "containerInstances": [...]}]
//	  },
//	  "views": {"systemLandscapeViews": [...], "containerViews": [...], "deploymentViews": [...]},
//	  "configuration": {"styles": {"elements": [...]}, "themes": ["https://..."]}
//	}
//
// Containers appear under their software system, nested deployment nodes
// under their parent node and relationships under their source element.
// Tag lists are joined with ","; the model rejects tags containing commas.
//
// # JSON
//
// Use [ExportJSON] to write a file, [WriteJSON] to write to any io.Writer or
// [MarshalJSON] for the raw bytes. All three produce identical output.
//
// # HCL
//
// [WriteHCL] renders the same document as HCL blocks for tooling that
// prefers it over JSON.
package io
