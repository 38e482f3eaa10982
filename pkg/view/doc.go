// Package view derives frozen, named subsets of an architecture model for
// presentation.
//
// A [Set] is created over a model and seals it. Each view starts as a
// [Builder] obtained from the set; include calls grow the snapshot,
// exclusions are recorded, and [Builder.Build] produces an immutable [View]:
//
//	views := view.NewSet(m)
//	b, _ := views.Container(platform, "ccp", "Coding Contest Platform")
//	_ = b.IncludeContainersAndInfluencers()
//	_ = b.IncludePeople()
//	_ = b.ExcludeByTag("AzureInfrastructure")
//	v, _ := b.Build()
//
// Every relationship of a built view connects two elements of the view;
// exclusion removes dangling relationships, instances on removed nodes and
// nodes whose parent was removed. Relationships between hidden descendants
// surface as [ImpliedRelationship] edges between the visible ancestors.
package view
