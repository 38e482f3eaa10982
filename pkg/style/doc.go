// Package style maps tags to presentation attributes.
//
// Elements and relationships carry insertion-ordered tag lists (see
// package model). An [Index] stores one rule per tag and resolves a tag list
// by overlaying each tag's rule in list order:
//
//	idx := style.NewIndex()
//	idx.DefineElementStyle("Database", style.Attributes{Shape: style.ShapeCylinder})
//	idx.DefineElementStyle("Spring", style.Attributes{Background: "#6DB33F", Color: "#000000"})
//	a := idx.ResolveElement([]string{"Element", "Container", "Database", "Spring"})
//	// a.Shape == Cylinder, a.Background == "#6DB33F"
//
// Because models add their default tags ("Element", "Container", ...) first,
// rules for custom tags always override rules for default tags.
//
// A [Theme] contributes a lower-precedence layer of rules, loaded from TOML.
package style
