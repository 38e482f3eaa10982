package view

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/archscape/pkg/errors"
	"github.com/matzehuels/archscape/pkg/model"
)

func names(v *View) []string {
	var out []string
	for _, e := range v.Elements() {
		out = append(out, e.Name())
	}
	return out
}

func mustBuild(t *testing.T, b *Builder, err error) *View {
	t.Helper()
	if err != nil {
		t.Fatalf("open view: %v", err)
	}
	v, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return v
}

func TestContainersAndInfluencersScenario(t *testing.T) {
	m := model.New()
	admin, _ := m.AddPerson("Admin", "", model.LocationInternal)
	bob, _ := m.AddPerson("Bob", "", model.LocationExternal)
	platform, _ := m.AddSoftwareSystem("Platform", "")
	other, _ := m.AddSoftwareSystem("Other", "")
	api, _ := m.AddContainer(platform, "API", "", "")
	manages, _ := m.Connect(admin, api, "manages", "")
	m.Connect(other, admin, "notifies", "")
	m.Connect(bob, other, "uses", "")

	b, err := NewSet(m).Container(platform, "ccp", "")
	if err != nil {
		t.Fatalf("Container: %v", err)
	}
	if err := b.IncludeContainersAndInfluencers(); err != nil {
		t.Fatalf("IncludeContainersAndInfluencers: %v", err)
	}
	if err := b.IncludePeople(); err != nil {
		t.Fatalf("IncludePeople: %v", err)
	}
	v := mustBuild(t, b, nil)

	if diff := cmp.Diff([]string{"Admin", "Platform", "API"}, names(v)); diff != "" {
		t.Errorf("Elements() mismatch (-want +got):\n%s", diff)
	}
	rels := v.Relationships()
	if len(rels) != 1 || rels[0].ID() != manages.ID() {
		t.Errorf("Relationships() = %v, want only %q", rels, "manages")
	}
	if v.Scope() == nil || v.Scope().Name() != "Platform" {
		t.Errorf("Scope() = %v, want Platform", v.Scope())
	}
}

func TestExcludeByTagScenario(t *testing.T) {
	m := model.New()
	sys, _ := m.AddSoftwareSystem("Platform", "")
	app, _ := m.AddContainer(sys, "App", "", "")
	db1, _ := m.AddContainer(sys, "Users DB", "", "", model.WithTags("Database"))
	db2, _ := m.AddContainer(sys, "Contest DB", "", "", model.WithTags("Database"))
	m.Connect(app, db1, "reads", "JDBC")
	m.Connect(app, db2, "reads", "JDBC")
	m.Connect(db1, db2, "replicates", "")
	self, _ := m.Connect(app, app, "schedules", "")

	b, err := NewSet(m).Container(sys, "noDb", "")
	if err != nil {
		t.Fatalf("Container: %v", err)
	}
	b.Include(app, db1, db2)
	b.ExcludeByTag("Database")
	v := mustBuild(t, b, nil)

	if diff := cmp.Diff([]string{"App"}, names(v)); diff != "" {
		t.Errorf("Elements() mismatch (-want +got):\n%s", diff)
	}
	rels := v.Relationships()
	if len(rels) != 1 || rels[0].ID() != self.ID() {
		t.Errorf("Relationships() = %d, want only the self loop", len(rels))
	}
}

func TestExcludeIsCommutative(t *testing.T) {
	build := func(excludeFirst bool) []string {
		m := model.New()
		u, _ := m.AddPerson("User", "", model.LocationExternal)
		sys, _ := m.AddSoftwareSystem("Platform", "")
		api, _ := m.AddContainer(sys, "API", "", "")
		infra, _ := m.AddContainer(sys, "Vault", "", "", model.WithTags("Infra"))
		m.Connect(u, api, "uses", "")
		m.Connect(api, infra, "reads secrets", "")

		b, _ := NewSet(m).Container(sys, "v", "")
		if excludeFirst {
			b.ExcludeByTag("Infra")
		}
		b.IncludeContainersAndInfluencers()
		b.IncludePeople()
		if !excludeFirst {
			b.ExcludeByTag("Infra")
		}
		v, _ := b.Build()
		return names(v)
	}

	if diff := cmp.Diff(build(false), build(true)); diff != "" {
		t.Errorf("exclusion order changed the view (-after +before):\n%s", diff)
	}
}

func TestExcludeNeverReexpands(t *testing.T) {
	m := model.New()
	sys, _ := m.AddSoftwareSystem("Platform", "")
	gw, _ := m.AddContainer(sys, "Gateway", "", "", model.WithTags("Edge"))
	ext, _ := m.AddSoftwareSystem("Partner", "")
	far, _ := m.AddSoftwareSystem("Far Away", "")
	m.Connect(ext, gw, "calls", "")
	m.Connect(far, ext, "feeds", "")

	b, _ := NewSet(m).Container(sys, "v", "")
	b.IncludeContainersAndInfluencers()
	b.ExcludeByTag("Edge")
	v := mustBuild(t, b, nil)

	if v.Contains(far.ID()) {
		t.Error("exclusion pulled in an element two hops away")
	}
	if !v.Contains(ext.ID()) {
		t.Error("partner included before exclusion should stay")
	}
}

func TestDanglingEdgeCleanup(t *testing.T) {
	m := model.New()
	user, _ := m.AddPerson("User", "", model.LocationExternal)
	sys, _ := m.AddSoftwareSystem("Platform", "")
	web, _ := m.AddContainer(sys, "Web", "", "", model.WithTags("Frontend"))
	api, _ := m.AddContainer(sys, "API", "", "", model.WithTags("Backend"))
	db, _ := m.AddContainer(sys, "DB", "", "", model.WithTags("Backend", "Database"))
	mail, _ := m.AddSoftwareSystem("Mail", "", model.WithTags("External"))
	m.Connect(user, web, "browses", "")
	m.Connect(web, api, "calls", "")
	m.Connect(api, db, "queries", "")
	m.Connect(api, mail, "sends", "", model.WithTags("Async"))
	m.Connect(mail, user, "delivers", "")
	views := NewSet(m)

	for i, tag := range []string{"Frontend", "Backend", "Database", "External", "Async", "Person", "Container"} {
		b, err := views.Container(sys, "v"+string(rune('a'+i)), "")
		if err != nil {
			t.Fatalf("Container: %v", err)
		}
		b.IncludeAll()
		b.ExcludeByTag(tag)
		v := mustBuild(t, b, nil)

		for _, r := range v.Relationships() {
			if !v.Contains(r.SourceID()) || !v.Contains(r.DestinationID()) {
				t.Errorf("exclude %q: relationship %q has a missing endpoint", tag, r.Description())
			}
			if r.HasTag(tag) {
				t.Errorf("exclude %q: relationship %q still present", tag, r.Description())
			}
		}
		for _, e := range v.Elements() {
			if e.HasTag(tag) {
				t.Errorf("exclude %q: element %q still present", tag, e.Name())
			}
		}
	}
}

func TestBuildTwice(t *testing.T) {
	m := model.New()
	sys, _ := m.AddSoftwareSystem("Platform", "")
	m.AddContainer(sys, "API", "", "")

	b, _ := NewSet(m).Container(sys, "ccp", "")
	b.IncludeContainersAndInfluencers()
	first, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	before := names(first)

	if _, err := b.Build(); !errors.Is(err, errors.ErrCodeViewAlreadyBuilt) {
		t.Fatalf("second Build error = %v, want VIEW_ALREADY_BUILT", err)
	}

	calls := map[string]func() error{
		"IncludeAll":                      b.IncludeAll,
		"IncludePeople":                   b.IncludePeople,
		"IncludeContainersAndInfluencers": b.IncludeContainersAndInfluencers,
		"ExcludeByTag":                    func() error { return b.ExcludeByTag("Container") },
		"AutoLayout":                      func() error { return b.AutoLayout(LeftRight) },
		"Include":                         func() error { return b.Include(sys) },
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, errors.ErrCodeViewAlreadyBuilt) {
			t.Errorf("%s after Build error = %v, want VIEW_ALREADY_BUILT", name, err)
		}
	}

	if diff := cmp.Diff(before, names(first)); diff != "" {
		t.Errorf("first view changed (-before +after):\n%s", diff)
	}
}

func TestLandscapeIncludeAll(t *testing.T) {
	m := model.New()
	m.AddPerson("Participant", "", model.LocationExternal)
	sys, _ := m.AddSoftwareSystem("Platform", "")
	m.AddContainer(sys, "API", "", "")
	m.AddDeploymentNode(model.DeploymentNodeRef{}, "Azure", "", "")
	m.AddPerson("Admin", "", model.LocationInternal)

	b, err := NewSet(m).SystemLandscape("landscape", "")
	if err != nil {
		t.Fatalf("SystemLandscape: %v", err)
	}
	b.IncludeAll()
	b.AutoLayout(LeftRight)
	v := mustBuild(t, b, nil)

	if diff := cmp.Diff([]string{"Participant", "Platform", "Admin"}, names(v)); diff != "" {
		t.Errorf("Elements() mismatch (-want +got):\n%s", diff)
	}
	if dir, ok := v.AutoLayout(); !ok || dir != LeftRight {
		t.Errorf("AutoLayout() = %q, %v; want LeftRight, true", dir, ok)
	}
	if v.Kind() != KindSystemLandscape {
		t.Errorf("Kind() = %v, want %v", v.Kind(), KindSystemLandscape)
	}
}

// impliedEdges renders implied relationships as "Source -> Destination (n)".
func impliedEdges(m *model.Model, v *View) []string {
	var out []string
	for _, r := range v.ImpliedRelationships() {
		src, _ := m.ElementByID(r.SourceID)
		dst, _ := m.ElementByID(r.DestinationID)
		out = append(out, fmt.Sprintf("%s -> %s (%d)", src.Name(), dst.Name(), len(r.Via)))
	}
	return out
}

func TestLandscapeImpliedRelationships(t *testing.T) {
	m := model.New()
	user, _ := m.AddPerson("User", "", model.LocationExternal)
	admin, _ := m.AddPerson("Admin", "", model.LocationInternal)
	platform, _ := m.AddSoftwareSystem("Platform", "")
	partner, _ := m.AddSoftwareSystem("Partner", "")
	web, _ := m.AddContainer(platform, "Web", "", "")
	db, _ := m.AddContainer(platform, "DB", "", "")
	gateway, _ := m.AddContainer(partner, "Gateway", "", "")

	login, _ := m.Connect(user, web, "logs in", "HTTPS")
	m.Connect(user, db, "exports data", "")
	m.Connect(web, db, "reads", "SQL")
	m.Connect(web, gateway, "charges", "REST")
	m.Connect(admin, partner, "configures", "")
	m.Connect(admin, gateway, "rotates keys", "")
	m.Connect(admin, web, "audits", "", model.WithTags("Internal"))

	b, _ := NewSet(m).SystemLandscape("landscape", "")
	b.IncludeAll()
	b.ExcludeByTag("Internal")
	v := mustBuild(t, b, nil)

	want := []string{
		"User -> Platform (2)",
		"Platform -> Partner (1)",
	}
	if diff := cmp.Diff(want, impliedEdges(m, v)); diff != "" {
		t.Errorf("ImpliedRelationships() mismatch (-want +got):\n%s", diff)
	}
	if n := len(v.Relationships()); n != 1 {
		t.Errorf("Relationships() = %d, want only the explicit Admin -> Partner", n)
	}

	first := v.ImpliedRelationships()[0]
	if first.Via[0].ID() != login.ID() || first.Description() != "logs in" || first.Technology() != "HTTPS" {
		t.Errorf("first implied edge = %+v, want it labelled by %q", first, "logs in")
	}
	for _, r := range v.ImpliedRelationships() {
		if !v.Contains(r.SourceID) || !v.Contains(r.DestinationID) {
			t.Errorf("implied edge %s -> %s dangles", r.SourceID, r.DestinationID)
		}
	}
}

func TestContainerViewImpliesNothingToScope(t *testing.T) {
	m := model.New()
	user, _ := m.AddPerson("User", "", model.LocationExternal)
	platform, _ := m.AddSoftwareSystem("Platform", "")
	partner, _ := m.AddSoftwareSystem("Partner", "")
	web, _ := m.AddContainer(platform, "Web", "", "")
	vault, _ := m.AddContainer(platform, "Vault", "", "", model.WithTags("Infra"))
	gateway, _ := m.AddContainer(partner, "Gateway", "", "")
	m.Connect(user, web, "uses", "")
	m.Connect(user, vault, "reads", "")
	m.Connect(web, gateway, "charges", "")

	b, _ := NewSet(m).Container(platform, "ccp", "")
	b.Include(user, web, partner)
	b.ExcludeByTag("Infra")
	v := mustBuild(t, b, nil)

	if diff := cmp.Diff([]string{"Web -> Partner (1)"}, impliedEdges(m, v)); diff != "" {
		t.Errorf("ImpliedRelationships() mismatch (-want +got):\n%s", diff)
	}
}

func TestDeploymentViewHasNoImpliedRelationships(t *testing.T) {
	m := model.New()
	sys, _ := m.AddSoftwareSystem("Platform", "")
	api, _ := m.AddContainer(sys, "API", "", "")
	db, _ := m.AddContainer(sys, "DB", "", "")
	m.Connect(api, db, "reads", "")
	node, _ := m.AddDeploymentNode(model.DeploymentNodeRef{}, "VM", "", "")
	m.Place(node, api)

	b, _ := NewSet(m).Deployment(sys, "", "deploy", "")
	b.IncludeAll()
	v := mustBuild(t, b, nil)

	if n := len(v.ImpliedRelationships()); n != 0 {
		t.Errorf("ImpliedRelationships() = %d, want 0", n)
	}
}

func TestContainerIncludeAllIsTransitive(t *testing.T) {
	m := model.New()
	sys, _ := m.AddSoftwareSystem("Platform", "")
	api, _ := m.AddContainer(sys, "API", "", "")
	partner, _ := m.AddSoftwareSystem("Partner", "")
	upstream, _ := m.AddSoftwareSystem("Upstream", "")
	island, _ := m.AddSoftwareSystem("Island", "")
	m.Connect(api, partner, "calls", "")
	m.Connect(upstream, partner, "feeds", "")

	b, _ := NewSet(m).Container(sys, "all", "")
	b.IncludeAll()
	v := mustBuild(t, b, nil)

	for _, ref := range []model.SystemRef{sys, partner, upstream} {
		if !v.Contains(ref.ID()) {
			t.Errorf("reachable element %s missing", ref.ID())
		}
	}
	if v.Contains(island.ID()) {
		t.Error("unreachable element included")
	}
	if got := len(v.Relationships()); got != 2 {
		t.Errorf("Relationships() = %d, want 2", got)
	}
}

func TestKindRestrictions(t *testing.T) {
	m := model.New()
	sys, _ := m.AddSoftwareSystem("Platform", "")
	api, _ := m.AddContainer(sys, "API", "", "")
	node, _ := m.AddDeploymentNode(model.DeploymentNodeRef{}, "Azure", "", "")
	views := NewSet(m)

	land, _ := views.SystemLandscape("land", "")
	if err := land.IncludeContainersAndInfluencers(); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("landscape IncludeContainersAndInfluencers error = %v, want UNSUPPORTED", err)
	}
	if err := land.IncludeDeploymentNodes(); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("landscape IncludeDeploymentNodes error = %v, want UNSUPPORTED", err)
	}
	if err := land.Include(api); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("landscape Include(container) error = %v, want INVALID_INPUT", err)
	}

	dep, _ := views.Deployment(sys, "", "dep", "")
	if err := dep.IncludePeople(); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("deployment IncludePeople error = %v, want UNSUPPORTED", err)
	}
	if err := dep.Include(node); err != nil {
		t.Errorf("deployment Include(node) error = %v", err)
	}
	if err := dep.AutoLayout("Sideways"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("AutoLayout(Sideways) error = %v, want INVALID_INPUT", err)
	}
}

func TestSetErrors(t *testing.T) {
	m := model.New()
	sys, _ := m.AddSoftwareSystem("Platform", "")
	foreign, _ := model.New().AddSoftwareSystem("Foreign", "")
	views := NewSet(m)

	if !m.Sealed() {
		t.Error("NewSet should seal the model")
	}
	if _, err := views.Container(sys, "ccp", ""); err != nil {
		t.Fatalf("Container: %v", err)
	}
	if _, err := views.SystemLandscape("ccp", ""); !errors.Is(err, errors.ErrCodeDuplicateIdentity) {
		t.Errorf("duplicate key error = %v, want DUPLICATE_IDENTITY", err)
	}
	if _, err := views.Container(foreign, "foreign", ""); !errors.Is(err, errors.ErrCodeUnknownElement) {
		t.Errorf("foreign scope error = %v, want UNKNOWN_ELEMENT", err)
	}
	if _, err := views.Container(model.SystemRef{}, "zero", ""); !errors.Is(err, errors.ErrCodeUnknownElement) {
		t.Errorf("zero scope error = %v, want UNKNOWN_ELEMENT", err)
	}
	if _, err := views.SystemLandscape("bad key", ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("invalid key error = %v, want INVALID_INPUT", err)
	}
}

func TestSetOrder(t *testing.T) {
	m := model.New()
	sys, _ := m.AddSoftwareSystem("Platform", "")
	views := NewSet(m)

	a, _ := views.SystemLandscape("a", "")
	b, _ := views.Container(sys, "b", "")
	b.Build()
	a.Build()

	if diff := cmp.Diff([]string{"b", "a"}, views.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if _, ok := views.View("a"); !ok {
		t.Error("View(a) not found")
	}
	if _, ok := views.View("missing"); ok {
		t.Error("View(missing) found")
	}
}
