package codingcontest

import (
	"github.com/matzehuels/archscape/pkg/model"
	"github.com/matzehuels/archscape/pkg/view"
)

// declarer wraps a model for long runs of declarations. After the first
// failure every further call is a no-op returning a zero ref, and err holds
// that first failure.
type declarer struct {
	m   *model.Model
	err error
}

func (d *declarer) container(sys model.SystemRef, name, description, technology string, opts ...model.Option) model.ContainerRef {
	if d.err != nil {
		return model.ContainerRef{}
	}
	ref, err := d.m.AddContainer(sys, name, description, technology, opts...)
	d.err = err
	return ref
}

func (d *declarer) uses(src, dst model.Endpoint, description, technology string) {
	if d.err != nil {
		return
	}
	_, d.err = d.m.Connect(src, dst, description, technology)
}

func (d *declarer) node(parent model.DeploymentNodeRef, name, technology string, opts ...model.Option) model.DeploymentNodeRef {
	if d.err != nil {
		return model.DeploymentNodeRef{}
	}
	ref, err := d.m.AddDeploymentNode(parent, name, "", technology, opts...)
	d.err = err
	return ref
}

func (d *declarer) place(node model.DeploymentNodeRef, c model.ContainerRef, opts ...model.Option) {
	if d.err != nil {
		return
	}
	_, d.err = d.m.Place(node, c, opts...)
}

// build applies steps to an open view builder and freezes it.
func build(b *view.Builder, steps ...func(*view.Builder) error) error {
	for _, step := range steps {
		if err := step(b); err != nil {
			return err
		}
	}
	_, err := b.Build()
	return err
}

var (
	includeAll        = (*view.Builder).IncludeAll
	includeInfluencer = (*view.Builder).IncludeContainersAndInfluencers
	includePeople     = (*view.Builder).IncludePeople
	includeNodes      = (*view.Builder).IncludeDeploymentNodes
)

func excludeTag(tag string) func(*view.Builder) error {
	return func(b *view.Builder) error { return b.ExcludeByTag(tag) }
}
