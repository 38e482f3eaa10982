package view

import (
	"slices"

	"github.com/matzehuels/archscape/pkg/errors"
	"github.com/matzehuels/archscape/pkg/model"
)

// Set creates and collects the views of one model.
type Set struct {
	model *model.Model
	keys  map[string]struct{}
	built []*View
	byKey map[string]*View
}

// NewSet seals m and returns an empty view set over it. Views are derived
// from the final graph only, so the model cannot change afterwards.
func NewSet(m *model.Model) *Set {
	m.Seal()
	return &Set{
		model: m,
		keys:  make(map[string]struct{}),
		byKey: make(map[string]*View),
	}
}

// Model returns the sealed model the views are derived from.
func (s *Set) Model() *model.Model { return s.model }

// SystemLandscape starts a view of every person and software system.
func (s *Set) SystemLandscape(key, description string) (*Builder, error) {
	return s.open(KindSystemLandscape, nil, "", key, description)
}

// Container starts a container view scoped to a software system.
func (s *Set) Container(scope model.SystemRef, key, description string) (*Builder, error) {
	sys, err := s.system(scope, key)
	if err != nil {
		return nil, err
	}
	return s.open(KindContainer, sys, "", key, description)
}

// Deployment starts a deployment view for environment. With a zero scope
// the view covers instances of every software system; an empty environment
// means [model.DefaultEnvironment].
func (s *Set) Deployment(scope model.SystemRef, environment, key, description string) (*Builder, error) {
	var sys model.Element
	if !scope.IsZero() {
		var err error
		if sys, err = s.system(scope, key); err != nil {
			return nil, err
		}
	}
	if environment == "" {
		environment = model.DefaultEnvironment
	}
	return s.open(KindDeployment, sys, environment, key, description)
}

func (s *Set) system(scope model.SystemRef, key string) (model.Element, error) {
	e, ok := s.model.Element(scope)
	if !ok || e.Kind() != model.KindSoftwareSystem {
		return nil, errors.New(errors.ErrCodeUnknownElement, "view %q: scope is not a software system of this model", key)
	}
	return e, nil
}

func (s *Set) open(kind Kind, scope model.Element, env, key, description string) (*Builder, error) {
	if err := errors.ValidateViewKey(key); err != nil {
		return nil, err
	}
	if _, ok := s.keys[key]; ok {
		return nil, errors.New(errors.ErrCodeDuplicateIdentity, "view %q already exists", key)
	}
	s.keys[key] = struct{}{}
	return &Builder{
		set:         s,
		kind:        kind,
		key:         key,
		description: description,
		scope:       scope,
		environment: env,
		elements:    make(map[string]struct{}),
		instances:   make(map[string]struct{}),
	}, nil
}

func (s *Set) add(v *View) {
	s.built = append(s.built, v)
	s.byKey[v.key] = v
}

// All returns the built views in build order.
func (s *Set) All() []*View { return slices.Clone(s.built) }

// View returns the built view with the given key.
func (s *Set) View(key string) (*View, bool) {
	v, ok := s.byKey[key]
	return v, ok
}

// Keys returns the keys of the built views in build order.
func (s *Set) Keys() []string {
	out := make([]string, len(s.built))
	for i, v := range s.built {
		out[i] = v.key
	}
	return out
}
