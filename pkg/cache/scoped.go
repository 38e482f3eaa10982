package cache

import "strings"

// ScopedKeyer inserts a scope after the key kind, so entries written by
// different scopes never collide while the kind stays in front:
//
//	artifact:<hash>  becomes  artifact:v1.4.0:<hash>
//
// The CLI scopes keys by release, since a different build may render the
// same DOT source differently.
type ScopedKeyer struct {
	inner Keyer
	scope string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, scope string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, scope: scope}
}

func (k *ScopedKeyer) ArtifactKey(dotHash string, opts ArtifactKeyOpts) string {
	return k.scoped(k.inner.ArtifactKey(dotHash, opts))
}

func (k *ScopedKeyer) PublishKey(target, documentHash string) string {
	return k.scoped(k.inner.PublishKey(target, documentHash))
}

func (k *ScopedKeyer) scoped(key string) string {
	if k.scope == "" {
		return key
	}
	kind, rest, ok := strings.Cut(key, ":")
	if !ok {
		return k.scope + ":" + key
	}
	return kind + ":" + k.scope + ":" + rest
}
