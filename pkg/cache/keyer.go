package cache

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey is the key of a view rendered from DOT source with the
	// given hash.
	ArtifactKey(dotHash string, opts ArtifactKeyOpts) string
	// PublishKey marks a workspace document as published to a target.
	PublishKey(target, documentHash string) string
}

// ArtifactKeyOpts are the render inputs not contained in the DOT source.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// DefaultKeyer hashes the key components into "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ArtifactKey(dotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", dotHash, opts)
}

func (DefaultKeyer) PublishKey(target, documentHash string) string {
	return hashKey("publish", target, documentHash)
}
