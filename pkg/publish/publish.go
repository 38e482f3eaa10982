// Package publish delivers a rendered workspace to its consumers: a local
// output directory, a workspace HTTP API and MongoDB.
//
// Every target implements [Publisher]. [All] runs a list of publishers in
// order and reports each one to the observability hooks.
package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/archscape/pkg/io"
	"github.com/matzehuels/archscape/pkg/observability"
)

// Payload is everything a publisher may deliver.
type Payload struct {
	// Document is the workspace document; JSON is its encoding as written
	// to workspace.json.
	Document io.Document
	JSON     []byte
	// HCL is the HCL rendition, nil when not requested.
	HCL []byte
	// Artifacts maps file names such as "ccp.svg" to rendered views.
	Artifacts map[string][]byte
}

// Publisher delivers a payload to one target.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, p Payload) error
}

// Target identifies where p delivers to. Publishers that can be pointed at
// different destinations implement Target() string; the others are
// identified by their name. Publish markers are keyed by the target, so
// moving a publisher to a new destination publishes again.
func Target(p Publisher) string {
	if t, ok := p.(interface{ Target() string }); ok {
		return p.Name() + " " + t.Target()
	}
	return p.Name()
}

// All publishes p with each publisher in turn and stops at the first
// failure.
func All(ctx context.Context, p Payload, publishers ...Publisher) error {
	hooks := observability.Publish()
	for _, pub := range publishers {
		if err := ctx.Err(); err != nil {
			return err
		}
		hooks.OnPublishStart(ctx, pub.Name())
		start := time.Now()
		err := pub.Publish(ctx, p)
		hooks.OnPublishComplete(ctx, pub.Name(), time.Since(start), err)
		if err != nil {
			return fmt.Errorf("publish %s: %w", pub.Name(), err)
		}
	}
	return nil
}
