// Package workspace assembles a complete architecture description: the model,
// its styles and the views derived from it.
//
// A workspace is built exactly once from an ordered list of providers. Each
// provider contributes to one or more construction phases, and the phases
// always run in the same order regardless of provider order:
//
//  1. [ModelProvider.Populate]: elements, relationships, placements, tags
//  2. the model is sealed
//  3. themes from [Options.Themes] are applied to the style index
//  4. [StyleProvider.ConfigureStyles]: explicit style rules
//  5. [ViewProvider.CreateViews]: views over the sealed model
//
// Construction is all-or-nothing. The first failing provider aborts the
// build and its error is returned with the provider name and phase; no
// partially built workspace is ever returned.
package workspace

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/archscape/pkg/errors"
	"github.com/matzehuels/archscape/pkg/model"
	"github.com/matzehuels/archscape/pkg/observability"
	"github.com/matzehuels/archscape/pkg/style"
	"github.com/matzehuels/archscape/pkg/view"
)

// idNamespace derives workspace IDs from names, so rebuilding the same
// workspace yields the same document and publish markers stay valid.
var idNamespace = uuid.MustParse("0b6f3c1e-5d2a-4e57-9c1b-7a2f4d8e6c30")

// Workspace is a fully built, immutable architecture description.
type Workspace struct {
	ID          uuid.UUID // stable per workspace name
	Name        string
	Description string
	Model       *model.Model
	Styles      *style.Index
	Views       *view.Set
}

// Provider is one contributor to a workspace. A provider implements any
// combination of [ModelProvider], [StyleProvider] and [ViewProvider].
type Provider interface {
	Name() string
}

// ModelProvider adds elements and relationships.
type ModelProvider interface {
	Provider
	Populate(m *model.Model) error
}

// StyleProvider registers style rules.
type StyleProvider interface {
	Provider
	ConfigureStyles(s *style.Index) error
}

// ViewProvider creates views. The model is sealed when it is called.
type ViewProvider interface {
	Provider
	CreateViews(v *view.Set) error
}

// Options configures [Build].
type Options struct {
	Name        string
	Description string
	// Logger receives debug output about each phase. Nil discards it.
	Logger *log.Logger
	// Themes are applied below the explicit style rules.
	Themes []style.Theme
}

// Build runs the providers phase by phase and returns the finished workspace.
func Build(ctx context.Context, opts Options, providers ...Provider) (ws *Workspace, err error) {
	if err := errors.ValidateName(opts.Name); err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, opts.Name)
	start := time.Now()
	defer func() {
		elements, views := 0, 0
		if ws != nil {
			elements, views = ws.Model.ElementCount(), len(ws.Views.All())
		}
		hooks.OnBuildComplete(ctx, opts.Name, elements, views, time.Since(start), err)
	}()

	m := model.New()
	for _, p := range providers {
		if mp, ok := p.(ModelProvider); ok {
			if err := step(ctx, logger, p, "populate model", func() error { return mp.Populate(m) }); err != nil {
				return nil, err
			}
		}
	}
	logger.Debug("model complete", "elements", m.ElementCount(), "relationships", m.RelationshipCount())

	views := view.NewSet(m)

	styles := style.NewIndex()
	for _, t := range opts.Themes {
		if err := styles.ApplyTheme(t); err != nil {
			return nil, fmt.Errorf("apply theme %q: %w", t.Name, err)
		}
		logger.Debug("applied theme", "name", t.Name, "url", t.URL)
	}
	for _, p := range providers {
		if sp, ok := p.(StyleProvider); ok {
			if err := step(ctx, logger, p, "configure styles", func() error { return sp.ConfigureStyles(styles) }); err != nil {
				return nil, err
			}
		}
	}
	for _, p := range providers {
		if vp, ok := p.(ViewProvider); ok {
			if err := step(ctx, logger, p, "create views", func() error { return vp.CreateViews(views) }); err != nil {
				return nil, err
			}
		}
	}

	reportUnresolved(logger, m, styles)

	return &Workspace{
		ID:          uuid.NewSHA1(idNamespace, []byte(opts.Name)),
		Name:        opts.Name,
		Description: opts.Description,
		Model:       m,
		Styles:      styles,
		Views:       views,
	}, nil
}

func step(ctx context.Context, logger *log.Logger, p Provider, phase string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger.Debug(phase, "provider", p.Name())
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %s: %w", p.Name(), phase, err)
	}
	return nil
}

// reportUnresolved logs custom tags that no style rule or theme covers.
// A missing rule only means the default style is used.
func reportUnresolved(logger *log.Logger, m *model.Model, styles *style.Index) {
	seen := make(map[string]bool)
	for _, e := range m.AllElements() {
		for _, tag := range styles.Unresolved(e.Tags()) {
			if !model.IsDefaultTag(tag) && !seen[tag] {
				seen[tag] = true
				logger.Debug("tag has no style rule", "tag", tag, "element", e.Name())
			}
		}
	}
}

// AllViews returns the built views in build order.
func (w *Workspace) AllViews() []*view.View { return w.Views.All() }
