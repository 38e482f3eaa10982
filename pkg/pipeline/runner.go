package pipeline

import (
	"context"
	"fmt"
	"maps"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/archscape/pkg/cache"
	"github.com/matzehuels/archscape/pkg/errors"
	"github.com/matzehuels/archscape/pkg/io"
	"github.com/matzehuels/archscape/pkg/observability"
	"github.com/matzehuels/archscape/pkg/publish"
	"github.com/matzehuels/archscape/pkg/render"
	"github.com/matzehuels/archscape/pkg/view"
	"github.com/matzehuels/archscape/pkg/workspace"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different workspaces.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute renders, exports and publishes ws.
func (r *Runner) Execute(ctx context.Context, ws *workspace.Workspace, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)

	result := &Result{Workspace: ws}

	renderStart := time.Now()
	artifacts, info, err := r.RenderWithCacheInfo(ctx, ws, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo = info
	result.Stats.Views = len(ws.Views.All())
	result.Stats.Artifacts = len(artifacts)
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered views",
		"views", result.Stats.Views,
		"artifacts", result.Stats.Artifacts,
		"cached", info.Hits,
		"duration", result.Stats.RenderTime)

	exportStart := time.Now()
	result.Document = io.FromWorkspace(ws)
	if result.JSON, err = io.MarshalJSON(ws); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	if opts.HCL {
		result.HCL = io.MarshalHCL(ws)
	}
	result.DocumentHash = cache.Hash(result.JSON)
	result.Stats.ExportTime = time.Since(exportStart)

	publishStart := time.Now()
	if err := r.publish(ctx, result, opts); err != nil {
		return nil, err
	}
	result.Stats.PublishTime = time.Since(publishStart)

	return result, nil
}

func (r *Runner) publish(ctx context.Context, result *Result, opts Options) error {
	logger := r.logger(opts)
	payload := publish.Payload{
		Document:  result.Document,
		JSON:      result.JSON,
		HCL:       result.HCL,
		Artifacts: result.Artifacts,
	}

	if opts.OutputDir != "" {
		if err := publish.All(ctx, payload, publish.Directory{Dir: opts.OutputDir}); err != nil {
			return err
		}
		logger.Info("wrote output", "dir", opts.OutputDir)
	}

	for _, p := range opts.Publishers {
		marker := r.Keyer.PublishKey(publish.Target(p), result.DocumentHash)
		if !opts.Force {
			if _, hit, err := r.Cache.Get(ctx, marker); err == nil && hit {
				logger.Info("workspace unchanged, skipping publisher", "publisher", p.Name())
				result.CacheInfo.Skipped = append(result.CacheInfo.Skipped, p.Name())
				continue
			}
		}
		if err := publish.All(ctx, payload, p); err != nil {
			return err
		}
		result.CacheInfo.Published = append(result.CacheInfo.Published, p.Name())
		logger.Info("published workspace", "publisher", p.Name())
		if err := r.Cache.Set(ctx, marker, []byte(result.DocumentHash), cache.TTLPublish); err != nil {
			logger.Warn("failed to record publish", "publisher", p.Name(), "error", err)
		}
	}
	return nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache info.
func (r *Runner) Render(ctx context.Context, ws *workspace.Workspace, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, ws, opts)
	return artifacts, err
}

// RenderWithCacheInfo renders every view of ws in every requested format.
// Views are immutable, so renders run concurrently without locking them.
// The returned map is keyed by [ArtifactName].
func (r *Runner) RenderWithCacheInfo(ctx context.Context, ws *workspace.Workspace, opts Options) (map[string][]byte, CacheInfo, error) {
	if err := opts.Validate(); err != nil {
		return nil, CacheInfo{}, err
	}

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte)
		info      CacheInfo
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, v := range ws.Views.All() {
		dot := render.ToDOT(ws.Model, v, ws.Styles, opts.Render)
		dotHash := cache.Hash([]byte(dot))
		for _, f := range opts.Formats {
			g.Go(func() error {
				data, hit, err := r.renderOne(ctx, v, dot, dotHash, f, opts.Refresh)
				if err != nil {
					return fmt.Errorf("view %q as %s: %w", v.Key(), f, err)
				}
				mu.Lock()
				defer mu.Unlock()
				artifacts[ArtifactName(v.Key(), f)] = data
				if hit {
					info.Hits++
				} else {
					info.Misses++
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, CacheInfo{}, err
	}

	r.logger(opts).Debug("rendered artifacts", "names", slices.Sorted(maps.Keys(artifacts)))
	return artifacts, info, nil
}

// RenderView renders the single view with the given key, through the
// cache like [Runner.Render].
func (r *Runner) RenderView(ctx context.Context, ws *workspace.Workspace, key string, f render.Format, opts Options) ([]byte, error) {
	v, ok := ws.Views.View(key)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "view %q", key)
	}
	if _, err := render.ParseFormat(string(f)); err != nil {
		return nil, err
	}
	dot := render.ToDOT(ws.Model, v, ws.Styles, opts.Render)
	data, _, err := r.renderOne(ctx, v, dot, cache.Hash([]byte(dot)), f, opts.Refresh)
	return data, err
}

func (r *Runner) renderOne(ctx context.Context, v *view.View, dot, dotHash string, f render.Format, refresh bool) ([]byte, bool, error) {
	cacheHooks := observability.Cache()
	key := r.Keyer.ArtifactKey(dotHash, cache.ArtifactKeyOpts{Format: string(f)})

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			cacheHooks.OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
	}
	cacheHooks.OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, v.Key(), string(f))
	start := time.Now()
	data, err := render.RenderDOT(ctx, dot, f)
	hooks.OnRenderComplete(ctx, v.Key(), string(f), len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
		cacheHooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
