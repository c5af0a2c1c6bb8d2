package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rackscape/pkg/assets"
	"github.com/matzehuels/rackscape/pkg/cache"
	"github.com/matzehuels/rackscape/pkg/io"
	"github.com/matzehuels/rackscape/pkg/observability"
	"github.com/matzehuels/rackscape/pkg/rack"
	"github.com/matzehuels/rackscape/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means the default keyer, a nil
// cache disables caching.
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Layout is a laid-out hall with its encoding.
type Layout struct {
	Scene *scene.Node
	JSON  []byte
	Hash  string
	Stats rack.Stats
}

// cachedLayout is the cache representation of a Layout.
type cachedLayout struct {
	Stats rack.Stats      `json:"stats"`
	Scene json.RawMessage `json:"scene"`
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	p, err := ResolveProfile(opts)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	m, err := ResolveManifest(opts)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	result := &Result{Profile: p}

	layoutStart := time.Now()
	l, hit, err := r.LayoutWithCacheInfo(ctx, m, p, opts, &result.Stats)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Scene = l.Scene
	result.SceneHash = l.Hash
	result.Layout = l.Stats
	result.Stats.Nodes = l.Scene.Count()
	result.Stats.LayoutTime = time.Since(layoutStart) - result.Stats.LoadTime
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("laid out hall",
		"profile", p.Name(),
		"cabinets", l.Stats.Cabinets,
		"devices", l.Stats.Placed,
		"skipped", l.Stats.Skipped,
		"cached", hit,
		"duration", result.Stats.LayoutTime)
	if l.Stats.MissingTextures > 0 {
		r.Logger.Warn("devices without textures", "count", l.Stats.MissingTextures)
	}

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, p, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo returns the laid-out hall for m and p, loading the
// assets only on a cache miss. Load timing is recorded in stats when it is
// not nil.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, m *assets.Manifest, p *rack.Profile, opts Options, stats *Stats) (*Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	in, err := inputHash(m, p)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.LayoutKey(in, opts.LayoutKeyOpts(p.Name()))
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if l, err := decodeLayout(data); err == nil {
				hooks.OnCacheHit(ctx, "layout")
				return l, true, nil
			}
			r.Logger.Debug("discarding unreadable cached layout", "key", cacheKey)
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		hooks.OnCacheMiss(ctx, "layout")
	}

	loadStart := time.Now()
	set, err := LoadAssets(ctx, m, opts)
	if err != nil {
		return nil, false, err
	}
	if stats != nil {
		stats.Assets = set.Count()
		stats.LoadTime = time.Since(loadStart)
	}
	r.Logger.Debug("loaded assets", "count", set.Count(), "duration", time.Since(loadStart))

	root, rs, err := BuildScene(ctx, set, p, opts)
	if err != nil {
		return nil, false, err
	}
	sceneJSON, err := io.MarshalJSON(root)
	if err != nil {
		return nil, false, err
	}
	l := &Layout{Scene: root, JSON: sceneJSON, Hash: cache.Hash(sceneJSON), Stats: rs}

	if data, err := json.Marshal(cachedLayout{Stats: rs, Scene: sceneJSON}); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

func decodeLayout(data []byte) (*Layout, error) {
	var c cachedLayout
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	root, err := io.ReadJSON(bytes.NewReader(c.Scene))
	if err != nil {
		return nil, err
	}
	return &Layout{Scene: root, JSON: c.Scene, Hash: cache.Hash(c.Scene), Stats: c.Stats}, nil
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *Layout, p *rack.Profile, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if format == FormatJSON {
			artifacts[format] = l.JSON
			continue
		}
		cacheKey := r.Keyer.ArtifactKey(l.Hash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			hooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		hooks.OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	ro := opts
	ro.Formats = missing
	rendered, err := Render(ctx, l.Scene, l.JSON, p, ro)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		cacheKey := r.Keyer.ArtifactKey(l.Hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
