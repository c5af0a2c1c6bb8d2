package assets

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/rackscape/pkg/errors"
	"github.com/matzehuels/rackscape/pkg/observability"
	"github.com/matzehuels/rackscape/pkg/rack"
	"github.com/matzehuels/rackscape/pkg/scene"
)

// DefaultColor is used for templates without a colour.
const DefaultColor = "lightgray"

// Set is a fully loaded asset set.
type Set struct {
	Templates rack.Templates
	Textures  rack.TextureSet
}

// Count returns the number of loaded templates and textures.
func (s *Set) Count() int {
	n := 0
	for _, t := range []*scene.Node{s.Templates.Cabinet, s.Templates.Device, s.Templates.Tile} {
		if t != nil {
			n++
		}
	}
	for _, p := range s.Textures {
		if p.Front != nil {
			n++
		}
		if p.Back != nil {
			n++
		}
	}
	return n
}

// Load reads every template and texture of m concurrently. The first
// failure cancels the remaining loads and is returned as an
// ErrCodeMissingAsset error.
func Load(ctx context.Context, m *Manifest) (set *Set, err error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, m.Source())
	start := time.Now()
	defer func() {
		n := 0
		if set != nil {
			n = set.Count()
		}
		hooks.OnLoadComplete(ctx, m.Source(), n, time.Since(start), err)
	}()

	var (
		mu        sync.Mutex
		templates = map[string]*scene.Node{}
		textures  = rack.TextureSet{}
	)

	g, gctx := errgroup.WithContext(ctx)
	for name, model := range m.Templates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, err := loadModel(m, name, model)
			if err != nil {
				return err
			}
			mu.Lock()
			templates[name] = n
			mu.Unlock()
			return nil
		})
	}
	for _, u := range m.sizes() {
		for _, side := range []rack.MountSide{rack.Front, rack.Back} {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				tex, err := loadTexture(m, u, side)
				if err != nil {
					return err
				}
				mu.Lock()
				pair := textures[tex.Key]
				if side == rack.Front {
					pair.Front = tex
				} else {
					pair.Back = tex
				}
				textures[tex.Key] = pair
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set = &Set{
		Templates: rack.Templates{
			Cabinet: templates[rack.TemplateCabinet],
			Device:  templates[rack.TemplateDevice],
			Tile:    templates[rack.TemplateTile],
		},
		Textures: textures,
	}
	return set, nil
}

func loadModel(m *Manifest, name string, model Model) (*scene.Node, error) {
	color := model.Color
	if color == "" {
		color = DefaultColor
	}
	if model.Box != nil {
		return scene.NewMesh(name, &scene.Mesh{
			Geometry:  scene.Box{Width: model.Box[0], Height: model.Box[1], Depth: model.Box[2]},
			Materials: []*scene.Material{scene.NewMaterial(color)},
		}), nil
	}
	n, err := readGLB(m.resolve(model.Path), name, color)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMissingAsset, err, "load %s template %s", name, model.Path)
	}
	return n, nil
}

func loadTexture(m *Manifest, u int, side rack.MountSide) (*scene.Texture, error) {
	rel := m.TexturePath(u, side)
	f, err := os.Open(m.resolve(rel))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMissingAsset, err, "load texture %s", rel)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMissingAsset, err, "decode texture %s", rel)
	}
	return &scene.Texture{
		Key:    rack.SizeKey(u),
		Side:   side.String(),
		Path:   rel,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
