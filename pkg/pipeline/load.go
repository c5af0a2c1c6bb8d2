package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/rackscape/pkg/assets"
	"github.com/matzehuels/rackscape/pkg/cache"
	"github.com/matzehuels/rackscape/pkg/rack"
	"github.com/matzehuels/rackscape/pkg/rack/profile"
)

// ResolveProfile returns the profile named by opts.Profile: a built-in
// name or a TOML/JSON file.
func ResolveProfile(opts Options) (*rack.Profile, error) {
	opts.SetLoadDefaults()
	return profile.Resolve(opts.Profile)
}

// ResolveManifest reads opts.Manifest, or returns the conventional
// manifest under opts.AssetRoot.
func ResolveManifest(opts Options) (*assets.Manifest, error) {
	opts.SetLoadDefaults()
	if opts.Manifest != "" {
		return assets.ReadManifest(opts.Manifest)
	}
	m := assets.DefaultManifest(opts.AssetRoot)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadAssets loads every template and texture of m. A manifest without a
// tile template is accepted only when the floor is disabled.
func LoadAssets(ctx context.Context, m *assets.Manifest, opts Options) (*assets.Set, error) {
	set, err := assets.Load(ctx, m)
	if err != nil {
		return nil, err
	}
	if !opts.NoFloor && set.Templates.Tile == nil {
		return nil, fmt.Errorf("manifest has no %s template; disable the floor to lay out without one", rack.TemplateTile)
	}
	return set, nil
}

// inputHash identifies the inputs of a layout: the manifest and the
// profile contents.
func inputHash(m *assets.Manifest, p *rack.Profile) (string, error) {
	mb, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("hash manifest: %w", err)
	}
	var pb bytes.Buffer
	if err := profile.Write(&pb, p, profile.FormatJSON); err != nil {
		return "", fmt.Errorf("hash profile: %w", err)
	}
	return cache.HashAll(mb, pb.Bytes()), nil
}
