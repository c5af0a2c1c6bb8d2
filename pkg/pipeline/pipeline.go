// Package pipeline runs the rackscape pipeline: load assets, lay out a hall,
// render artifacts.
//
// The same code path backs `rackscape layout`, `rackscape serve` and the
// tests, so every entry point applies the same defaults and caching.
//
// # Stages
//
//  1. Load: resolve the device profile and load the asset manifest
//  2. Layout: assemble an aisle of cabinets and, optionally, the floor
//  3. Render: encode the scene and draw the requested artifacts
//
// Layouts are cached as scene JSON keyed by the manifest, the profile and
// the layout options. On a layout hit the assets are not loaded at all.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Profile:   "reference",
//	    AssetRoot: "asset",
//	    FillRatio: 0.7,
//	    Formats:   []string{"json", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	scene := result.Artifacts["json"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rackscape/pkg/cache"
	"github.com/matzehuels/rackscape/pkg/rack"
	"github.com/matzehuels/rackscape/pkg/rack/profile"
	"github.com/matzehuels/rackscape/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultProfile is the built-in reference table.
	DefaultProfile = profile.ReferenceName

	// DefaultAssetRoot is where the conventional asset layout is looked for
	// when no manifest is given.
	DefaultAssetRoot = "asset"

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatJSON = "json" // scene tree
	FormatSVG  = "svg"  // rack elevation
	FormatPNG  = "png"  // rack elevation
	FormatPDF  = "pdf"  // rack elevation
	FormatDOT  = "dot"  // scene-tree diagram source
	FormatTree = "tree" // scene-tree diagram as SVG
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatTree: true,
}

// FormatExt maps a format to its file extension.
var FormatExt = map[string]string{
	FormatJSON: ".json",
	FormatSVG:  ".svg",
	FormatPNG:  ".png",
	FormatPDF:  ".pdf",
	FormatDOT:  ".dot",
	FormatTree: ".tree.svg",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. Zero values mean
// defaults; see the Set*Defaults methods.
type Options struct {
	// Load options
	Profile   string `json:"profile,omitempty"`    // built-in name or profile file
	Manifest  string `json:"manifest,omitempty"`   // asset manifest file
	AssetRoot string `json:"asset_root,omitempty"` // used when Manifest is empty

	// Layout options
	Cabinets       int     `json:"cabinets,omitempty"` // per row
	Spacing        float64 `json:"spacing,omitempty"`
	Separation     float64 `json:"separation,omitempty"`
	FillRatio      float64 `json:"fill_ratio,omitempty"`
	Seed           uint64  `json:"seed,omitempty"`
	NoFloor        bool    `json:"no_floor,omitempty"`
	Palette        bool    `json:"palette,omitempty"` // add paint swatches beside the hall
	StrictTextures bool    `json:"strict_textures,omitempty"`
	Parallel       bool    `json:"parallel,omitempty"`
	Refresh        bool    `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Title    string   `json:"title,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	MaxDepth int      `json:"max_depth,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Profile is the resolved device table.
	Profile *rack.Profile

	// Scene is the laid-out hall.
	Scene *scene.Node

	// SceneHash is the content hash of the scene JSON.
	SceneHash string

	// Layout counts cabinets and devices.
	Layout rack.Stats

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Assets     int
	Nodes      int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // layout came from cache; assets were not loaded
	RenderHit bool // every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, svg, png, pdf, dot, tree)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFillRatio checks that r is a probability in (0, 1].
func ValidateFillRatio(r float64) error {
	if !(r > 0 && r <= 1) {
		return fmt.Errorf("invalid fill_ratio: %g (must be in (0, 1])", r)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies every default.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLoadDefaults()
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLoadDefaults sets default values for the load stage.
func (o *Options) SetLoadDefaults() {
	if o.Profile == "" {
		o.Profile = DefaultProfile
	}
	if o.Manifest == "" && o.AssetRoot == "" {
		o.AssetRoot = DefaultAssetRoot
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetLayoutDefaults sets default values for layout computation from the
// reference hall.
func (o *Options) SetLayoutDefaults() {
	ref := rack.DefaultAisleOptions()
	if o.Cabinets == 0 {
		o.Cabinets = ref.Length
	}
	if o.Spacing == 0 {
		o.Spacing = ref.Spacing
	}
	if o.Separation == 0 {
		o.Separation = ref.Separation
	}
	if o.FillRatio == 0 {
		o.FillRatio = 1
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Cabinets < 0 {
		return fmt.Errorf("invalid cabinets: %d", o.Cabinets)
	}
	if o.Spacing < 0 || o.Separation < 0 {
		return fmt.Errorf("spacing and separation must not be negative")
	}
	return ValidateFillRatio(o.FillRatio)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Scale < 0 {
		return fmt.Errorf("invalid scale: %g", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// AisleOptions returns the rack layout options for the aisle.
func (o *Options) AisleOptions() rack.AisleOptions {
	a := rack.DefaultAisleOptions()
	a.Length = o.Cabinets
	a.Spacing = o.Spacing
	a.Separation = o.Separation
	a.Parallel = o.Parallel
	return a
}

// AssemblerOptions returns the cabinet assembly options.
func (o *Options) AssemblerOptions() rack.Options {
	return rack.Options{FillRatio: o.FillRatio, Seed: o.Seed, StrictTextures: o.StrictTextures}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(profileName string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Profile:        profileName,
		FillRatio:      o.FillRatio,
		Seed:           o.Seed,
		Cabinets:       o.Cabinets,
		Spacing:        o.Spacing,
		Separation:     o.Separation,
		Floor:          !o.NoFloor,
		Palette:        o.Palette,
		StrictTextures: o.StrictTextures,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		k.Title = o.Title
	case FormatDOT, FormatTree:
		k.Detailed = o.Detailed
		k.MaxDepth = o.MaxDepth
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
