package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rackscape/pkg/pipeline"
)

// layoutCommand creates the layout command for laying out a hall.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		formats []string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Lay out a hall and write its scene and elevations",
		Long: `Lay out a hall of cabinets populated from a device profile.

Two facing rows of cabinets are built from the asset manifest (cabinet,
device and floor templates plus per-U-size textures) and written as a
scene tree (json) and, optionally, a rack elevation (svg, png, pdf) and a
scene-tree diagram (dot, tree).

Layouts are cached: a second run with the same profile, assets and
options skips asset loading. Use --refresh to recompute.`,
		Example: `  rackscape layout
  rackscape layout --profile racks.toml --cabinets 12 -f json,svg,png
  rackscape layout --fill-ratio 0.7 --seed 7 -o out/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := c.settings().PipelineOptions()
			if cmd.Flags().Changed("format") {
				opts.Formats = parseFormats(formats)
			}
			opts.Refresh = refresh
			return c.runLayout(cmd, opts, c.v.GetString("render.output"), noCache)
		},
	}

	f := cmd.Flags()
	f.String("profile", "", "built-in profile name or profile file (.toml, .json)")
	f.String("manifest", "", "asset manifest (default: <assets>/manifest.toml)")
	f.String("assets", "", "asset directory")
	f.Int("cabinets", 0, "cabinets per row")
	f.Float64("spacing", 0, "gap between neighbouring cabinets")
	f.Float64("separation", 0, "distance between the two rows")
	f.Float64("fill-ratio", 0, "probability that each device is placed (0-1]")
	f.Uint64("seed", 0, "random seed for the fill ratio")
	f.Bool("floor", true, "tile a floor under the hall")
	f.Bool("palette", false, "add paint swatches for inspect")
	f.Bool("strict", false, "fail on devices without a texture pair")
	f.Bool("parallel", true, "lay out rows concurrently")
	f.StringSliceVarP(&formats, "format", "f", nil, "output formats: json, svg, png, pdf, dot, tree")
	f.StringP("output", "o", "", "output directory")
	f.String("title", "", "elevation title")
	f.Float64("scale", 0, "PNG scale factor")
	f.BoolVar(&noCache, "no-cache", false, "disable caching")
	f.BoolVar(&refresh, "refresh", false, "recompute even when cached")

	c.bind(cmd, "layout.profile", "profile")
	c.bind(cmd, "layout.manifest", "manifest")
	c.bind(cmd, "layout.asset_root", "assets")
	c.bind(cmd, "layout.cabinets", "cabinets")
	c.bind(cmd, "layout.spacing", "spacing")
	c.bind(cmd, "layout.separation", "separation")
	c.bind(cmd, "layout.fill_ratio", "fill-ratio")
	c.bind(cmd, "layout.seed", "seed")
	c.bind(cmd, "layout.floor", "floor")
	c.bind(cmd, "layout.palette", "palette")
	c.bind(cmd, "layout.strict_textures", "strict")
	c.bind(cmd, "layout.parallel", "parallel")
	c.bind(cmd, "render.output", "output")
	c.bind(cmd, "render.title", "title")
	c.bind(cmd, "render.scale", "scale")

	_ = cmd.RegisterFlagCompletionFunc("profile", completeProfiles)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// runLayout executes the pipeline and writes every artifact to outDir.
// Progress goes to the command's error stream and the summary to its output.
func (c *CLI) runLayout(cmd *cobra.Command, opts pipeline.Options, outDir string, noCache bool) error {
	ctx := cmd.Context()
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatJSON}
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Laying out hall...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		if spinner.Cancelled() {
			return ctx.Err()
		}
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, outDir)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("wrote %d artifacts", len(paths)))

	out := newPrinter(cmd.OutOrStdout())
	out.success("Laid out %s", styleAccent.Render(result.Profile.Name()))
	for _, p := range paths {
		out.file(p)
	}
	out.hallStats(result.Layout, result.CacheInfo.LayoutHit)
	if slices.Contains(opts.Formats, pipeline.FormatJSON) {
		out.nextStep("Inspect", fmt.Sprintf("%s inspect %s", appName, filepath.Join(outDirOrDot(outDir), pipeline.HallName+".json")))
	}
	return nil
}

// writeArtifacts writes artifacts in the order of formats and returns the
// written paths.
func writeArtifacts(artifacts map[string][]byte, formats []string, outDir string) ([]string, error) {
	outDir = outDirOrDot(outDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := filepath.Join(outDir, pipeline.HallName+pipeline.FormatExt[format])
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", format, err)
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no artifacts to write")
	}
	return paths, nil
}

func outDirOrDot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
