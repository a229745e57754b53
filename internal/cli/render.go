package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shapeboard/pkg/export"
)

// renderOpts holds options for the render command.
type renderOpts struct {
	composition
	formats string
	scale   float64
	out     string
	archive bool
}

// renderCommand creates the render command for headless exports.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Compose a scene from flags and export it",
		Long: `Compose a scene from flags and export it as PNG and/or SVG.

The background shape is drawn first, then each --icon in order, so later
icons stack on top. Files are written as <filename>.<format> into --out.`,
		Example: `  # Yellow circle with a black star
  shapeboard render --shape circle --icon star

  # Both formats at 2x, archived to MongoDB
  shapeboard render --shape square --shape-color navy \
    --icon umbrella@#ff0000 --icon star --format png,svg --scale 2 --archive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), opts)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "png", "output formats: png, svg (comma-separated)")
	cmd.Flags().Float64VarP(&opts.scale, "scale", "s", 1,
		fmt.Sprintf("PNG scale factor, capped at export.max_scale (default %d); invalid values fall back to 1", export.DefaultMaxScale))
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory (default from config)")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "also store exports in the configured MongoDB archive")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts renderOpts) error {
	formats, err := parseFormats(opts.formats)
	if err != nil {
		return err
	}
	specs, err := opts.validate()
	if err != nil {
		return err
	}

	logger := c.Logger
	ctx = withLogger(ctx, logger)

	s, err := c.newSession(ctx, logger, opts.noCache)
	if err != nil {
		return err
	}
	defer s.Close()

	var archive *export.MongoDownloader
	if opts.archive {
		if archive, err = newArchive(ctx, s.cfg); err != nil {
			return err
		}
		defer archive.Close(context.WithoutCancel(ctx))
	}

	prog := newProgress(logger)
	ctrl := s.controller(opts.seed)

	if len(specs) > 0 {
		spinner := newSpinnerWithContext(ctx, "Loading icons...")
		spinner.Start()
		err = opts.apply(ctx, ctrl, specs)
		spinner.Stop()
	} else {
		err = opts.apply(ctx, ctrl, nil)
	}
	if err != nil {
		return err
	}

	out := opts.out
	if out == "" {
		out = s.cfg.Export.Dir
	}
	dir := export.DirDownloader{Dir: out}
	snap := ctrl.Snapshot()

	printSuccess("Composed %d icons", len(snap.Icons))
	for _, f := range formats {
		a, err := s.exporter.Export(ctx, snap, f, opts.scale)
		if err != nil {
			return err
		}
		path, err := dir.Download(ctx, a)
		if err != nil {
			return err
		}
		printArtifact(path, a)

		if archive != nil {
			loc, err := archive.Download(ctx, a)
			if err != nil {
				return err
			}
			printDetail("archived %s", loc)
		}
	}
	prog.done("Rendered " + strings.Join(formatNames(formats), ", "))
	return nil
}

// parseFormats parses a comma-separated format list, dropping duplicates.
func parseFormats(s string) ([]export.Format, error) {
	if strings.TrimSpace(s) == "" {
		return []export.Format{export.PNG}, nil
	}
	var formats []export.Format
	seen := map[export.Format]bool{}
	for _, part := range strings.Split(s, ",") {
		f, err := export.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

func formatNames(formats []export.Format) []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}
