package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/shapeboard/pkg/errors"
	"github.com/matzehuels/shapeboard/pkg/render"
)

// outlineCommand prints the scene tree (background, icons, sub-paths) as a
// Graphviz diagram.
func (c *CLI) outlineCommand() *cobra.Command {
	var (
		opts   composition
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "outline",
		Short: "Show the scene tree of a composition as DOT or SVG",
		Example: `  shapeboard outline --shape circle --icon umbrella --icon star
  shapeboard outline --shape square --icon star --format svg -o tree.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "dot" && format != "svg" {
				return apperr.New(apperr.ErrCodeInvalidFormat, "outline format must be dot or svg, got %q", format)
			}
			specs, err := opts.validate()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			s, err := c.newSession(ctx, c.Logger, opts.noCache)
			if err != nil {
				return err
			}
			defer s.Close()

			ctrl := s.controller(opts.seed)
			if err := opts.apply(ctx, ctrl, specs); err != nil {
				return err
			}

			data := []byte(render.OutlineDOT(ctrl.Snapshot()))
			if format == "svg" {
				if data, err = render.OutlineSVG(ctx, string(data)); err != nil {
					return err
				}
			}

			if out == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write outline: %w", err)
			}
			printSuccess("Wrote %s", out)
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot or svg")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	return cmd
}
