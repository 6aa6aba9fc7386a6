package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moodmagic/moodmagic/pkg/errors"
	"github.com/moodmagic/moodmagic/pkg/export"
	"github.com/moodmagic/moodmagic/pkg/fonts"
	"github.com/moodmagic/moodmagic/pkg/generate"
	"github.com/moodmagic/moodmagic/pkg/moodboard"
	"github.com/moodmagic/moodmagic/pkg/pipeline"
)

// outputOpts holds the flags shared by commands that write a PDF.
type outputOpts struct {
	dir      string // output directory (config export.dir when empty)
	filename string // explicit PDF filename
	jsonOut  string // also write the moodboard JSON here
	noExport bool   // skip the PDF
}

func (o *outputOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.dir, "out", "o", "", "output directory (default from config, else current directory)")
	cmd.Flags().StringVar(&o.filename, "filename", "", "PDF filename (default derived from the board title)")
	cmd.Flags().StringVar(&o.jsonOut, "json", "", "also write the moodboard as JSON to this file")
	cmd.Flags().BoolVar(&o.noExport, "no-export", false, "do not write a PDF")
}

func (c *CLI) saverFor(o outputOpts) export.DirSaver {
	dir := o.dir
	if dir == "" {
		dir = c.Config.Export.Dir
	}
	return export.DirSaver{Dir: dir}
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		req  generate.Request
		opts outputOpts
	)

	cmd := &cobra.Command{
		Use:   "generate [vibe]",
		Short: "Generate a moodboard and export it as PDF",
		Long: `Generate a moodboard from a short description of a vibe and a set of style
tags, then render it to an A4 PDF.

At least a description or one tag is required. Tags are free-form; the
suggested catalog is: ` + strings.Join(moodboard.VibeTags, ", ") + `.`,
		Example: `  moodmagic generate "sunlit loft with linen and oak" --tag Minimal --tag Earthy
  moodmagic generate --tag Retro -o ~/boards --json board.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				req.VibeText = args[0]
			}
			return c.runGenerate(cmd.Context(), req, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&req.Tags, "tag", "t", nil, "style tag (repeatable)")
	opts.register(cmd)

	return cmd
}

// runGenerate generates a board and, unless disabled, exports it.
func (c *CLI) runGenerate(ctx context.Context, req generate.Request, opts outputOpts) error {
	if !req.Ready() {
		return errors.New(errors.ErrCodeInvalidInput, "describe a vibe or pick at least one tag")
	}

	saver := c.saverFor(opts)
	ctrl, cleanup, err := c.newController(ctx, saver)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}
	defer cleanup()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Generating moodboard...")
	spinner.Start()

	mb, err := ctrl.Generate(ctx, req)
	if err != nil {
		spinner.StopWithError(errors.UserMessage(err))
		return err
	}
	spinner.Stop()
	prog.done("Generated moodboard")

	printBoard(mb)
	fmt.Fprintln(out)

	if err := writeBoardJSON(opts.jsonOut, mb); err != nil {
		return err
	}
	if opts.noExport {
		return nil
	}
	return c.renderAndExport(ctx, ctrl, saver, exportOptions(mb, opts))
}

// renderAndExport renders the controller's current board, waits for its
// fonts and exports it through saver.
func (c *CLI) renderAndExport(ctx context.Context, ctrl *pipeline.Controller, saver export.DirSaver, eo export.Options) error {
	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Loading fonts...")
	spinner.Start()

	if _, err := ctrl.Render(ctx); err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	state := ctrl.WaitFonts(ctx)
	if err := ctx.Err(); err != nil {
		spinner.Stop()
		return err
	}
	if state != fonts.Loaded {
		loggerFromContext(ctx).Warn("fonts not ready, exporting with fallbacks", "state", state)
	}

	spinner.Update("Exporting PDF...")
	if err := ctrl.Export(ctx, eo); err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()

	prog.done("Exported moodboard")
	printSuccess("Moodboard saved")
	printFile(saver.Path(export.ResolveFilename(eo)))
	return nil
}

func exportOptions(mb moodboard.Moodboard, opts outputOpts) export.Options {
	eo := export.OptionsFor(mb)
	if opts.filename != "" {
		eo.Filename = opts.filename
	}
	return eo
}

func writeBoardJSON(path string, mb moodboard.Moodboard) error {
	if path == "" {
		return nil
	}
	data, err := moodboard.Encode(mb)
	if err != nil {
		return fmt.Errorf("encode moodboard: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}
