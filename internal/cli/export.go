package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moodmagic/moodmagic/pkg/moodboard"
)

// exportCommand creates the export command for rendering a saved board.
func (c *CLI) exportCommand() *cobra.Command {
	var opts outputOpts

	cmd := &cobra.Command{
		Use:   "export [moodboard.json]",
		Short: "Render a saved moodboard to PDF",
		Long: `Render a moodboard JSON file (as written by 'generate --json' or returned
by the generation backend) to an A4 PDF.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "out", "o", "", "output directory (default from config, else current directory)")
	cmd.Flags().StringVar(&opts.filename, "filename", "", "PDF filename (default derived from the board title)")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input string, opts outputOpts) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	mb, err := moodboard.Decode(data)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	saver := c.saverFor(opts)
	ctrl, cleanup, err := c.newController(ctx, saver)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}
	defer cleanup()

	ctrl.Set(mb)
	return c.renderAndExport(ctx, ctrl, saver, exportOptions(mb, opts))
}
