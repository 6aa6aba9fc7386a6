package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// newCommand creates the interactive new command.
func (c *CLI) newCommand() *cobra.Command {
	var opts outputOpts

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Describe a vibe interactively and generate a moodboard",
		Long: `Open a form to type a vibe description and toggle style tags, then
generate and export the moodboard like 'generate' does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNew(cmd.Context(), opts)
		},
	}

	opts.register(cmd)

	return cmd
}

func (c *CLI) runNew(ctx context.Context, opts outputOpts) error {
	p := tea.NewProgram(NewVibeFormModel(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(VibeFormModel)
	if !ok || !fm.Submitted {
		printDetail("Nothing generated")
		return nil
	}
	return c.runGenerate(ctx, fm.Request(), opts)
}
