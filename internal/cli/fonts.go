package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/moodmagic/moodmagic/pkg/fonts"
	"github.com/moodmagic/moodmagic/pkg/moodboard"
	"github.com/moodmagic/moodmagic/pkg/surface"
)

// fontsCommand creates the fonts command.
func (c *CLI) fontsCommand() *cobra.Command {
	var link, load bool

	cmd := &cobra.Command{
		Use:   "fonts [heading] [body]",
		Short: "Print the stylesheet for a font pair",
		Long: `Print the Google Fonts stylesheet URL for a heading/body font pair.

With --link the HTML <link> element is printed instead. With --load both
families are downloaded into the cache and parsed, which is what an export
does before rendering.`,
		Example: `  moodmagic fonts "Playfair Display" Inter
  moodmagic fonts Lora "Work Sans" --load`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair := moodboard.DefaultFontPair
			if len(args) == 2 {
				p, err := moodboard.NewFontPair(args[0], args[1])
				if err != nil {
					return err
				}
				pair = p
			} else if len(args) == 1 {
				return fmt.Errorf("both a heading and a body font are required")
			}
			return c.runFonts(cmd.Context(), pair, link, load)
		},
	}

	cmd.Flags().BoolVar(&link, "link", false, "print the <link> element")
	cmd.Flags().BoolVar(&load, "load", false, "download and parse both families")

	return cmd
}

func (c *CLI) runFonts(ctx context.Context, pair moodboard.FontPair, link, load bool) error {
	base := c.Config.Fonts.Base
	if link {
		fmt.Fprintln(out, fonts.LinkTag(base, []moodboard.FontPair{pair}))
	} else {
		fmt.Fprintln(out, fonts.StylesheetURL(base, pair))
	}
	if !load {
		return nil
	}

	store, err := c.newCache(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	doc := surface.NewDocument()
	fonts.Declare(doc, base, []moodboard.FontPair{pair})
	lib := fonts.NewLibrary(doc, c.pipelineConfig(store).HTTP, c.keyer(), c.Logger)

	spinner := newSpinnerWithContext(ctx, "Loading fonts...")
	spinner.Start()

	families := []string{pair.Heading, pair.Body}
	errs := make([]error, len(families))
	var g errgroup.Group
	for i, family := range families {
		i, family := i, family
		g.Go(func() error {
			errs[i] = lib.Load(ctx, family)
			return nil
		})
	}
	_ = g.Wait()
	spinner.Stop()

	failed := 0
	for i, family := range families {
		if errs[i] != nil {
			failed++
			printWarning("%s: %v", family, errs[i])
			continue
		}
		printSuccess("%s", StyleHighlight.Render(family))
	}
	if failed > 0 {
		printDetail("Missing families render with the built-in %s font", fonts.FallbackFamily)
	}
	return nil
}
