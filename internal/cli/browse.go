package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/rohmanhakim/wikicurious/internal/explore"
	"github.com/rohmanhakim/wikicurious/internal/topic"
	"github.com/spf13/cobra"
)

var searchRaw bool

var summaryCmd = &cobra.Command{
	Use:   "summary <title>",
	Short: "Print the summary of one article",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		return runWithApp(cmd, false, func(ctx context.Context, a *app) error {
			s, err := loadView(ctx, func(ctx context.Context) (topic.Summary, error) {
				s, err := a.summaries.Fetch(ctx, title)
				if err != nil {
					return topic.Summary{}, err
				}
				return s, nil
			})
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), s)
			return nil
		})
	},
}

var relatedCmd = &cobra.Command{
	Use:   "related <title>",
	Short: "List pages related to an article",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		return runWithApp(cmd, false, func(ctx context.Context, a *app) error {
			related, err := loadView(ctx, func(ctx context.Context) (topic.RelatedPages, error) {
				r, err := a.source.Related(ctx, title)
				if err != nil {
					return topic.RelatedPages{}, err
				}
				return r, nil
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(related.Pages) == 0 {
				fmt.Fprintln(w, explore.MsgNoResults)
				return nil
			}
			for _, s := range related.Pages {
				printSummaryLine(w, s)
			}
			return nil
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for a topic, or list popular destinations without a query",
	Long: `search shows the query's own article followed by its related pages. When
there are no related pages the top legacy search results are shown instead.
--raw prints the legacy search hits with their snippets.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintln(w, "Popular destinations:")
			for _, d := range explore.PopularDestinations {
				fmt.Fprintf(w, "- %s, %s\n", d.Name, d.Country)
			}
			return nil
		}
		query := strings.Join(args, " ")
		return runWithApp(cmd, false, func(ctx context.Context, a *app) error {
			if searchRaw {
				hits, err := loadView(ctx, func(ctx context.Context) ([]topic.SearchHit, error) {
					h, err := a.source.Search(ctx, query)
					if err != nil {
						return nil, err
					}
					return h, nil
				})
				if err != nil {
					return err
				}
				if len(hits) == 0 {
					fmt.Fprintln(w, explore.MsgNoResults)
					return nil
				}
				for _, hit := range hits {
					printSearchHit(w, hit)
				}
				return nil
			}

			v, err := loadView(ctx, func(ctx context.Context) (explore.SearchView, error) {
				return a.explorer.Search(ctx, query)
			})
			if err != nil {
				return userError(a.logger, err)
			}
			printSearchView(w, v)
			return nil
		})
	},
}

var articleCmd = &cobra.Command{
	Use:   "article <title>",
	Short: "Show an article and whether it is saved",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		return runWithApp(cmd, true, func(ctx context.Context, a *app) error {
			v, err := loadView(ctx, func(ctx context.Context) (explore.ArticleView, error) {
				return a.explorer.Article(ctx, title)
			})
			if err != nil {
				return userError(a.logger, err)
			}
			w := cmd.OutOrStdout()
			printSummary(w, v.Summary)
			if v.Saved {
				fmt.Fprintln(w, "\n[saved]")
			}
			return nil
		})
	},
}

var journeyCmd = &cobra.Command{
	Use:   "journey [name]",
	Short: "Follow a curated journey, or list them without a name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if len(args) == 0 {
			printJourneyList(w, explore.Journeys())
			return nil
		}
		name := args[0]
		if _, ok := explore.FindJourney(name); !ok {
			return fmt.Errorf("unknown journey %q", name)
		}
		return runWithApp(cmd, false, func(ctx context.Context, a *app) error {
			v, err := loadView(ctx, func(ctx context.Context) (explore.JourneyView, error) {
				jv, _ := a.explorer.Journey(ctx, name)
				return jv, nil
			})
			if err != nil {
				return err
			}
			printJourney(w, v)
			return nil
		})
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchRaw, "raw", false, "print legacy search hits instead of the search page")
}
