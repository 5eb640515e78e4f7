package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/rohmanhakim/wikicurious/internal/export"
	"github.com/rohmanhakim/wikicurious/internal/mdconvert"
	"github.com/rohmanhakim/wikicurious/internal/topic"
	"github.com/rohmanhakim/wikicurious/pkg/fileutil"
	"github.com/rohmanhakim/wikicurious/pkg/hashutil"
	"github.com/spf13/cobra"
)

const (
	formatMarkdown = "md"
	formatHTML     = "html"

	msgNoSaved = "No saved articles yet"
)

var (
	exportOutputDir string
	exportFormat    = formatMarkdown
	exportRich      bool
)

var saveCmd = &cobra.Command{
	Use:   "save <title>",
	Short: "Save an article, or unsave it when already saved",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		return runWithApp(cmd, true, func(ctx context.Context, a *app) error {
			isSaved, err := a.saved.ToggleSave(ctx, title)
			if err != nil {
				return fmt.Errorf("could not update saved articles: %w", err)
			}
			if isSaved {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %q\n", title)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from saved articles\n", title)
			}
			return nil
		})
	},
}

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage the saved articles list",
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved articles in the order they were saved",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, true, func(ctx context.Context, a *app) error {
			summaries, err := loadView(ctx, func(ctx context.Context) ([]topic.Summary, error) {
				return a.explorer.Saved(ctx), nil
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(w, msgNoSaved)
				return nil
			}
			for _, s := range summaries {
				printSummaryLine(w, s)
			}
			return nil
		})
	},
}

var savedRemoveCmd = &cobra.Command{
	Use:   "remove <title>",
	Short: "Remove an article from the saved list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		return runWithApp(cmd, true, func(ctx context.Context, a *app) error {
			if err := a.saved.Remove(ctx, title); err != nil {
				return fmt.Errorf("could not update saved articles: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from saved articles\n", title)
			return nil
		})
	},
}

var savedExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved articles as one Markdown or HTML document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFormat != formatMarkdown && exportFormat != formatHTML {
			return fmt.Errorf("unknown export format %q, want %s or %s", exportFormat, formatMarkdown, formatHTML)
		}
		return runWithApp(cmd, true, func(ctx context.Context, a *app) error {
			summaries := a.explorer.Saved(ctx)
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), msgNoSaved)
				return nil
			}

			exporter := export.NewExporter(export.Options{Rich: exportRich}, mdconvert.NewRule(a.recorder))
			document := exporter.Export(summaries)

			filename := export.DefaultFilename
			content := []byte(document)
			if exportFormat == formatHTML {
				filename = strings.TrimSuffix(filename, "."+fileutil.GetFileExtension(filename)) + "." + formatHTML
				content = export.RenderHTML(document)
			}

			result, err := a.sink.Write(a.cfg.OutputDir(), filename, content, hashutil.HashAlgoBLAKE3)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d articles to %s\n", len(summaries), result.Path())
			return nil
		})
	},
}

func init() {
	savedExportCmd.Flags().StringVar(&exportOutputDir, "output-dir", "", "directory the export is written to (default output)")
	savedExportCmd.Flags().StringVar(&exportFormat, "format", formatMarkdown, "export format: md or html")
	savedExportCmd.Flags().BoolVar(&exportRich, "rich", false, "convert article HTML to Markdown instead of using the plain extract")

	savedCmd.AddCommand(savedListCmd)
	savedCmd.AddCommand(savedRemoveCmd)
	savedCmd.AddCommand(savedExportCmd)
}
