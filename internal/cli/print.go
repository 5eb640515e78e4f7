package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rohmanhakim/wikicurious/internal/explore"
	"github.com/rohmanhakim/wikicurious/internal/topic"
	"github.com/rohmanhakim/wikicurious/internal/view"
	"github.com/rohmanhakim/wikicurious/pkg/htmltext"
)

// loadView runs fetch under a view token, so a result that arrives after the
// command was interrupted is dropped instead of printed.
func loadView[T any](ctx context.Context, fetch func(ctx context.Context) (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}
	token := view.NewToken(ctx)
	defer token.Cancel()

	var out result
	applied := view.Load(token, func(ctx context.Context) result {
		v, err := fetch(ctx)
		return result{value: v, err: err}
	}, func(r result) {
		out = r
	})
	if !applied {
		var zero T
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		return zero, context.Canceled
	}
	return out.value, out.err
}

// userError keeps the message a reader should see and logs the rest.
func userError(logger *slog.Logger, err error) error {
	var viewErr *explore.ViewError
	if errors.As(err, &viewErr) {
		if viewErr.Err != nil {
			logger.Debug("view failed", slog.String("cause", string(viewErr.Cause)), slog.String("error", viewErr.Err.Error()))
		}
		return errors.New(viewErr.Message)
	}
	return err
}

func printSummary(w io.Writer, s topic.Summary) {
	fmt.Fprintf(w, "%s\n", s.Title)
	if s.Description != "" {
		fmt.Fprintf(w, "%s\n", s.Description)
	}
	if s.Extract != "" {
		fmt.Fprintf(w, "\n%s\n", s.Extract)
	}
	if s.Thumbnail != nil && s.Thumbnail.Source != "" {
		fmt.Fprintf(w, "\nImage: %s\n", s.Thumbnail.Upscaled(topic.DefaultUpscaleWidth))
	}
	if u := s.PageURL(); u != "" {
		fmt.Fprintf(w, "Read more: %s\n", u)
	}
}

// printSummaryLine prints one list entry: title, then the description.
func printSummaryLine(w io.Writer, s topic.Summary) {
	if s.Description == "" {
		fmt.Fprintf(w, "- %s\n", s.Title)
		return
	}
	fmt.Fprintf(w, "- %s: %s\n", s.Title, s.Description)
}

func printSearchHit(w io.Writer, hit topic.SearchHit) {
	snippet := htmltext.PlainText(hit.Snippet)
	if snippet == "" {
		fmt.Fprintf(w, "- %s\n", hit.Title)
		return
	}
	fmt.Fprintf(w, "- %s: %s\n", hit.Title, snippet)
}

func printSearchView(w io.Writer, v explore.SearchView) {
	if v.Main != nil {
		printSummary(w, *v.Main)
	}
	if len(v.Articles) == 0 {
		return
	}
	heading := "Related articles"
	if v.Source == explore.SourceSearch {
		heading = "Search results"
	}
	if v.Main != nil {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%s for %q:\n", heading, v.Query)
	for _, s := range v.Articles {
		printSummaryLine(w, s)
	}
}

func printJourney(w io.Writer, v explore.JourneyView) {
	fmt.Fprintf(w, "%s\n%s\n", v.Journey.Title, v.Journey.Subtitle)
	for i, stop := range v.Stops {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, stop.Stop.Label)
		if stop.Stop.Blurb != "" {
			fmt.Fprintf(w, "   %s\n", stop.Stop.Blurb)
		}
		if stop.Summary == nil {
			continue
		}
		if extract := strings.TrimSpace(stop.Summary.Extract); extract != "" {
			fmt.Fprintf(w, "   %s\n", extract)
		}
	}
}

func printJourneyList(w io.Writer, journeys []explore.Journey) {
	for _, j := range journeys {
		fmt.Fprintf(w, "%-14s %s\n", j.Name, j.Title)
	}
}
