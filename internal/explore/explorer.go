package explore

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rohmanhakim/wikicurious/internal/topic"
	"github.com/rohmanhakim/wikicurious/pkg/failure"
)

// DefaultMaxSearchResults caps how many legacy search hits are resolved into
// summaries.
const DefaultMaxSearchResults = 6

type Summaries interface {
	Fetch(ctx context.Context, title string) (topic.Summary, failure.ClassifiedError)
	GetSummaries(ctx context.Context, titles []string) map[string]topic.Summary
}

type SavedList interface {
	Titles(ctx context.Context) []string
	IsSaved(ctx context.Context, title string) bool
}

/*
Explorer assembles the content of each page.

  - Summaries always go through the shared summary cache.
  - Related pages and search hits are never cached.
  - Decorative content (journey stops) never fails a page.
*/
type Explorer struct {
	summaries        Summaries
	source           topic.Source
	saved            SavedList
	maxSearchResults int
	logger           *slog.Logger
}

func NewExplorer(
	summaries Summaries,
	source topic.Source,
	saved SavedList,
	maxSearchResults int,
	logger *slog.Logger,
) *Explorer {
	if maxSearchResults < 1 {
		maxSearchResults = DefaultMaxSearchResults
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Explorer{
		summaries:        summaries,
		source:           source,
		saved:            saved,
		maxSearchResults: maxSearchResults,
		logger:           logger,
	}
}

type ArticleView struct {
	Summary topic.Summary
	Saved   bool
}

// Article loads one article and whether it is on the saved list.
func (e *Explorer) Article(ctx context.Context, title string) (ArticleView, error) {
	if strings.TrimSpace(title) == "" {
		return ArticleView{}, &ViewError{Message: MsgArticleNotFound, Cause: ErrCauseInvalid}
	}
	summary, err := e.summaries.Fetch(ctx, title)
	if err != nil {
		if isNotFound(err) {
			return ArticleView{}, &ViewError{Message: MsgArticleNotFound, Cause: ErrCauseNotFound, Err: err}
		}
		return ArticleView{}, &ViewError{Message: MsgArticleFetchFailed, Cause: ErrCauseFetchFailed, Err: err}
	}
	return ArticleView{
		Summary: summary,
		Saved:   e.saved.IsSaved(ctx, title),
	}, nil
}

// ArticleSource names the step that filled SearchView.Articles.
type ArticleSource string

const (
	SourceNone    ArticleSource = ""
	SourceRelated ArticleSource = "related"
	SourceSearch  ArticleSource = "search"
)

type SearchView struct {
	Query    string
	Main     *topic.Summary
	Articles []topic.Summary
	Source   ArticleSource
}

/*
Search runs three independent steps in a fixed order.

 1. The query's own summary becomes the main article.
 2. Related pages of the query fill the article list.
 3. Only when step 2 produced nothing, legacy search hits (top N) are
    resolved to summaries and fill the list. The first of them becomes the
    main article only when step 1 failed.

Each step looks only at what it received itself. The search fails with
MsgNoResults when every step came back empty.
*/
func (e *Explorer) Search(ctx context.Context, query string) (SearchView, error) {
	if strings.TrimSpace(query) == "" {
		return SearchView{}, &ViewError{Message: MsgEmptyQuery, Cause: ErrCauseInvalid}
	}
	view := SearchView{Query: query}
	var lastErr error

	main, err := e.summaries.Fetch(ctx, query)
	if err == nil {
		view.Main = &main
	} else {
		lastErr = err
		e.logger.Debug("search step failed", slog.String("step", "summary"), slog.String("query", query), slog.String("error", err.Error()))
	}

	related, err := e.source.Related(ctx, query)
	if err == nil && len(related.Pages) > 0 {
		view.Articles = related.Pages
		view.Source = SourceRelated
	} else {
		if err != nil {
			lastErr = err
			e.logger.Debug("search step failed", slog.String("step", "related"), slog.String("query", query), slog.String("error", err.Error()))
		}
		articles, sErr := e.searchSummaries(ctx, query)
		if sErr != nil {
			lastErr = sErr
			e.logger.Debug("search step failed", slog.String("step", "search"), slog.String("query", query), slog.String("error", sErr.Error()))
		}
		if len(articles) > 0 {
			view.Articles = articles
			view.Source = SourceSearch
			if view.Main == nil {
				first := articles[0]
				view.Main = &first
			}
		}
	}

	if view.Main == nil && len(view.Articles) == 0 {
		if ctx.Err() != nil || (lastErr != nil && !isNotFound(lastErr)) {
			return SearchView{}, &ViewError{Message: MsgSearchFetchFailed, Cause: ErrCauseFetchFailed, Err: lastErr}
		}
		return SearchView{}, &ViewError{Message: MsgNoResults, Cause: ErrCauseNotFound, Err: lastErr}
	}
	return view, nil
}

func (e *Explorer) searchSummaries(ctx context.Context, query string) ([]topic.Summary, failure.ClassifiedError) {
	hits, err := e.source.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(hits) > e.maxSearchResults {
		hits = hits[:e.maxSearchResults]
	}
	titles := make([]string, 0, len(hits))
	for _, h := range hits {
		titles = append(titles, h.Title)
	}
	resolved := e.summaries.GetSummaries(ctx, titles)

	articles := make([]topic.Summary, 0, len(titles))
	for _, t := range titles {
		if s, ok := resolved[t]; ok {
			articles = append(articles, s)
		}
	}
	return articles, nil
}

type StopView struct {
	Stop    Stop
	Summary *topic.Summary
}

type JourneyView struct {
	Journey Journey
	Stops   []StopView
}

// Journey loads a curated journey. Stops whose summary cannot be fetched
// are shown without one. The bool is false for an unknown journey name.
func (e *Explorer) Journey(ctx context.Context, name string) (JourneyView, bool) {
	journey, ok := FindJourney(name)
	if !ok {
		return JourneyView{}, false
	}
	resolved := e.summaries.GetSummaries(ctx, journey.articles())

	view := JourneyView{Journey: journey, Stops: make([]StopView, 0, len(journey.Stops))}
	for _, stop := range journey.Stops {
		sv := StopView{Stop: stop}
		if s, found := resolved[stop.Article]; found {
			sv.Summary = &s
		}
		view.Stops = append(view.Stops, sv)
	}
	return view, true
}

// Saved resolves the saved list in list order. Titles whose summary cannot
// be fetched are left out.
func (e *Explorer) Saved(ctx context.Context) []topic.Summary {
	titles := e.saved.Titles(ctx)
	if len(titles) == 0 {
		return []topic.Summary{}
	}
	resolved := e.summaries.GetSummaries(ctx, titles)

	out := make([]topic.Summary, 0, len(titles))
	for _, t := range titles {
		if s, ok := resolved[t]; ok {
			out = append(out, s)
		}
	}
	return out
}
