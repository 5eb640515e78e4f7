package explore_test

import (
	"context"
	"sync"

	"github.com/rohmanhakim/wikicurious/internal/gateway"
	"github.com/rohmanhakim/wikicurious/internal/topic"
	"github.com/rohmanhakim/wikicurious/pkg/failure"
)

// stubSource answers from fixed tables. Titles missing from summaries are
// NotFound unless listed in failing.
type stubSource struct {
	mu        sync.Mutex
	summaries map[string]topic.Summary
	related   map[string][]topic.Summary
	hits      map[string][]topic.SearchHit
	failing   map[string]bool
	calls     []string
}

func newStubSource() *stubSource {
	return &stubSource{
		summaries: map[string]topic.Summary{},
		related:   map[string][]topic.Summary{},
		hits:      map[string][]topic.SearchHit{},
		failing:   map[string]bool{},
	}
}

func (s *stubSource) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubSource) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubSource) Summary(_ context.Context, title string) (topic.Summary, failure.ClassifiedError) {
	s.record("summary:" + title)
	if s.failing["summary:"+title] {
		return topic.Summary{}, gateway.NewUpstreamUnavailableError("boom")
	}
	if summary, ok := s.summaries[title]; ok {
		return summary, nil
	}
	return topic.Summary{}, gateway.NewNotFoundError(title)
}

func (s *stubSource) Related(_ context.Context, title string) (topic.RelatedPages, failure.ClassifiedError) {
	s.record("related:" + title)
	if s.failing["related:"+title] {
		return topic.RelatedPages{}, gateway.NewUpstreamUnavailableError("boom")
	}
	pages, ok := s.related[title]
	if !ok {
		return topic.RelatedPages{}, gateway.NewNotFoundError(title)
	}
	return topic.RelatedPages{Pages: pages}, nil
}

func (s *stubSource) Search(_ context.Context, query string) ([]topic.SearchHit, failure.ClassifiedError) {
	s.record("search:" + query)
	if s.failing["search:"+query] {
		return nil, gateway.NewUpstreamUnavailableError("boom")
	}
	return s.hits[query], nil
}

type stubSaved struct {
	titles []string
}

func (s *stubSaved) Titles(context.Context) []string {
	return append([]string(nil), s.titles...)
}

func (s *stubSaved) IsSaved(_ context.Context, title string) bool {
	for _, t := range s.titles {
		if t == title {
			return true
		}
	}
	return false
}

func summary(title string) topic.Summary {
	return topic.Summary{Title: title, Extract: title + " extract"}
}
