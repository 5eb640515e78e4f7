package topic_test

import (
	"context"
	"sync"

	"github.com/rohmanhakim/wikicurious/internal/gateway"
	"github.com/rohmanhakim/wikicurious/internal/topic"
	"github.com/rohmanhakim/wikicurious/pkg/failure"
	"github.com/stretchr/testify/mock"
)

// sourceMock is a testify mock for topic.Source
type sourceMock struct {
	mock.Mock
	mu sync.Mutex
}

func (s *sourceMock) Summary(ctx context.Context, title string) (topic.Summary, failure.ClassifiedError) {
	s.mu.Lock()
	args := s.Called(ctx, title)
	s.mu.Unlock()
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return args.Get(0).(topic.Summary), err
}

func (s *sourceMock) Related(ctx context.Context, title string) (topic.RelatedPages, failure.ClassifiedError) {
	s.mu.Lock()
	args := s.Called(ctx, title)
	s.mu.Unlock()
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return args.Get(0).(topic.RelatedPages), err
}

func (s *sourceMock) Search(ctx context.Context, query string) ([]topic.SearchHit, failure.ClassifiedError) {
	s.mu.Lock()
	args := s.Called(ctx, query)
	s.mu.Unlock()
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	hits, _ := args.Get(0).([]topic.SearchHit)
	return hits, err
}

func summaryOf(title string) topic.Summary {
	return topic.Summary{
		Title:   title,
		Extract: title + " is a place worth visiting.",
	}
}

func unavailable() *gateway.GatewayError {
	return gateway.NewUpstreamUnavailableError("HTTP 500: Internal Server Error")
}
