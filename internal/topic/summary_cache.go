package topic

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rohmanhakim/wikicurious/internal/cache"
	"github.com/rohmanhakim/wikicurious/internal/metadata"
	"github.com/rohmanhakim/wikicurious/pkg/failure"
)

// DefaultBatchConcurrency bounds concurrent misses fetched by GetSummaries.
const DefaultBatchConcurrency = 8

/*
SummaryCache is the one collaborator every browsing surface uses to read
topic summaries.

  - A hit never touches the network.
  - A miss calls the gateway summary action and caches only on success.
  - Failures are absorbed by GetSummary and GetSummaries; Fetch surfaces them.
  - Concurrent misses for the same title are not coalesced. The later
    write overwrites the earlier with an equivalent document.

Entries are keyed by the requested title and never expire.
*/
type SummaryCache struct {
	source       Source
	entries      cache.Cache[Summary]
	metadataSink metadata.MetadataSink
	concurrency  int
}

func NewSummaryCache(
	source Source,
	entries cache.Cache[Summary],
	metadataSink metadata.MetadataSink,
	concurrency int,
) *SummaryCache {
	if concurrency < 1 {
		concurrency = DefaultBatchConcurrency
	}
	return &SummaryCache{
		source:       source,
		entries:      entries,
		metadataSink: metadataSink,
		concurrency:  concurrency,
	}
}

// Peek returns a cached summary without fetching.
func (c *SummaryCache) Peek(title string) (Summary, bool) {
	return c.entries.Get(title)
}

// Fetch returns the summary for title, calling the gateway on a miss.
func (c *SummaryCache) Fetch(ctx context.Context, title string) (Summary, failure.ClassifiedError) {
	if summary, ok := c.entries.Get(title); ok {
		c.metadataSink.RecordCacheLookup(title, true)
		return summary, nil
	}
	c.metadataSink.RecordCacheLookup(title, false)

	summary, err := c.source.Summary(ctx, title)
	if err != nil {
		return Summary{}, err
	}
	c.entries.Put(title, summary)
	return summary, nil
}

// GetSummary is Fetch with failures treated as absence. Empty titles are
// absent without a call.
func (c *SummaryCache) GetSummary(ctx context.Context, title string) (Summary, bool) {
	if strings.TrimSpace(title) == "" {
		return Summary{}, false
	}
	summary, err := c.Fetch(ctx, title)
	if err != nil {
		return Summary{}, false
	}
	return summary, true
}

// GetSummaries resolves many titles at once. Cached titles are served
// directly, misses are fetched concurrently, and the result holds exactly
// the titles that resolved.
func (c *SummaryCache) GetSummaries(ctx context.Context, titles []string) map[string]Summary {
	result := make(map[string]Summary, len(titles))
	var misses []string
	seen := make(map[string]struct{}, len(titles))

	for _, title := range titles {
		if strings.TrimSpace(title) == "" {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}

		if summary, ok := c.entries.Get(title); ok {
			c.metadataSink.RecordCacheLookup(title, true)
			result[title] = summary
			continue
		}
		misses = append(misses, title)
	}

	if len(misses) == 0 {
		return result
	}

	fetched := make([]*Summary, len(misses))
	var group errgroup.Group
	group.SetLimit(c.concurrency)

	for i, title := range misses {
		group.Go(func() error {
			if summary, ok := c.GetSummary(ctx, title); ok {
				fetched[i] = &summary
			}
			return nil
		})
	}
	_ = group.Wait()

	for i, title := range misses {
		if fetched[i] != nil {
			result[title] = *fetched[i]
		}
	}
	return result
}
