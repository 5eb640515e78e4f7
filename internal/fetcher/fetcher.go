package fetcher

import (
	"context"

	"github.com/rohmanhakim/wikicurious/pkg/failure"
	"github.com/rohmanhakim/wikicurious/pkg/retry"
)

type Fetcher interface {
	Fetch(
		ctx context.Context,
		fetchParam FetchParam,
		retryParam retry.RetryParam,
	) (FetchResult, failure.ClassifiedError)
}
