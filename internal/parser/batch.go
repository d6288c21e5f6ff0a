package parser

import (
	"context"

	"github.com/xxxsen/tldx/internal/suffix"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome for one host of a batch.
type Result struct {
	Host  string
	Parts suffix.Parts
	Err   error
}

// ParseBatch decomposes hosts with up to concurrent workers. Results keep the
// input order; a failing host does not stop the batch. Only cancellation of
// ctx is returned as an error.
func ParseBatch(ctx context.Context, p IDomainParser, hosts []string, concurrent int) ([]Result, error) {
	if concurrent <= 0 {
		concurrent = 1
	}
	results := make([]Result, len(hosts))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrent)
	for i, host := range hosts {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			parts, err := p.Parse(host)
			results[i] = Result{Host: host, Parts: parts, Err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
