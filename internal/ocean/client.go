// Package ocean resolves product requests and fetches them into the local
// cache, one file or a whole date range at a time.
package ocean

import (
	"context"
	"fmt"
	"time"

	"oceanfetch/internal/models"
	"oceanfetch/internal/product"
	"oceanfetch/pkg/utils"
)

// Fetcher materializes a resolved target in a directory.
type Fetcher interface {
	Fetch(ctx context.Context, target product.Target, destDir string) (*models.FetchResult, error)
}

type Client struct {
	resolver *product.Resolver
	fetcher  Fetcher
}

func New(resolver *product.Resolver, fetcher Fetcher) *Client {
	return &Client{
		resolver: resolver,
		fetcher:  fetcher,
	}
}

// Download fetches a single product file. Unsupported products and
// malformed dates fail before any connection is made.
func (c *Client) Download(ctx context.Context, req models.FetchRequest) (*models.FetchResult, error) {
	date, err := product.ParseDateFor(req.Product, req.Date)
	if err != nil {
		return nil, err
	}

	target, err := c.resolver.Resolve(req.Product, date)
	if err != nil {
		return nil, err
	}

	return c.fetcher.Fetch(ctx, target, req.Destination)
}

// DownloadRange fetches every period of a product from start to end
// inclusive, stepping by the product's granularity. Missing files are
// recorded and skipped; an error from the fetcher stops the batch and is
// returned alongside what was fetched so far.
func (c *Client) DownloadRange(ctx context.Context, code, start, end, destDir string) (*models.BatchResult, error) {
	spec, err := product.Lookup(code)
	if err != nil {
		return nil, err
	}
	from, err := product.ParseDateFor(code, start)
	if err != nil {
		return nil, err
	}
	to, err := product.ParseDateFor(code, end)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end %s is before start %s", product.ErrInvalidDate, end, start)
	}

	startTime := time.Now()
	batch := &models.BatchResult{
		Product:       code,
		Start:         from.Format(spec.Granularity.Layout()),
		End:           to.Format(spec.Granularity.Layout()),
		Destination:   destDir,
		OperationTime: utils.FormatTime(startTime),
	}
	defer func() {
		batch.TotalSizeHuman = utils.FormatBytes(batch.TotalSizeBytes)
		batch.DownloadDuration = time.Since(startTime).String()
	}()

	for day := from; !day.After(to); day = spec.Granularity.Next(day) {
		target, err := c.resolver.Resolve(code, day)
		if err != nil {
			return batch, err
		}
		result, err := c.fetcher.Fetch(ctx, target, destDir)
		if err != nil {
			return batch, fmt.Errorf("%s %s: %w", code, target.DateLabel(), err)
		}
		batch.Add(*result)
	}

	return batch, nil
}
