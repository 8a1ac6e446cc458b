package storage

import (
	"context"

	"github.com/dennisdiepolder/monti/recovery/internal/metrics"
)

// PageFunc reads page number page (0-based) of at most size records
type PageFunc[T any] func(ctx context.Context, page, size int) ([]T, error)

// DrainPages requests fixed-size pages until one comes back shorter than
// size. Any page error aborts the drain and is returned as a
// *SourceFetchError; no partial result is returned.
func DrainPages[T any](ctx context.Context, collection string, size int, fetch PageFunc[T]) ([]T, error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	m := metrics.Get()

	var all []T
	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, &SourceFetchError{Collection: collection, Page: page, Err: err}
		}

		records, err := fetch(ctx, page, size)
		if err != nil {
			m.RecordFetchError(collection)
			return nil, &SourceFetchError{Collection: collection, Page: page, Err: err}
		}
		m.RecordPage(collection, len(records))
		all = append(all, records...)

		if len(records) < size {
			return all, nil
		}
	}
}
