// Package fetch retrieves complete result sets from range-paginated
// sources without the caller managing offsets.
package fetch

import (
	"context"
	"fmt"
)

// DefaultPageSize is the page size used by the store selectors.
const DefaultPageSize = 1000

// Page returns the rows in [offset, offset+limit). Successive calls
// must observe a consistent ordering.
type Page[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// All retrieves every row from page, advancing the offset by the
// number of rows actually returned. A page shorter than pageSize
// (including empty) is the sole end-of-data signal; no separate
// total-count query is issued. A result set that is an exact multiple
// of pageSize costs one trailing empty request, never a loop: at most
// ceil(N/pageSize)+1 requests are made for N matching rows.
//
// The first page error aborts the fetch and discards any partially
// accumulated rows.
func All[T any](ctx context.Context, pageSize int, page Page[T]) ([]T, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	var rows []T
	offset := 0
	for {
		batch, err := page(ctx, offset, pageSize)
		if err != nil {
			return nil, fmt.Errorf("fetching page at offset %d: %w", offset, err)
		}
		rows = append(rows, batch...)
		if len(batch) < pageSize {
			return rows, nil
		}
		offset += len(batch)
	}
}
