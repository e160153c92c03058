package sonar

import (
	"context"
)

// DefaultPageSize is the page size used when none is requested.
const DefaultPageSize = 100

// PageFetcher fetches one page of items for the given parameters. Resource
// clients supply one per list endpoint; it extracts the resource-specific
// item collection and paging metadata from the response body.
type PageFetcher[T any] func(ctx context.Context, params *QueryParams) (*Page[T], error)

// PageIterator provides single-pass iteration over paginated results. It
// fetches one page at a time and never fetches a page it will not consume.
type PageIterator[T any] struct {
	ctx      context.Context
	fetch    PageFetcher[T]
	params   *QueryParams
	buffer   []T
	nextPage int
	hasMore  bool
	started  bool
	err      error
}

// NewPageIterator creates a new iterator over a paginated endpoint.
func NewPageIterator[T any](ctx context.Context, fetch PageFetcher[T], params *QueryParams) *PageIterator[T] {
	if params == nil {
		params = NewQueryParams()
	}

	startPage := params.Page
	if startPage <= 0 {
		startPage = 1
	}

	return &PageIterator[T]{
		ctx:      ctx,
		fetch:    fetch,
		params:   params,
		nextPage: startPage,
		hasMore:  true,
	}
}

// HasNext reports whether another item is available, fetching the next
// page when the current one is exhausted.
func (it *PageIterator[T]) HasNext() bool {
	if it.err != nil {
		return false
	}

	if len(it.buffer) > 0 {
		return true
	}

	if !it.hasMore {
		return false
	}

	it.fetchNextPage()

	return it.err == nil && len(it.buffer) > 0
}

// Next returns the next item. It returns ErrNoMoreItems when the sequence
// is exhausted.
func (it *PageIterator[T]) Next() (T, error) {
	var zero T

	if !it.HasNext() {
		if it.err != nil {
			return zero, it.err
		}

		return zero, ErrNoMoreItems
	}

	item := it.buffer[0]
	it.buffer = it.buffer[1:]

	return item, nil
}

// All drains the remaining items into a slice.
func (it *PageIterator[T]) All() ([]T, error) {
	var items []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return items, err
		}

		items = append(items, item)
	}

	if it.err != nil {
		return items, it.err
	}

	return items, nil
}

// ForEach applies fn to every remaining item, stopping on the first error.
func (it *PageIterator[T]) ForEach(fn func(T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}

	return it.err
}

func (it *PageIterator[T]) fetchNextPage() {
	requested := it.params.PageSize
	if requested <= 0 {
		requested = DefaultPageSize
	}

	pageParams := *it.params
	pageParams.Page = it.nextPage
	pageParams.PageSize = requested

	page, err := it.fetch(it.ctx, &pageParams)
	if err != nil {
		it.err = err
		it.hasMore = false

		return
	}

	it.started = true
	it.buffer = page.Items
	it.hasMore = morePages(page.Paging, it.nextPage, requested, len(page.Items))
	it.nextPage++
}

// morePages recomputes the cursor's continuation condition from the
// server-reported paging metadata. The server-reported page size is
// trusted unless it is non-positive, which would otherwise loop forever;
// the requested size is used instead in that case. A page shorter than
// the page size always terminates the walk.
func morePages(paging Paging, requestedPage, requestedSize, itemCount int) bool {
	if itemCount == 0 {
		return false
	}

	pageIndex := paging.PageIndex
	if pageIndex <= 0 {
		pageIndex = requestedPage
	}

	pageSize := paging.PageSize
	if pageSize <= 0 {
		pageSize = requestedSize
	}

	if itemCount < pageSize {
		return false
	}

	return pageIndex*pageSize < paging.Total
}

// PaginationOptions configures the fetch-all helpers.
type PaginationOptions struct {
	// PageSize overrides the page size for each fetch.
	PageSize int
	// MaxPages limits how many pages are fetched (0 = unlimited).
	MaxPages int
	// MaxItems caps the number of items returned (0 = unlimited). The
	// final page may be consumed partially.
	MaxItems int
}

// FetchAllPages collects every item across all pages of an endpoint,
// honoring the limits in options.
func FetchAllPages[T any](ctx context.Context, fetch PageFetcher[T], params *QueryParams, options *PaginationOptions) ([]T, error) {
	if params == nil {
		params = NewQueryParams()
	}

	if options == nil {
		options = &PaginationOptions{}
	}

	if options.PageSize > 0 {
		params.PageSize = options.PageSize
	}

	iterator := NewPageIterator(ctx, fetch, params)

	var items []T

	pagesFetched := 0

	for iterator.HasNext() {
		item, err := iterator.Next()
		if err != nil {
			return items, err
		}

		items = append(items, item)

		if options.MaxItems > 0 && len(items) >= options.MaxItems {
			return items[:options.MaxItems], nil
		}

		if options.MaxPages > 0 {
			pagesFetched = iterator.nextPage - 1
			if pagesFetched >= options.MaxPages && len(iterator.buffer) == 0 {
				return items, nil
			}
		}
	}

	return items, iterator.err
}

// PageResult carries one page of a streamed walk.
type PageResult[T any] struct {
	Items  []T
	Paging Paging
	Err    error
}

// StreamPages walks an endpoint page by page, delivering each page on the
// returned channel. The channel is closed when the walk completes, fails,
// or the context is cancelled.
func StreamPages[T any](ctx context.Context, fetch PageFetcher[T], params *QueryParams, options *PaginationOptions) <-chan PageResult[T] {
	if params == nil {
		params = NewQueryParams()
	}

	if options == nil {
		options = &PaginationOptions{}
	}

	requested := params.PageSize
	if options.PageSize > 0 {
		requested = options.PageSize
	}

	if requested <= 0 {
		requested = DefaultPageSize
	}

	results := make(chan PageResult[T])

	go func() {
		defer close(results)

		page := params.Page
		if page <= 0 {
			page = 1
		}

		for pagesFetched := 0; options.MaxPages == 0 || pagesFetched < options.MaxPages; pagesFetched++ {
			pageParams := *params
			pageParams.Page = page
			pageParams.PageSize = requested

			result, err := fetch(ctx, &pageParams)
			if err != nil {
				select {
				case results <- PageResult[T]{Err: err}:
				case <-ctx.Done():
				}

				return
			}

			select {
			case results <- PageResult[T]{Items: result.Items, Paging: result.Paging}:
			case <-ctx.Done():
				return
			}

			if !morePages(result.Paging, page, requested, len(result.Items)) {
				return
			}

			page++
		}
	}()

	return results
}
