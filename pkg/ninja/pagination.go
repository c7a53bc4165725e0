package ninja

import (
	"context"

	"github.com/rmmkit/ninja/internal/constants"
)

// AfterPageFunc fetches one page from an offset-paginated endpoint. The
// after argument carries the identifier of the last record of the previous
// page, or the zero value on the first call.
type AfterPageFunc[T any] func(ctx context.Context, pageSize int, after string) ([]T, error)

// CursorPageFunc fetches one page from a cursor-paginated endpoint. The
// cursor argument carries the opaque token from the previous page, or the
// empty string on the first call.
type CursorPageFunc[T any] func(ctx context.Context, pageSize int, cursor string) (*QueryResult[T], error)

// IDFunc extracts the pagination identifier from a record. It reports
// ok=false when the record carries no usable identifier, which stops
// offset pagination after the current page.
type IDFunc[T any] func(item T) (id string, ok bool)

// PageOptions controls pagination behavior.
type PageOptions struct {
	// PageSize is the number of records requested per page. Non-positive
	// values fall back to the default page size.
	PageSize int

	// MaxPages bounds the number of fetches. Zero means no explicit bound.
	MaxPages int
}

func (o *PageOptions) pageSize() int {
	if o == nil || o.PageSize <= 0 {
		return constants.DefaultPageSize
	}

	return o.PageSize
}

func (o *PageOptions) maxPages() int {
	if o == nil {
		return 0
	}

	return o.MaxPages
}

// pageSource is the normalized page protocol both drivers reduce to.
// nextPage returns the records of one page and whether a further page
// should be fetched. Errors from the underlying fetch are returned as-is.
type pageSource[T any] interface {
	nextPage(ctx context.Context) (items []T, more bool, err error)
}

// afterSource drives offset pagination. Termination: empty page, short
// page, or a last record without an identifier. The last two still yield
// the page's records.
type afterSource[T any] struct {
	fetch    AfterPageFunc[T]
	id       IDFunc[T]
	pageSize int
	after    string
}

func (s *afterSource[T]) nextPage(ctx context.Context) ([]T, bool, error) {
	items, err := s.fetch(ctx, s.pageSize, s.after)
	if err != nil {
		return nil, false, err
	}

	if len(items) == 0 {
		return nil, false, nil
	}

	if len(items) < s.pageSize {
		return items, false, nil
	}

	last, ok := s.id(items[len(items)-1])
	if !ok {
		// Full page with no identifier to continue from. Stop rather
		// than refetch the same page forever.
		return items, false, nil
	}

	s.after = last

	return items, true, nil
}

// cursorSource drives cursor pagination. Termination: empty results, or a
// response without a cursor name. Page fullness is not consulted; the
// cursor is authoritative.
type cursorSource[T any] struct {
	fetch    CursorPageFunc[T]
	pageSize int
	cursor   string
}

func (s *cursorSource[T]) nextPage(ctx context.Context) ([]T, bool, error) {
	page, err := s.fetch(ctx, s.pageSize, s.cursor)
	if err != nil {
		return nil, false, err
	}

	if page == nil || len(page.Results) == 0 {
		return nil, false, nil
	}

	if page.Cursor == nil || page.Cursor.Name == "" {
		return page.Results, false, nil
	}

	s.cursor = page.Cursor.Name

	return page.Results, true, nil
}

// PageIterator lazily walks a paginated endpoint, holding at most one page
// in memory. Pages are fetched sequentially and only on demand; abandoning
// the iterator issues no further requests.
type PageIterator[T any] struct {
	ctx      context.Context
	source   pageSource[T]
	buffer   []T
	pos      int
	pages    int
	maxPages int
	done     bool
	err      error
}

// NewAfterIterator creates a lazy iterator over an offset-paginated
// endpoint.
func NewAfterIterator[T any](ctx context.Context, fetch AfterPageFunc[T], id IDFunc[T], opts *PageOptions) *PageIterator[T] {
	return &PageIterator[T]{
		ctx: ctx,
		source: &afterSource[T]{
			fetch:    fetch,
			id:       id,
			pageSize: opts.pageSize(),
		},
		maxPages: opts.maxPages(),
	}
}

// NewCursorIterator creates a lazy iterator over a cursor-paginated
// endpoint.
func NewCursorIterator[T any](ctx context.Context, fetch CursorPageFunc[T], opts *PageOptions) *PageIterator[T] {
	return &PageIterator[T]{
		ctx: ctx,
		source: &cursorSource[T]{
			fetch:    fetch,
			pageSize: opts.pageSize(),
		},
		maxPages: opts.maxPages(),
	}
}

// HasNext reports whether another record is available, fetching the next
// page if the buffered one is exhausted.
func (it *PageIterator[T]) HasNext() bool {
	if it.pos < len(it.buffer) {
		return true
	}

	if it.done || it.err != nil {
		return false
	}

	it.fetchNext()

	return it.pos < len(it.buffer)
}

// Next returns the next record. It returns ErrNoMoreItems once the
// iterator is exhausted, or the fetch error that stopped iteration.
func (it *PageIterator[T]) Next() (T, error) {
	var zero T

	if !it.HasNext() {
		if it.err != nil {
			return zero, it.err
		}

		return zero, ErrNoMoreItems
	}

	item := it.buffer[it.pos]
	it.pos++

	return item, nil
}

// All drains the iterator and returns the remaining records.
func (it *PageIterator[T]) All() ([]T, error) {
	var all []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return all, err
		}

		all = append(all, item)
	}

	if it.err != nil {
		return all, it.err
	}

	return all, nil
}

// ForEach applies fn to each remaining record. A non-nil error from fn
// stops iteration immediately; no further pages are fetched.
func (it *PageIterator[T]) ForEach(fn func(item T) error) error {
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

// Err returns the error that stopped iteration, if any.
func (it *PageIterator[T]) Err() error {
	return it.err
}

func (it *PageIterator[T]) fetchNext() {
	if it.maxPages > 0 && it.pages >= it.maxPages {
		it.done = true
		it.buffer = nil
		it.pos = 0

		return
	}

	items, more, err := it.source.nextPage(it.ctx)
	if err != nil {
		it.err = err
		it.done = true
		it.buffer = nil
		it.pos = 0

		return
	}

	it.buffer = items
	it.pos = 0
	it.pages++

	if !more {
		it.done = true
	}
}

// FetchAllAfter eagerly accumulates every record of an offset-paginated
// endpoint. It is equivalent to draining NewAfterIterator with All.
func FetchAllAfter[T any](ctx context.Context, fetch AfterPageFunc[T], id IDFunc[T], opts *PageOptions) ([]T, error) {
	return NewAfterIterator(ctx, fetch, id, opts).All()
}

// FetchAllCursor eagerly accumulates every record of a cursor-paginated
// endpoint. It is equivalent to draining NewCursorIterator with All.
func FetchAllCursor[T any](ctx context.Context, fetch CursorPageFunc[T], opts *PageOptions) ([]T, error) {
	return NewCursorIterator(ctx, fetch, opts).All()
}

// PageResult carries one page of records, or the error that ended the
// stream.
type PageResult[T any] struct {
	Items []T
	Err   error
}

// StreamAfterPages streams pages of an offset-paginated endpoint over a
// channel. The channel is closed after the last page, an error, or context
// cancellation.
func StreamAfterPages[T any](ctx context.Context, fetch AfterPageFunc[T], id IDFunc[T], opts *PageOptions) <-chan PageResult[T] {
	source := &afterSource[T]{
		fetch:    fetch,
		id:       id,
		pageSize: opts.pageSize(),
	}

	return streamPages[T](ctx, source, opts.maxPages())
}

// StreamCursorPages streams pages of a cursor-paginated endpoint over a
// channel.
func StreamCursorPages[T any](ctx context.Context, fetch CursorPageFunc[T], opts *PageOptions) <-chan PageResult[T] {
	source := &cursorSource[T]{
		fetch:    fetch,
		pageSize: opts.pageSize(),
	}

	return streamPages[T](ctx, source, opts.maxPages())
}

func streamPages[T any](ctx context.Context, source pageSource[T], maxPages int) <-chan PageResult[T] {
	resultChan := make(chan PageResult[T], 1)

	go func() {
		defer close(resultChan)

		pages := 0

		for {
			if maxPages > 0 && pages >= maxPages {
				return
			}

			items, more, err := source.nextPage(ctx)
			if err != nil {
				select {
				case resultChan <- PageResult[T]{Err: err}:
				case <-ctx.Done():
				}

				return
			}

			pages++

			if len(items) > 0 {
				select {
				case resultChan <- PageResult[T]{Items: items}:
				case <-ctx.Done():
					return
				}
			}

			if !more {
				return
			}
		}
	}()

	return resultChan
}
