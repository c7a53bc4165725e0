package ninja_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/rmmkit/ninja/pkg/ninja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackendDown = errors.New("backend down")

type testRecord struct {
	ID   int
	Name string
}

func testRecordID(r testRecord) (string, bool) {
	if r.ID == 0 {
		return "", false
	}

	return strconv.Itoa(r.ID), true
}

// makeRecords builds n sequential records starting at the given id.
func makeRecords(start, n int) []testRecord {
	records := make([]testRecord, n)
	for i := 0; i < n; i++ {
		records[i] = testRecord{ID: start + i, Name: fmt.Sprintf("record-%d", start+i)}
	}

	return records
}

// afterFetcher serves a fixed dataset through the offset protocol and
// counts calls.
type afterFetcher struct {
	records []testRecord
	calls   int
}

func (f *afterFetcher) fetch(_ context.Context, pageSize int, after string) ([]testRecord, error) {
	f.calls++

	start := 0

	if after != "" {
		lastID, err := strconv.Atoi(after)
		if err != nil {
			return nil, fmt.Errorf("parsing after token: %w", err)
		}

		for i, r := range f.records {
			if r.ID == lastID {
				start = i + 1

				break
			}
		}
	}

	end := start + pageSize
	if end > len(f.records) {
		end = len(f.records)
	}

	return f.records[start:end], nil
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestAfterIterator_Termination(t *testing.T) {
	t.Parallel()
	t.Run("short final page ends iteration", func(t *testing.T) {
		t.Parallel()

		fetcher := &afterFetcher{records: makeRecords(1, 237)}

		all, err := ninja.FetchAllAfter(context.Background(), fetcher.fetch, testRecordID, &ninja.PageOptions{PageSize: 100})
		require.NoError(t, err)
		assert.Len(t, all, 237)
		assert.Equal(t, 3, fetcher.calls)
		assert.Equal(t, 1, all[0].ID)
		assert.Equal(t, 237, all[236].ID)
	})

	t.Run("empty first page", func(t *testing.T) {
		t.Parallel()

		fetcher := &afterFetcher{}

		all, err := ninja.FetchAllAfter(context.Background(), fetcher.fetch, testRecordID, nil)
		require.NoError(t, err)
		assert.Empty(t, all)
		assert.Equal(t, 1, fetcher.calls)
	})

	t.Run("exact multiple of page size needs one extra call", func(t *testing.T) {
		t.Parallel()

		fetcher := &afterFetcher{records: makeRecords(1, 200)}

		all, err := ninja.FetchAllAfter(context.Background(), fetcher.fetch, testRecordID, &ninja.PageOptions{PageSize: 100})
		require.NoError(t, err)
		assert.Len(t, all, 200)
		// Third call returns the empty page that ends iteration.
		assert.Equal(t, 3, fetcher.calls)
	})

	t.Run("full page with missing identifier stops silently", func(t *testing.T) {
		t.Parallel()

		records := makeRecords(1, 100)
		records[99].ID = 0 // no identifier to continue from

		calls := 0
		fetch := func(_ context.Context, pageSize int, after string) ([]testRecord, error) {
			calls++

			return records, nil
		}

		all, err := ninja.FetchAllAfter(context.Background(), fetch, testRecordID, &ninja.PageOptions{PageSize: 100})
		require.NoError(t, err)
		assert.Len(t, all, 100)
		assert.Equal(t, 1, calls)
	})

	t.Run("propagates fetch errors unmodified", func(t *testing.T) {
		t.Parallel()

		fetch := func(_ context.Context, pageSize int, after string) ([]testRecord, error) {
			return nil, errBackendDown
		}

		_, err := ninja.FetchAllAfter(context.Background(), fetch, testRecordID, nil)
		require.ErrorIs(t, err, errBackendDown)
	})

	t.Run("error on later page yields earlier records", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, pageSize int, after string) ([]testRecord, error) {
			calls++
			if calls > 1 {
				return nil, errBackendDown
			}

			return makeRecords(1, pageSize), nil
		}

		all, err := ninja.FetchAllAfter(context.Background(), fetch, testRecordID, &ninja.PageOptions{PageSize: 10})
		require.ErrorIs(t, err, errBackendDown)
		assert.Len(t, all, 10)
	})
}

// cursorFetcher serves fixed pages through the cursor protocol and counts
// calls.
type cursorFetcher struct {
	pages []*ninja.QueryResult[testRecord]
	calls int
}

func (f *cursorFetcher) fetch(_ context.Context, pageSize int, cursor string) (*ninja.QueryResult[testRecord], error) {
	f.calls++

	if cursor == "" {
		return f.pages[0], nil
	}

	idx, err := strconv.Atoi(cursor)
	if err != nil {
		return nil, fmt.Errorf("parsing cursor: %w", err)
	}

	return f.pages[idx], nil
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestCursorIterator_Termination(t *testing.T) {
	t.Parallel()
	t.Run("absent cursor ends after single page", func(t *testing.T) {
		t.Parallel()

		fetcher := &cursorFetcher{pages: []*ninja.QueryResult[testRecord]{
			{Results: makeRecords(1, 50)},
		}}

		all, err := ninja.FetchAllCursor(context.Background(), fetcher.fetch, &ninja.PageOptions{PageSize: 100})
		require.NoError(t, err)
		assert.Len(t, all, 50)
		assert.Equal(t, 1, fetcher.calls)
	})

	t.Run("cursor with empty name ends after single page", func(t *testing.T) {
		t.Parallel()

		fetcher := &cursorFetcher{pages: []*ninja.QueryResult[testRecord]{
			{Results: makeRecords(1, 50), Cursor: &ninja.Cursor{Name: ""}},
		}}

		all, err := ninja.FetchAllCursor(context.Background(), fetcher.fetch, nil)
		require.NoError(t, err)
		assert.Len(t, all, 50)
		assert.Equal(t, 1, fetcher.calls)
	})

	t.Run("follows cursor until empty results", func(t *testing.T) {
		t.Parallel()

		fetcher := &cursorFetcher{pages: []*ninja.QueryResult[testRecord]{
			{Results: makeRecords(1, 100), Cursor: &ninja.Cursor{Name: "1"}},
			{Results: []testRecord{}},
		}}

		all, err := ninja.FetchAllCursor(context.Background(), fetcher.fetch, &ninja.PageOptions{PageSize: 100})
		require.NoError(t, err)
		assert.Len(t, all, 100)
		assert.Equal(t, 2, fetcher.calls)
	})

	t.Run("short page with live cursor keeps going", func(t *testing.T) {
		t.Parallel()

		fetcher := &cursorFetcher{pages: []*ninja.QueryResult[testRecord]{
			{Results: makeRecords(1, 30), Cursor: &ninja.Cursor{Name: "1"}},
			{Results: makeRecords(31, 30)},
		}}

		all, err := ninja.FetchAllCursor(context.Background(), fetcher.fetch, &ninja.PageOptions{PageSize: 100})
		require.NoError(t, err)
		assert.Len(t, all, 60)
		assert.Equal(t, 2, fetcher.calls)
	})

	t.Run("empty first page", func(t *testing.T) {
		t.Parallel()

		fetcher := &cursorFetcher{pages: []*ninja.QueryResult[testRecord]{
			{Results: []testRecord{}},
		}}

		all, err := ninja.FetchAllCursor(context.Background(), fetcher.fetch, nil)
		require.NoError(t, err)
		assert.Empty(t, all)
		assert.Equal(t, 1, fetcher.calls)
	})

	t.Run("propagates fetch errors unmodified", func(t *testing.T) {
		t.Parallel()

		fetch := func(_ context.Context, pageSize int, cursor string) (*ninja.QueryResult[testRecord], error) {
			return nil, errBackendDown
		}

		_, err := ninja.FetchAllCursor(context.Background(), fetch, nil)
		require.ErrorIs(t, err, errBackendDown)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestPageIterator(t *testing.T) {
	t.Parallel()
	t.Run("HasNext and Next walk records in order", func(t *testing.T) {
		t.Parallel()

		fetcher := &afterFetcher{records: makeRecords(1, 5)}
		iterator := ninja.NewAfterIterator(context.Background(), fetcher.fetch, testRecordID, &ninja.PageOptions{PageSize: 2})

		var ids []int

		for iterator.HasNext() {
			record, err := iterator.Next()
			require.NoError(t, err)

			ids = append(ids, record.ID)
		}

		assert.Equal(t, []int{1, 2, 3, 4, 5}, ids)
		assert.False(t, iterator.HasNext())
	})

	t.Run("Next after exhaustion returns ErrNoMoreItems", func(t *testing.T) {
		t.Parallel()

		fetcher := &afterFetcher{records: makeRecords(1, 2)}
		iterator := ninja.NewAfterIterator(context.Background(), fetcher.fetch, testRecordID, &ninja.PageOptions{PageSize: 10})

		_, err := iterator.Next()
		require.NoError(t, err)
		_, err = iterator.Next()
		require.NoError(t, err)

		_, err = iterator.Next()
		require.ErrorIs(t, err, ninja.ErrNoMoreItems)
	})

	t.Run("early termination fetches no further pages", func(t *testing.T) {
		t.Parallel()

		fetcher := &afterFetcher{records: makeRecords(1, 10000)}
		iterator := ninja.NewAfterIterator(context.Background(), fetcher.fetch, testRecordID, &ninja.PageOptions{PageSize: 100})

		for i := 0; i < 5; i++ {
			_, err := iterator.Next()
			require.NoError(t, err)
		}

		assert.Equal(t, 1, fetcher.calls)
	})

	t.Run("ForEach stops on consumer error without fetching more", func(t *testing.T) {
		t.Parallel()

		errStop := errors.New("stop")
		fetcher := &afterFetcher{records: makeRecords(1, 10000)}
		iterator := ninja.NewAfterIterator(context.Background(), fetcher.fetch, testRecordID, &ninja.PageOptions{PageSize: 100})

		seen := 0
		err := iterator.ForEach(func(record testRecord) error {
			seen++
			if seen == 5 {
				return errStop
			}

			return nil
		})

		require.ErrorIs(t, err, errStop)
		assert.Equal(t, 5, seen)
		assert.Equal(t, 1, fetcher.calls)
	})

	t.Run("eager and lazy yield identical sequences", func(t *testing.T) {
		t.Parallel()

		opts := &ninja.PageOptions{PageSize: 100}

		eagerFetcher := &afterFetcher{records: makeRecords(1, 237)}
		eager, err := ninja.FetchAllAfter(context.Background(), eagerFetcher.fetch, testRecordID, opts)
		require.NoError(t, err)

		lazyFetcher := &afterFetcher{records: makeRecords(1, 237)}
		iterator := ninja.NewAfterIterator(context.Background(), lazyFetcher.fetch, testRecordID, opts)

		var lazy []testRecord

		for iterator.HasNext() {
			record, err := iterator.Next()
			require.NoError(t, err)

			lazy = append(lazy, record)
		}

		assert.Equal(t, eager, lazy)
		assert.Equal(t, eagerFetcher.calls, lazyFetcher.calls)
	})

	t.Run("repeated runs over the same data are identical", func(t *testing.T) {
		t.Parallel()

		first := &afterFetcher{records: makeRecords(1, 42)}
		second := &afterFetcher{records: makeRecords(1, 42)}

		resultA, err := ninja.FetchAllAfter(context.Background(), first.fetch, testRecordID, &ninja.PageOptions{PageSize: 10})
		require.NoError(t, err)

		resultB, err := ninja.FetchAllAfter(context.Background(), second.fetch, testRecordID, &ninja.PageOptions{PageSize: 10})
		require.NoError(t, err)

		assert.Equal(t, resultA, resultB)
		assert.Equal(t, first.calls, second.calls)
	})

	t.Run("MaxPages bounds fetching", func(t *testing.T) {
		t.Parallel()

		fetcher := &afterFetcher{records: makeRecords(1, 1000)}

		all, err := ninja.FetchAllAfter(context.Background(), fetcher.fetch, testRecordID, &ninja.PageOptions{PageSize: 100, MaxPages: 2})
		require.NoError(t, err)
		assert.Len(t, all, 200)
		assert.Equal(t, 2, fetcher.calls)
	})

	t.Run("non-positive page size uses default", func(t *testing.T) {
		t.Parallel()

		var seenPageSize int

		fetch := func(_ context.Context, pageSize int, after string) ([]testRecord, error) {
			seenPageSize = pageSize

			return nil, nil
		}

		_, err := ninja.FetchAllAfter(context.Background(), fetch, testRecordID, &ninja.PageOptions{PageSize: -1})
		require.NoError(t, err)
		assert.Equal(t, 100, seenPageSize)
	})
}

func TestStreamPages(t *testing.T) {
	t.Parallel()
	t.Run("streams offset pages", func(t *testing.T) {
		t.Parallel()

		fetcher := &afterFetcher{records: makeRecords(1, 237)}
		resultChan := ninja.StreamAfterPages(context.Background(), fetcher.fetch, testRecordID, &ninja.PageOptions{PageSize: 100})

		var all []testRecord

		pageCount := 0

		for result := range resultChan {
			require.NoError(t, result.Err)

			all = append(all, result.Items...)
			pageCount++
		}

		assert.Equal(t, 3, pageCount)
		assert.Len(t, all, 237)
	})

	t.Run("streams cursor pages", func(t *testing.T) {
		t.Parallel()

		fetcher := &cursorFetcher{pages: []*ninja.QueryResult[testRecord]{
			{Results: makeRecords(1, 100), Cursor: &ninja.Cursor{Name: "1"}},
			{Results: makeRecords(101, 50)},
		}}

		resultChan := ninja.StreamCursorPages(context.Background(), fetcher.fetch, &ninja.PageOptions{PageSize: 100})

		var all []testRecord

		for result := range resultChan {
			require.NoError(t, result.Err)

			all = append(all, result.Items...)
		}

		assert.Len(t, all, 150)
	})

	t.Run("delivers fetch error and closes", func(t *testing.T) {
		t.Parallel()

		fetch := func(_ context.Context, pageSize int, after string) ([]testRecord, error) {
			return nil, errBackendDown
		}

		resultChan := ninja.StreamAfterPages(context.Background(), fetch, testRecordID, nil)

		result, open := <-resultChan
		require.True(t, open)
		require.ErrorIs(t, result.Err, errBackendDown)

		_, open = <-resultChan
		assert.False(t, open)
	})
}
