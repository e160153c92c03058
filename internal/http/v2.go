package http

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/sonar/pkg/sonar"
)

// v2PaginationKeys are serialized first, in this order, when present.
// The ordering and the comma-join convention for slices are a
// compatibility contract with the service and must be preserved exactly.
var v2PaginationKeys = []string{"page", "pageSize", "sort", "order"}

type v2Entry struct {
	key   string
	value interface{}
}

// V2Query is an ordered key/value accumulator for v2 query strings.
// Insertion order is preserved; setting an existing key updates it in
// place.
type V2Query struct {
	entries []v2Entry
}

// NewV2Query creates an empty v2 query.
func NewV2Query() *V2Query {
	return &V2Query{}
}

// Set adds or replaces a parameter and returns the query for chaining.
func (q *V2Query) Set(key string, value interface{}) *V2Query {
	for i := range q.entries {
		if q.entries[i].key == key {
			q.entries[i].value = value

			return q
		}
	}

	q.entries = append(q.entries, v2Entry{key: key, value: value})

	return q
}

// Clone returns an independent copy of the query.
func (q *V2Query) Clone() *V2Query {
	if q == nil {
		return NewV2Query()
	}

	return &V2Query{entries: append([]v2Entry(nil), q.entries...)}
}

// BuildV2Query serializes a v2 query: pagination and sort keys first in
// their fixed order, then the remaining keys in insertion order. Nil
// values are skipped entirely; slices serialize as one comma-joined
// value; booleans as "true"/"false"; maps and structs as their JSON
// form; everything else via string coercion.
func BuildV2Query(query *V2Query) string {
	if query == nil || len(query.entries) == 0 {
		return ""
	}

	var parts []string

	appendEntry := func(entry v2Entry) {
		value, ok := encodeV2Value(entry.value)
		if !ok {
			return
		}

		parts = append(parts, url.QueryEscape(entry.key)+"="+url.QueryEscape(value))
	}

	remaining := make([]v2Entry, 0, len(query.entries))
	remaining = append(remaining, query.entries...)

	for _, key := range v2PaginationKeys {
		for i, entry := range remaining {
			if entry.key == key {
				appendEntry(entry)
				remaining = append(remaining[:i], remaining[i+1:]...)

				break
			}
		}
	}

	for _, entry := range remaining {
		appendEntry(entry)
	}

	return strings.Join(parts, "&")
}

// encodeV2Value serializes one query value. The second return is false
// when the value must be skipped (nil or nil pointer).
func encodeV2Value(value interface{}) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case []string:
		return strings.Join(v, ","), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "", false
		}

		return encodeV2Value(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		elements := make([]string, 0, rv.Len())

		for i := 0; i < rv.Len(); i++ {
			element, ok := encodeV2Value(rv.Index(i).Interface())
			if ok {
				elements = append(elements, element)
			}
		}

		return strings.Join(elements, ","), true
	case reflect.Map, reflect.Struct:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value), true
		}

		return string(data), true
	default:
		return fmt.Sprint(value), true
	}
}

// DoV2 executes a request against the v2 API generation. Content-Type
// and Accept are always application/json, 204 decodes as an empty
// object, and v2 error envelopes are normalized into the same taxonomy
// as v1 failures.
func (c *Client) DoV2(ctx context.Context, req *Request) (*Response, error) {
	return c.do(ctx, req, true)
}

// GetV2 performs a GET request against the v2 API.
func (c *Client) GetV2(ctx context.Context, path string, query *V2Query) (*Response, error) {
	return c.DoV2(ctx, &Request{
		Method:   nethttp.MethodGet,
		Path:     path,
		RawQuery: BuildV2Query(query),
	})
}

// PostV2 performs a POST request with a JSON body against the v2 API.
func (c *Client) PostV2(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.DoV2(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body})
}

// PatchV2 performs a PATCH request with a JSON body against the v2 API.
func (c *Client) PatchV2(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.DoV2(ctx, &Request{Method: nethttp.MethodPatch, Path: path, Body: body})
}

// DeleteV2 performs a DELETE request against the v2 API.
func (c *Client) DeleteV2(ctx context.Context, path string) (*Response, error) {
	return c.DoV2(ctx, &Request{Method: nethttp.MethodDelete, Path: path})
}

// V2Iterator is a single-pass, lazily-evaluated walk of a v2 paginated
// endpoint. It fetches a page only when the previous one is exhausted
// and the metadata says more exist, so it never fetches a page it will
// not consume.
type V2Iterator[T any] struct {
	ctx      context.Context
	client   *Client
	path     string
	query    *V2Query
	pageSize int
	nextPage int
	buffer   []T
	hasMore  bool
	err      error
}

// IterateV2 starts a page walk at page 1 with the given page size
// (DefaultPageSize when non-positive).
func IterateV2[T any](ctx context.Context, client *Client, path string, query *V2Query, pageSize int) *V2Iterator[T] {
	if pageSize <= 0 {
		pageSize = sonar.DefaultPageSize
	}

	return &V2Iterator[T]{
		ctx:      ctx,
		client:   client,
		path:     path,
		query:    query.Clone(),
		pageSize: pageSize,
		nextPage: 1,
		hasMore:  true,
	}
}

// HasNext reports whether another item is available, fetching the next
// page when needed.
func (it *V2Iterator[T]) HasNext() bool {
	if it.err != nil {
		return false
	}

	if len(it.buffer) > 0 {
		return true
	}

	if !it.hasMore {
		return false
	}

	it.fetchPage()

	return it.err == nil && len(it.buffer) > 0
}

// Next returns the next item, or sonar.ErrNoMoreItems when the walk is
// complete.
func (it *V2Iterator[T]) Next() (T, error) {
	var zero T

	if !it.HasNext() {
		if it.err != nil {
			return zero, it.err
		}

		return zero, sonar.ErrNoMoreItems
	}

	item := it.buffer[0]
	it.buffer = it.buffer[1:]

	return item, nil
}

// All drains the remaining items into a slice.
func (it *V2Iterator[T]) All() ([]T, error) {
	var items []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return items, err
		}

		items = append(items, item)
	}

	return items, it.err
}

func (it *V2Iterator[T]) fetchPage() {
	query := it.query.Clone().
		Set("page", it.nextPage).
		Set("pageSize", it.pageSize)

	resp, err := it.client.GetV2(it.ctx, it.path, query)
	if err != nil {
		it.err = err
		it.hasMore = false

		return
	}

	var page sonar.V2Page[T]

	err = resp.JSON(&page)
	if err != nil {
		it.err = err
		it.hasMore = false

		return
	}

	it.buffer = page.Data

	// Continuation is recomputed from the metadata the server actually
	// returned, not the requested page size, in case the server clamps
	// it. A non-positive reported size falls back to the requested one,
	// which would otherwise loop forever.
	pageIndex := page.Page.PageIndex
	if pageIndex <= 0 {
		pageIndex = it.nextPage
	}

	pageSize := page.Page.PageSize
	if pageSize <= 0 {
		pageSize = it.pageSize
	}

	it.hasMore = len(page.Data) > 0 && pageIndex*pageSize < page.Page.Total
	it.nextPage++
}

// FetchAllV2 drains a v2 page walk into an ordered slice. A positive
// maxItems caps the result; the walk stops as soon as the cap is
// reached, leaving any excess items in the final page unconsumed.
func FetchAllV2[T any](ctx context.Context, client *Client, path string, query *V2Query, pageSize, maxItems int) ([]T, error) {
	iterator := IterateV2[T](ctx, client, path, query, pageSize)

	var items []T

	for iterator.HasNext() {
		item, err := iterator.Next()
		if err != nil {
			return items, err
		}

		items = append(items, item)

		if maxItems > 0 && len(items) >= maxItems {
			return items, nil
		}
	}

	return items, iterator.err
}
