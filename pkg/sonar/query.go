package sonar

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryParams represents common query parameters for v1 list endpoints.
type QueryParams struct {
	Page     int
	PageSize int
	Query    string
	Sort     string
	Asc      *bool
	Filters  map[string][]string
}

// NewQueryParams creates a new QueryParams instance.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string][]string),
	}
}

// WithPage sets the page number.
func (q *QueryParams) WithPage(page int) *QueryParams {
	q.Page = page

	return q
}

// WithPageSize sets the page size.
func (q *QueryParams) WithPageSize(size int) *QueryParams {
	q.PageSize = size

	return q
}

// WithQuery sets the free-text search query.
func (q *QueryParams) WithQuery(query string) *QueryParams {
	q.Query = query

	return q
}

// WithSort sets the sort field.
func (q *QueryParams) WithSort(field string) *QueryParams {
	q.Sort = field

	return q
}

// WithAscending sets the sort direction.
func (q *QueryParams) WithAscending(asc bool) *QueryParams {
	q.Asc = &asc

	return q
}

// WithFilter appends values to a filter key. Multiple values for the same
// key serialize as one comma-joined parameter, matching the service's
// convention.
func (q *QueryParams) WithFilter(key string, values ...string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters[key] = append(q.Filters[key], values...)

	return q
}

// ToValues converts the parameters to url.Values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q.Page > 0 {
		values.Set("p", strconv.Itoa(q.Page))
	}

	if q.PageSize > 0 {
		values.Set("ps", strconv.Itoa(q.PageSize))
	}

	if q.Query != "" {
		values.Set("q", q.Query)
	}

	if q.Sort != "" {
		values.Set("s", q.Sort)
	}

	if q.Asc != nil {
		values.Set("asc", strconv.FormatBool(*q.Asc))
	}

	for key, filterValues := range q.Filters {
		if len(filterValues) > 0 {
			values.Set(key, strings.Join(filterValues, ","))
		}
	}

	return values
}
