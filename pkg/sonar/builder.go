package sonar

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// PageExecutor runs a single-page request for the accumulated parameters
// and returns the extracted page. Each concrete builder is constructed
// with one by its resource client.
type PageExecutor[T any] func(ctx context.Context, params url.Values) (*Page[T], error)

// ListBuilder is a fluent parameter accumulator for paginated list
// endpoints. Setter calls mutate the builder and return it for chaining;
// no network call happens until Execute or All. Calling Execute more than
// once re-executes with the identical accumulated parameters.
type ListBuilder[T any] struct {
	params   url.Values
	required []string
	executor PageExecutor[T]
}

// NewListBuilder creates a builder bound to an executor. Keys listed in
// required must be set before Execute or All dispatches.
func NewListBuilder[T any](executor PageExecutor[T], required ...string) *ListBuilder[T] {
	return &ListBuilder[T]{
		params:   url.Values{},
		required: required,
		executor: executor,
	}
}

// Set sets a single-valued parameter.
func (b *ListBuilder[T]) Set(key, value string) *ListBuilder[T] {
	b.params.Set(key, value)

	return b
}

// SetSlice sets a multi-valued parameter as one comma-joined value.
func (b *ListBuilder[T]) SetSlice(key string, values ...string) *ListBuilder[T] {
	b.params.Set(key, strings.Join(values, ","))

	return b
}

// SetInt sets an integer parameter.
func (b *ListBuilder[T]) SetInt(key string, value int) *ListBuilder[T] {
	b.params.Set(key, strconv.Itoa(value))

	return b
}

// Page sets the requested page number.
func (b *ListBuilder[T]) Page(page int) *ListBuilder[T] {
	return b.SetInt("p", page)
}

// PageSize sets the requested page size.
func (b *ListBuilder[T]) PageSize(size int) *ListBuilder[T] {
	return b.SetInt("ps", size)
}

// Execute validates required parameters and runs a single-page request.
// Missing required parameters raise a *ValidationError before any network
// call.
func (b *ListBuilder[T]) Execute(ctx context.Context) (*Page[T], error) {
	err := b.validate()
	if err != nil {
		return nil, err
	}

	return b.executor(ctx, cloneValues(b.params))
}

// All lazily walks every page with the accumulated non-pagination
// parameters and collects all items. Iteration stops when a page comes
// back short or the server-reported total is exhausted.
func (b *ListBuilder[T]) All(ctx context.Context) ([]T, error) {
	return b.iterator(ctx).All()
}

// ForEach applies fn to every item across all pages.
func (b *ListBuilder[T]) ForEach(ctx context.Context, fn func(T) error) error {
	return b.iterator(ctx).ForEach(fn)
}

func (b *ListBuilder[T]) iterator(ctx context.Context) *PageIterator[T] {
	pageSize := DefaultPageSize
	if ps := b.params.Get("ps"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 {
			pageSize = parsed
		}
	}

	fetch := func(ctx context.Context, params *QueryParams) (*Page[T], error) {
		err := b.validate()
		if err != nil {
			return nil, err
		}

		values := cloneValues(b.params)
		values.Set("p", strconv.Itoa(params.Page))
		values.Set("ps", strconv.Itoa(params.PageSize))

		return b.executor(ctx, values)
	}

	return NewPageIterator(ctx, fetch, NewQueryParams().WithPageSize(pageSize))
}

func (b *ListBuilder[T]) validate() error {
	var missing []string

	for _, key := range b.required {
		if b.params.Get(key) == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	sort.Strings(missing)

	messages := make([]string, 0, len(missing))
	fields := make(map[string][]string, len(missing))

	for _, key := range missing {
		message := fmt.Sprintf("missing required parameter %q", key)
		messages = append(messages, message)
		fields[key] = []string{message}
	}

	return NewValidationError(messages, fields)
}

func cloneValues(values url.Values) url.Values {
	cloned := make(url.Values, len(values))
	for key, vals := range values {
		cloned[key] = append([]string(nil), vals...)
	}

	return cloned
}

// ProjectSearchBuilder accumulates parameters for the project search
// operation.
type ProjectSearchBuilder struct {
	*ListBuilder[Project]
}

// NewProjectSearchBuilder creates a project search builder.
func NewProjectSearchBuilder(executor PageExecutor[Project]) *ProjectSearchBuilder {
	return &ProjectSearchBuilder{ListBuilder: NewListBuilder(executor)}
}

// WithQuery limits the search to keys and names matching the query.
func (b *ProjectSearchBuilder) WithQuery(query string) *ProjectSearchBuilder {
	b.Set("q", query)

	return b
}

// WithProjects limits the search to the given project keys.
func (b *ProjectSearchBuilder) WithProjects(keys ...string) *ProjectSearchBuilder {
	b.SetSlice("projects", keys...)

	return b
}

// WithAnalyzedBefore limits the search to projects last analyzed before
// the given date.
func (b *ProjectSearchBuilder) WithAnalyzedBefore(date string) *ProjectSearchBuilder {
	b.Set("analyzedBefore", date)

	return b
}

// ComponentTreeBuilder accumulates parameters for the component tree
// operation. The component key is required.
type ComponentTreeBuilder struct {
	*ListBuilder[Component]
}

// NewComponentTreeBuilder creates a component tree builder.
func NewComponentTreeBuilder(executor PageExecutor[Component]) *ComponentTreeBuilder {
	return &ComponentTreeBuilder{ListBuilder: NewListBuilder(executor, "component")}
}

// WithComponent sets the root component key.
func (b *ComponentTreeBuilder) WithComponent(key string) *ComponentTreeBuilder {
	b.Set("component", key)

	return b
}

// WithQualifiers filters returned components by qualifier.
func (b *ComponentTreeBuilder) WithQualifiers(qualifiers ...string) *ComponentTreeBuilder {
	b.SetSlice("qualifiers", qualifiers...)

	return b
}

// WithStrategy sets the traversal strategy (all, children, leaves).
func (b *ComponentTreeBuilder) WithStrategy(strategy string) *ComponentTreeBuilder {
	b.Set("strategy", strategy)

	return b
}

// MeasuresTreeBuilder accumulates parameters for the measures component
// tree operation. The component key and metric keys are required.
type MeasuresTreeBuilder struct {
	*ListBuilder[Component]
}

// NewMeasuresTreeBuilder creates a measures component tree builder.
func NewMeasuresTreeBuilder(executor PageExecutor[Component]) *MeasuresTreeBuilder {
	return &MeasuresTreeBuilder{ListBuilder: NewListBuilder(executor, "component", "metricKeys")}
}

// WithComponent sets the root component key.
func (b *MeasuresTreeBuilder) WithComponent(key string) *MeasuresTreeBuilder {
	b.Set("component", key)

	return b
}

// WithMetrics sets the metric keys to measure.
func (b *MeasuresTreeBuilder) WithMetrics(keys ...string) *MeasuresTreeBuilder {
	b.SetSlice("metricKeys", keys...)

	return b
}

// WithQualifiers filters returned components by qualifier.
func (b *MeasuresTreeBuilder) WithQualifiers(qualifiers ...string) *MeasuresTreeBuilder {
	b.SetSlice("qualifiers", qualifiers...)

	return b
}
