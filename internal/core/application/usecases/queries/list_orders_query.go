package queries

import (
	"errors"
	"fmt"
	"time"

	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	sortAscending  = "asc"
	sortDescending = "desc"
)

// sortColumns is the allow-list of sortable columns. Anything else is
// rejected so clients cannot smuggle SQL through the sort parameter.
var sortColumns = map[string]struct{}{
	"created_at": {},
	"updated_at": {},
	"status":     {},
	"reference":  {},
}

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersFilter narrows the result set. Zero values mean "no filter".
type ListOrdersFilter struct {
	Status       string
	CustomerID   string
	SalesChannel string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

// ListOrdersQuery retrieves a page of non-deleted orders. The constructor
// normalizes paging defaults and validates the sort parameters, so a
// constructed query is always safe to execute.
type ListOrdersQuery struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
	Filter  ListOrdersFilter

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(page, size int, sortBy, sortDir string, filter ListOrdersFilter) (ListOrdersQuery, error) {
	if page < 0 {
		return ListOrdersQuery{}, errs.NewValueIsInvalidError("page")
	}
	if page == 0 {
		page = 1
	}

	if size < 0 {
		return ListOrdersQuery{}, errs.NewValueIsInvalidError("size")
	}
	if size == 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	if sortBy == "" {
		sortBy = "created_at"
	}
	if _, ok := sortColumns[sortBy]; !ok {
		return ListOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause("sort_by",
			fmt.Errorf("unsupported sort column %q", sortBy))
	}

	switch sortDir {
	case "":
		sortDir = sortDescending
	case sortAscending, sortDescending:
	default:
		return ListOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause("sort_dir",
			fmt.Errorf("unsupported sort direction %q", sortDir))
	}

	if filter.Status != "" {
		if _, err := order.StatusFromString(filter.Status); err != nil {
			return ListOrdersQuery{}, err
		}
	}

	return ListOrdersQuery{
		Page:    page,
		Size:    size,
		SortBy:  sortBy,
		SortDir: sortDir,
		Filter:  filter,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// OrderSummaryResponse is the list-view projection of an order, without
// items.
type OrderSummaryResponse struct {
	ID           string              `json:"id"`
	Reference    string              `json:"reference"`
	Status       string              `json:"status"`
	CustomerID   string              `json:"customer_id"`
	SalesChannel string              `json:"sales_channel,omitempty"`
	Totals       OrderTotalsResponse `json:"totals"`
	Version      int64               `json:"version"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// PaginationResponse describes the returned page. NextPage is nil on the
// last page.
type PaginationResponse struct {
	Page     int   `json:"page"`
	Size     int   `json:"size"`
	Total    int64 `json:"total"`
	NextPage *int  `json:"next_page,omitempty"`
}

type ListOrdersQueryResponse struct {
	Orders     []OrderSummaryResponse `json:"orders"`
	Pagination PaginationResponse     `json:"pagination"`
}
