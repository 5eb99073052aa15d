package dto

import (
	"net/http"
	"spacebook/shared/constant"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams is the paging and ordering a list endpoint reads from the query string.
type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty,min=1"`
	Limit   int    `json:"limit"    validate:"omitempty,min=1,max=100"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// DefaultQueryParams is what a list endpoint falls back to when the caller sends nothing.
func DefaultQueryParams() QueryParams {
	return QueryParams{
		Page:    constant.DefaultValuePage,
		Limit:   constant.DefaultValueLimit,
		SortBy:  constant.DefaultValueSortBy,
		SortDir: constant.DefaultValueSortDir,
	}
}

// FromRequest reads page, limit, sort_by and sort_dir from r. Anything missing or malformed keeps
// the value from fallback, and limit is capped at constant.MaxValueLimit.
//
//	q := dto.QueryParams{}
//	q.FromRequest(req, dto.DefaultQueryParams())
func (q *QueryParams) FromRequest(r *http.Request, fallback QueryParams) {
	*q = fallback
	values := r.URL.Query()

	if page, ok := positive(values.Get(constant.RequestParamPage)); ok {
		q.Page = page
	}

	if limit, ok := positive(values.Get(constant.RequestParamLimit)); ok {
		q.Limit = min(limit, constant.MaxValueLimit)
	}

	if sortBy := strings.TrimSpace(values.Get(constant.RequestParamSortBy)); sortBy != "" {
		q.SortBy = sortBy
	}

	switch dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}
}

// Offset is the number of rows skipped before the current page.
func (q QueryParams) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}

func positive(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}
