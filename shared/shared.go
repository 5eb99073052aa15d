package shared

import (
	"math"
	"spacebook/shared/dto"
	"strings"
)

const cacheKeySeparator = ":"

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// FilterAnd joins the given filters with AND.
func FilterAnd(filters ...dto.Filter) dto.FilterGroup {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters:  make([]any, 0, len(filters)),
	}

	for _, filter := range filters {
		group.Filters = append(group.Filters, filter)
	}

	return group
}

// BuildCacheKey joins the prefix and parts into a redis key, e.g. "space:get:42".
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}
