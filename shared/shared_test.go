package shared_test

import (
	"spacebook/shared"
	"spacebook/shared/dto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "no data", total: 0, limit: 10, expected: 1},
		{name: "zero limit", total: 15, limit: 0, expected: 1},
		{name: "exact pages", total: 20, limit: 10, expected: 2},
		{name: "partial page", total: 21, limit: 10, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("42", "id", "spaces")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(spaces.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "42"}, args)
}

func TestFilterAnd(t *testing.T) {
	group := shared.FilterAnd(
		dto.Filter{Field: "space_id", Value: "s1", Operator: dto.FilterOperatorEq},
		dto.Filter{Field: "status", Value: []string{"confirmed", "pending_payment"}, Operator: dto.FilterOperatorIn},
	)

	where, args := group.GetWhereClause()

	assert.Equal(t, "(space_id = :space_id AND status IN (:status_0, :status_1) )", where)
	assert.Equal(t, "s1", args["space_id"])
	assert.Equal(t, "pending_payment", args["status_1"])
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "space:get:42", shared.BuildCacheKey("space:get", "42"))
	assert.Equal(t, "limiter", shared.BuildCacheKey("limiter"))
}
