package dto_test

import (
	"net/http"
	"net/url"
	"salon/shared/constant"
	"salon/shared/dto"
	"salon/shared/model"
	"salon/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMetadata(t *testing.T) {
	createdAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

	metadata := dto.NewMetadata(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	})

	assert.Equal(t, timezone.Format(createdAt, constant.DateFormat), metadata.CreatedAt)
	assert.Equal(t, timezone.Format(modifiedAt, constant.DateFormat), metadata.ModifiedAt)
	assert.Equal(t, "creator", metadata.CreatedBy)
	assert.Equal(t, "modifier", metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		query          url.Values
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:     "all parameters",
			query:    url.Values{"page": {"2"}, "limit": {"20"}, "sort_by": {"appointment_time"}, "sort_dir": {"asc"}},
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "appointment_time", SortDir: dto.SortDirAsc},
		},
		{
			name:     "invalid numbers and direction are ignored",
			query:    url.Values{"page": {"-1"}, "limit": {"abc"}, "sort_dir": {"sideways"}},
			expected: dto.QueryParams{},
		},
		{
			name:           "defaults applied",
			query:          url.Values{},
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:           "explicit values win over defaults",
			query:          url.Values{"limit": {"50"}},
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: 50},
		},
		{
			name:     "limit is capped",
			query:    url.Values{"limit": {"5000"}},
			expected: dto.QueryParams{Limit: constant.MaxValueLimit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{URL: &url.URL{RawQuery: tt.query.Encode()}}

			var params dto.QueryParams
			params.FromRequest(req, tt.defaultRequest)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestQueryParams_Offset(t *testing.T) {
	assert.Equal(t, 0, dto.QueryParams{}.Offset())
	assert.Equal(t, 0, dto.QueryParams{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, dto.QueryParams{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 0, dto.QueryParams{Page: 3}.Offset())
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name     string
		filter   dto.Filter
		where    string
		expected map[string]any
	}{
		{
			name:     "eq with table",
			filter:   dto.Filter{Field: "status", Value: "PENDING", Operator: dto.FilterOperatorEq, Table: "bookings"},
			where:    "bookings.status = :status",
			expected: map[string]any{"status": "PENDING"},
		},
		{
			name:     "less with arg name",
			filter:   dto.Filter{ArgName: "day_end", Field: "appointment_time", Value: 10, Operator: dto.FilterOperatorLess},
			where:    "appointment_time < :day_end",
			expected: map[string]any{"day_end": 10},
		},
		{
			name:     "greater",
			filter:   dto.Filter{Field: "price", Value: 5, Operator: dto.FilterOperatorGreater},
			where:    "price > :price",
			expected: map[string]any{"price": 5},
		},
		{
			name:     "greater or equal",
			filter:   dto.Filter{ArgName: "day_start", Field: "appointment_time", Value: 1, Operator: dto.FilterOperatorGreaterEq},
			where:    "appointment_time >= :day_start",
			expected: map[string]any{"day_start": 1},
		},
		{
			name:     "in expands slice",
			filter:   dto.Filter{Field: "id", Value: []string{"a", "b"}, Operator: dto.FilterOperatorIn},
			where:    "id IN (:id_0, :id_1)",
			expected: map[string]any{"id_0": "a", "id_1": "b"},
		},
		{
			name:     "in with nothing matches nothing",
			filter:   dto.Filter{Field: "id", Value: []string{}, Operator: dto.FilterOperatorIn},
			where:    "FALSE",
			expected: map[string]any{},
		},
		{
			name:     "like is case insensitive",
			filter:   dto.Filter{Field: "name", Value: "Cut", Operator: dto.FilterOperatorLike, Table: "services"},
			where:    "LOWER(services.name) LIKE LOWER(:name)",
			expected: map[string]any{"name": "%Cut%"},
		},
		{
			name:     "is null",
			filter:   dto.Filter{Field: "staff_id", Operator: dto.FilterIsNull},
			where:    "staff_id IS NULL",
			expected: map[string]any{},
		},
		{
			name:     "unknown operator",
			filter:   dto.Filter{Field: "x", Operator: "between"},
			where:    "",
			expected: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.expected, args)
		})
	}
}

func TestFilterGroup_Nested(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "customer_id", Value: "c-1", Operator: dto.FilterOperatorEq},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{ArgName: "s1", Field: "status", Value: "PENDING", Operator: dto.FilterOperatorEq},
					dto.Filter{ArgName: "s2", Field: "status", Value: "CONFIRMED", Operator: dto.FilterOperatorEq},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(customer_id = :customer_id AND (status = :s1 OR status = :s2))", where)
	assert.Equal(t, map[string]any{"customer_id": "c-1", "s1": "PENDING", "s2": "CONFIRMED"}, args)

	empty := dto.FilterGroup{}
	where, _ = empty.GetWhereClause()
	assert.Empty(t, where)

	implicit := dto.FilterGroup{Filters: []any{
		dto.Filter{Field: "a", Value: 1, Operator: dto.FilterOperatorEq},
		dto.Filter{Field: "b", Operator: "between"},
		dto.Filter{Field: "c", Operator: dto.FilterIsNotNull},
	}}
	where, _ = implicit.GetWhereClause()
	assert.Equal(t, "(a = :a AND c IS NOT NULL)", where)
}
