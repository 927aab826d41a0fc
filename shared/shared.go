package shared

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"reflect"
	"salon/shared/cache"
	"salon/shared/constant"
	"salon/shared/dto"
	"salon/shared/timezone"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

// CalculateTotalPage never reports fewer than one page, even for an empty listing.
func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return (total + limit - 1) / limit
}

// TransformFields maps the non-zero `db` tagged fields of a struct to an update set,
// stamped with the modification audit columns. Nil pointers count as zero.
func TransformFields(data any, actor string) map[string]any {
	value := reflect.ValueOf(data)
	fields := map[string]any{
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	for _, field := range reflect.VisibleFields(value.Type()) {
		column := field.Tag.Get("db")
		if column == "" || column == "-" || field.Anonymous {
			continue
		}

		if current := value.FieldByIndex(field.Index); !current.IsZero() {
			fields[column] = current.Interface()
		}
	}

	return fields
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

// BuildCacheKey joins the prefix and parts with ":".
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery derives a stable key for a paginated, filtered listing.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	payload, err := json.Marshal(struct {
		Where string         `json:"where"`
		Args  map[string]any `json:"args"`
	}{Where: where, Args: args})
	if err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("failed to marshal filter for cache key")
	}

	sum := sha256.Sum256(payload)

	return BuildCacheKey(
		prefix,
		strconv.Itoa(params.Page),
		strconv.Itoa(params.Limit),
		params.SortBy,
		params.SortDir,
		hex.EncodeToString(sum[:8]),
	)
}

// InvalidateCaches removes every key under prefix. Failures are logged, never returned.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+cacheKeySeparator+constant.Asterix); err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
