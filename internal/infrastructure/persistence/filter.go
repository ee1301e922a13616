package persistence

import (
	"strings"

	"github.com/schoolfund/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applySort orders the query by the filter's sort column, but only if the
// column is in the repository's whitelist. Interpolating an unvalidated
// column name into ORDER BY would be an injection vector.
func applySort(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	column := filter.OrderBy
	if column == "" || !allowed[column] {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		direction = "ASC"
	}
	return query.Order(column + " " + direction)
}

// applyPagination applies the filter's page window
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	return query.Offset(filter.Offset()).Limit(filter.Limit())
}

// applySearch matches the search term against the given columns
func applySearch(query *gorm.DB, filter shared.Filter, columns ...string) *gorm.DB {
	if filter.Search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(filter.Search) + "%"
	clause := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clause[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where(strings.Join(clause, " OR "), args...)
}
