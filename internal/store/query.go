package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	orderByCreatedAt = "created_at"
	orderByDelta     = "delta"
)

// validOrderBy maps allowed OrderBy values to their SQL column expressions.
var validOrderBy = map[string]string{
	orderByCreatedAt: "created_at DESC",
	orderByDelta:     "ABS(delta) DESC",
}

const defaultOrderBy = "created_at DESC"

const baseRecordsSelect = `SELECT id, type, keyword, country, previous_rank, current_rank,
	delta, priority, created_at
FROM alert_records`

const countRecordsSelect = "SELECT COUNT(*) FROM alert_records"

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for an alert
// record query. It returns two SQL strings (one for the data query, one for
// the count query) and the positional parameters.
func (q *RecordQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", paramIdx))
		args = append(args, *q.Priority)
		paramIdx++
	}

	if q.Keyword != nil {
		conditions = append(conditions, fmt.Sprintf("keyword = $%d", paramIdx))
		args = append(args, *q.Keyword)
		paramIdx++
	}

	if q.Country != nil {
		conditions = append(conditions, fmt.Sprintf("country = $%d", paramIdx))
		args = append(args, *q.Country)
		paramIdx++
	}

	if q.Since != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", paramIdx))
		args = append(args, *q.Since)
		paramIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy := defaultOrderBy
	if expr, ok := validOrderBy[q.OrderBy]; ok {
		orderBy = expr
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY %s LIMIT %d OFFSET %d",
		baseRecordsSelect, where, orderBy, limit, q.Offset,
	)
	countSQL = countRecordsSelect + where

	return dataSQL, countSQL, args
}
