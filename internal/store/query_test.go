package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestRecordQuery_ToSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		query        RecordQuery
		wantInData   []string
		wantNotIn    []string
		wantArgCount int
	}{
		{
			name:  "no filters uses defaults",
			query: RecordQuery{},
			wantInData: []string{
				"ORDER BY created_at DESC",
				"LIMIT 50",
				"OFFSET 0",
			},
			wantNotIn:    []string{"WHERE"},
			wantArgCount: 0,
		},
		{
			name:  "priority filter",
			query: RecordQuery{Priority: strPtr("CRITICAL")},
			wantInData: []string{
				"WHERE priority = $1",
			},
			wantArgCount: 1,
		},
		{
			name: "all filters combined",
			query: RecordQuery{
				Priority: strPtr("HIGH"),
				Keyword:  strPtr("bible chat"),
				Country:  strPtr("US"),
				Since:    timePtr(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
			},
			wantInData: []string{
				"priority = $1",
				"keyword = $2",
				"country = $3",
				"created_at >= $4",
			},
			wantArgCount: 4,
		},
		{
			name:  "delta ordering",
			query: RecordQuery{OrderBy: "delta"},
			wantInData: []string{
				"ORDER BY ABS(delta) DESC",
			},
			wantArgCount: 0,
		},
		{
			name:  "unknown ordering falls back to default",
			query: RecordQuery{OrderBy: "nonsense"},
			wantInData: []string{
				"ORDER BY created_at DESC",
			},
			wantArgCount: 0,
		},
		{
			name:  "limit is clamped",
			query: RecordQuery{Limit: 9999},
			wantInData: []string{
				"LIMIT 500",
			},
			wantArgCount: 0,
		},
		{
			name:  "offset is applied",
			query: RecordQuery{Limit: 20, Offset: 40},
			wantInData: []string{
				"LIMIT 20",
				"OFFSET 40",
			},
			wantArgCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dataSQL, countSQL, args := tt.query.ToSQL()

			for _, want := range tt.wantInData {
				assert.Contains(t, dataSQL, want)
			}
			for _, notWant := range tt.wantNotIn {
				assert.NotContains(t, dataSQL, notWant)
			}
			assert.Len(t, args, tt.wantArgCount)

			// The count query shares the WHERE clause but never orders
			// or paginates.
			assert.NotContains(t, countSQL, "ORDER BY")
			assert.NotContains(t, countSQL, "LIMIT")
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
