package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	apiclient "github.com/asoguard/rankguard/internal/api/client"
	domain "github.com/asoguard/rankguard/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printKeywordTable(keywords []domain.TrackedKeyword) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tKEYWORD\tCOUNTRY\tENABLED\tCREATED\n")
	for i := range keywords {
		tw.writef("%s\t%s\t%s\t%v\t%s\n",
			keywords[i].ID,
			truncate(keywords[i].Keyword, 40),
			keywords[i].Country,
			keywords[i].Enabled,
			keywords[i].CreatedAt.Format("2006-01-02"),
		)
	}
	return tw.finish()
}

func printKeywordDetail(kw *domain.TrackedKeyword) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", kw.ID)
	tw.writef("Keyword:\t%s\n", kw.Keyword)
	tw.writef("Country:\t%s\n", kw.Country)
	tw.writef("Enabled:\t%v\n", kw.Enabled)
	tw.writef("Created:\t%s\n", kw.CreatedAt.Format("2006-01-02 15:04:05"))
	tw.writef("Updated:\t%s\n", kw.UpdatedAt.Format("2006-01-02 15:04:05"))
	return tw.finish()
}

func printObservationsTable(observations []domain.RankObservation) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("KEYWORD\tCOUNTRY\tRANK\tOBSERVED\n")
	for i := range observations {
		tw.writef("%s\t%s\t%s\t%s\n",
			truncate(observations[i].Keyword, 40),
			observations[i].Country,
			observations[i].Rank,
			observations[i].ObservedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return tw.finish()
}

func printAlertsTable(alerts []domain.AlertRecord) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("PRIORITY\tTYPE\tKEYWORD\tCOUNTRY\tCHANGE\tDELTA\tCREATED\n")
	for i := range alerts {
		a := &alerts[i]
		tw.writef("%s\t%s\t%s\t%s\t#%d → #%d\t%+d\t%s\n",
			a.Priority,
			a.Type,
			truncate(a.Keyword, 30),
			a.Country,
			a.PreviousRank,
			a.CurrentRank,
			a.Delta,
			a.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return tw.finish()
}

func printJobRunsTable(runs []domain.JobRun) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("JOB\tSTATUS\tSTARTED\tCOMPLETED\tROWS\tERROR\n")
	for i := range runs {
		r := &runs[i]
		completed := "-"
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format("2006-01-02 15:04:05")
		}
		rows := "-"
		if r.RowsAffected != nil {
			rows = fmt.Sprintf("%d", *r.RowsAffected)
		}
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			r.JobName,
			r.Status,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			completed,
			rows,
			truncate(r.ErrorText, 40),
		)
	}
	return tw.finish()
}

func printQuota(q *apiclient.Quota) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Daily limit:\t%d\n", q.DailyLimit)
	tw.writef("Used today:\t%d\n", q.DailyUsed)
	tw.writef("Remaining:\t%d\n", q.Remaining)
	if !q.ResetAt.IsZero() {
		tw.writef("Resets at:\t%s\n", q.ResetAt.Local().Format("2006-01-02 15:04:05"))
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
