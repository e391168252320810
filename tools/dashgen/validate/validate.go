// Package validate checks generated dashboards against the set of
// metrics the service actually exports: every panel query must parse as
// PromQL, and every metric it selects must be a known exported metric
// or recording rule.
package validate

import (
	"fmt"
	"strings"

	cogvariants "github.com/grafana/grafana-foundation-sdk/go/cog/variants"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	promdataquery "github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/prometheus/prometheus/promql/parser"
)

// Result collects validation findings for one dashboard.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation produced no errors.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Dashboard validates every Prometheus target expression in the
// dashboard. Unparseable PromQL is an error; a metric name not in
// knownMetrics is an error; a panel with no targets is a warning.
func Dashboard(dash dashboard.Dashboard, knownMetrics map[string]bool) Result {
	var result Result

	for _, p := range dash.Panels {
		if p.RowPanel != nil {
			for i := range p.RowPanel.Panels {
				validatePanel(&p.RowPanel.Panels[i], knownMetrics, &result)
			}
			continue
		}
		if p.Panel != nil {
			validatePanel(p.Panel, knownMetrics, &result)
		}
	}

	return result
}

func validatePanel(p *dashboard.Panel, knownMetrics map[string]bool, result *Result) {
	title := "untitled"
	if p.Title != nil {
		title = *p.Title
	}

	if len(p.Targets) == 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("panel %q has no targets", title))
		return
	}

	for _, t := range p.Targets {
		expr, ok := targetExpr(t)
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("panel %q has a non-Prometheus target", title))
			continue
		}
		validateExpr(title, expr, knownMetrics, result)
	}
}

func validateExpr(panel, expr string, knownMetrics map[string]bool, result *Result) {
	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("panel %q: invalid PromQL %q: %v", panel, expr, err))
		return
	}

	parser.Inspect(parsed, func(node parser.Node, _ []parser.Node) error {
		vs, ok := node.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !knownMetrics[baseMetricName(vs.Name)] {
			result.Errors = append(result.Errors,
				fmt.Sprintf("panel %q references unknown metric %q", panel, vs.Name))
		}
		return nil
	})
}

// baseMetricName strips the histogram series suffixes so that
// foo_seconds_bucket validates against the exported foo_seconds.
func baseMetricName(name string) string {
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok {
			if trimmed != "" {
				return trimmed
			}
		}
	}
	return name
}

func targetExpr(t cogvariants.Dataquery) (string, bool) {
	switch q := t.(type) {
	case promdataquery.Dataquery:
		return q.Expr, true
	case *promdataquery.Dataquery:
		return q.Expr, true
	}
	return "", false
}
