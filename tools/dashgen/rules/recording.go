package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "rankguard-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "rankguard-recording",
					Rules: []Rule{
						{
							Record: "rankguard:http_requests:rate5m",
							Expr:   `sum(rate(rankguard_http_requests_total[5m]))`,
						},
						{
							Record: "rankguard:http_errors:rate5m",
							Expr:   `sum(rate(rankguard_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "rankguard:itunes_api_calls:rate5m",
							Expr:   `rate(rankguard_itunes_api_calls_total[5m])`,
						},
						{
							Record: "rankguard:lookup_errors:rate5m",
							Expr:   `rate(rankguard_keyword_lookup_errors_total[5m])`,
						},
						{
							Record: "rankguard:alerts_classified:rate5m",
							Expr:   `sum(rate(rankguard_alerts_classified_total[5m]))`,
						},
					},
				},
			},
		},
	}
}
