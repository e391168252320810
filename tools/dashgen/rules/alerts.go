package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// rankguard operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "rankguard-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "rankguard-alerts",
					Rules: []Rule{
						{
							Alert: "RankguardDown",
							Expr:  `absent(up{job="rankguard"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Rank Guard is down",
								"description": "The rankguard job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "RankguardReadinessDown",
							Expr:  `rankguard_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Rank Guard readiness check is failing",
								"description": "The readiness probe has been reporting not-ready for more than 2 minutes.",
							},
						},
						{
							Alert: "RankguardHighErrorRate",
							Expr:  `rankguard:http_errors:rate5m / rankguard:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on Rank Guard",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "RankguardLookupErrors",
							Expr:  `rankguard:lookup_errors:rate5m > 0`,
							For:   "15m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Keyword lookups are failing",
								"description": "Rank lookups have been producing errors for more than 15 minutes; keyword coverage is degraded.",
							},
						},
						{
							Alert: "RankguardQuotaHigh",
							Expr:  `rankguard_itunes_daily_usage > 1600`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "iTunes API daily usage is above 80% of the quota",
								"description": "Daily iTunes API usage has exceeded 1600 calls (limit is 2000).",
							},
						},
						{
							Alert: "RankguardLimitReached",
							Expr:  `increase(rankguard_itunes_daily_limit_hits_total[5m]) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "iTunes API daily limit has been reached",
								"description": "The iTunes Search API daily quota has been exhausted. Tracking is paused until the window rolls over.",
							},
						},
						{
							Alert: "RankguardNotificationFailures",
							Expr:  `increase(rankguard_notification_failures_total[5m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Notification delivery failures detected",
								"description": "One or more alert notifications (Telegram or Slack) have failed to send.",
							},
						},
					},
				},
			},
		},
	}
}
