package osHealth

// Evaluate compares every metric against the limit for its kind and
// returns one result per metric, preserving input order. A value equal
// to its limit counts as exceeded.
func Evaluate(metrics []Metric, limits Limits) []AlertResult {
	results := make([]AlertResult, 0, len(metrics))
	for _, metric := range metrics {
		limit := limits.For(metric.Kind)
		results = append(results, AlertResult{
			Metric:   metric,
			Limit:    limit,
			Exceeded: metric.Value >= float64(limit),
		})
	}
	return results
}

// Alerts filters a result list down to the exceeded entries.
func Alerts(results []AlertResult) []AlertResult {
	alerts := make([]AlertResult, 0, len(results))
	for _, result := range results {
		if result.Exceeded {
			alerts = append(alerts, result)
		}
	}
	return alerts
}
