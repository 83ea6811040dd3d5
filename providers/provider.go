package providers

import (
	"context"
	"fmt"
	"iter"

	"github.com/mizutama/alarmsync/config"
	"github.com/mizutama/alarmsync/types"
)

// Provider discovers live resources of one kind and knows how each of them
// maps onto alarm dimensions. One implementation per resource kind; the
// expansion loop itself is shared (see Expand).
type Provider interface {
	// List streams the targets matching the provider's selector. The
	// sequence is lazy and finite; pagination is followed internally.
	// Ranging it again restarts discovery from the first page.
	List(ctx context.Context) iter.Seq2[types.Target, error]

	// ShortName extracts the normalized resource name used in alarm names.
	ShortName(t types.Target) string

	// Dimensions returns the alarm dimensions for one metric of one target.
	Dimensions(metricName string, t types.Target) []types.Dimension
}

// Expand fans one rule out into alarm specs, one per (target, metric) pair.
// The metric list and namespace are shared across all targets of the rule;
// per-metric overrides ride along on the spec and are merged at create time.
func Expand(ctx context.Context, p Provider, rule config.ResourceRule, namePrefix string) ([]types.AlarmSpec, error) {
	var specs []types.AlarmSpec

	for target, err := range p.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("listing %s resources: %w", rule.Type, err)
		}

		name := p.ShortName(target)
		for _, metric := range rule.Alarm.Metrics {
			spec := types.AlarmSpec{
				AlarmName:  types.AlarmName(namePrefix, name, metric),
				Resource:   name,
				MetricName: metric,
				Namespace:  rule.Alarm.Namespace,
				Dimensions: p.Dimensions(metric, target),
			}
			if override, ok := rule.Alarm.ParamOverrides[metric]; ok {
				spec.Overrides = override
			}
			specs = append(specs, spec)
		}
	}

	return specs, nil
}
