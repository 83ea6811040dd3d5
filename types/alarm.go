package types

import "fmt"

// Target is one discovered cloud resource in scope for alarm generation.
// Ref is whatever identifier the listing backend hands back: an ARN for
// tag-search discovery, a bare name for kind-specific listings.
type Target struct {
	Ref string `json:"ref"`
}

// Dimension is a single CloudWatch metric dimension.
type Dimension struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AlarmSpec is the full definition of one metric alarm this tool wants to
// exist. AlarmName is the unique key the reconciler matches on; everything
// else is what gets pushed on create.
type AlarmSpec struct {
	AlarmName  string      `json:"alarm_name"`
	Resource   string      `json:"resource"`
	MetricName string      `json:"metric_name"`
	Namespace  string      `json:"namespace"`
	Dimensions []Dimension `json:"dimensions"`
	Overrides  AlarmParams `json:"overrides,omitempty"`
}

// Description returns the human-readable alarm description.
func (s AlarmSpec) Description() string {
	return fmt.Sprintf("Metric alarm for %s of %s", s.MetricName, s.Resource)
}

// AlarmName derives the alarm name for a resource/metric pair. The result is
// the reconciliation key, so the derivation must stay deterministic.
func AlarmName(prefix, resourceName, metricName string) string {
	return prefix + resourceName + "-" + metricName
}

// AlarmParams holds the tunable alarm parameters. Zero values mean "not set":
// pointers for numerics, empty string for the enum-ish fields.
type AlarmParams struct {
	Statistic          string   `yaml:"statistic,omitempty" json:"statistic,omitempty"`
	Period             *int32   `yaml:"period,omitempty" json:"period,omitempty"`
	EvaluationPeriods  *int32   `yaml:"evaluation_periods,omitempty" json:"evaluation_periods,omitempty"`
	DatapointsToAlarm  *int32   `yaml:"datapoints_to_alarm,omitempty" json:"datapoints_to_alarm,omitempty"`
	Threshold          *float64 `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	ComparisonOperator string   `yaml:"comparison_operator,omitempty" json:"comparison_operator,omitempty"`
	TreatMissingData   string   `yaml:"treat_missing_data,omitempty" json:"treat_missing_data,omitempty"`
}

// Merge overlays o on top of p, shallow: every field o sets fully replaces
// the corresponding field of p, every field o leaves unset is kept from p.
func (p AlarmParams) Merge(o AlarmParams) AlarmParams {
	out := p
	if o.Statistic != "" {
		out.Statistic = o.Statistic
	}
	if o.Period != nil {
		out.Period = o.Period
	}
	if o.EvaluationPeriods != nil {
		out.EvaluationPeriods = o.EvaluationPeriods
	}
	if o.DatapointsToAlarm != nil {
		out.DatapointsToAlarm = o.DatapointsToAlarm
	}
	if o.Threshold != nil {
		out.Threshold = o.Threshold
	}
	if o.ComparisonOperator != "" {
		out.ComparisonOperator = o.ComparisonOperator
	}
	if o.TreatMissingData != "" {
		out.TreatMissingData = o.TreatMissingData
	}
	return out
}

// IsZero reports whether no parameter is set.
func (p AlarmParams) IsZero() bool {
	return p == AlarmParams{}
}
