// Package executor applies a computed change set against CloudWatch with
// sequential, rate-limited calls. There is no retry here: a failed call
// aborts the rest of the sequence, and the caller re-runs the whole
// reconciliation, which is safe because creates are idempotent upserts and
// deleting an absent alarm is a no-op.
package executor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/rs/zerolog"

	"github.com/mizutama/alarmsync/config"
	"github.com/mizutama/alarmsync/types"
)

// deleteBatchSize is the DeleteAlarms per-call limit documented by CloudWatch.
const deleteBatchSize = 100

// AlarmWriterAPI is the slice of the CloudWatch API the executor writes
// through. *cloudwatch.Client satisfies it.
type AlarmWriterAPI interface {
	PutMetricAlarm(ctx context.Context, params *cloudwatch.PutMetricAlarmInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricAlarmOutput, error)
	DeleteAlarms(ctx context.Context, params *cloudwatch.DeleteAlarmsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.DeleteAlarmsOutput, error)
}

// Executor issues the create and delete calls for one run.
type Executor struct {
	api      AlarmWriterAPI
	defaults config.AlarmDefaults
	interval time.Duration
	logger   zerolog.Logger
	sleep    func(time.Duration)
}

// New creates an executor. interval is the delay inserted after every
// backend call; zero disables it.
func New(api AlarmWriterAPI, defaults config.AlarmDefaults, interval time.Duration, logger zerolog.Logger) *Executor {
	return &Executor{
		api:      api,
		defaults: defaults,
		interval: interval,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// Apply issues one create call per alarm, then batched deletes.
// extraActions are appended to the configured notification targets on every
// created alarm.
func (e *Executor) Apply(ctx context.Context, changes *types.ChangeSet, extraActions []string) error {
	actions := make([]string, 0, len(e.defaults.Actions)+len(extraActions))
	actions = append(actions, e.defaults.Actions...)
	actions = append(actions, extraActions...)

	for _, spec := range changes.ToCreate {
		e.logger.Debug().Str("alarm", spec.AlarmName).Msg("creating alarm")
		if _, err := e.api.PutMetricAlarm(ctx, e.buildPutInput(spec, actions)); err != nil {
			return fmt.Errorf("failed to create alarm %q: %w", spec.AlarmName, err)
		}
		e.pause()
	}

	for start := 0; start < len(changes.ToDelete); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(changes.ToDelete))
		batch := changes.ToDelete[start:end]

		e.logger.Debug().Int("count", len(batch)).Msg("deleting alarms")
		if _, err := e.api.DeleteAlarms(ctx, &cloudwatch.DeleteAlarmsInput{AlarmNames: batch}); err != nil {
			return fmt.Errorf("failed to delete alarm batch starting with %q: %w", batch[0], err)
		}
		e.pause()
	}

	e.logger.Info().
		Int("created", len(changes.ToCreate)).
		Int("kept", len(changes.ToKeep)).
		Int("deleted", len(changes.ToDelete)).
		Msg("alarms applied")
	return nil
}

// buildPutInput merges the global defaults with the spec's overrides (spec
// wins field by field) and attaches the computed action lists and uniform
// tags.
func (e *Executor) buildPutInput(spec types.AlarmSpec, actions []string) *cloudwatch.PutMetricAlarmInput {
	params := e.defaults.DefaultParams.Merge(spec.Overrides)

	input := &cloudwatch.PutMetricAlarmInput{
		AlarmName:               aws.String(spec.AlarmName),
		AlarmDescription:        aws.String(spec.Description()),
		MetricName:              aws.String(spec.MetricName),
		Namespace:               aws.String(spec.Namespace),
		AlarmActions:            actions,
		OKActions:               actions,
		InsufficientDataActions: actions,
	}

	for _, d := range spec.Dimensions {
		input.Dimensions = append(input.Dimensions, cwtypes.Dimension{
			Name:  aws.String(d.Name),
			Value: aws.String(d.Value),
		})
	}

	if params.Statistic != "" {
		input.Statistic = cwtypes.Statistic(params.Statistic)
	}
	input.Period = params.Period
	input.EvaluationPeriods = params.EvaluationPeriods
	input.DatapointsToAlarm = params.DatapointsToAlarm
	input.Threshold = params.Threshold
	if params.ComparisonOperator != "" {
		input.ComparisonOperator = cwtypes.ComparisonOperator(params.ComparisonOperator)
	}
	if params.TreatMissingData != "" {
		input.TreatMissingData = aws.String(params.TreatMissingData)
	}

	tagKeys := make([]string, 0, len(e.defaults.Tagging))
	for key := range e.defaults.Tagging {
		tagKeys = append(tagKeys, key)
	}
	sort.Strings(tagKeys)
	for _, key := range tagKeys {
		input.Tags = append(input.Tags, cwtypes.Tag{
			Key:   aws.String(key),
			Value: aws.String(e.defaults.Tagging[key]),
		})
	}

	return input
}

func (e *Executor) pause() {
	if e.interval > 0 {
		e.sleep(e.interval)
	}
}
