// Package reconciler computes the create/keep/delete partition between the
// alarms that should exist and the alarms the backend currently has. The
// alarm name is the only matching key: required specs are authoritative, so
// an existing alarm is either kept as-is or deleted, never field-patched.
package reconciler

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/mizutama/alarmsync/types"
)

// inventoryPageSize bounds DescribeAlarms pages (backend maximum).
const inventoryPageSize = 100

// AlarmListerAPI is the slice of the CloudWatch API the reconciler reads.
// *cloudwatch.Client satisfies it.
type AlarmListerAPI interface {
	DescribeAlarms(ctx context.Context, params *cloudwatch.DescribeAlarmsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.DescribeAlarmsOutput, error)
}

// CurrentAlarmNames fetches the name of every metric alarm under prefix,
// following pagination until the backend stops returning a token.
func CurrentAlarmNames(ctx context.Context, api AlarmListerAPI, prefix string) ([]string, error) {
	input := &cloudwatch.DescribeAlarmsInput{
		AlarmNamePrefix: aws.String(prefix),
		AlarmTypes:      []cwtypes.AlarmType{cwtypes.AlarmTypeMetricAlarm},
		MaxRecords:      aws.Int32(inventoryPageSize),
	}

	paginator := cloudwatch.NewDescribeAlarmsPaginator(api, input)
	var names []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list alarms with prefix %q: %w", prefix, err)
		}
		for _, alarm := range page.MetricAlarms {
			names = append(names, aws.ToString(alarm.AlarmName))
		}
	}
	return names, nil
}

// DuplicateNameError reports two distinct resources deriving the same alarm
// name. Proceeding would silently collapse two alarms into one, so this is a
// configuration error raised before any create or delete call.
type DuplicateNameError struct {
	AlarmName string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate alarm name %q derived from more than one resource", e.AlarmName)
}

// Compute partitions required specs against the current inventory by alarm
// name. Creates and keeps follow the required stream's order, deletes follow
// the inventory's order.
func Compute(required []types.AlarmSpec, current []string) (*types.ChangeSet, error) {
	requiredNames := make(map[string]struct{}, len(required))
	for _, spec := range required {
		if _, dup := requiredNames[spec.AlarmName]; dup {
			return nil, &DuplicateNameError{AlarmName: spec.AlarmName}
		}
		requiredNames[spec.AlarmName] = struct{}{}
	}

	currentNames := make(map[string]struct{}, len(current))
	for _, name := range current {
		currentNames[name] = struct{}{}
	}

	changes := &types.ChangeSet{}
	for _, spec := range required {
		if _, exists := currentNames[spec.AlarmName]; exists {
			changes.ToKeep = append(changes.ToKeep, spec)
		} else {
			changes.ToCreate = append(changes.ToCreate, spec)
		}
	}
	for _, name := range current {
		if _, wanted := requiredNames[name]; !wanted {
			changes.ToDelete = append(changes.ToDelete, name)
		}
	}
	return changes, nil
}
