package aws

import (
	"context"
	"fmt"
	"iter"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	tagtypes "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi/types"

	"github.com/mizutama/alarmsync/config"
	"github.com/mizutama/alarmsync/providers"
	"github.com/mizutama/alarmsync/types"
)

// TagSearchAPI is the slice of the Resource Groups Tagging API discovery
// uses. *resourcegroupstaggingapi.Client satisfies it.
type TagSearchAPI interface {
	GetResources(ctx context.Context, params *resourcegroupstaggingapi.GetResourcesInput, optFns ...func(*resourcegroupstaggingapi.Options)) (*resourcegroupstaggingapi.GetResourcesOutput, error)
}

// tagSearchProvider discovers resources through the generic tag-search API.
// The per-kind variants differ only in data: which ARN shape yields the
// short name, and which dimension key the kind's metrics expect.
type tagSearchProvider struct {
	api          TagSearchAPI
	resourceType string
	tagFilter    map[string]string
	namePattern  *regexp.Regexp
	arnShape     *regexp.Regexp
	dimensionKey string
	// dimensionRef selects the raw ARN as the dimension value for kinds
	// whose metric dimension expects the full reference.
	dimensionRef bool
}

func newTagSearchProvider(c *Clients, rule config.ResourceRule, arnShape *regexp.Regexp, dimensionKey string, dimensionRef bool) (providers.Provider, error) {
	namePattern, err := compileNamePattern(rule.NamePattern)
	if err != nil {
		return nil, err
	}
	return &tagSearchProvider{
		api:          c.tagging,
		resourceType: rule.Type,
		tagFilter:    rule.Tags,
		namePattern:  namePattern,
		arnShape:     arnShape,
		dimensionKey: dimensionKey,
		dimensionRef: dimensionRef,
	}, nil
}

func newLambdaProvider(c *Clients, rule config.ResourceRule) (providers.Provider, error) {
	return newTagSearchProvider(c, rule, arnDefault, "FunctionName", false)
}

func newStateMachineProvider(c *Clients, rule config.ResourceRule) (providers.Provider, error) {
	// The StateMachineArn dimension wants the full ARN, not the short name.
	return newTagSearchProvider(c, rule, arnDefault, "StateMachineArn", true)
}

func newTopicProvider(c *Clients, rule config.ResourceRule) (providers.Provider, error) {
	return newTagSearchProvider(c, rule, arnNoResType, "TopicName", false)
}

func newQueueProvider(c *Clients, rule config.ResourceRule) (providers.Provider, error) {
	return newTagSearchProvider(c, rule, arnNoResType, "QueueName", false)
}

func newEventRuleProvider(c *Clients, rule config.ResourceRule) (providers.Provider, error) {
	return newTagSearchProvider(c, rule, arnNameBySlash, "RuleName", false)
}

// List streams matching resource ARNs. The tag filter is applied server-side,
// the name pattern client-side against the short name.
func (p *tagSearchProvider) List(ctx context.Context) iter.Seq2[types.Target, error] {
	return func(yield func(types.Target, error) bool) {
		input := &resourcegroupstaggingapi.GetResourcesInput{
			ResourceTypeFilters: []string{p.resourceType},
		}
		for _, key := range sortedKeys(p.tagFilter) {
			input.TagFilters = append(input.TagFilters, tagtypes.TagFilter{
				Key:    aws.String(key),
				Values: []string{p.tagFilter[key]},
			})
		}

		paginator := resourcegroupstaggingapi.NewGetResourcesPaginator(p.api, input)
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				yield(types.Target{}, fmt.Errorf("failed to search %s resources by tag: %w", p.resourceType, err))
				return
			}

			for _, mapping := range page.ResourceTagMappingList {
				arn := aws.ToString(mapping.ResourceARN)
				if p.namePattern != nil && !p.namePattern.MatchString(trimARN(p.arnShape, arn)) {
					continue
				}
				if !yield(types.Target{Ref: arn}, nil) {
					return
				}
			}
		}
	}
}

func (p *tagSearchProvider) ShortName(t types.Target) string {
	return trimARN(p.arnShape, t.Ref)
}

func (p *tagSearchProvider) Dimensions(_ string, t types.Target) []types.Dimension {
	value := t.Ref
	if !p.dimensionRef {
		value = p.ShortName(t)
	}
	return []types.Dimension{{Name: p.dimensionKey, Value: value}}
}
