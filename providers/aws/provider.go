// Package aws implements resource discovery providers backed by the AWS
// APIs: the Resource Groups Tagging API for kinds it covers, plus dedicated
// listing APIs for the rest.
package aws

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"

	"github.com/mizutama/alarmsync/config"
	"github.com/mizutama/alarmsync/providers"
)

// Clients bundles the AWS API clients the discovery providers share.
type Clients struct {
	tagging  TagSearchAPI
	restAPIs RestAPIListAPI
}

// NewClients builds the discovery clients from a resolved AWS config.
func NewClients(cfg aws.Config) *Clients {
	return &Clients{
		tagging:  resourcegroupstaggingapi.NewFromConfig(cfg),
		restAPIs: apigateway.NewFromConfig(cfg),
	}
}

// factory builds the provider for one resource kind.
type factory func(c *Clients, rule config.ResourceRule) (providers.Provider, error)

// kinds maps each supported resource type to its provider constructor.
// Adding a kind means adding an entry here, never branching in Expand.
var kinds = map[string]factory{
	"lambda:function":     newLambdaProvider,
	"states:stateMachine": newStateMachineProvider,
	"sns:topic":           newTopicProvider,
	"sqs:queue":           newQueueProvider,
	"events:rule":         newEventRuleProvider,
	"apigateway:restapi":  newRestAPIProvider,
}

// Provider builds the discovery provider for one rule. Unknown resource
// types fail here, before any discovery call is made.
func (c *Clients) Provider(rule config.ResourceRule) (providers.Provider, error) {
	build, ok := kinds[rule.Type]
	if !ok {
		return nil, fmt.Errorf("no provider for resource type %q (supported: %v)", rule.Type, Kinds())
	}
	return build(c, rule)
}

// Kinds returns the supported resource types, sorted.
func Kinds() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// compileNamePattern compiles a selector name pattern anchored at the start
// of the short name.
func compileNamePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, fmt.Errorf("invalid resource name pattern %q: %w", pattern, err)
	}
	return re, nil
}

// sortedKeys returns map keys in stable order so request parameters and
// emitted tags are reproducible across runs.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
