package aws

import (
	"context"
	"fmt"
	"iter"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"

	"github.com/mizutama/alarmsync/config"
	"github.com/mizutama/alarmsync/providers"
	"github.com/mizutama/alarmsync/types"
)

// RestAPIListAPI is the slice of the API Gateway API discovery uses.
// *apigateway.Client satisfies it.
type RestAPIListAPI interface {
	GetRestApis(ctx context.Context, params *apigateway.GetRestApisInput, optFns ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error)
}

// restAPIProvider discovers REST APIs through API Gateway's own listing,
// since the tag-search API does not cover them. Tag selection happens
// client-side by subset containment; the API's name doubles as its
// identifier, so no ARN parsing is involved.
type restAPIProvider struct {
	api         RestAPIListAPI
	tagFilter   map[string]string
	namePattern *regexp.Regexp
}

func newRestAPIProvider(c *Clients, rule config.ResourceRule) (providers.Provider, error) {
	namePattern, err := compileNamePattern(rule.NamePattern)
	if err != nil {
		return nil, err
	}
	return &restAPIProvider{
		api:         c.restAPIs,
		tagFilter:   rule.Tags,
		namePattern: namePattern,
	}, nil
}

func (p *restAPIProvider) List(ctx context.Context) iter.Seq2[types.Target, error] {
	return func(yield func(types.Target, error) bool) {
		paginator := apigateway.NewGetRestApisPaginator(p.api, &apigateway.GetRestApisInput{})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				yield(types.Target{}, fmt.Errorf("failed to list REST APIs: %w", err))
				return
			}

			for _, item := range page.Items {
				name := aws.ToString(item.Name)
				if !containsTags(item.Tags, p.tagFilter) {
					continue
				}
				if p.namePattern != nil && !p.namePattern.MatchString(name) {
					continue
				}
				if !yield(types.Target{Ref: name}, nil) {
					return
				}
			}
		}
	}
}

func (p *restAPIProvider) ShortName(t types.Target) string {
	return t.Ref
}

func (p *restAPIProvider) Dimensions(_ string, t types.Target) []types.Dimension {
	return []types.Dimension{{Name: "ApiName", Value: t.Ref}}
}

// containsTags reports whether actual carries every expected key/value pair.
// An empty expectation matches everything.
func containsTags(actual, expected map[string]string) bool {
	for key, value := range expected {
		if actual[key] != value {
			return false
		}
	}
	return true
}
