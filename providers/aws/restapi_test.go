package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	agwtypes "github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizutama/alarmsync/config"
	"github.com/mizutama/alarmsync/types"
)

type fakeRestAPIList struct {
	pages []*apigateway.GetRestApisOutput
	calls int
	err   error
}

func (f *fakeRestAPIList) GetRestApis(_ context.Context, _ *apigateway.GetRestApisInput, _ ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func restAPI(name string, tags map[string]string) agwtypes.RestApi {
	return agwtypes.RestApi{Name: aws.String(name), Tags: tags}
}

func restAPIClients(api RestAPIListAPI) *Clients {
	return &Clients{restAPIs: api}
}

func TestRestAPIProviderTagContainment(t *testing.T) {
	api := &fakeRestAPIList{pages: []*apigateway.GetRestApisOutput{{
		Items: []agwtypes.RestApi{
			restAPI("orders-api", map[string]string{"Environment": "prod", "Team": "orders"}),
			restAPI("billing-api", map[string]string{"Environment": "staging"}),
			restAPI("untagged-api", nil),
		},
	}}}

	p, err := newRestAPIProvider(restAPIClients(api), config.ResourceRule{
		Type: "apigateway:restapi",
		Tags: map[string]string{"Environment": "prod"},
	})
	require.NoError(t, err)

	var names []string
	for target, err := range p.List(context.Background()) {
		require.NoError(t, err)
		names = append(names, target.Ref)
	}
	assert.Equal(t, []string{"orders-api"}, names)
}

func TestRestAPIProviderNoFilterMatchesAll(t *testing.T) {
	api := &fakeRestAPIList{pages: []*apigateway.GetRestApisOutput{{
		Items: []agwtypes.RestApi{
			restAPI("orders-api", map[string]string{"Environment": "prod"}),
			restAPI("untagged-api", nil),
		},
	}}}

	p, err := newRestAPIProvider(restAPIClients(api), config.ResourceRule{Type: "apigateway:restapi"})
	require.NoError(t, err)

	var names []string
	for target, err := range p.List(context.Background()) {
		require.NoError(t, err)
		names = append(names, target.Ref)
	}
	assert.Equal(t, []string{"orders-api", "untagged-api"}, names)
}

func TestRestAPIProviderPagination(t *testing.T) {
	api := &fakeRestAPIList{pages: []*apigateway.GetRestApisOutput{
		{
			Items:    []agwtypes.RestApi{restAPI("orders-api", nil)},
			Position: aws.String("page2"),
		},
		{
			Items: []agwtypes.RestApi{restAPI("billing-api", nil)},
		},
	}}

	p, err := newRestAPIProvider(restAPIClients(api), config.ResourceRule{Type: "apigateway:restapi"})
	require.NoError(t, err)

	var names []string
	for target, err := range p.List(context.Background()) {
		require.NoError(t, err)
		names = append(names, target.Ref)
	}
	assert.Equal(t, []string{"orders-api", "billing-api"}, names)
	assert.Equal(t, 2, api.calls)
}

func TestRestAPIProviderListError(t *testing.T) {
	listErr := errors.New("denied")
	api := &fakeRestAPIList{err: listErr}

	p, err := newRestAPIProvider(restAPIClients(api), config.ResourceRule{Type: "apigateway:restapi"})
	require.NoError(t, err)

	var got error
	for _, err := range p.List(context.Background()) {
		got = err
	}
	assert.ErrorIs(t, got, listErr)
}

func TestRestAPIProviderIdentity(t *testing.T) {
	p, err := newRestAPIProvider(restAPIClients(&fakeRestAPIList{}), config.ResourceRule{Type: "apigateway:restapi"})
	require.NoError(t, err)

	target := types.Target{Ref: "orders-api"}
	assert.Equal(t, "orders-api", p.ShortName(target))
	assert.Equal(t, []types.Dimension{{Name: "ApiName", Value: "orders-api"}}, p.Dimensions("5XXError", target))
}

func TestClientsProviderUnknownKind(t *testing.T) {
	c := &Clients{}
	_, err := c.Provider(config.ResourceRule{Type: "dynamodb:table"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dynamodb:table")
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []string{
		"apigateway:restapi",
		"events:rule",
		"lambda:function",
		"sns:topic",
		"sqs:queue",
		"states:stateMachine",
	}, Kinds())
}
