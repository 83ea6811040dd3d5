package main

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/rs/zerolog/log"

	"github.com/mizutama/alarmsync/config"
	"github.com/mizutama/alarmsync/executor"
	"github.com/mizutama/alarmsync/providers"
	awsprov "github.com/mizutama/alarmsync/providers/aws"
	"github.com/mizutama/alarmsync/reconciler"
	"github.com/mizutama/alarmsync/types"
)

// runtime bundles everything one reconciliation run needs: validated config,
// the CloudWatch client, discovery clients, and the apply executor.
type runtime struct {
	cfg       *config.Config
	cw        *cloudwatch.Client
	discovery *awsprov.Clients
	exec      *executor.Executor
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Globals.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Globals.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	cw := cloudwatch.NewFromConfig(awsCfg)
	return &runtime{
		cfg:       cfg,
		cw:        cw,
		discovery: awsprov.NewClients(awsCfg),
		exec:      executor.New(cw, cfg.Globals.Alarm, cfg.CallInterval(), log.Logger),
	}, nil
}

// requiredSpecs builds every rule's provider up front, so an unknown
// resource kind fails the run before any discovery call, then expands the
// rules into alarm specs in stable rule order.
func (r *runtime) requiredSpecs(ctx context.Context) ([]types.AlarmSpec, error) {
	ruleNames := r.cfg.RuleNames()

	bound := make(map[string]providers.Provider, len(ruleNames))
	for _, name := range ruleNames {
		p, err := r.discovery.Provider(r.cfg.Resources[name])
		if err != nil {
			return nil, fmt.Errorf("resource %q: %w", name, err)
		}
		bound[name] = p
	}

	var specs []types.AlarmSpec
	for _, name := range ruleNames {
		ruleSpecs, err := providers.Expand(ctx, bound[name], r.cfg.Resources[name], r.cfg.Globals.Alarm.NamePrefix)
		if err != nil {
			return nil, fmt.Errorf("resource %q: %w", name, err)
		}
		log.Debug().Str("resource", name).Int("alarms", len(ruleSpecs)).Msg("rule expanded")
		specs = append(specs, ruleSpecs...)
	}
	return specs, nil
}

// changeSet runs the read half of a reconciliation: discovery, inventory,
// diff. No writes happen here.
func (r *runtime) changeSet(ctx context.Context) (*types.ChangeSet, error) {
	required, err := r.requiredSpecs(ctx)
	if err != nil {
		return nil, err
	}

	current, err := reconciler.CurrentAlarmNames(ctx, r.cw, r.cfg.Globals.Alarm.NamePrefix)
	if err != nil {
		return nil, err
	}

	return reconciler.Compute(required, current)
}
