package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mizutama/alarmsync/types"
)

// Config is the full alarmsync configuration: global alarm settings plus one
// discovery rule per monitored resource group.
type Config struct {
	Globals   Globals                 `yaml:"globals"`
	Resources map[string]ResourceRule `yaml:"resources"`
}

// Globals holds settings shared by every alarm.
type Globals struct {
	Region                string        `yaml:"region,omitempty"`
	APICallIntervalMillis int           `yaml:"api_call_interval_millis"`
	Alarm                 AlarmDefaults `yaml:"alarm"`
}

// AlarmDefaults is the base alarm definition every created alarm starts from.
type AlarmDefaults struct {
	NamePrefix    string            `yaml:"alarm_name_prefix"`
	DefaultParams types.AlarmParams `yaml:"default_alarm_params"`
	Actions       []string          `yaml:"alarm_actions,omitempty"`
	Tagging       map[string]string `yaml:"alarm_tagging,omitempty"`
}

// ResourceRule selects one group of resources and describes the alarms each
// of them gets.
type ResourceRule struct {
	Type        string            `yaml:"target_resource_type"`
	Tags        map[string]string `yaml:"target_resource_tags,omitempty"`
	NamePattern string            `yaml:"target_resource_name_pattern,omitempty"`
	Alarm       AlarmRule         `yaml:"alarm"`
}

// AlarmRule is the per-kind alarm template: shared namespace and metric list,
// with optional per-metric parameter overrides merged over the global
// defaults (shallow, override wins).
type AlarmRule struct {
	Namespace      string                       `yaml:"namespace"`
	Metrics        []string                     `yaml:"metrics"`
	ParamOverrides map[string]types.AlarmParams `yaml:"alarm_param_overrides,omitempty"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate ensures the config can drive a full run before any AWS call.
func (c *Config) Validate() error {
	if c.Globals.Alarm.NamePrefix == "" {
		return fmt.Errorf("globals.alarm.alarm_name_prefix is required")
	}
	if c.Globals.APICallIntervalMillis < 0 {
		return fmt.Errorf("globals.api_call_interval_millis must not be negative")
	}
	if len(c.Resources) == 0 {
		return fmt.Errorf("at least one resource rule is required")
	}

	for name, rule := range c.Resources {
		if err := rule.validate(); err != nil {
			return fmt.Errorf("resource %q: %w", name, err)
		}
	}
	return nil
}

func (r ResourceRule) validate() error {
	if r.Type == "" {
		return fmt.Errorf("target_resource_type is required")
	}
	if r.NamePattern != "" {
		if _, err := regexp.Compile(r.NamePattern); err != nil {
			return fmt.Errorf("invalid target_resource_name_pattern: %w", err)
		}
	}
	if r.Alarm.Namespace == "" {
		return fmt.Errorf("alarm.namespace is required")
	}
	if len(r.Alarm.Metrics) == 0 {
		return fmt.Errorf("alarm.metrics must not be empty")
	}

	metrics := make(map[string]bool, len(r.Alarm.Metrics))
	for _, m := range r.Alarm.Metrics {
		metrics[m] = true
	}
	for m := range r.Alarm.ParamOverrides {
		if !metrics[m] {
			return fmt.Errorf("alarm_param_overrides refers to unknown metric %q", m)
		}
	}
	return nil
}

// CallInterval returns the configured inter-call delay.
func (c *Config) CallInterval() time.Duration {
	return time.Duration(c.Globals.APICallIntervalMillis) * time.Millisecond
}

// RuleNames returns the resource rule names in stable order.
func (c *Config) RuleNames() []string {
	names := make([]string, 0, len(c.Resources))
	for name := range c.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
