package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vlt-io/shipctl/pkg/model"
)

// Environment is one deployable tier. Sensitive tiers require an
// explicit confirmation before any mutation.
type Environment struct {
	Name      string `yaml:"name"`
	Sensitive bool   `yaml:"sensitive"`
}

// Health holds the polling knobs for rollout verification. All values
// are in seconds, matching what the CLI flags accept.
type Health struct {
	PollIntervalSeconds    int    `yaml:"poll_interval_seconds"`
	QueryTimeoutSeconds    int    `yaml:"query_timeout_seconds"`
	DeployTimeoutSeconds   int    `yaml:"deploy_timeout_seconds"`
	RollbackTimeoutSeconds int    `yaml:"rollback_timeout_seconds"`
	SuccessPhrase          string `yaml:"success_phrase"`
}

func (h Health) PollInterval() time.Duration {
	return time.Duration(h.PollIntervalSeconds) * time.Second
}

func (h Health) QueryTimeout() time.Duration {
	return time.Duration(h.QueryTimeoutSeconds) * time.Second
}

func (h Health) DeployTimeout() time.Duration {
	return time.Duration(h.DeployTimeoutSeconds) * time.Second
}

func (h Health) RollbackTimeout() time.Duration {
	return time.Duration(h.RollbackTimeoutSeconds) * time.Second
}

type Metrics struct {
	// Port exposes /metrics while a command runs. 0 disables the endpoint.
	Port int `yaml:"port"`
}

type Journal struct {
	Path string `yaml:"path"`
}

type Config struct {
	Namespace    string        `yaml:"namespace"`
	Workload     string        `yaml:"workload"`
	Registry     string        `yaml:"registry"`
	Image        string        `yaml:"image"`
	KubectlBin   string        `yaml:"kubectl_bin"`
	Environments []Environment `yaml:"environments"`
	Health       Health        `yaml:"health"`
	Metrics      Metrics       `yaml:"metrics"`
	Journal      Journal       `yaml:"journal"`
}

// Default returns the built-in configuration for the video-analytics
// service, used when no config file is present.
func Default() *Config {
	return &Config{
		Namespace:  "video-analytics",
		Workload:   "video-processor",
		Registry:   "123456789012.dkr.ecr.us-east-1.amazonaws.com",
		Image:      "video-processor",
		KubectlBin: "kubectl",
		Environments: []Environment{
			{Name: "staging"},
			{Name: "production", Sensitive: true},
		},
		Health: Health{
			PollIntervalSeconds:    10,
			QueryTimeoutSeconds:    10,
			DeployTimeoutSeconds:   300,
			RollbackTimeoutSeconds: 180,
			SuccessPhrase:          "successfully rolled out",
		},
		Journal: Journal{Path: "shipctl-journal.json"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Namespace == "" || c.Workload == "" {
		return fmt.Errorf("config must set namespace and workload")
	}
	if len(c.Environments) == 0 {
		return fmt.Errorf("config must declare at least one environment")
	}
	if c.Health.PollIntervalSeconds <= 0 {
		return fmt.Errorf("health.poll_interval_seconds must be positive")
	}
	if c.Health.SuccessPhrase == "" {
		return fmt.Errorf("health.success_phrase must not be empty")
	}
	return nil
}

// Environment looks up a tier by name.
func (c *Config) Environment(name string) (Environment, error) {
	for _, e := range c.Environments {
		if e.Name == name {
			return e, nil
		}
	}
	return Environment{}, fmt.Errorf("unknown environment %q (known: %v)", name, c.environmentNames())
}

func (c *Config) environmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for _, e := range c.Environments {
		names = append(names, e.Name)
	}
	return names
}

// Target builds the immutable operation target for an environment.
func (c *Config) Target(env string) model.Target {
	return model.Target{
		Environment: env,
		Workload:    c.Workload,
		Namespace:   c.Namespace,
	}
}

// ImageRef builds the full image reference for a tag.
func (c *Config) ImageRef(tag string) model.ImageRef {
	return model.ImageRef{
		Registry: c.Registry,
		Name:     c.Image,
		Tag:      tag,
	}
}
