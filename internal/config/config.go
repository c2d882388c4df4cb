package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Configuration is the on-disk defaults file consumed by pkg/objectfs.Config:
// ambient settings (logging, pipeline bounds, metrics) plus one BackendConfig
// per scheme, which callers building many Configs from one file use to seed
// their per-call overrides.
type Configuration struct {
	Global      GlobalConfig      `yaml:"global"`
	Performance PerformanceConfig `yaml:"performance"`
	Network     NetworkConfig     `yaml:"network"`
	Monitoring  MonitoringConfig  `yaml:"monitoring"`
	S3          BackendConfig     `yaml:"s3"`
	GCS         BackendConfig     `yaml:"gcs"`
	Azure       BackendConfig     `yaml:"azure"`
}

// GlobalConfig represents global application settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// PerformanceConfig holds pipeline bound values read from the defaults file
// and checked by Validate. No code in this module applies them to a pipeline
// run: pkg/objectfs always runs with pipeline.DefaultOptions.
type PerformanceConfig struct {
	ReadConcurrency  int `yaml:"read_concurrency"`
	PageQueueDepth   int `yaml:"page_queue_depth"`
	ResultQueueDepth int `yaml:"result_queue_depth"`
	PointerBatchSize int `yaml:"pointer_batch_size"`
}

// NetworkConfig represents transport timeout settings. They are loaded and
// saved with the file but not passed to any store adapter.
type NetworkConfig struct {
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig represents per-phase transport timeouts.
type TimeoutConfig struct {
	Connect time.Duration `yaml:"connect"`
	Read    time.Duration `yaml:"read"`
}

// MonitoringConfig represents monitoring settings.
type MonitoringConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig represents metrics settings.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// BackendConfig carries one scheme's session defaults: whether to force
// anonymous access, an alternate endpoint for S3-compatible stores, a
// region, and an Extra map of string options. Of Extra, only the S3
// adapter's "force_path_style" key is acted on.
type BackendConfig struct {
	Anon        bool              `yaml:"anon"`
	EndpointURL string            `yaml:"endpoint_url"`
	Region      string            `yaml:"region"`
	Extra       map[string]string `yaml:"extra"`
}

// NewDefault returns a configuration with sensible defaults: INFO logging,
// the pipeline's normative bounds (expressed as zero, meaning "use the
// pipeline default"), and metrics disabled.
func NewDefault() *Configuration {
	return &Configuration{
		Global: GlobalConfig{
			LogLevel: "INFO",
		},
		Monitoring: MonitoringConfig{
			Metrics: MetricsConfig{
				Enabled: false,
				Port:    8080,
			},
		},
	}
}

// LoadFromFile loads configuration from a YAML file, overlaying onto
// whatever c already holds.
func (c *Configuration) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv overlays OBJECTFS_* environment variables onto c.
func (c *Configuration) LoadFromEnv() error {
	if val := os.Getenv("OBJECTFS_LOG_LEVEL"); val != "" {
		c.Global.LogLevel = val
	}
	if val := os.Getenv("OBJECTFS_LOG_FILE"); val != "" {
		c.Global.LogFile = val
	}
	if val := os.Getenv("OBJECTFS_READ_CONCURRENCY"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.Performance.ReadConcurrency = n
		}
	}
	if val := os.Getenv("OBJECTFS_METRICS_ENABLED"); val != "" {
		c.Monitoring.Metrics.Enabled = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("OBJECTFS_METRICS_PORT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.Monitoring.Metrics.Port = n
		}
	}

	return nil
}

// SaveToFile saves the configuration to a YAML file.
func (c *Configuration) SaveToFile(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var validLogLevels = []string{"DEBUG", "INFO", "WARN", "ERROR"}

// Validate checks the configuration for internally inconsistent values.
func (c *Configuration) Validate() error {
	if c.Performance.ReadConcurrency < 0 {
		return fmt.Errorf("read_concurrency cannot be negative")
	}
	if c.Performance.PageQueueDepth < 0 {
		return fmt.Errorf("page_queue_depth cannot be negative")
	}
	if c.Performance.ResultQueueDepth < 0 {
		return fmt.Errorf("result_queue_depth cannot be negative")
	}
	if c.Performance.PointerBatchSize < 0 {
		return fmt.Errorf("pointer_batch_size cannot be negative")
	}

	if c.Global.LogLevel != "" {
		valid := false
		for _, level := range validLogLevels {
			if c.Global.LogLevel == level {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid log_level: %s (must be one of: %s)",
				c.Global.LogLevel, strings.Join(validLogLevels, ", "))
		}
	}

	return nil
}
