package app

import (
	"fmt"
	"time"

	"github.com/ihack2712/middleware/config"
	"github.com/ihack2712/middleware/logger"
	"github.com/ihack2712/middleware/metrics"
	"github.com/ihack2712/middleware/tracing"
)

// Config 应用配置.
//
// 示例 (YAML):
//
//	name: order-service
//	version: 1.2.0
//	logger:
//	  level: debug
//	metrics:
//	  namespace: orders
//	tracing:
//	  enabled: true
//	  otlp:
//	    endpoint: http://otel-collector:4318
//	sink:
//	  enabled: true
//	  addr: redis:6379
type Config struct {
	Name            string          `json:"name" yaml:"name" mapstructure:"name"`
	Version         string          `json:"version" yaml:"version" mapstructure:"version"`
	Logger          *logger.Config  `json:"logger" yaml:"logger" mapstructure:"logger"`
	Metrics         *metrics.Config `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
	Tracing         *tracing.Config `json:"tracing" yaml:"tracing" mapstructure:"tracing"`
	Sink            *SinkConfig     `json:"sink" yaml:"sink" mapstructure:"sink"`
	ShutdownTimeout time.Duration   `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// SinkConfig Redis 诊断投递配置.
type SinkConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Addr     string `json:"addr" yaml:"addr" mapstructure:"addr"`
	Password string `json:"password" yaml:"password" mapstructure:"password"`
	DB       int    `json:"db" yaml:"db" mapstructure:"db"`
	Channel  string `json:"channel" yaml:"channel" mapstructure:"channel"`
}

// ApplyDefaults 应用默认值.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "pipeline"
	}
	if c.Version == "" {
		c.Version = "1.0.0"
	}
	if c.Logger == nil {
		c.Logger = &logger.Config{}
	}
	if c.Logger.ServiceName == "" {
		c.Logger.ServiceName = c.Name
	}
	c.Logger.ApplyDefaults()
	if c.Metrics == nil {
		c.Metrics = metrics.DefaultConfig()
	}
	if c.Tracing == nil {
		c.Tracing = tracing.DefaultConfig()
	}
	if c.Sink == nil {
		c.Sink = &SinkConfig{}
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
}

// Validate 验证配置.
func (c *Config) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if c.Sink != nil && c.Sink.Enabled && c.Sink.Addr == "" {
		return fmt.Errorf("%w: sink.addr", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig 从文件加载应用配置，环境变量前缀为 PIPELINE.
func LoadConfig(path string, opts ...config.Option) (*Config, error) {
	opts = append([]config.Option{config.WithEnvPrefix("pipeline")}, opts...)
	return config.Load[Config](path, opts...)
}
