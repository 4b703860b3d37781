// Package tracing 提供基于 OpenTelemetry 的链路追踪初始化.
package tracing

// Config 链路追踪配置.
type Config struct {
	// Enabled 是否启用链路追踪
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	// OTLP OTLP配置
	OTLP *OTLPConfig `json:"otlp" yaml:"otlp" mapstructure:"otlp"`
	// SamplingRate 采样率 (0.0-1.0]，超出范围按 1.0 处理
	SamplingRate float64 `json:"sampling_rate" yaml:"sampling_rate" mapstructure:"sampling_rate"`
	// Global 是否设置为全局 TracerProvider 与传播器
	Global bool `json:"global" yaml:"global" mapstructure:"global"`
}

// OTLPConfig OTLP配置.
type OTLPConfig struct {
	// Endpoint OTLP Collector端点，可带 http:// 或 https:// 前缀
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`
	// Headers 请求头[可选]
	Headers map[string]string `json:"headers" yaml:"headers" mapstructure:"headers"`
}

// DefaultConfig 返回默认配置，默认关闭.
func DefaultConfig() *Config {
	return &Config{SamplingRate: 1.0}
}
